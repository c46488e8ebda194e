package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/collinsmw/boutique/internal/adapter/notify"
	domainErrors "github.com/collinsmw/boutique/internal/domain/errors"
	"github.com/collinsmw/boutique/internal/domain/model"
	"github.com/collinsmw/boutique/internal/domain/repository"
)

// MinPhoneLength is the shortest payment contact number accepted.
const MinPhoneLength = 9

// CreateOrderInput carries the validated fields of a new order submission.
type CreateOrderInput struct {
	Items           []model.OrderItem
	ShippingAddress model.ShippingAddress
	ShippingMethod  string
	PaymentMethod   string
	ItemsPrice      decimal.Decimal
	TaxPrice        decimal.Decimal
	ShippingPrice   decimal.Decimal
	TotalPrice      decimal.Decimal
}

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders   repository.OrderRepository
	users    repository.UserRepository
	notifier notify.Notifier
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, users repository.UserRepository, notifier notify.Notifier) *OrderUseCase {
	return &OrderUseCase{orders: orders, users: users, notifier: notifier}
}

// Create persists a new unpaid order for the user. The payment contact is
// seeded from the user's profile phone when present.
func (u *OrderUseCase) Create(ctx context.Context, userID int64, in CreateOrderInput) (*model.Order, error) {
	if err := validateOrderInput(in); err != nil {
		return nil, err
	}

	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Items:           in.Items,
		ShippingAddress: in.ShippingAddress,
		ShippingMethod:  in.ShippingMethod,
		PaymentMethod:   in.PaymentMethod,
		ItemsPrice:      in.ItemsPrice,
		TaxPrice:        in.TaxPrice,
		ShippingPrice:   in.ShippingPrice,
		TotalPrice:      in.TotalPrice,
	}
	if usr.Phone != "" {
		phone := usr.Phone
		order.PaymentContact = &phone
	}

	if err := u.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	u.notifier.OrderCreated(ctx, order)
	return order, nil
}

// GetByID returns the order when the requester owns it or holds the admin role.
func (u *OrderUseCase) GetByID(ctx context.Context, orderID string, requesterID int64) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != requesterID {
		requester, err := u.users.GetByID(ctx, requesterID)
		if err != nil {
			return nil, domainErrors.ErrForbidden
		}
		if !requester.IsAdmin {
			return nil, domainErrors.ErrForbidden
		}
	}

	return order, nil
}

// SetPaymentContact records the phone number used for payment tracking.
// Rejected once the order is paid.
func (u *OrderUseCase) SetPaymentContact(ctx context.Context, orderID string, requesterID int64, phone string) error {
	if len(phone) < MinPhoneLength {
		return fmt.Errorf("%w: phone number must be at least %d characters", domainErrors.ErrValidation, MinPhoneLength)
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.UserID != requesterID {
		return domainErrors.ErrForbidden
	}

	return u.orders.SetPaymentContact(ctx, orderID, phone)
}

func validateOrderInput(in CreateOrderInput) error {
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: no order items found", domainErrors.ErrValidation)
	}
	for _, item := range in.Items {
		if item.ProductID == "" || item.Name == "" {
			return fmt.Errorf("%w: item product and name are required", domainErrors.ErrValidation)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item quantity must be positive", domainErrors.ErrValidation)
		}
		if item.Price.IsNegative() {
			return fmt.Errorf("%w: item price must not be negative", domainErrors.ErrValidation)
		}
	}

	addr := in.ShippingAddress
	if addr.Address == "" || addr.City == "" || addr.PostalCode == "" || addr.Country == "" {
		return fmt.Errorf("%w: shipping address is incomplete", domainErrors.ErrValidation)
	}
	if in.ShippingMethod == "" {
		return fmt.Errorf("%w: shipping method is required", domainErrors.ErrValidation)
	}
	if in.PaymentMethod == "" {
		return fmt.Errorf("%w: payment method is required", domainErrors.ErrValidation)
	}

	if in.ItemsPrice.IsNegative() || in.TaxPrice.IsNegative() || in.ShippingPrice.IsNegative() || in.TotalPrice.IsNegative() {
		return fmt.Errorf("%w: prices must not be negative", domainErrors.ErrValidation)
	}
	if sum := in.ItemsPrice.Add(in.TaxPrice).Add(in.ShippingPrice); !sum.Equal(in.TotalPrice) {
		return fmt.Errorf("%w: total price does not match its components", domainErrors.ErrValidation)
	}

	return nil
}
