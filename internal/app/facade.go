package app

import (
	"context"
	"time"

	"github.com/collinsmw/boutique/internal/domain/model"
	"github.com/collinsmw/boutique/internal/usecase"
)

// ShopFacade aggregates the application's use cases behind one surface used
// by the HTTP layer and the background reconciler.
type ShopFacade struct {
	auth     *usecase.AuthUseCase
	orders   *usecase.OrderUseCase
	payments *usecase.PaymentUseCase
}

// NewShopFacade constructs ShopFacade.
func NewShopFacade(auth *usecase.AuthUseCase, orders *usecase.OrderUseCase, payments *usecase.PaymentUseCase) *ShopFacade {
	return &ShopFacade{auth: auth, orders: orders, payments: payments}
}

func (f *ShopFacade) Register(ctx context.Context, name, email, phone, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, name, email, phone, password)
	return token, err
}

func (f *ShopFacade) Authenticate(ctx context.Context, email, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, email, password)
	return token, err
}

func (f *ShopFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *ShopFacade) CreateOrder(ctx context.Context, userID int64, in usecase.CreateOrderInput) (*model.Order, error) {
	return f.orders.Create(ctx, userID, in)
}

func (f *ShopFacade) Order(ctx context.Context, orderID string, requesterID int64) (*model.Order, error) {
	return f.orders.GetByID(ctx, orderID, requesterID)
}

func (f *ShopFacade) SetPaymentContact(ctx context.Context, orderID string, requesterID int64, phone string) error {
	return f.orders.SetPaymentContact(ctx, orderID, requesterID, phone)
}

func (f *ShopFacade) InitializePayment(ctx context.Context, orderID string, userID int64) (*model.PaymentInit, error) {
	return f.payments.Initialize(ctx, orderID, userID)
}

func (f *ShopFacade) ProcessWebhook(ctx context.Context, rawBody []byte, providedSignature string) error {
	return f.payments.HandleWebhook(ctx, rawBody, providedSignature)
}

func (f *ShopFacade) UnreconciledOrders(ctx context.Context, cutoff time.Time, limit int) ([]model.Order, error) {
	return f.payments.UnreconciledOrders(ctx, cutoff, limit)
}

func (f *ShopFacade) ReconcileOrder(ctx context.Context, orderID string) {
	f.payments.ReconcileOrder(ctx, orderID)
}
