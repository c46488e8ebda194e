package repository

import (
	"context"
	"time"

	"github.com/collinsmw/boutique/internal/domain/model"
)

// OrderRepository describes persistence operations with orders. All payment
// mutations are conditional on the order being unpaid.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	AttachPaymentReference(ctx context.Context, id, reference string) error
	SetPaymentContact(ctx context.Context, id, phone string) error
	// MarkPaid sets the paid fields only if the order is currently unpaid.
	// Returns whether the transition happened; an already paid order is a
	// successful no-op.
	MarkPaid(ctx context.Context, id string, result model.PaymentResult, paidAt time.Time) (bool, error)
	// SelectUnreconciled returns initialized, unpaid orders whose last update
	// happened before the cutoff.
	SelectUnreconciled(ctx context.Context, cutoff time.Time, limit int) ([]model.Order, error)
}
