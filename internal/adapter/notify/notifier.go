package notify

import (
	"context"
	"log/slog"

	"github.com/collinsmw/boutique/internal/domain/model"
)

// Notifier announces order lifecycle events to the customer-facing channel.
// Announcements are fire-and-forget: a delivery failure never blocks or
// rolls back the state change that triggered it.
type Notifier interface {
	OrderCreated(ctx context.Context, order *model.Order)
	PaymentConfirmed(ctx context.Context, order *model.Order, result model.PaymentResult)
}

// LogNotifier records announcements in the structured log. It stands in for
// a real mail transport behind the same interface.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier constructs LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// OrderCreated announces a newly placed order.
func (n *LogNotifier) OrderCreated(ctx context.Context, order *model.Order) {
	n.logger.Info("notification: order created",
		slog.String("order", order.ID),
		slog.Int64("user", order.UserID),
		slog.String("total", order.TotalPrice.String()),
	)
}

// PaymentConfirmed announces a settled payment.
func (n *LogNotifier) PaymentConfirmed(ctx context.Context, order *model.Order, result model.PaymentResult) {
	n.logger.Info("notification: payment confirmed",
		slog.String("order", order.ID),
		slog.Int64("user", order.UserID),
		slog.String("transaction", result.ExternalID),
	)
}
