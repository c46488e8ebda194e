package test

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/collinsmw/boutique/internal/domain/model"
)

// GatewayStub simulates the payment processor client.
type GatewayStub struct {
	InitializeFn func(ctx context.Context, email string, amount decimal.Decimal, reference, orderID string) (*model.PaymentInit, error)
	VerifyFn     func(ctx context.Context, reference string) (*model.PaymentConfirmation, error)

	mu          sync.Mutex
	initCalls   int
	verifyCalls int
}

// Initialize delegates to override or returns a canned authorization URL.
func (s *GatewayStub) Initialize(ctx context.Context, email string, amount decimal.Decimal, reference, orderID string) (*model.PaymentInit, error) {
	s.mu.Lock()
	s.initCalls++
	s.mu.Unlock()
	if s.InitializeFn != nil {
		return s.InitializeFn(ctx, email, amount, reference, orderID)
	}
	return &model.PaymentInit{
		AuthorizationURL: "https://checkout.example/" + reference,
		Reference:        reference,
	}, nil
}

// Verify delegates to override or confirms success for the reference.
func (s *GatewayStub) Verify(ctx context.Context, reference string) (*model.PaymentConfirmation, error) {
	s.mu.Lock()
	s.verifyCalls++
	s.mu.Unlock()
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, reference)
	}
	return &model.PaymentConfirmation{
		ExternalID: "9001",
		Reference:  reference,
		Status:     model.PaymentStatusSuccess,
		PaidAt:     "2025-01-02T15:04:05Z",
		PayerEmail: "buyer@example.com",
		OrderID:    reference,
	}, nil
}

// InitializeCalls reports how many initializations were attempted.
func (s *GatewayStub) InitializeCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initCalls
}

// VerifyCalls reports how many verifications were attempted.
func (s *GatewayStub) VerifyCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verifyCalls
}

// NotifierRecorder counts emitted notifications.
type NotifierRecorder struct {
	mu                sync.Mutex
	OrdersCreated     int
	PaymentsConfirmed int
}

// OrderCreated records the announcement.
func (n *NotifierRecorder) OrderCreated(ctx context.Context, order *model.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.OrdersCreated++
}

// PaymentConfirmed records the announcement.
func (n *NotifierRecorder) PaymentConfirmed(ctx context.Context, order *model.Order, result model.PaymentResult) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.PaymentsConfirmed++
}

// ConfirmedCount returns the number of payment confirmations seen.
func (n *NotifierRecorder) ConfirmedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.PaymentsConfirmed
}
