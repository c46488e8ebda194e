package test

import (
	"context"
	"sync"
	"time"

	"github.com/collinsmw/boutique/internal/domain/model"
	"github.com/collinsmw/boutique/internal/server/http/handlers"
	"github.com/collinsmw/boutique/internal/usecase"
)

// AuthFacadeStub overrides authentication facade methods per test.
type AuthFacadeStub struct {
	RegisterFn     func(ctx context.Context, name, email, phone, password string) (string, error)
	AuthenticateFn func(ctx context.Context, email, password string) (string, error)
	ParseFn        func(token string) (int64, error)
}

func (s AuthFacadeStub) Register(ctx context.Context, name, email, phone, password string) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, name, email, phone, password)
	}
	return "token", nil
}

func (s AuthFacadeStub) Authenticate(ctx context.Context, email, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, email, password)
	}
	return "token", nil
}

func (s AuthFacadeStub) ParseToken(token string) (int64, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return 1, nil
}

// OrderFacadeStub overrides order facade methods per test.
type OrderFacadeStub struct {
	CreateFn  func(ctx context.Context, userID int64, in usecase.CreateOrderInput) (*model.Order, error)
	OrderFn   func(ctx context.Context, orderID string, requesterID int64) (*model.Order, error)
	ContactFn func(ctx context.Context, orderID string, requesterID int64, phone string) error
}

func (s OrderFacadeStub) CreateOrder(ctx context.Context, userID int64, in usecase.CreateOrderInput) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, userID, in)
	}
	return &model.Order{ID: "order-1", UserID: userID}, nil
}

func (s OrderFacadeStub) Order(ctx context.Context, orderID string, requesterID int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, orderID, requesterID)
	}
	return &model.Order{ID: orderID, UserID: requesterID}, nil
}

func (s OrderFacadeStub) SetPaymentContact(ctx context.Context, orderID string, requesterID int64, phone string) error {
	if s.ContactFn != nil {
		return s.ContactFn(ctx, orderID, requesterID, phone)
	}
	return nil
}

// PaymentFacadeStub overrides payment facade methods per test.
type PaymentFacadeStub struct {
	InitFn    func(ctx context.Context, orderID string, userID int64) (*model.PaymentInit, error)
	WebhookFn func(ctx context.Context, rawBody []byte, providedSignature string) error
}

func (s PaymentFacadeStub) InitializePayment(ctx context.Context, orderID string, userID int64) (*model.PaymentInit, error) {
	if s.InitFn != nil {
		return s.InitFn(ctx, orderID, userID)
	}
	return &model.PaymentInit{AuthorizationURL: "https://checkout.example/" + orderID, Reference: orderID}, nil
}

func (s PaymentFacadeStub) ProcessWebhook(ctx context.Context, rawBody []byte, providedSignature string) error {
	if s.WebhookFn != nil {
		return s.WebhookFn(ctx, rawBody, providedSignature)
	}
	return nil
}

// ShopFacadeStub aggregates the facade stubs for router-level tests.
type ShopFacadeStub struct {
	AuthFacadeStub
	OrderFacadeStub
	PaymentFacadeStub
}

// SweepFacadeStub feeds the background reconciler in tests.
type SweepFacadeStub struct {
	OrdersFn    func(ctx context.Context, cutoff time.Time, limit int) ([]model.Order, error)
	ReconcileFn func(ctx context.Context, orderID string)

	mu         sync.Mutex
	Reconciled []string
}

func (s *SweepFacadeStub) UnreconciledOrders(ctx context.Context, cutoff time.Time, limit int) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, cutoff, limit)
	}
	return nil, nil
}

func (s *SweepFacadeStub) ReconcileOrder(ctx context.Context, orderID string) {
	s.mu.Lock()
	s.Reconciled = append(s.Reconciled, orderID)
	s.mu.Unlock()
	if s.ReconcileFn != nil {
		s.ReconcileFn(ctx, orderID)
	}
}

// ReconciledIDs returns a snapshot of processed order identifiers.
func (s *SweepFacadeStub) ReconciledIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.Reconciled))
	copy(out, s.Reconciled)
	return out
}

var _ handlers.ShopFacade = ShopFacadeStub{}
