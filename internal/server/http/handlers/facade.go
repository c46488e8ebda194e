package handlers

import (
	"context"

	"github.com/collinsmw/boutique/internal/domain/model"
	"github.com/collinsmw/boutique/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, name, email, phone, password string) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (int64, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, userID int64, in usecase.CreateOrderInput) (*model.Order, error)
	Order(ctx context.Context, orderID string, requesterID int64) (*model.Order, error)
	SetPaymentContact(ctx context.Context, orderID string, requesterID int64, phone string) error
}

// PaymentFacade provides payment initialization and webhook processing.
type PaymentFacade interface {
	InitializePayment(ctx context.Context, orderID string, userID int64) (*model.PaymentInit, error)
	ProcessWebhook(ctx context.Context, rawBody []byte, providedSignature string) error
}

// ShopFacade aggregates the full set of operations used across handlers.
type ShopFacade interface {
	AuthFacade
	OrderFacade
	PaymentFacade
}
