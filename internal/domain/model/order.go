package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem describes a single purchased position snapshotted at order time.
type OrderItem struct {
	ProductID string
	Name      string
	Size      string
	Quantity  int
	Price     decimal.Decimal
}

// ShippingAddress is the destination recorded with the order.
type ShippingAddress struct {
	Address    string
	City       string
	PostalCode string
	Country    string
}

// PaymentResult captures the final confirmation payload from the payment
// processor. Set together with IsPaid and never modified afterwards.
type PaymentResult struct {
	ExternalID string
	Status     string
	UpdateTime string
	PayerEmail string
}

// Order describes a customer order and its payment lifecycle. Payment fields
// become immutable once IsPaid transitions to true.
type Order struct {
	ID               string
	UserID           int64
	Items            []OrderItem
	ShippingAddress  ShippingAddress
	ShippingMethod   string
	PaymentMethod    string
	PaymentContact   *string
	PaymentReference *string
	PaymentResult    *PaymentResult
	ItemsPrice       decimal.Decimal
	TaxPrice         decimal.Decimal
	ShippingPrice    decimal.Decimal
	TotalPrice       decimal.Decimal
	IsPaid           bool
	PaidAt           *time.Time
	IsDelivered      bool
	DeliveredAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
