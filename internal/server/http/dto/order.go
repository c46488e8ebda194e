package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest is a purchased position as submitted by the client.
type OrderItemRequest struct {
	ProductID string          `json:"product"`
	Name      string          `json:"name"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// ShippingAddressRequest is the destination submitted with a new order.
type ShippingAddressRequest struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// CreateOrderRequest describes the order submission payload.
type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items"`
	ShippingAddress ShippingAddressRequest `json:"shippingAddress"`
	ShippingMethod  string                 `json:"shippingMethod"`
	PaymentMethod   string                 `json:"paymentMethod"`
	ItemsPrice      decimal.Decimal        `json:"itemsPrice"`
	TaxPrice        decimal.Decimal        `json:"taxPrice"`
	ShippingPrice   decimal.Decimal        `json:"shippingPrice"`
	TotalPrice      decimal.Decimal        `json:"totalPrice"`
}

// PaymentContactRequest carries the phone number used for payment tracking.
type PaymentContactRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

// PaymentResultResponse mirrors the stored confirmation payload.
type PaymentResultResponse struct {
	ExternalID string `json:"externalId"`
	Status     string `json:"status"`
	UpdateTime string `json:"updateTime"`
	PayerEmail string `json:"payerEmail"`
}

// OrderItemResponse is a purchased position in API responses.
type OrderItemResponse struct {
	ProductID string          `json:"product"`
	Name      string          `json:"name"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// OrderResponse is the API representation of an order.
type OrderResponse struct {
	ID               string                 `json:"id"`
	Items            []OrderItemResponse    `json:"items"`
	ShippingAddress  ShippingAddressRequest `json:"shippingAddress"`
	ShippingMethod   string                 `json:"shippingMethod"`
	PaymentMethod    string                 `json:"paymentMethod"`
	PaymentContact   *string                `json:"paymentContact,omitempty"`
	PaymentReference *string                `json:"paymentReference,omitempty"`
	PaymentResult    *PaymentResultResponse `json:"paymentResult,omitempty"`
	ItemsPrice       decimal.Decimal        `json:"itemsPrice"`
	TaxPrice         decimal.Decimal        `json:"taxPrice"`
	ShippingPrice    decimal.Decimal        `json:"shippingPrice"`
	TotalPrice       decimal.Decimal        `json:"totalPrice"`
	IsPaid           bool                   `json:"isPaid"`
	PaidAt           *time.Time             `json:"paidAt,omitempty"`
	IsDelivered      bool                   `json:"isDelivered"`
	CreatedAt        time.Time              `json:"createdAt"`
}
