package model

// PaymentStatusSuccess is the processor-side status of a settled charge.
const PaymentStatusSuccess = "success"

// PaymentInit is returned by transaction initialization: the URL the customer
// is redirected to and the reference correlating order and transaction.
type PaymentInit struct {
	AuthorizationURL string
	Reference        string
}

// PaymentConfirmation encapsulates the processor's view of a transaction as
// reported by webhook events and the verify endpoint.
type PaymentConfirmation struct {
	ExternalID  string
	Reference   string
	Status      string
	AmountMinor int64
	PaidAt      string
	PayerEmail  string
	OrderID     string
}
