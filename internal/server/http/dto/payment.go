package dto

// PaymentInitResponse is returned by payment initialization.
type PaymentInitResponse struct {
	AuthorizationURL string `json:"authorizationUrl"`
	Reference        string `json:"reference"`
}
