package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/collinsmw/boutique/internal/domain/errors"
	"github.com/collinsmw/boutique/internal/domain/model"
)

// EventChargeSuccess is the webhook event type reporting a settled charge.
const EventChargeSuccess = "charge.success"

// MetadataOrderKey is the custom metadata field correlating a transaction
// back to the order that initialized it.
const MetadataOrderKey = "order_id"

// Client exposes outbound operations against the payment processor.
type Client interface {
	Initialize(ctx context.Context, email string, amount decimal.Decimal, reference, orderID string) (*model.PaymentInit, error)
	Verify(ctx context.Context, reference string) (*model.PaymentConfirmation, error)
}

// HTTPClient implements Client via the Paystack REST API.
type HTTPClient struct {
	baseURL    *url.URL
	secretKey  string
	httpClient *http.Client
	logger     *slog.Logger
}

type initializeRequest struct {
	Email     string   `json:"email"`
	Amount    int64    `json:"amount"`
	Reference string   `json:"reference"`
	Metadata  metadata `json:"metadata"`
}

type initializeResponse struct {
	Status bool   `json:"status"`
	Msg    string `json:"message"`
	Data   struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type verifyResponse struct {
	Status bool        `json:"status"`
	Msg    string      `json:"message"`
	Data   transaction `json:"data"`
}

// transaction mirrors the processor's transaction object as it appears in
// both verify responses and webhook events.
type transaction struct {
	ID        json.Number `json:"id"`
	Reference string      `json:"reference"`
	Status    string      `json:"status"`
	Amount    int64       `json:"amount"`
	PaidAt    string      `json:"paid_at"`
	Customer  customer    `json:"customer"`
	Metadata  metadata    `json:"metadata"`
}

type customer struct {
	Email string `json:"email"`
}

type metadata struct {
	OrderID string `json:"order_id"`
}

// UnmarshalJSON tolerates the empty-string metadata the processor sends when
// no custom fields were attached at initialization.
func (m *metadata) UnmarshalJSON(b []byte) error {
	type plain metadata
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		*m = metadata{}
		return nil
	}
	*m = metadata(p)
	return nil
}

type webhookPayload struct {
	Event string      `json:"event"`
	Data  transaction `json:"data"`
}

// NewHTTPClient creates Paystack client with a bounded request timeout.
func NewHTTPClient(baseURL, secretKey string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse paystack url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("paystack url must be absolute")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL:   parsed,
		secretKey: secretKey,
		logger:    logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// MinorUnits converts a major-unit amount to the processor's integer minor
// units. Rounding happens before truncation so float-derived amounts cannot
// drift by one unit.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// Initialize creates a transaction and returns the customer-facing
// authorization URL together with the processor-confirmed reference.
func (c *HTTPClient) Initialize(ctx context.Context, email string, amount decimal.Decimal, reference, orderID string) (*model.PaymentInit, error) {
	payload, err := json.Marshal(initializeRequest{
		Email:     email,
		Amount:    MinorUnits(amount),
		Reference: reference,
		Metadata:  metadata{OrderID: orderID},
	})
	if err != nil {
		return nil, err
	}

	var data initializeResponse
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", payload, &data); err != nil {
		return nil, err
	}
	if !data.Status {
		return nil, fmt.Errorf("%w: initialize declined: %s", domainErrors.ErrGateway, data.Msg)
	}

	return &model.PaymentInit{
		AuthorizationURL: data.Data.AuthorizationURL,
		Reference:        data.Data.Reference,
	}, nil
}

// Verify queries the transaction by reference. Callers must not trust a
// webhook's own success claim without this independent confirmation.
func (c *HTTPClient) Verify(ctx context.Context, reference string) (*model.PaymentConfirmation, error) {
	var data verifyResponse
	if err := c.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &data); err != nil {
		return nil, err
	}
	if !data.Status {
		return nil, fmt.Errorf("%w: verify declined: %s", domainErrors.ErrGateway, data.Msg)
	}
	return toConfirmation(data.Data), nil
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, payload []byte, out any) error {
	target := *c.baseURL
	target.Path = path.Join(target.Path, endpoint)

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrGateway, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", domainErrors.ErrGateway, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("paystack request failed",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(raw)),
		)
		return fmt.Errorf("%w: %s", domainErrors.ErrGateway, resp.Status)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domainErrors.ErrGateway, err)
	}
	return nil
}

// ParseEvent decodes a webhook payload into the event type and the
// transaction details it carries. Signature verification must already have
// happened on the raw bytes passed here.
func ParseEvent(raw []byte) (string, *model.PaymentConfirmation, error) {
	var payload webhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", nil, fmt.Errorf("decode webhook payload: %w", err)
	}
	return payload.Event, toConfirmation(payload.Data), nil
}

func toConfirmation(t transaction) *model.PaymentConfirmation {
	return &model.PaymentConfirmation{
		ExternalID:  t.ID.String(),
		Reference:   t.Reference,
		Status:      t.Status,
		AmountMinor: t.Amount,
		PaidAt:      t.PaidAt,
		PayerEmail:  t.Customer.Email,
		OrderID:     t.Metadata.OrderID,
	}
}
