package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domainErrors "github.com/collinsmw/boutique/internal/domain/errors"
	"github.com/collinsmw/boutique/internal/domain/model"
	"github.com/collinsmw/boutique/internal/server/http/dto"
	"github.com/collinsmw/boutique/internal/server/http/handlers"
	"github.com/collinsmw/boutique/internal/server/http/middleware"
	testhelpers "github.com/collinsmw/boutique/internal/test"
	"github.com/collinsmw/boutique/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// performRequest registers handler under route (which may contain :id style
// parameters) and issues a request against target.
func performRequest(t *testing.T, method, route, target string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, route, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func asUser(id int64) func(*gin.Context) {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDContextKey, id)
	}
}

func createOrderBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{
			{ProductID: "p1", Name: "Shirt", Size: "M", Quantity: 2, Price: decimal.RequireFromString("50.00")},
		},
		ShippingAddress: dto.ShippingAddressRequest{
			Address: "12 Main St", City: "Lagos", PostalCode: "100001", Country: "NG",
		},
		ShippingMethod: "standard",
		PaymentMethod:  "paystack",
		ItemsPrice:     decimal.RequireFromString("100.00"),
		TaxPrice:       decimal.RequireFromString("5.00"),
		ShippingPrice:  decimal.RequireFromString("10.00"),
		TotalPrice:     decimal.RequireFromString("115.00"),
	})
	if err != nil {
		t.Fatalf("marshal order body: %v", err)
	}
	return body
}

func TestCurrentUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := handlers.CurrentUserID(c); got != 0 {
		t.Fatalf("expected 0 when not set, got %d", got)
	}

	c.Set(middleware.UserIDContextKey, int64(42))
	if got := handlers.CurrentUserID(c); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestStatusFromError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{err: domainErrors.ErrValidation, status: http.StatusBadRequest},
		{err: domainErrors.ErrInvalidCredentials, status: http.StatusUnauthorized},
		{err: domainErrors.ErrForbidden, status: http.StatusForbidden},
		{err: domainErrors.ErrNotFound, status: http.StatusNotFound},
		{err: domainErrors.ErrAlreadyExists, status: http.StatusConflict},
		{err: domainErrors.ErrAlreadyPaid, status: http.StatusConflict},
		{err: domainErrors.ErrGateway, status: http.StatusBadGateway},
		{err: errors.New("boom"), status: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := handlers.StatusFromError(tc.err); got != tc.status {
			t.Fatalf("expected status %d for %v, got %d", tc.status, tc.err, got)
		}
	}
}

func TestAuthHandlerRegister(t *testing.T) {
	body, _ := json.Marshal(dto.RegisterRequest{Name: "Ada", Email: "ada@example.com", Phone: "2348012345678", Password: "secret"})
	resp := performRequest(t, http.MethodPost, "/register", "/register", handlers.NewAuthHandler(testhelpers.AuthFacadeStub{}).Register, nil, body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if resp.Header().Get("Authorization") == "" {
		t.Fatalf("expected auth header to be set")
	}
}

func TestAuthHandlerRegisterPassesFields(t *testing.T) {
	name := testhelpers.RandomASCIIString(5, 12)
	email := testhelpers.RandomASCIIString(5, 12) + "@example.com"
	password := testhelpers.RandomASCIIString(16, 32)
	body, _ := json.Marshal(dto.RegisterRequest{Name: name, Email: email, Phone: "2348012345678", Password: password})

	handler := handlers.NewAuthHandler(testhelpers.AuthFacadeStub{RegisterFn: func(ctx context.Context, gotName, gotEmail, gotPhone, gotPassword string) (string, error) {
		if gotName != name || gotEmail != email || gotPhone != "2348012345678" || gotPassword != password {
			t.Fatalf("unexpected fields passed to facade: %q %q %q %q", gotName, gotEmail, gotPhone, gotPassword)
		}
		return "session-token", nil
	}})
	resp := performRequest(t, http.MethodPost, "/register", "/register", handler.Register, nil, body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Authorization"); got != "Bearer session-token" {
		t.Fatalf("unexpected authorization header %q", got)
	}

	result := resp.Result()
	t.Cleanup(func() { _ = result.Body.Close() })
	foundCookie := false
	for _, cookie := range result.Cookies() {
		if cookie.Name == "boutique_token" {
			if cookie.Value != "session-token" {
				t.Fatalf("unexpected token stored in cookie: %q", cookie.Value)
			}
			foundCookie = true
			break
		}
	}
	if !foundCookie {
		t.Fatal("expected auth cookie named boutique_token")
	}
}

func TestAuthHandlerRegisterFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade testhelpers.AuthFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "invalid credentials", body: []byte(`{"name":"","email":"","password":""}`), facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string, string, string) (string, error) {
			return "", domainErrors.ErrInvalidCredentials
		}}, status: http.StatusBadRequest},
		{name: "already exists", body: []byte(`{"name":"a","email":"a@b.c","password":"d"}`), facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string, string, string) (string, error) {
			return "", domainErrors.ErrAlreadyExists
		}}, status: http.StatusConflict},
		{name: "internal", body: []byte(`{"name":"a","email":"a@b.c","password":"d"}`), facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string, string, string) (string, error) {
			return "", errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/register", "/register", handlers.NewAuthHandler(tt.facade).Register, nil, tt.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	body, _ := json.Marshal(dto.LoginRequest{Email: "ada@example.com", Password: "secret"})
	resp := performRequest(t, http.MethodPost, "/login", "/login", handlers.NewAuthHandler(testhelpers.AuthFacadeStub{}).Login, nil, body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestAuthHandlerLoginFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade testhelpers.AuthFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "invalid credentials", body: []byte(`{"email":"a@b.c","password":"bad"}`), facade: testhelpers.AuthFacadeStub{AuthenticateFn: func(context.Context, string, string) (string, error) {
			return "", domainErrors.ErrInvalidCredentials
		}}, status: http.StatusUnauthorized},
		{name: "internal", body: []byte(`{"email":"a@b.c","password":"d"}`), facade: testhelpers.AuthFacadeStub{AuthenticateFn: func(context.Context, string, string) (string, error) {
			return "", errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/login", "/login", handlers.NewAuthHandler(tt.facade).Login, nil, tt.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestOrderHandlerCreate(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{CreateFn: func(ctx context.Context, userID int64, in usecase.CreateOrderInput) (*model.Order, error) {
		if userID != 7 {
			t.Fatalf("unexpected user id %d", userID)
		}
		if len(in.Items) != 1 || in.Items[0].ProductID != "p1" {
			t.Fatalf("unexpected items: %+v", in.Items)
		}
		if !in.TotalPrice.Equal(decimal.RequireFromString("115.00")) {
			t.Fatalf("unexpected total: %s", in.TotalPrice)
		}
		return &model.Order{ID: "ord-1", UserID: userID, TotalPrice: in.TotalPrice}, nil
	}}

	resp := performRequest(t, http.MethodPost, "/orders", "/orders", handlers.NewOrderHandler(facade).Create, asUser(7), createOrderBody(t), map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}

	var out dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.ID != "ord-1" {
		t.Fatalf("unexpected order id %q", out.ID)
	}
}

func TestOrderHandlerCreateFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade testhelpers.OrderFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "validation", body: createOrderBody(t), facade: testhelpers.OrderFacadeStub{CreateFn: func(context.Context, int64, usecase.CreateOrderInput) (*model.Order, error) {
			return nil, domainErrors.ErrValidation
		}}, status: http.StatusBadRequest},
		{name: "internal", body: createOrderBody(t), facade: testhelpers.OrderFacadeStub{CreateFn: func(context.Context, int64, usecase.CreateOrderInput) (*model.Order, error) {
			return nil, errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/orders", "/orders", handlers.NewOrderHandler(tt.facade).Create, asUser(7), tt.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestOrderHandlerGet(t *testing.T) {
	reference := "ord-1"
	facade := testhelpers.OrderFacadeStub{OrderFn: func(ctx context.Context, orderID string, requesterID int64) (*model.Order, error) {
		if orderID != "ord-1" || requesterID != 7 {
			t.Fatalf("unexpected lookup: %q by %d", orderID, requesterID)
		}
		return &model.Order{
			ID:               orderID,
			UserID:           requesterID,
			PaymentReference: &reference,
			PaymentResult:    &model.PaymentResult{ExternalID: "9001", Status: "success"},
			IsPaid:           true,
		}, nil
	}}

	resp := performRequest(t, http.MethodGet, "/orders/:id", "/orders/ord-1", handlers.NewOrderHandler(facade).Get, asUser(7), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var out dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !out.IsPaid || out.PaymentResult == nil || out.PaymentResult.Status != "success" {
		t.Fatalf("unexpected response: %+v", out)
	}
}

func TestOrderHandlerGetFailures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "not found", err: domainErrors.ErrNotFound, status: http.StatusNotFound},
		{name: "forbidden", err: domainErrors.ErrForbidden, status: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facade := testhelpers.OrderFacadeStub{OrderFn: func(context.Context, string, int64) (*model.Order, error) {
				return nil, tt.err
			}}
			resp := performRequest(t, http.MethodGet, "/orders/:id", "/orders/ord-1", handlers.NewOrderHandler(facade).Get, asUser(7), nil, nil)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestOrderHandlerUpdatePaymentContact(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{ContactFn: func(ctx context.Context, orderID string, requesterID int64, phone string) error {
		if orderID != "ord-1" || requesterID != 7 || phone != "2348012345678" {
			t.Fatalf("unexpected call: %q %d %q", orderID, requesterID, phone)
		}
		return nil
	}}

	body, _ := json.Marshal(dto.PaymentContactRequest{PhoneNumber: "2348012345678"})
	resp := performRequest(t, http.MethodPut, "/orders/:id/payment-contact", "/orders/ord-1/payment-contact", handlers.NewOrderHandler(facade).UpdatePaymentContact, asUser(7), body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var out map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["paymentContact"] != "2348012345678" {
		t.Fatalf("unexpected response: %v", out)
	}
}

func TestOrderHandlerUpdatePaymentContactFailures(t *testing.T) {
	body, _ := json.Marshal(dto.PaymentContactRequest{PhoneNumber: "234"})
	tests := []struct {
		name   string
		err    error
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "validation", err: domainErrors.ErrValidation, body: body, status: http.StatusBadRequest},
		{name: "forbidden", err: domainErrors.ErrForbidden, body: body, status: http.StatusForbidden},
		{name: "already paid", err: domainErrors.ErrAlreadyPaid, body: body, status: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facade := testhelpers.OrderFacadeStub{ContactFn: func(context.Context, string, int64, string) error {
				return tt.err
			}}
			resp := performRequest(t, http.MethodPut, "/orders/:id/payment-contact", "/orders/ord-1/payment-contact", handlers.NewOrderHandler(facade).UpdatePaymentContact, asUser(7), tt.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestPaymentHandlerInit(t *testing.T) {
	facade := testhelpers.PaymentFacadeStub{InitFn: func(ctx context.Context, orderID string, userID int64) (*model.PaymentInit, error) {
		if orderID != "ord-1" || userID != 7 {
			t.Fatalf("unexpected call: %q %d", orderID, userID)
		}
		return &model.PaymentInit{AuthorizationURL: "https://checkout.paystack.com/abc", Reference: "ord-1"}, nil
	}}

	resp := performRequest(t, http.MethodPost, "/orders/:id/payment-init", "/orders/ord-1/payment-init", handlers.NewPaymentHandler(facade).Init, asUser(7), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var out dto.PaymentInitResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.AuthorizationURL != "https://checkout.paystack.com/abc" || out.Reference != "ord-1" {
		t.Fatalf("unexpected response: %+v", out)
	}
}

func TestPaymentHandlerInitFailures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "not found", err: domainErrors.ErrNotFound, status: http.StatusNotFound},
		{name: "forbidden", err: domainErrors.ErrForbidden, status: http.StatusForbidden},
		{name: "already paid", err: domainErrors.ErrAlreadyPaid, status: http.StatusConflict},
		{name: "gateway down", err: domainErrors.ErrGateway, status: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facade := testhelpers.PaymentFacadeStub{InitFn: func(context.Context, string, int64) (*model.PaymentInit, error) {
				return nil, tt.err
			}}
			resp := performRequest(t, http.MethodPost, "/orders/:id/payment-init", "/orders/ord-1/payment-init", handlers.NewPaymentHandler(facade).Init, asUser(7), nil, nil)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestPaymentHandlerWebhookPassesRawBody(t *testing.T) {
	body := []byte(`{"event":"charge.success","data":{"reference":"ord-1"}}`)
	facade := testhelpers.PaymentFacadeStub{WebhookFn: func(ctx context.Context, rawBody []byte, providedSignature string) error {
		if !bytes.Equal(rawBody, body) {
			t.Fatalf("body was altered before verification: %q", rawBody)
		}
		if providedSignature != "abc123" {
			t.Fatalf("unexpected signature %q", providedSignature)
		}
		return nil
	}}

	resp := performRequest(t, http.MethodPost, "/webhook", "/webhook", handlers.NewPaymentHandler(facade).Webhook, nil, body, map[string]string{handlers.SignatureHeader: "abc123"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestPaymentHandlerWebhookAcknowledgesRejectedPayloads(t *testing.T) {
	// Unverifiable payloads are still acknowledged: the facade reports nil and
	// the processor must not keep retrying.
	facade := testhelpers.PaymentFacadeStub{WebhookFn: func(context.Context, []byte, string) error {
		return nil
	}}
	resp := performRequest(t, http.MethodPost, "/webhook", "/webhook", handlers.NewPaymentHandler(facade).Webhook, nil, []byte(`{"event":"charge.success"}`), map[string]string{handlers.SignatureHeader: "wrong"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestPaymentHandlerWebhookFailures(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		resp := performRequest(t, http.MethodPost, "/webhook", "/webhook", handlers.NewPaymentHandler(testhelpers.PaymentFacadeStub{}).Webhook, nil, nil, nil)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", resp.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		facade := testhelpers.PaymentFacadeStub{WebhookFn: func(context.Context, []byte, string) error {
			return domainErrors.ErrValidation
		}}
		resp := performRequest(t, http.MethodPost, "/webhook", "/webhook", handlers.NewPaymentHandler(facade).Webhook, nil, []byte("{not json"), nil)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", resp.Code)
		}
	})
}
