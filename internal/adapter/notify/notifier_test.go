package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/collinsmw/boutique/internal/domain/model"
)

func TestLogNotifierOrderCreated(t *testing.T) {
	var buf bytes.Buffer
	notifier := NewLogNotifier(slog.New(slog.NewJSONHandler(&buf, nil)))

	notifier.OrderCreated(context.Background(), &model.Order{
		ID:         "ord-1",
		UserID:     7,
		TotalPrice: decimal.RequireFromString("115.00"),
	})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry: %v", err)
	}
	if entry["order"] != "ord-1" {
		t.Fatalf("unexpected order attr: %v", entry["order"])
	}
	if entry["total"] != "115" {
		t.Fatalf("unexpected total attr: %v", entry["total"])
	}
	if msg, _ := entry["msg"].(string); !strings.Contains(msg, "order created") {
		t.Fatalf("unexpected message: %v", entry["msg"])
	}
}

func TestLogNotifierPaymentConfirmed(t *testing.T) {
	var buf bytes.Buffer
	notifier := NewLogNotifier(slog.New(slog.NewJSONHandler(&buf, nil)))

	notifier.PaymentConfirmed(context.Background(), &model.Order{ID: "ord-1", UserID: 7},
		model.PaymentResult{ExternalID: "9001", Status: "success"})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry: %v", err)
	}
	if entry["transaction"] != "9001" {
		t.Fatalf("unexpected transaction attr: %v", entry["transaction"])
	}
	if msg, _ := entry["msg"].(string); !strings.Contains(msg, "payment confirmed") {
		t.Fatalf("unexpected message: %v", entry["msg"])
	}
}
