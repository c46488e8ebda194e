package model

import "testing"

func TestPaymentStatusSuccessValue(t *testing.T) {
	if PaymentStatusSuccess != "success" {
		t.Fatalf("expected success status constant, got %q", PaymentStatusSuccess)
	}
}
