package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"finsight/internal/core"
)

func parse(t *testing.T, body string) (core.Transaction, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(body))
	p := NewRequestBodyParser(httptest.NewRecorder(), req)
	return ParseTransaction(p, "u1", time.Date(2025, 6, 10, 23, 30, 0, 0, time.FixedZone("X", -5*3600)))
}

func TestParseTransaction(t *testing.T) {
	tx, err := parse(t, `{"type":"Income","category":" Salary ","amount":1234.5,"date":"2025-06-01","note":"June\u0007"}`)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if tx.Type != core.Income || tx.Category != "Salary" || tx.Amount.Cents != 123450 || tx.Note != "June" || tx.UserID != "u1" {
		t.Fatalf("unexpected transaction: %+v", tx)
	}

	tx, err = parse(t, "type=expense&category=Travel&amount=9%2C99")
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	if tx.Amount.Cents != 999 {
		t.Fatalf("amount = %d", tx.Amount.Cents)
	}
	// 23:30 at UTC-5 is still the 10th on the server's clock
	if tx.Date != core.NewDate(2025, 6, 10) {
		t.Fatalf("default date = %v", tx.Date)
	}
}

func TestParseTransactionErrors(t *testing.T) {
	if _, err := parse(t, `{"type":"expense","amount":"abc"}`); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	var bad badRequestError
	if _, err := parse(t, `{not json`); !errors.As(err, &bad) {
		t.Fatalf("expected malformed body, got %v", err)
	}
	if _, err := parse(t, strings.Repeat("a", maxBodyBytes+1)); !errors.As(err, &bad) {
		t.Fatalf("oversized body should be rejected, got %v", err)
	}
}

func TestValidationMessage(t *testing.T) {
	if got := validationMessage(core.ErrNoteTooLong); got != "Note too long (max 500 characters)" {
		t.Fatalf("validationMessage() = %q", got)
	}
}
