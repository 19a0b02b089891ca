package paypal

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/craftmart-shop/internal/constants"
	"github.com/craftmart-shop/internal/models"
	"github.com/craftmart-shop/internal/payment"

	"github.com/shopspring/decimal"
)

func attemptInput(amount string) payment.AttemptInput {
	d, _ := decimal.NewFromString(amount)
	return payment.AttemptInput{
		OrderNumber: "CM-2025-AB12CD34",
		PaymentNo:   "PAY-TEST-1",
		Amount:      models.NewMoneyFromDecimal(d),
		Currency:    "USD",
	}
}

func TestAttemptSuccessMode(t *testing.T) {
	client, err := NewClient(Config{Mode: ModeSuccess, Currency: "USD"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	result, err := client.Attempt(context.Background(), attemptInput("25.00"))
	if err != nil {
		t.Fatalf("Attempt: %v", err)
	}
	if result.Status != constants.PaymentResultSuccess {
		t.Fatalf("status = %s, want success", result.Status)
	}
	if !strings.HasPrefix(result.TransactionID, "PAYPAL-") {
		t.Fatalf("transaction id %q missing gateway prefix", result.TransactionID)
	}
}

func TestAttemptDeclinedMode(t *testing.T) {
	client, err := NewClient(Config{Mode: ModeDeclined, Currency: "USD"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	result, err := client.Attempt(context.Background(), attemptInput("25.00"))
	if err != nil {
		t.Fatalf("Attempt: %v", err)
	}
	if result.Status != constants.PaymentResultDeclined {
		t.Fatalf("status = %s, want declined", result.Status)
	}
	if result.Reason == "" {
		t.Fatal("declined result missing reason")
	}
}

func TestAttemptRejectsBadInput(t *testing.T) {
	client, err := NewClient(Config{Currency: "USD"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.Attempt(context.Background(), attemptInput("0")); !errors.Is(err, ErrAmountInvalid) {
		t.Fatalf("zero amount err = %v, want ErrAmountInvalid", err)
	}

	input := attemptInput("10.00")
	input.Currency = "EUR"
	if _, err := client.Attempt(context.Background(), input); !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("currency mismatch err = %v, want ErrCurrencyMismatch", err)
	}
}

func TestNewClientRejectsUnknownMode(t *testing.T) {
	if _, err := NewClient(Config{Mode: "maybe"}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("err = %v, want ErrConfigInvalid", err)
	}
}
