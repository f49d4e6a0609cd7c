package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Amount:      decimal.NewFromInt(100),
		Description: "Groceries",
		Date:        "2024-03-05",
		Category:    "food",
		Type:        Expense,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		name  string
		tx    Transaction
		field string
		want  error
	}{
		{"zero amount", withAmount(good, decimal.Zero), "amount", ErrInvalidAmount},
		{"negative amount", withAmount(good, decimal.NewFromInt(-5)), "amount", ErrInvalidAmount},
		{"blank description", func() Transaction { tx := good; tx.Description = "  "; return tx }(), "description", ErrEmptyDescription},
		{"long description", func() Transaction { tx := good; tx.Description = strings.Repeat("x", 201); return tx }(), "description", ErrDescriptionTooLong},
		{"bad date", func() Transaction { tx := good; tx.Date = "2024-3-5"; return tx }(), "date", ErrInvalidDate},
		{"bad type", func() Transaction { tx := good; tx.Type = "transfer"; return tx }(), "type", ErrInvalidType},
		{"no category", func() Transaction { tx := good; tx.Category = ""; return tx }(), "category", ErrEmptyCategory},
	}
	for _, tc := range bads {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.tx.Validate()
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if _, ok := verr.Fields()[tc.field]; !ok {
				t.Fatalf("expected field %q in %v", tc.field, verr.Fields())
			}
		})
	}
}

func TestTransactionValidateCollectsAllFields(t *testing.T) {
	err := Transaction{}.Validate()
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr) != 5 {
		t.Fatalf("expected 5 field errors, got %d: %v", len(verr), verr)
	}
	if !IsValidation(err) {
		t.Fatalf("IsValidation should be true")
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{CategoryID: "food", Amount: decimal.NewFromInt(300), Month: "2024-03"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	cases := []Budget{
		{CategoryID: "", Amount: decimal.NewFromInt(1), Month: "2024-03"},
		{CategoryID: "food", Amount: decimal.Zero, Month: "2024-03"},
		{CategoryID: "food", Amount: decimal.NewFromInt(-1), Month: "2024-03"},
		{CategoryID: "food", Amount: decimal.NewFromInt(1), Month: "2024-13"},
		{CategoryID: "food", Amount: decimal.NewFromInt(1), Month: "March"},
	}
	for i, b := range cases {
		if err := b.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func withAmount(tx Transaction, d decimal.Decimal) Transaction {
	tx.Amount = d
	return tx
}
