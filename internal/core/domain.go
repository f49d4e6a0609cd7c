package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	// TransactionType separates money coming in from money going out.
	TransactionType string

	Transaction struct {
		ID          string          `json:"id"`
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
		Date        string          `json:"date"` // YYYY-MM-DD
		Category    string          `json:"category"`
		Type        TransactionType `json:"type"`
		CreatedAt   time.Time       `json:"createdAt"`
	}

	Category struct {
		ID    string          `json:"id"`
		Name  string          `json:"name"`
		Color string          `json:"color"`
		Icon  string          `json:"icon"`
		Type  TransactionType `json:"type"`
	}

	// Budget caps expense spending for one category in one month.
	// The amount spent is never stored here; it is derived from the
	// transactions every time it is needed.
	Budget struct {
		ID         string          `json:"id"`
		CategoryID string          `json:"categoryId"`
		Amount     decimal.Decimal `json:"amount"`
		Month      string          `json:"month"` // YYYY-MM
	}
)

var (
	ErrInvalidAmount        = errors.New("amount must be greater than 0")
	ErrEmptyDescription     = errors.New("description is required")
	ErrDescriptionTooLong   = errors.New("description too long (max 200 characters)")
	ErrInvalidDate          = errors.New("date must be formatted as YYYY-MM-DD")
	ErrInvalidMonth         = errors.New("month must be formatted as YYYY-MM")
	ErrInvalidType          = errors.New("type must be income or expense")
	ErrEmptyCategory        = errors.New("category is required")
	ErrUnknownCategory      = errors.New("unknown category")
	ErrCategoryTypeMismatch = errors.New("category does not match transaction type")
)

const maxDescriptionLength = 200

// Valid reports whether t is one of the two known transaction types.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (t TransactionType) String() string {
	return string(t)
}

// Validate checks the fields a user fills in when recording a transaction.
// Category existence is checked by the caller against the registry.
func (t Transaction) Validate() error {
	var errs ValidationError
	if !t.Amount.IsPositive() {
		errs = errs.Add("amount", ErrInvalidAmount)
	}
	desc := strings.TrimSpace(t.Description)
	if desc == "" {
		errs = errs.Add("description", ErrEmptyDescription)
	} else if len(desc) > maxDescriptionLength {
		errs = errs.Add("description", ErrDescriptionTooLong)
	}
	if _, err := ParseDate(t.Date); err != nil {
		errs = errs.Add("date", ErrInvalidDate)
	}
	if !t.Type.Valid() {
		errs = errs.Add("type", ErrInvalidType)
	}
	if strings.TrimSpace(t.Category) == "" {
		errs = errs.Add("category", ErrEmptyCategory)
	}
	return errs.OrNil()
}

func (b Budget) Validate() error {
	var errs ValidationError
	if strings.TrimSpace(b.CategoryID) == "" {
		errs = errs.Add("categoryId", ErrEmptyCategory)
	}
	if !b.Amount.IsPositive() {
		errs = errs.Add("amount", ErrInvalidAmount)
	}
	if _, err := ParseMonth(b.Month); err != nil {
		errs = errs.Add("month", ErrInvalidMonth)
	}
	return errs.OrNil()
}
