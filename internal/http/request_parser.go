package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

const maxBodyBytes = 1 << 16

var errBadBody = errors.New("request body must be a single JSON object")

// flexAmount accepts an amount as a JSON number or string ("12,50" included).
// Anything unparseable becomes zero so validation reports it against the
// amount field.
type flexAmount decimal.Decimal

func (a *flexAmount) UnmarshalJSON(data []byte) error {
	s := string(bytes.TrimSpace(data))
	if s == "null" {
		*a = flexAmount(decimal.Zero)
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	d, err := core.ParseAmount(s)
	if err != nil {
		d = decimal.Zero
	}
	*a = flexAmount(d)
	return nil
}

type transactionRequest struct {
	Amount      flexAmount           `json:"amount"`
	Description string               `json:"description"`
	Date        string               `json:"date"`
	Category    string               `json:"category"`
	Type        core.TransactionType `json:"type"`
}

func (t transactionRequest) toTransaction() core.Transaction {
	return core.Transaction{
		Amount:      decimal.Decimal(t.Amount),
		Description: t.Description,
		Date:        t.Date,
		Category:    t.Category,
		Type:        t.Type,
	}
}

type budgetRequest struct {
	CategoryID string     `json:"categoryId"`
	Amount     flexAmount `json:"amount"`
	Month      string     `json:"month"`
}

func (b budgetRequest) toBudget() core.Budget {
	return core.Budget{
		CategoryID: b.CategoryID,
		Amount:     decimal.Decimal(b.Amount),
		Month:      b.Month,
	}
}

// decodeJSON reads exactly one JSON object from the body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	if dec.More() {
		return errBadBody
	}
	return nil
}

// parseMonth reads the month query parameter. An absent month yields def;
// a malformed one is a validation error.
func parseMonth(r *http.Request, def string) (string, error) {
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month == "" {
		return def, nil
	}
	if _, err := core.ParseMonth(month); err != nil {
		return "", core.ValidationError{}.Add("month", core.ErrInvalidMonth)
	}
	return month, nil
}

// parseType reads the type query parameter, defaulting to def.
func parseType(r *http.Request, def core.TransactionType) (core.TransactionType, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("type"))
	if raw == "" {
		return def, nil
	}
	t := core.TransactionType(strings.ToLower(raw))
	if !t.Valid() {
		return "", core.ValidationError{}.Add("type", core.ErrInvalidType)
	}
	return t, nil
}

// parseLimit reads a non-negative limit; zero means no limit.
func parseLimit(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, core.ValidationError{}.Add("limit", errors.New("limit must be a non-negative integer"))
	}
	return n, nil
}

func currentMonth(now func() time.Time) string {
	return core.CurrentMonth(now())
}
