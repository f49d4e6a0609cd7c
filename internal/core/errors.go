package core

import (
	"errors"
	"strings"
)

// FieldError ties a validation failure to the input field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e FieldError) Unwrap() error {
	return e.Err
}

// ValidationError collects every field problem found in one input so the
// user sees them all at once.
type ValidationError []FieldError

// Add returns v with another field error appended.
func (v ValidationError) Add(field string, err error) ValidationError {
	return append(v, FieldError{Field: field, Err: err})
}

// OrNil returns nil when nothing was collected, so callers can return it directly.
func (v ValidationError) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func (v ValidationError) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v ValidationError) Unwrap() []error {
	out := make([]error, len(v))
	for i, fe := range v {
		out[i] = fe
	}
	return out
}

// Fields maps each failing field to its message, for API responses.
func (v ValidationError) Fields() map[string]string {
	out := make(map[string]string, len(v))
	for _, fe := range v {
		if _, ok := out[fe.Field]; !ok {
			out[fe.Field] = fe.Err.Error()
		}
	}
	return out
}

// IsValidation reports whether err carries input validation failures.
func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}
