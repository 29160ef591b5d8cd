package bazi

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks a missing, malformed or impossible birth date/time.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedDate marks a well-formed date the calendar oracle cannot convert.
	ErrUnsupportedDate = errors.New("unsupported date")
)

// ValidationError represents a rejected input field
type ValidationError struct {
	Field  string
	Reason string
	Value  interface{}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation failed for field '%s': %s (value: %v)", e.Field, e.Reason, e.Value)
	}
	return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidInput) true for every ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, reason string) error {
	return &ValidationError{
		Field:  field,
		Reason: reason,
	}
}

// NewValidationErrorWithValue creates a new ValidationError with a value
func NewValidationErrorWithValue(field, reason string, value interface{}) error {
	return &ValidationError{
		Field:  field,
		Reason: reason,
		Value:  value,
	}
}

// LookupError means the oracle returned a symbol missing from the static
// tables. It is an internal inconsistency, never a user error.
type LookupError struct {
	Kind   string // "stem" or "branch"
	Symbol string
}

// Error implements the error interface
func (e *LookupError) Error() string {
	return fmt.Sprintf("unknown %s symbol %q", e.Kind, e.Symbol)
}

// UnsupportedDateError carries the date the oracle refused.
type UnsupportedDateError struct {
	Year, Month, Day int
	Err              error
}

// Error implements the error interface
func (e *UnsupportedDateError) Error() string {
	msg := fmt.Sprintf("date %04d-%02d-%02d is outside the supported calendar range", e.Year, e.Month, e.Day)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *UnsupportedDateError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrUnsupportedDate) true
func (e *UnsupportedDateError) Is(target error) bool {
	return target == ErrUnsupportedDate
}
