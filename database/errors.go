package database

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every NotFoundError
	ErrNotFound = errors.New("not found")

	// ErrInvalid is matched by every InputError
	ErrInvalid = errors.New("invalid")
)

// DBError wraps a driver failure with the repository operation it hit
type DBError struct {
	Operation string
	Err       error
}

func (e *DBError) Error() string {
	return fmt.Sprintf("readings %s: %v", e.Operation, e.Err)
}

func (e *DBError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a reading id with no row
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("reading %s not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InputError rejects a value before it reaches the database
type InputError struct {
	Field string
	Value string
}

func (e *InputError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s is required", e.Field)
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalid
}

// wrapOp returns nil for a nil err
func wrapOp(operation string, err error) error {
	if err == nil {
		return nil
	}
	return &DBError{Operation: operation, Err: err}
}
