package service

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input rejected before any store call.
	ErrValidation = errors.New("validation failed")

	// ErrStoreUnavailable marks a failed read or write against the record store.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrConstraintViolation marks a write the store refused, e.g. a duplicate
	// account number.
	ErrConstraintViolation = errors.New("store constraint violation")
)

// ValidationError names the form field that was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
