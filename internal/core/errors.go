package core

import (
	"errors"
	"fmt"
)

// Error kinds. Every error the store, projector or controller returns
// matches exactly one of these with errors.Is.
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("payment not found")
	ErrPersistence   = errors.New("persistence failed")
	ErrDataIntegrity = errors.New("data integrity violation")
)

var (
	ErrEmptyVendor        = errors.New("vendor name is required")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrMissingDate        = errors.New("date is required")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrEmptyPaymentMethod = errors.New("payment method is required")

	// ErrCorruptBlob is returned when persisted data cannot be decoded.
	ErrCorruptBlob = fmt.Errorf("%w: corrupt payments blob", ErrDataIntegrity)
)

// FieldError is a validation failure on a single input field.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func (e *FieldError) Is(target error) bool {
	return target == ErrValidation
}

// PersistenceError wraps a blob store failure.
func PersistenceError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

// NotFoundError reports a missing payment id.
func NotFoundError(id string) error {
	return fmt.Errorf("%w: id %q", ErrNotFound, id)
}

// Kind names the error category, using the same strings as the
// log package's error types.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrNotFound):
		return "not_found_error"
	case errors.Is(err, ErrPersistence):
		return "database_error"
	case errors.Is(err, ErrDataIntegrity):
		return "data_integrity_error"
	default:
		return "internal_error"
	}
}
