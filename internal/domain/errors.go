package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyPaid indicates an attempt to pay a debt that is already paid.
var ErrAlreadyPaid = errors.New("debt already paid")

// ValidationError indicates bad or missing input. Maps to a 400 response.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
