// ABOUTME: Error taxonomy shared by storage and the engine.
// ABOUTME: ValidationError rejects input before mutation; sentinels wrap storage outcomes.
package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a user, movement, or record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a compare-and-swap on a movement tier misses.
	ErrConflict = errors.New("concurrent update conflict")
)

// ValidationError describes input rejected before any state mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError with a formatted reason.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
