package pricing

import (
	"errors"
	"fmt"
)

// ErrValidation is the sentinel every pricing guard violation unwraps to
var ErrValidation = errors.New("pricing validation failed")

// ValidationError rejects an input the engine will not clamp
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidationError reports whether err is a pricing guard violation
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}
