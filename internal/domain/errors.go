package domain

import "fmt"

// ValidationError is returned by value object constructors when the raw
// input violates a domain invariant. Field names the offending input,
// Reason is safe to surface to the caller.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
