package models

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds. Operations wrap these with %w so callers can match
// with errors.Is regardless of the surrounding message.
var (
	// ErrInvalidInput marks malformed or missing required input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidState marks an operation attempted on a finalized report.
	ErrInvalidState = errors.New("invalid state")
	// ErrNotFound marks a referenced id that does not exist in the bundle.
	ErrNotFound = errors.New("not found")
)

// Violation is a single field-level validation failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return v.Field + ": " + v.Message
}

// Violationf builds a Violation with a formatted message.
func Violationf(field, format string, args ...interface{}) Violation {
	return Violation{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidationError reports one or more semantic inconsistencies. Match with
// errors.As to reach the individual violations.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError wraps violations in a *ValidationError. Returns nil
// when there are none, so callers can return it unconditionally.
func NewValidationError(violations ...Violation) error {
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
