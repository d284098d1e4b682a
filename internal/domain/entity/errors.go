package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain layer.
var (
	// ErrRequiredField indicates that a field the entry cannot live without is missing or malformed.
	// It aborts the decode of a single entry, never of a whole page.
	ErrRequiredField = errors.New("required field missing")

	// ErrUnknownOption indicates a poll selection that does not match any option
	ErrUnknownOption = errors.New("unknown poll option")

	// ErrVotingClosed indicates a selection attempt on a poll that does not accept votes
	ErrVotingClosed = errors.New("poll is not accepting votes")

	// ErrValidationFailed indicates that validation checks have failed
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError represents a validation error with detailed field information.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// FieldError reports a required field that could not be decoded.
type FieldError struct {
	Entity string
	Field  string
	Reason string
}

// Error returns the entity, field and reason.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Entity, e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrRequiredField.
func (e *FieldError) Unwrap() error {
	return ErrRequiredField
}
