package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key violation")
	ErrInvalidID    = errors.New("invalid ID format")
)

// ValidationError reports a domain-level validation failure with a stable
// machine-readable code.
type ValidationError struct {
	Code    string
	Message string
}

// NewValidationError creates a validation error with the given code and message
func NewValidationError(code, message string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Errors
var (
	ErrEventNotFound     = NewValidationError("event_not_found", "event not found")
	ErrInvalidEvent      = NewValidationError("invalid_event", "invalid event data")
	ErrInvalidClass      = NewValidationError("invalid_class", "invalid class data")
	ErrInvalidCompetitor = NewValidationError("invalid_competitor", "invalid competitor data")
	ErrEventDuplicate    = NewValidationError("event_duplicate", "event already exists")
)
