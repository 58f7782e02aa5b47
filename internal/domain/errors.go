package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
//
// ErrNotFound covers both "does not exist" and "exists but belongs to
// another user" — callers cannot distinguish the two, so a missing id and a
// foreign id look identical from the outside.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrUpstream      = errors.New("upstream failure")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
// The first entry is what API consumers see.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// First returns the first field violation, or a zero FieldError when empty.
func (e *ValidationError) First() FieldError {
	if len(e.Errors) == 0 {
		return FieldError{}
	}
	return e.Errors[0]
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}
