package domain

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by the core matches exactly one of
// these through errors.Is.
var (
	ErrValidation  = errors.New("validation failed")
	ErrConflict    = errors.New("conflict")
	ErrNotFound    = errors.New("resource not found")
	ErrUnavailable = errors.New("upstream service unavailable")
)

// ValidationError reports malformed or logically impossible input.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ConflictError reports a violated uniqueness rule, including the
// single-active-loan rule.
type ConflictError struct {
	Resource string
	ID       any
	Reason   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %v: %s", e.Resource, e.ID, e.Reason)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// NotFoundError reports a reference to a book, borrower or open loan that
// does not exist.
type NotFoundError struct {
	Resource string
	ID       any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func NewValidationError(field string, value any, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

func NewConflictError(resource string, id any, reason string) error {
	return &ConflictError{Resource: resource, ID: id, Reason: reason}
}

func NewNotFoundError(resource string, id any) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidateID rejects non-positive identifiers.
func ValidateID(field string, id int64) error {
	if id <= 0 {
		return NewValidationError(field, id, "must be a positive integer")
	}
	return nil
}
