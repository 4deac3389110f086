package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports that a requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrReferenceNotFound reports that a write references a missing parent entity.
	ErrReferenceNotFound = errors.New("referenced entity not found")
	// ErrValidation reports malformed input rejected before any persistence call.
	ErrValidation = errors.New("validation failed")
)

// NotFoundError names the missing entity.
type NotFoundError struct {
	Kind Kind
	ID   string
}

func NewNotFound(kind Kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Message is the client-facing text, e.g. "Movie not found".
func (e *NotFoundError) Message() string {
	return capitalize(string(e.Kind)) + " not found"
}

// ReferenceNotFoundError names the missing parent of a dependent write.
type ReferenceNotFoundError struct {
	Kind Kind
	ID   string
}

func NewReferenceNotFound(kind Kind, id string) *ReferenceNotFoundError {
	return &ReferenceNotFoundError{Kind: kind, ID: id}
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("referenced %s %q does not exist", e.Kind, e.ID)
}

func (e *ReferenceNotFoundError) Is(target error) bool { return target == ErrReferenceNotFound }

// ValidationError carries the field and the violated constraint (e.g. "max=100").
type ValidationError struct {
	Field      string
	Constraint string
}

func NewValidationError(field, constraint string) *ValidationError {
	return &ValidationError{Field: field, Constraint: constraint}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: violates %s", e.Field, e.Constraint)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
