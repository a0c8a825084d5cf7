package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for errors.Is() checking.
var (
	ErrDuplicateIdentifier           = errors.New("duplicate identifier")
	ErrUnknownRepresentation         = errors.New("unknown representation")
	ErrReferenceNotFound             = errors.New("reference not found")
	ErrInvalidDefaultRepresentations = errors.New("invalid default representations")

	// ErrPersistence marks a transient failure while a representation is
	// persisted against its backing system. It is the only error kind the
	// resolver retries.
	ErrPersistence = errors.New("failure to persist")

	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
)

// DuplicateIdentifierError reports an identifier that is already registered
// in one of the categories of the object being added.
type DuplicateIdentifierError struct {
	Category   string
	Identifier string
}

func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("%s: <%s> in category <%s>", ErrDuplicateIdentifier, e.Identifier, e.Category)
}

func (e *DuplicateIdentifierError) Unwrap() error {
	return ErrDuplicateIdentifier
}

// UnknownRepresentationError reports a specification entry whose kind has no
// registered representation.
type UnknownRepresentationError struct {
	Kind string
}

func (e *UnknownRepresentationError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownRepresentation, e.Kind)
}

func (e *UnknownRepresentationError) Unwrap() error {
	return ErrUnknownRepresentation
}

// ReferenceNotFoundError reports a string parameter that names no object of
// the expected type (or one of its direct subtypes).
type ReferenceNotFoundError struct {
	ExpectedType string
	Identifier   string
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("failed to find object of type %s with name %s: %s",
		e.ExpectedType, e.Identifier, ErrReferenceNotFound)
}

func (e *ReferenceNotFoundError) Unwrap() error {
	return ErrReferenceNotFound
}

// InvalidDefaultRepresentationsError reports a DefaultRepresentations value
// that is not a (possibly nested) sequence of objects.
type InvalidDefaultRepresentationsError struct {
	Owner string
	Got   any
}

func (e *InvalidDefaultRepresentationsError) Error() string {
	return fmt.Sprintf("%s: %s returned element of type %T, want Object or sequence",
		ErrInvalidDefaultRepresentations, e.Owner, e.Got)
}

func (e *InvalidDefaultRepresentationsError) Unwrap() error {
	return ErrInvalidDefaultRepresentations
}

// PersistenceError is a transient failure raised while creating an object.
// Op names the failed operation (e.g. "create User").
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, ErrPersistence)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrPersistence, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *PersistenceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrPersistence}
	}
	return []error{ErrPersistence, e.Err}
}

// ValidationError provides programmatic access to field-level validation failures.
// Use errors.Is(err, ErrValidation) for simple checks, or errors.As(err, &verr) to
// access verr.Fields for per-field error details.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
