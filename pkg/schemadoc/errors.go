package schemadoc

import "errors"

var (
	// ErrInvalidDocument wraps every parse and build error.
	ErrInvalidDocument = errors.New("invalid schema document")

	// ErrUnresolved is returned when a referenced schema cannot be found.
	ErrUnresolved = errors.New("unresolved schema reference")

	// ErrDuplicateDocument is returned when two documents share a name.
	ErrDuplicateDocument = errors.New("duplicate schema document")
)
