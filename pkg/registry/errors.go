package registry

import "errors"

var (
	// ErrNotFound is returned by Get for unknown names.
	ErrNotFound = errors.New("schema not found")

	// ErrDuplicate is returned when a name is already taken.
	ErrDuplicate = errors.New("schema already registered")

	// ErrNilSchema is returned by Register for a nil schema.
	ErrNilSchema = errors.New("schema is nil")
)
