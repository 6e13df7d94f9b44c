package serializer

import "errors"

var (
	// ErrUnknownFormat is returned for unsupported format names and file extensions.
	ErrUnknownFormat = errors.New("unknown format")

	// ErrInvalidInput is returned when record input cannot be decoded.
	ErrInvalidInput = errors.New("invalid record input")
)
