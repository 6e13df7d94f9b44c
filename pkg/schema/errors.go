package schema

import "errors"

var (
	// ErrInvalidDefinition wraps every error returned by Define.
	ErrInvalidDefinition = errors.New("invalid schema definition")

	// ErrNotBindable is returned by Record.Bind for nil or non-pointer targets.
	ErrNotBindable = errors.New("bind target must be a non-nil pointer")
)
