package sanitizer

import "errors"

// ErrUnknownTransform is returned by Lookup for unregistered names.
var ErrUnknownTransform = errors.New("unknown transform")
