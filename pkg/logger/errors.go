package logger

import "errors"

// ErrInvalidOption is returned when a level or format name is not recognized.
var ErrInvalidOption = errors.New("invalid logger option")
