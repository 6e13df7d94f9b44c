package coerce

import (
	"errors"
	"fmt"
)

// Target type names used in coercion errors. They match the schema type names.
const (
	TypeString   = "string"
	TypeInteger  = "integer"
	TypeFloat    = "float"
	TypeBoolean  = "boolean"
	TypeDateTime = "datetime"
	TypeUUID     = "uuid"
	TypeRecord   = "record"
	TypeList     = "list"
)

// ErrCoercion is matched by every *Error via errors.Is.
var ErrCoercion = errors.New("coercion failed")

var (
	errOverflow     = errors.New("value overflows int64")
	errFraction     = errors.New("value has a fractional part")
	errNotFinite    = errors.New("value is not finite")
	errTimeRange    = errors.New("unix time outside years 0001-9999")
	errNonStringKey = errors.New("map has a non-string key")
)

// Error describes a value that could not be converted to Type.
type Error struct {
	Type  string
	Value any
	Cause error
}

func newError(typ string, value any, cause error) *Error {
	return &Error{Type: typ, Value: value, Cause: cause}
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("cannot coerce %T %v to %s", e.Value, e.Value, e.Type)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrCoercion}
	}
	return []error{ErrCoercion, e.Cause}
}
