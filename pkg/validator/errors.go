package validator

import "errors"

// Sentinel errors. A ValidationError unwraps to the sentinel matching its
// code and bound, so errors.Is works on a whole ValidationErrors value.
var (
	// ErrValidationFailed matches any non-empty ValidationErrors.
	ErrValidationFailed = errors.New("validation failed")

	// ErrFieldRequired is returned when a required field is absent or null.
	ErrFieldRequired = errors.New("field is required")

	// ErrInvalidType is returned when a value cannot be coerced to the declared type.
	ErrInvalidType = errors.New("invalid type")

	// ErrInvalidLength is returned when a field has an invalid length.
	ErrInvalidLength = errors.New("invalid length")

	// ErrOutOfRange is returned when a value is below its minimum or above its maximum.
	ErrOutOfRange = errors.New("value out of range")

	// ErrInvalidFormat is returned when a string does not match its pattern, prefix or format.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrNotAllowed is returned when a value is not a member of the allowed set.
	ErrNotAllowed = errors.New("value not allowed")

	// ErrRuleViolated is returned when a cross-field rule fails.
	ErrRuleViolated = errors.New("business rule violated")
)

// Unwrap returns the sentinel error for the error's code and bound.
func (e ValidationError) Unwrap() error {
	switch e.Code {
	case CodeMissingRequired:
		return ErrFieldRequired
	case CodeTypeCoercion:
		return ErrInvalidType
	case CodeBusinessRule:
		return ErrRuleViolated
	case CodeBoundViolation:
		switch e.Bound {
		case BoundMin, BoundMax:
			return ErrOutOfRange
		case BoundLength:
			return ErrInvalidLength
		case BoundPattern:
			return ErrInvalidFormat
		case BoundMembership, BoundUnknown:
			return ErrNotAllowed
		}
	}
	return nil
}

// Unwrap exposes every contained error to errors.Is and errors.As.
func (ve ValidationErrors) Unwrap() []error {
	errs := make([]error, len(ve))
	for i, err := range ve {
		errs[i] = err
	}
	return errs
}
