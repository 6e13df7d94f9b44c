package validator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Code classifies a validation failure.
type Code string

const (
	// CodeMissingRequired marks an absent or null required field.
	CodeMissingRequired Code = "missing_required"
	// CodeTypeCoercion marks a value that could not be converted to the declared type.
	CodeTypeCoercion Code = "type_coercion"
	// CodeBoundViolation marks a value outside one of its declared bounds.
	CodeBoundViolation Code = "bound_violation"
	// CodeBusinessRule marks a failed cross-field rule.
	CodeBusinessRule Code = "business_rule"
)

// BoundKind names the bound a CodeBoundViolation error refers to.
type BoundKind string

const (
	BoundMin        BoundKind = "min"
	BoundMax        BoundKind = "max"
	BoundLength     BoundKind = "length"
	BoundPattern    BoundKind = "pattern"
	BoundMembership BoundKind = "membership"
	BoundUnknown    BoundKind = "unknown"
)

// ValidationError represents a single failure located by a field path
// such as "crew[1].years_experience". An empty path refers to the record itself.
type ValidationError struct {
	Path    string         `json:"path" yaml:"path"`
	Message string         `json:"message" yaml:"message"`
	Code    Code           `json:"code" yaml:"code"`
	Bound   BoundKind      `json:"bound,omitempty" yaml:"bound,omitempty"`
	Rule    string         `json:"rule,omitempty" yaml:"rule,omitempty"`
	Value   any            `json:"value,omitempty" yaml:"value,omitempty"`
	Params  map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

// ValidationErrors is an ordered collection of validation errors.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(ve))
	for _, err := range ve {
		parts = append(parts, err.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is reports ErrValidationFailed for any non-empty collection.
func (ve ValidationErrors) Is(target error) bool {
	return target == ErrValidationFailed && len(ve) > 0
}

func (ve *ValidationErrors) Add(err ValidationError) {
	*ve = append(*ve, err)
}

func (ve *ValidationErrors) Merge(other ValidationErrors) {
	*ve = append(*ve, other...)
}

func (ve ValidationErrors) Has(path string) bool {
	for _, err := range ve {
		if err.Path == path {
			return true
		}
	}
	return false
}

func (ve ValidationErrors) Get(path string) []string {
	var messages []string
	for _, err := range ve {
		if err.Path == path {
			messages = append(messages, err.Message)
		}
	}
	return messages
}

func (ve ValidationErrors) GetErrors(path string) []ValidationError {
	var errs []ValidationError
	for _, err := range ve {
		if err.Path == path {
			errs = append(errs, err)
		}
	}
	return errs
}

// WithCode returns the errors of the given code, preserving order.
func (ve ValidationErrors) WithCode(code Code) ValidationErrors {
	var errs ValidationErrors
	for _, err := range ve {
		if err.Code == code {
			errs = append(errs, err)
		}
	}
	return errs
}

// Paths returns the distinct paths in first-seen order.
func (ve ValidationErrors) Paths() []string {
	var paths []string
	seen := make(map[string]bool)
	for _, err := range ve {
		if !seen[err.Path] {
			paths = append(paths, err.Path)
			seen[err.Path] = true
		}
	}
	return paths
}

func (ve ValidationErrors) IsEmpty() bool {
	return len(ve) == 0
}

// Under re-paths every error beneath parent. The receiver is not modified.
func (ve ValidationErrors) Under(parent string) ValidationErrors {
	if len(ve) == 0 {
		return nil
	}
	out := make(ValidationErrors, len(ve))
	for i, err := range ve {
		err.Path = JoinPath(parent, err.Path)
		out[i] = err
	}
	return out
}

// JoinPath appends child to parent using dot notation; index segments
// ("[2]...") attach without a dot.
func JoinPath(parent, child string) string {
	switch {
	case parent == "":
		return child
	case child == "":
		return parent
	case strings.HasPrefix(child, "["):
		return parent + child
	default:
		return parent + "." + child
	}
}

// IndexPath returns the path of the i-th element of the list at parent.
func IndexPath(parent string, i int) string {
	return parent + "[" + strconv.Itoa(i) + "]"
}

// Rule represents a single validation rule.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// Collect executes every rule and returns the failures in rule order.
func Collect(rules ...Rule) ValidationErrors {
	var errs ValidationErrors
	for _, rule := range rules {
		if !rule.Check() {
			errs = append(errs, rule.Error)
		}
	}
	return errs
}

// Apply executes multiple validation rules and returns any validation errors.
func Apply(rules ...Rule) error {
	errs := Collect(rules...)
	if errs.IsEmpty() {
		return nil
	}
	return errs
}

// ExtractValidationErrors extracts ValidationErrors from an error.
func ExtractValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var validationErr ValidationErrors
	if errors.As(err, &validationErr) {
		return validationErr
	}

	return nil
}

func IsValidationError(err error) bool {
	if err == nil {
		return false
	}

	var validationErr ValidationErrors
	return errors.As(err, &validationErr)
}

// Missing builds the error reported for an absent required field.
func Missing(path string) ValidationError {
	return ValidationError{
		Path:    path,
		Message: "field is required",
		Code:    CodeMissingRequired,
	}
}

// Coercion builds the error reported when value cannot be read as typ.
// The original value is quoted in the message.
func Coercion(path string, value any, typ string) ValidationError {
	return ValidationError{
		Path:    path,
		Message: fmt.Sprintf("invalid %s value %s", typ, quote(value)),
		Code:    CodeTypeCoercion,
		Value:   value,
		Params: map[string]any{
			"type": typ,
		},
	}
}

func quote(value any) string {
	if s, ok := value.(string); ok {
		return strconv.Quote(s)
	}
	return fmt.Sprintf("%q", fmt.Sprintf("%v", value))
}

func bound(path string, kind BoundKind, message string, value any, params map[string]any) ValidationError {
	return ValidationError{
		Path:    path,
		Message: message,
		Code:    CodeBoundViolation,
		Bound:   kind,
		Value:   value,
		Params:  params,
	}
}
