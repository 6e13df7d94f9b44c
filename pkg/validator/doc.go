// Package validator provides the small, composable rules that field constraints
// are evaluated with, and the error taxonomy shared by the whole module.
//
// A Rule pairs a Check function with the ValidationError reported when the
// check fails. Collect (or Apply, which returns an error) runs every rule and
// keeps all failures in order, so one field can report several problems at once.
//
// # Error model
//
// Every ValidationError carries a field path in dot/index notation
// ("crew[1].years_experience") and a Code:
//
//   - CodeMissingRequired – a required field is absent or null
//   - CodeTypeCoercion    – the raw value could not be read as the declared type
//   - CodeBoundViolation  – a bound failed; Bound says which (min, max, length,
//     pattern, membership, unknown)
//   - CodeBusinessRule    – a cross-field rule failed; Rule holds its name
//
// Nested errors are moved under their parent with ValidationErrors.Under.
//
// # Usage
//
//	errs := validator.Collect(
//	    validator.MinLen("station_id", id, 3),
//	    validator.MaxLen("station_id", id, 10),
//	    validator.Max("crew_size", crew, 20),
//	)
//	if !errs.IsEmpty() {
//	    // errs.Error() == "validation failed: crew_size: must be less than or equal to 20"
//	}
//
// # Error Handling
//
// ValidationErrors implements error. errors.Is(err, ErrValidationFailed) holds
// for any non-empty set, and each element unwraps to a code-specific sentinel
// (ErrOutOfRange, ErrInvalidLength, ErrRuleViolated, ...).
//
// The package is stateless and goroutine-safe.
package validator
