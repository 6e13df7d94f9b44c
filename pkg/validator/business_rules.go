package validator

// Business wraps a cross-field predicate. It fails with exactly one error
// carrying the rule name and its fixed message.
func Business(path, name, message string, check func() bool) Rule {
	return Rule{
		Check: check,
		Error: ValidationError{
			Path:    path,
			Message: message,
			Code:    CodeBusinessRule,
			Rule:    name,
		},
	}
}
