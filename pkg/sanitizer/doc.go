// Package sanitizer provides the named string transforms schemas apply to
// coerced string values before bound checks run.
//
// Schema documents refer to transforms by name ("trim", "lower", "upper",
// "collapse_whitespace", "strip_control"). Chain resolves a list of names
// into one Transform:
//
//	clean, err := sanitizer.Chain("trim", "lower")
//	clean("  Radio  ") // "radio"
package sanitizer
