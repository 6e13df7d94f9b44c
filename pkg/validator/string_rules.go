package validator

import (
	"fmt"
	"unicode/utf8"
)

// MinLen validates the length of a string in Unicode code points.
func MinLen(path, value string, min int) Rule {
	return Rule{
		Check: func() bool {
			return utf8.RuneCountInString(value) >= min
		},
		Error: bound(path, BoundLength,
			fmt.Sprintf("must be at least %d characters long", min),
			value, map[string]any{"min": min}),
	}
}

// MaxLen validates the length of a string in Unicode code points.
func MaxLen(path, value string, max int) Rule {
	return Rule{
		Check: func() bool {
			return utf8.RuneCountInString(value) <= max
		},
		Error: bound(path, BoundLength,
			fmt.Sprintf("must be at most %d characters long", max),
			value, map[string]any{"max": max}),
	}
}

func Len(path, value string, exact int) Rule {
	return Rule{
		Check: func() bool {
			return utf8.RuneCountInString(value) == exact
		},
		Error: bound(path, BoundLength,
			fmt.Sprintf("must be exactly %d characters long", exact),
			value, map[string]any{"length": exact}),
	}
}
