package validator

import "fmt"

func MinItems[T any](path string, value []T, min int) Rule {
	return Rule{
		Check: func() bool {
			return len(value) >= min
		},
		Error: bound(path, BoundLength,
			fmt.Sprintf("must have at least %d items", min),
			len(value), map[string]any{"min": min}),
	}
}

func MaxItems[T any](path string, value []T, max int) Rule {
	return Rule{
		Check: func() bool {
			return len(value) <= max
		},
		Error: bound(path, BoundLength,
			fmt.Sprintf("must have at most %d items", max),
			len(value), map[string]any{"max": max}),
	}
}
