package validator

import "fmt"

// Min validates that a numeric value is greater than or equal to the minimum.
func Min[T Numeric](path string, value T, min T) Rule {
	return Rule{
		Check: func() bool {
			return value >= min
		},
		Error: bound(path, BoundMin,
			fmt.Sprintf("must be greater than or equal to %v", min),
			value, map[string]any{"min": min}),
	}
}

// Max validates that a numeric value is less than or equal to the maximum.
func Max[T Numeric](path string, value T, max T) Rule {
	return Rule{
		Check: func() bool {
			return value <= max
		},
		Error: bound(path, BoundMax,
			fmt.Sprintf("must be less than or equal to %v", max),
			value, map[string]any{"max": max}),
	}
}
