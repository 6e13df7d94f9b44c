package validator

import (
	"fmt"
	"time"
)

// NotBefore validates that value is at or after min.
func NotBefore(path string, value, min time.Time) Rule {
	return Rule{
		Check: func() bool {
			return !value.Before(min)
		},
		Error: bound(path, BoundMin,
			fmt.Sprintf("must not be before %s", min.Format(time.RFC3339)),
			value, map[string]any{"min": min.Format(time.RFC3339)}),
	}
}

// NotAfter validates that value is at or before max.
func NotAfter(path string, value, max time.Time) Rule {
	return Rule{
		Check: func() bool {
			return !value.After(max)
		},
		Error: bound(path, BoundMax,
			fmt.Sprintf("must not be after %s", max.Format(time.RFC3339)),
			value, map[string]any{"max": max.Format(time.RFC3339)}),
	}
}
