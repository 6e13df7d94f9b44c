package validator

import (
	"fmt"
	"slices"
	"strings"
)

// OneOf validates case-sensitive membership of a string in an enumeration.
func OneOf(path, value string, allowed []string) Rule {
	return Rule{
		Check: func() bool {
			return slices.Contains(allowed, value)
		},
		Error: bound(path, BoundMembership,
			fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
			value, map[string]any{"allowed_values": allowed}),
	}
}
