package validator

import (
	"fmt"
	"regexp"
	"strings"
)

// MatchesPattern validates value against a precompiled regular expression.
// description names the pattern in the message; the raw expression is used when empty.
func MatchesPattern(path, value string, re *regexp.Regexp, description string) Rule {
	if description == "" {
		description = re.String()
	}
	return Rule{
		Check: func() bool {
			return re.MatchString(value)
		},
		Error: bound(path, BoundPattern,
			fmt.Sprintf("must match pattern %s", description),
			value, map[string]any{"pattern": re.String()}),
	}
}

// HasPrefix is a literal string-prefix check. "AC2024" starts with "AC".
func HasPrefix(path, value, prefix string) Rule {
	return Rule{
		Check: func() bool {
			return strings.HasPrefix(value, prefix)
		},
		Error: bound(path, BoundPattern,
			fmt.Sprintf("must start with %q", prefix),
			value, map[string]any{"prefix": prefix}),
	}
}
