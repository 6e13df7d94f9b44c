package validator

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"
)

var alphanumericRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// ValidEmail validates that a string is a valid email address using RFC 5322.
func ValidEmail(path, value string) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return false
			}

			addr, err := mail.ParseAddress(value)
			if err != nil {
				return false
			}

			local, domain, ok := strings.Cut(addr.Address, "@")
			if !ok || local == "" {
				return false
			}

			if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
				return false
			}
			for part := range strings.SplitSeq(domain, ".") {
				if part == "" {
					return false
				}
			}

			return true
		},
		Error: bound(path, BoundPattern, "must be a valid email address", value,
			map[string]any{"format": "email"}),
	}
}

// ValidURL validates that a string is an absolute URL with scheme and host.
func ValidURL(path, value string) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return false
			}
			u, err := url.ParseRequestURI(value)
			if err != nil {
				return false
			}
			return u.Scheme != "" && u.Host != ""
		},
		Error: bound(path, BoundPattern, "must be a valid URL", value,
			map[string]any{"format": "url"}),
	}
}

// ValidAlphanumeric validates that a string contains only ASCII letters and digits.
func ValidAlphanumeric(path, value string) Rule {
	return Rule{
		Check: func() bool {
			return alphanumericRegex.MatchString(value)
		},
		Error: bound(path, BoundPattern, "must contain only letters and numbers", value,
			map[string]any{"format": "alphanumeric"}),
	}
}
