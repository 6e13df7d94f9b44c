package sanitizer

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// Transform rewrites a string value.
type Transform func(string) string

// Transform names usable from schema documents.
const (
	NameTrim               = "trim"
	NameLower              = "lower"
	NameUpper              = "upper"
	NameCollapseWhitespace = "collapse_whitespace"
	NameStripControl       = "strip_control"
)

var named = map[string]Transform{
	NameTrim:               strings.TrimSpace,
	NameLower:              strings.ToLower,
	NameUpper:              strings.ToUpper,
	NameCollapseWhitespace: CollapseWhitespace,
	NameStripControl:       StripControl,
}

// CollapseWhitespace trims s and replaces every run of whitespace, line
// breaks included, with a single space.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StripControl drops control characters other than tab, CR and LF.
func StripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// Lookup returns the transform registered under name.
func Lookup(name string) (Transform, error) {
	t, ok := named[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransform, name)
	}
	return t, nil
}

// Names lists the registered transform names in sorted order.
func Names() []string {
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Compose returns a transform running ts in order.
func Compose(ts ...Transform) Transform {
	return func(s string) string {
		for _, t := range ts {
			s = t(s)
		}
		return s
	}
}

// Chain resolves names and composes them in order.
func Chain(names ...string) (Transform, error) {
	ts := make([]Transform, 0, len(names))
	for _, name := range names {
		t, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		ts = append(ts, t)
	}
	return Compose(ts...), nil
}
