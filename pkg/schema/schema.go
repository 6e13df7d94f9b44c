package schema

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/dmitrymomot/recordkit/pkg/sanitizer"
)

// Schema is a named, ordered set of field constraints plus cross-field
// rules. It is immutable and safe for concurrent use once defined.
type Schema struct {
	name        string
	description string
	strict      bool
	fields      []Field
	index       map[string]int
	rules       []Rule
}

// SchemaOption configures a Schema.
type SchemaOption func(*Schema)

// Strict reports every input key that is not a declared field.
func Strict() SchemaOption {
	return func(s *Schema) {
		s.strict = true
	}
}

// WithDescription attaches a human-readable description.
func WithDescription(text string) SchemaOption {
	return func(s *Schema) {
		s.description = text
	}
}

// Define builds a schema. It fails only on malformed definitions; every
// problem found is joined into the returned error, which wraps
// ErrInvalidDefinition.
func Define(name string, fields []Field, rules []Rule, opts ...SchemaOption) (*Schema, error) {
	s := &Schema{
		name:  name,
		index: make(map[string]int, len(fields)),
	}
	for _, opt := range opts {
		opt(s)
	}

	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: schema %q: %s", ErrInvalidDefinition, name, fmt.Sprintf(format, args...)))
	}

	if strings.TrimSpace(name) == "" {
		fail("name is required")
	}

	for _, f := range fields {
		if err := checkFieldName(f.Name); err != nil {
			fail("%v", err)
			continue
		}
		if _, dup := s.index[f.Name]; dup {
			fail("duplicate field %q", f.Name)
			continue
		}
		if err := checkConstraint(f.Constraint); err != nil {
			fail("field %q: %v", f.Name, err)
			continue
		}
		prepared, err := f.Constraint.prepared()
		if err != nil {
			fail("field %q: %v", f.Name, err)
			continue
		}
		if err := prepareDefault(f.Name, &prepared); err != nil {
			fail("field %q: %v", f.Name, err)
			continue
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, Field{Name: f.Name, Constraint: prepared})
	}

	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		switch {
		case r.Name == "":
			fail("rule name is required")
			continue
		case seen[r.Name]:
			fail("duplicate rule %q", r.Name)
			continue
		case r.Check == nil:
			fail("rule %q has no check", r.Name)
			continue
		}
		seen[r.Name] = true
		if r.Path != "" && !s.declares(r.Path) {
			fail("rule %q: path %q does not name a field", r.Name, r.Path)
			continue
		}
		s.rules = append(s.rules, r)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return s, nil
}

// MustDefine is like Define but panics on error.
func MustDefine(name string, fields []Field, rules []Rule, opts ...SchemaOption) *Schema {
	s, err := Define(name, fields, rules, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Name() string        { return s.name }
func (s *Schema) Description() string { return s.description }
func (s *Schema) IsStrict() bool      { return s.strict }

// Fields returns the declared fields in order.
func (s *Schema) Fields() []Field {
	return slices.Clone(s.fields)
}

// FieldNames returns the declared field names in order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Field returns the named field.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Rules returns the cross-field rules in declaration order.
func (s *Schema) Rules() []Rule {
	return slices.Clone(s.rules)
}

// declares reports whether the first segment of path is a declared field.
func (s *Schema) declares(path string) bool {
	head := path
	if i := strings.IndexAny(path, ".["); i >= 0 {
		head = path[:i]
	}
	_, ok := s.index[head]
	return ok
}

func checkFieldName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return errors.New("field name is required")
	case strings.ContainsAny(name, ".[]"):
		return fmt.Errorf("field name %q must not contain path separators", name)
	}
	return nil
}

// checkConstraint reports bounds that are contradictory or do not apply to
// the declared type.
func checkConstraint(c Constraint) error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}
	t := c.typ

	if !t.Valid() {
		return fmt.Errorf("unknown type %q", t)
	}

	if c.min != nil || c.max != nil {
		if !t.numeric() {
			fail("min/max do not apply to %s", t)
		}
		if c.min != nil && c.max != nil && *c.min > *c.max {
			fail("min %v exceeds max %v", *c.min, *c.max)
		}
		if t == TypeInteger && (!integral(c.min) || !integral(c.max)) {
			fail("integer bounds must be whole numbers")
		}
	}

	if c.minLen != nil || c.maxLen != nil {
		if !t.textual() && t != TypeList {
			fail("length bounds do not apply to %s", t)
		}
		if (c.minLen != nil && *c.minLen < 0) || (c.maxLen != nil && *c.maxLen < 0) {
			fail("length bounds must not be negative")
		}
		if c.minLen != nil && c.maxLen != nil && *c.minLen > *c.maxLen {
			fail("min length %d exceeds max length %d", *c.minLen, *c.maxLen)
		}
	}

	if c.earliest != nil || c.latest != nil {
		if t != TypeDateTime {
			fail("earliest/latest do not apply to %s", t)
		}
		if c.earliest != nil && c.latest != nil && c.earliest.After(*c.latest) {
			fail("earliest %s is after latest %s", c.earliest, c.latest)
		}
	}

	if t == TypeEnum && len(c.enum) == 0 {
		fail("enum requires at least one value")
	}
	if len(c.enum) > 0 && !t.textual() {
		fail("allowed values do not apply to %s", t)
	}
	for i, v := range c.enum {
		if slices.Contains(c.enum[:i], v) {
			fail("duplicate allowed value %q", v)
		}
	}

	if (c.prefix != "" || c.pattern != "" || c.format != "" || len(c.normalizers) > 0) && !t.textual() {
		fail("string bounds do not apply to %s", t)
	}
	if c.pattern != "" {
		if _, err := compilePattern(c.pattern); err != nil {
			fail("invalid pattern: %v", err)
		}
	}
	if c.format != "" && !c.format.Valid() {
		fail("unknown format %q", c.format)
	}
	for _, n := range c.normalizers {
		if _, err := sanitizer.Lookup(n); err != nil {
			fail("%v", err)
		}
	}

	switch t {
	case TypeRecord:
		if c.child == nil {
			fail("record field requires a child schema")
		}
	case TypeList:
		if c.items == nil {
			fail("list field requires an item constraint")
		} else if err := checkConstraint(*c.items); err != nil {
			fail("items: %v", err)
		}
	default:
		if c.child != nil {
			fail("child schema applies only to record fields")
		}
		if c.items != nil {
			fail("item constraint applies only to list fields")
		}
	}

	return errors.Join(errs...)
}

func integral(p *float64) bool {
	if p == nil {
		return true
	}
	return *p >= -0x1p63 && *p < 0x1p63 && *p == math.Trunc(*p)
}

// prepareDefault runs the default value through the field's own coercion
// and bounds and stores the canonical result.
func prepareDefault(name string, c *Constraint) error {
	if !c.hasDefault {
		return nil
	}
	if c.defaultVal == nil {
		return errors.New("default must not be null")
	}
	v, errs := checkValue(name, c.defaultVal, *c)
	if len(errs) > 0 {
		return fmt.Errorf("default violates constraint: %w", errs)
	}
	c.defaultVal = v
	return nil
}
