package schema

import (
	"fmt"
	"regexp"
	"slices"
	"time"

	"github.com/dmitrymomot/recordkit/pkg/sanitizer"
)

// Constraint describes the declared shape of one value. Constraints are
// built with Of and its options and are never modified after Define.
type Constraint struct {
	typ         Type
	optional    bool
	hasDefault  bool
	defaultVal  any
	description string

	min, max         *float64
	minLen, maxLen   *int
	earliest, latest *time.Time
	enum             []string
	prefix           string
	pattern          string
	format           Format
	normalizers      []string
	items            *Constraint
	child            *Schema
	compiledPattern  *regexp.Regexp
	normalize        func(string) string
}

// Option configures a Constraint.
type Option func(*Constraint)

// Of builds a constraint of type t.
func Of(t Type, opts ...Option) Constraint {
	c := Constraint{typ: t}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// RecordOf builds a nested-record constraint validated against child.
func RecordOf(child *Schema, opts ...Option) Constraint {
	return Of(TypeRecord, append([]Option{Child(child)}, opts...)...)
}

// Optional allows the value to be absent or null.
func Optional() Option {
	return func(c *Constraint) {
		c.optional = true
	}
}

// Default makes the field optional and substitutes v when it is absent.
// v goes through the same coercion and bound checks as input at Define.
func Default(v any) Option {
	return func(c *Constraint) {
		c.optional = true
		c.hasDefault = true
		c.defaultVal = v
	}
}

// Describe attaches a human-readable description.
func Describe(text string) Option {
	return func(c *Constraint) {
		c.description = text
	}
}

// Min sets an inclusive lower bound for integer and float values.
func Min(v float64) Option {
	return func(c *Constraint) {
		c.min = &v
	}
}

// Max sets an inclusive upper bound for integer and float values.
func Max(v float64) Option {
	return func(c *Constraint) {
		c.max = &v
	}
}

// Range sets both numeric bounds.
func Range(min, max float64) Option {
	return func(c *Constraint) {
		Min(min)(c)
		Max(max)(c)
	}
}

// MinLength bounds strings by code points and lists by element count.
func MinLength(n int) Option {
	return func(c *Constraint) {
		c.minLen = &n
	}
}

// MaxLength bounds strings by code points and lists by element count.
func MaxLength(n int) Option {
	return func(c *Constraint) {
		c.maxLen = &n
	}
}

// Length sets both length bounds.
func Length(min, max int) Option {
	return func(c *Constraint) {
		MinLength(min)(c)
		MaxLength(max)(c)
	}
}

// Earliest sets an inclusive lower bound for datetime values.
func Earliest(t time.Time) Option {
	return func(c *Constraint) {
		t = t.UTC()
		c.earliest = &t
	}
}

// Latest sets an inclusive upper bound for datetime values.
func Latest(t time.Time) Option {
	return func(c *Constraint) {
		t = t.UTC()
		c.latest = &t
	}
}

// OneOf sets the allowed values of an enum or string field.
func OneOf(values ...string) Option {
	return func(c *Constraint) {
		c.enum = slices.Clone(values)
	}
}

// Prefix requires a string to start with the literal prefix p.
func Prefix(p string) Option {
	return func(c *Constraint) {
		c.prefix = p
	}
}

// Pattern requires a string to contain a match of the regular expression.
// Anchor the expression to match the whole value.
func Pattern(expr string) Option {
	return func(c *Constraint) {
		c.pattern = expr
	}
}

// WithFormat requires a string to be in a well-known format.
func WithFormat(f Format) Option {
	return func(c *Constraint) {
		c.format = f
	}
}

// Normalize applies the named sanitizer transforms, in order, to string
// values after coercion and before bound checks.
func Normalize(names ...string) Option {
	return func(c *Constraint) {
		c.normalizers = append(c.normalizers, names...)
	}
}

// Items sets the element constraint of a list.
func Items(item Constraint) Option {
	return func(c *Constraint) {
		c.items = &item
	}
}

// Child sets the schema of a nested record.
func Child(s *Schema) Option {
	return func(c *Constraint) {
		c.child = s
	}
}

func (c Constraint) Type() Type          { return c.typ }
func (c Constraint) IsOptional() bool    { return c.optional }
func (c Constraint) Description() string { return c.description }
func (c Constraint) Prefix() string      { return c.prefix }
func (c Constraint) Pattern() string     { return c.pattern }
func (c Constraint) Format() Format      { return c.format }
func (c Constraint) Schema() *Schema     { return c.child }

// Default returns the coerced default value, if any.
func (c Constraint) Default() (any, bool) {
	return c.defaultVal, c.hasDefault
}

func (c Constraint) Min() (float64, bool) { return deref(c.min) }
func (c Constraint) Max() (float64, bool) { return deref(c.max) }

func (c Constraint) MinLength() (int, bool) { return deref(c.minLen) }
func (c Constraint) MaxLength() (int, bool) { return deref(c.maxLen) }

func (c Constraint) Earliest() (time.Time, bool) { return deref(c.earliest) }
func (c Constraint) Latest() (time.Time, bool)   { return deref(c.latest) }

func (c Constraint) Enum() []string        { return slices.Clone(c.enum) }
func (c Constraint) Normalizers() []string { return slices.Clone(c.normalizers) }

// Items returns the element constraint of a list.
func (c Constraint) Items() (Constraint, bool) {
	if c.items == nil {
		return Constraint{}, false
	}
	return *c.items, true
}

func deref[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

// Field is a named constraint.
type Field struct {
	Name string
	Constraint
}

// Named binds a constraint to a field name.
func Named(name string, c Constraint) Field {
	return Field{Name: name, Constraint: c}
}

func String(name string, opts ...Option) Field   { return Named(name, Of(TypeString, opts...)) }
func Integer(name string, opts ...Option) Field  { return Named(name, Of(TypeInteger, opts...)) }
func Float(name string, opts ...Option) Field    { return Named(name, Of(TypeFloat, opts...)) }
func Boolean(name string, opts ...Option) Field  { return Named(name, Of(TypeBoolean, opts...)) }
func DateTime(name string, opts ...Option) Field { return Named(name, Of(TypeDateTime, opts...)) }
func UUID(name string, opts ...Option) Field     { return Named(name, Of(TypeUUID, opts...)) }

// Enum declares a closed set of allowed string values compared exactly.
func Enum(name string, values []string, opts ...Option) Field {
	return Named(name, Of(TypeEnum, append([]Option{OneOf(values...)}, opts...)...))
}

// Nested declares a record-valued field validated against child.
func Nested(name string, child *Schema, opts ...Option) Field {
	return Named(name, RecordOf(child, opts...))
}

// List declares a list field whose elements satisfy item.
func List(name string, item Constraint, opts ...Option) Field {
	return Named(name, Of(TypeList, append([]Option{Items(item)}, opts...)...))
}

// prepared returns a copy with its pattern compiled and its normalizers
// resolved. It is only called from Define after the definition checks pass.
func (c Constraint) prepared() (Constraint, error) {
	out := c
	out.enum = slices.Clone(c.enum)
	out.normalizers = slices.Clone(c.normalizers)

	if c.pattern != "" {
		re, err := compilePattern(c.pattern)
		if err != nil {
			return Constraint{}, err
		}
		out.compiledPattern = re
	}

	if len(c.normalizers) > 0 {
		fn, err := sanitizer.Chain(c.normalizers...)
		if err != nil {
			return Constraint{}, err
		}
		out.normalize = fn
	}

	if c.items != nil {
		item, err := c.items.prepared()
		if err != nil {
			return Constraint{}, err
		}
		if err := prepareDefault("items", &item); err != nil {
			return Constraint{}, fmt.Errorf("items: %w", err)
		}
		out.items = &item
	}

	return out, nil
}
