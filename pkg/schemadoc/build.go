package schemadoc

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/itchyny/gojq"

	"github.com/dmitrymomot/recordkit/pkg/coerce"
	"github.com/dmitrymomot/recordkit/pkg/schema"
)

// Resolver finds schemas referenced by name from a document.
type Resolver interface {
	Lookup(name string) (*schema.Schema, bool)
}

// Set is a Resolver over a fixed set of schemas.
type Set map[string]*schema.Schema

// NewSet indexes schemas by name.
func NewSet(schemas ...*schema.Schema) Set {
	set := make(Set, len(schemas))
	for _, s := range schemas {
		set[s.Name()] = s
	}
	return set
}

func (s Set) Lookup(name string) (*schema.Schema, bool) {
	v, ok := s[name]
	return v, ok
}

type chain []Resolver

func (c chain) Lookup(name string) (*schema.Schema, bool) {
	for _, r := range c {
		if r == nil {
			continue
		}
		if s, ok := r.Lookup(name); ok {
			return s, true
		}
	}
	return nil, false
}

// Build compiles the document into a schema. References are looked up in r,
// which may be nil when the document has none.
func (d *Document) Build(r Resolver) (*schema.Schema, error) {
	s, err := d.build(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidDocument, d.Name, err)
	}
	return s, nil
}

func (d *Document) build(r Resolver) (*schema.Schema, error) {
	fields, err := buildFields(d.Name, d.Fields, r)
	if err != nil {
		return nil, err
	}

	rules := make([]schema.Rule, 0, len(d.Rules))
	for _, rd := range d.Rules {
		rule, err := rd.build()
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	var opts []schema.SchemaOption
	if d.Strict {
		opts = append(opts, schema.Strict())
	}
	if d.Description != "" {
		opts = append(opts, schema.WithDescription(d.Description))
	}
	return schema.Define(d.Name, fields, rules, opts...)
}

func buildFields(owner string, docs []FieldDoc, r Resolver) ([]schema.Field, error) {
	fields := make([]schema.Field, 0, len(docs))
	for _, fd := range docs {
		c, err := fd.constraint(owner+"."+fd.Name, r)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fd.Name, err)
		}
		fields = append(fields, schema.Named(fd.Name, c))
	}
	return fields, nil
}

// constraint converts the field description. scope names inline child
// schemas.
func (f FieldDoc) constraint(scope string, r Resolver) (schema.Constraint, error) {
	var opts []schema.Option

	if f.Optional {
		opts = append(opts, schema.Optional())
	}
	if f.Default != nil {
		opts = append(opts, schema.Default(f.Default))
	}
	if f.Description != "" {
		opts = append(opts, schema.Describe(f.Description))
	}
	if f.Min != nil {
		opts = append(opts, schema.Min(*f.Min))
	}
	if f.Max != nil {
		opts = append(opts, schema.Max(*f.Max))
	}
	if f.MinLength != nil {
		opts = append(opts, schema.MinLength(*f.MinLength))
	}
	if f.MaxLength != nil {
		opts = append(opts, schema.MaxLength(*f.MaxLength))
	}
	if f.Earliest != "" {
		t, err := coerce.DateTime(f.Earliest)
		if err != nil {
			return schema.Constraint{}, fmt.Errorf("earliest: %w", err)
		}
		opts = append(opts, schema.Earliest(t))
	}
	if f.Latest != "" {
		t, err := coerce.DateTime(f.Latest)
		if err != nil {
			return schema.Constraint{}, fmt.Errorf("latest: %w", err)
		}
		opts = append(opts, schema.Latest(t))
	}
	if len(f.Enum) > 0 {
		opts = append(opts, schema.OneOf(f.Enum...))
	}
	if f.Prefix != "" {
		opts = append(opts, schema.Prefix(f.Prefix))
	}
	if f.Pattern != "" {
		opts = append(opts, schema.Pattern(f.Pattern))
	}
	if f.Format != "" {
		opts = append(opts, schema.WithFormat(schema.Format(f.Format)))
	}
	if len(f.Normalize) > 0 {
		opts = append(opts, schema.Normalize(f.Normalize...))
	}

	if f.Items != nil {
		item, err := f.Items.constraint(scope+"[]", r)
		if err != nil {
			return schema.Constraint{}, fmt.Errorf("items: %w", err)
		}
		opts = append(opts, schema.Items(item))
	}

	switch {
	case f.Schema != "":
		var (
			child *schema.Schema
			ok    bool
		)
		if r != nil {
			child, ok = r.Lookup(f.Schema)
		}
		if !ok {
			return schema.Constraint{}, fmt.Errorf("%w: %q", ErrUnresolved, f.Schema)
		}
		opts = append(opts, schema.Child(child))
	case len(f.Fields) > 0:
		fields, err := buildFields(scope, f.Fields, r)
		if err != nil {
			return schema.Constraint{}, err
		}
		child, err := schema.Define(scope, fields, nil)
		if err != nil {
			return schema.Constraint{}, err
		}
		opts = append(opts, schema.Child(child))
	}

	return schema.Of(schema.Type(f.Type), opts...), nil
}

func (rd RuleDoc) build() (schema.Rule, error) {
	check, err := compileCondition(rd.JQ)
	if err != nil {
		return schema.Rule{}, fmt.Errorf("rule %q: %w", rd.Name, err)
	}
	rule := schema.Rule{
		Name:    rd.Name,
		Path:    rd.Path,
		Message: rd.Message,
		Check:   check,
	}
	if rd.When != "" {
		when, err := compileCondition(rd.When)
		if err != nil {
			return schema.Rule{}, fmt.Errorf("rule %q: when: %w", rd.Name, err)
		}
		rule = schema.When(when, rule)
	}
	return rule, nil
}

// compileCondition turns a jq program into a record condition. The
// condition holds only when the first output is boolean true; runtime
// errors and empty output count as false.
func compileCondition(expr string) (schema.Condition, error) {
	query, err := gojq.Parse(expr)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("invalid jq expression at position %d: %w", parseErr.Offset, err)
		}
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("compile jq expression: %w", err)
	}

	return func(rec schema.Record) bool {
		input, err := jqInput(rec)
		if err != nil {
			return false
		}
		v, ok := code.Run(input).Next()
		if !ok {
			return false
		}
		if _, isErr := v.(error); isErr {
			return false
		}
		b, _ := v.(bool)
		return b
	}, nil
}

// jqInput converts the record into the plain JSON values gojq accepts.
func jqInput(rec schema.Record) (any, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, err
	}
	return input, nil
}

// BuildAll compiles documents so that each one is built after the documents
// it references. References not satisfied by docs are looked up in base.
// The result follows dependency order.
func BuildAll(docs []*Document, base Resolver) ([]*schema.Schema, error) {
	pending := make(map[string]*Document, len(docs))
	var order []string
	for _, d := range docs {
		if _, dup := pending[d.Name]; dup {
			return nil, fmt.Errorf("%w: %w: %q", ErrInvalidDocument, ErrDuplicateDocument, d.Name)
		}
		pending[d.Name] = d
		order = append(order, d.Name)
	}

	built := make(Set, len(docs))
	resolver := chain{built, base}
	var out []*schema.Schema

	for len(pending) > 0 {
		progressed := false
		for _, name := range order {
			d, ok := pending[name]
			if !ok || !ready(d, pending, name) {
				continue
			}
			s, err := d.Build(resolver)
			if err != nil {
				return nil, err
			}
			built[name] = s
			out = append(out, s)
			delete(pending, name)
			progressed = true
		}
		if !progressed {
			var stuck []string
			for name := range pending {
				stuck = append(stuck, name)
			}
			slices.Sort(stuck)
			return nil, fmt.Errorf("%w: %w: cyclic references between %s",
				ErrInvalidDocument, ErrUnresolved, strings.Join(stuck, ", "))
		}
	}
	return out, nil
}

// ready reports whether every reference of d that names another pending
// document has been built.
func ready(d *Document, pending map[string]*Document, self string) bool {
	for _, ref := range d.References() {
		if ref == self {
			return false
		}
		if _, waiting := pending[ref]; waiting {
			return false
		}
	}
	return true
}
