package schemadoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Document is the YAML description of a schema.
type Document struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Strict      bool       `yaml:"strict,omitempty"`
	Fields      []FieldDoc `yaml:"fields"`
	Rules       []RuleDoc  `yaml:"rules,omitempty"`

	// Source is the file the document was read from, if any.
	Source string `yaml:"-"`
}

// FieldDoc describes one field or, inside items, a list element.
type FieldDoc struct {
	Name        string     `yaml:"name,omitempty"`
	Type        string     `yaml:"type"`
	Description string     `yaml:"description,omitempty"`
	Optional    bool       `yaml:"optional,omitempty"`
	Default     any        `yaml:"default,omitempty"`
	Min         *float64   `yaml:"min,omitempty"`
	Max         *float64   `yaml:"max,omitempty"`
	MinLength   *int       `yaml:"min_length,omitempty"`
	MaxLength   *int       `yaml:"max_length,omitempty"`
	Earliest    string     `yaml:"earliest,omitempty"`
	Latest      string     `yaml:"latest,omitempty"`
	Enum        []string   `yaml:"enum,omitempty"`
	Prefix      string     `yaml:"prefix,omitempty"`
	Pattern     string     `yaml:"pattern,omitempty"`
	Format      string     `yaml:"format,omitempty"`
	Normalize   []string   `yaml:"normalize,omitempty"`
	Items       *FieldDoc  `yaml:"items,omitempty"`
	Schema      string     `yaml:"schema,omitempty"`
	Fields      []FieldDoc `yaml:"fields,omitempty"`
}

// RuleDoc describes a cross-field rule as a jq program evaluated against
// the record. The rule passes when the first output is true. When, if set,
// gates the rule the same way.
type RuleDoc struct {
	Name    string `yaml:"name"`
	Message string `yaml:"message"`
	Path    string `yaml:"path,omitempty"`
	JQ      string `yaml:"jq"`
	When    string `yaml:"when,omitempty"`
}

// Parse decodes a single document. Unknown keys are rejected.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if err := doc.check(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ParseFile reads and decodes the document at path.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema document %q: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// Marshal encodes the document as YAML.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Document) check() error {
	var errs []error
	if d.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if len(d.Fields) == 0 {
		errs = append(errs, errors.New("at least one field is required"))
	}
	for i, f := range d.Fields {
		if f.Name == "" {
			errs = append(errs, fmt.Errorf("fields[%d]: name is required", i))
		}
		if err := f.check(); err != nil {
			errs = append(errs, fmt.Errorf("field %q: %w", f.Name, err))
		}
	}
	for i, r := range d.Rules {
		switch {
		case r.Name == "":
			errs = append(errs, fmt.Errorf("rules[%d]: name is required", i))
		case r.JQ == "":
			errs = append(errs, fmt.Errorf("rule %q: jq is required", r.Name))
		case r.Message == "":
			errs = append(errs, fmt.Errorf("rule %q: message is required", r.Name))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %q: %w", ErrInvalidDocument, d.Name, errors.Join(errs...))
	}
	return nil
}

func (f FieldDoc) check() error {
	if f.Type == "" {
		return errors.New("type is required")
	}
	if f.Schema != "" && len(f.Fields) > 0 {
		return errors.New("schema and inline fields are mutually exclusive")
	}
	if f.Items != nil {
		return f.Items.check()
	}
	for _, child := range f.Fields {
		if err := child.check(); err != nil {
			return fmt.Errorf("field %q: %w", child.Name, err)
		}
	}
	return nil
}

// References returns the distinct schema names the document refers to,
// in first-seen order.
func (d *Document) References() []string {
	var refs []string
	var walk func(fields []FieldDoc)
	visit := func(f *FieldDoc) {
		for f != nil {
			if f.Schema != "" && !slices.Contains(refs, f.Schema) {
				refs = append(refs, f.Schema)
			}
			walk(f.Fields)
			f = f.Items
		}
	}
	walk = func(fields []FieldDoc) {
		for i := range fields {
			visit(&fields[i])
		}
	}
	walk(d.Fields)
	return refs
}
