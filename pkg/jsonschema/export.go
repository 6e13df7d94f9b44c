// Package jsonschema exports schemas as JSON Schema (draft 2020-12)
// documents describing the canonical form of valid records.
//
// Field constraints map onto the standard keywords. Cross-field rules and
// datetime bounds have no JSON Schema equivalent; they are listed under the
// x-rules, x-earliest and x-latest extensions. Compile checks an exported
// document with an independent JSON Schema implementation.
package jsonschema

import (
	"encoding/json"
	"regexp"
	"strconv"
	"time"

	"github.com/invopop/jsonschema"

	"github.com/dmitrymomot/recordkit/pkg/schema"
)

// Draft is the JSON Schema dialect of exported documents.
const Draft = "https://json-schema.org/draft/2020-12/schema"

const alphanumericPattern = "^[a-zA-Z0-9]+$"

// RuleInfo describes a cross-field rule in the x-rules extension.
type RuleInfo struct {
	Name    string `json:"name"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// Export converts s into a JSON Schema. Schemas of nested records are
// emitted once under $defs and referenced by name.
func Export(s *schema.Schema) *jsonschema.Schema {
	e := &exporter{defs: jsonschema.Definitions{}}
	root := e.object(s)
	root.Version = Draft
	root.Title = s.Name()
	if len(e.defs) > 0 {
		root.Definitions = e.defs
	}
	return root
}

type exporter struct {
	defs jsonschema.Definitions
}

func (e *exporter) object(s *schema.Schema) *jsonschema.Schema {
	out := &jsonschema.Schema{
		Type:        "object",
		Description: s.Description(),
		Properties:  jsonschema.NewProperties(),
	}
	for _, f := range s.Fields() {
		out.Properties.Set(f.Name, e.field(f.Constraint))
		if !f.IsOptional() {
			out.Required = append(out.Required, f.Name)
		}
	}
	if s.IsStrict() {
		out.AdditionalProperties = jsonschema.FalseSchema
	}
	if rules := s.Rules(); len(rules) > 0 {
		infos := make([]RuleInfo, len(rules))
		for i, r := range rules {
			infos[i] = RuleInfo{Name: r.Name, Path: r.Path, Message: r.Message}
		}
		out.Extras = map[string]any{"x-rules": infos}
	}
	return out
}

// field describes c. Optional fields without a default may hold null.
func (e *exporter) field(c schema.Constraint) *jsonschema.Schema {
	out := e.value(c)
	out.Description = c.Description()
	if def, ok := c.Default(); ok {
		out.Default = schema.CanonicalValue(def)
	}
	if c.IsOptional() {
		if _, hasDefault := c.Default(); !hasDefault {
			return &jsonschema.Schema{
				Description: out.Description,
				AnyOf:       []*jsonschema.Schema{out, {Type: "null"}},
			}
		}
	}
	return out
}

func (e *exporter) value(c schema.Constraint) *jsonschema.Schema {
	switch c.Type() {
	case schema.TypeString, schema.TypeEnum:
		return e.text(c)
	case schema.TypeInteger:
		return numeric("integer", c)
	case schema.TypeFloat:
		return numeric("number", c)
	case schema.TypeBoolean:
		return &jsonschema.Schema{Type: "boolean"}
	case schema.TypeUUID:
		return &jsonschema.Schema{Type: "string", Format: "uuid"}
	case schema.TypeDateTime:
		out := &jsonschema.Schema{Type: "string", Format: "date-time"}
		extras := map[string]any{}
		if t, ok := c.Earliest(); ok {
			extras["x-earliest"] = t.UTC().Format(time.RFC3339Nano)
		}
		if t, ok := c.Latest(); ok {
			extras["x-latest"] = t.UTC().Format(time.RFC3339Nano)
		}
		if len(extras) > 0 {
			out.Extras = extras
		}
		return out
	case schema.TypeRecord:
		return e.ref(c.Schema())
	case schema.TypeList:
		out := &jsonschema.Schema{Type: "array"}
		if item, ok := c.Items(); ok {
			out.Items = e.field(item)
		}
		if n, ok := c.MinLength(); ok {
			out.MinItems = uint64Ptr(n)
		}
		if n, ok := c.MaxLength(); ok {
			out.MaxItems = uint64Ptr(n)
		}
		return out
	}
	return &jsonschema.Schema{}
}

// ref emits child under $defs on first use.
func (e *exporter) ref(child *schema.Schema) *jsonschema.Schema {
	if _, seen := e.defs[child.Name()]; !seen {
		e.defs[child.Name()] = e.object(child)
	}
	return &jsonschema.Schema{Ref: "#/$defs/" + child.Name()}
}

func (e *exporter) text(c schema.Constraint) *jsonschema.Schema {
	out := &jsonschema.Schema{Type: "string"}
	if n, ok := c.MinLength(); ok {
		out.MinLength = uint64Ptr(n)
	}
	if n, ok := c.MaxLength(); ok {
		out.MaxLength = uint64Ptr(n)
	}
	if values := c.Enum(); len(values) > 0 {
		out.Enum = make([]any, len(values))
		for i, v := range values {
			out.Enum[i] = v
		}
	}

	var patterns []string
	if p := c.Prefix(); p != "" {
		patterns = append(patterns, "^"+regexp.QuoteMeta(p))
	}
	if p := c.Pattern(); p != "" {
		patterns = append(patterns, p)
	}
	switch c.Format() {
	case schema.FormatEmail:
		out.Format = "email"
	case schema.FormatURL:
		out.Format = "uri"
	case schema.FormatUUID:
		out.Format = "uuid"
	case schema.FormatAlphanumeric:
		patterns = append(patterns, alphanumericPattern)
	}
	if len(patterns) > 0 {
		out.Pattern = patterns[0]
		for _, p := range patterns[1:] {
			out.AllOf = append(out.AllOf, &jsonschema.Schema{Pattern: p})
		}
	}
	return out
}

func numeric(typ string, c schema.Constraint) *jsonschema.Schema {
	out := &jsonschema.Schema{Type: typ}
	if v, ok := c.Min(); ok {
		out.Minimum = number(v)
	}
	if v, ok := c.Max(); ok {
		out.Maximum = number(v)
	}
	return out
}

func number(v float64) json.Number {
	return json.Number(strconv.FormatFloat(v, 'f', -1, 64))
}

func uint64Ptr(n int) *uint64 {
	u := uint64(n)
	return &u
}
