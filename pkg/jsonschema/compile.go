package jsonschema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/invopop/jsonschema"
	compiler "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/dmitrymomot/recordkit/pkg/schema"
)

// ErrCompile is returned when an exported document does not compile.
var ErrCompile = errors.New("exported schema does not compile")

// ErrMismatch is returned by Validator.Check for values the exported
// document rejects.
var ErrMismatch = errors.New("value does not match exported schema")

// Validator checks JSON values against an exported schema.
type Validator struct {
	compiled *compiler.Schema
}

// Compile exports s and compiles the result.
func Compile(s *schema.Schema) (*Validator, error) {
	return CompileDocument(Export(s))
}

// CompileDocument compiles an exported document.
func CompileDocument(doc *jsonschema.Schema) (*Validator, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal: %w", ErrCompile, err)
	}
	value, err := compiler.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: unmarshal: %w", ErrCompile, err)
	}

	c := compiler.NewCompiler()
	c.AssertFormat()
	if err := c.AddResource("schema.json", value); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}
	return &Validator{compiled: compiled}, nil
}

// Check validates the canonical form of rec.
func (v *Validator) Check(rec schema.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return v.CheckJSON(data)
}

// CheckJSON validates a JSON document.
func (v *Validator) CheckJSON(data []byte) error {
	value, err := compiler.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMismatch, err)
	}
	if err := v.compiled.Validate(value); err != nil {
		return fmt.Errorf("%w: %w", ErrMismatch, err)
	}
	return nil
}
