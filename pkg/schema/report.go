package schema

import (
	"encoding/json"
	"slices"

	"github.com/dmitrymomot/recordkit/pkg/validator"
)

// Report is the outcome of one Validate call: either a Record or an ordered,
// non-empty list of errors. Reports are never modified after return.
type Report struct {
	schema string
	ok     bool
	record Record
	errors validator.ValidationErrors
}

func failed(s *Schema, errs validator.ValidationErrors) Report {
	return Report{schema: s.name, errors: errs}
}

// Schema returns the name of the schema the input was validated against.
func (r Report) Schema() string {
	return r.schema
}

// Ok reports whether validation succeeded.
func (r Report) Ok() bool {
	return r.ok
}

// Record returns the validated record. It is the zero Record when Ok is false.
func (r Report) Record() Record {
	return r.record
}

// Errors returns a copy of the errors in the order they were found.
func (r Report) Errors() validator.ValidationErrors {
	return slices.Clone(r.errors)
}

// Err returns nil on success, otherwise the errors as a
// validator.ValidationErrors value.
func (r Report) Err() error {
	if r.ok {
		return nil
	}
	return r.Errors()
}

// View is the serializable form of a Report.
type View struct {
	Schema string                     `json:"schema" yaml:"schema"`
	Valid  bool                       `json:"valid" yaml:"valid"`
	Record map[string]any             `json:"record,omitempty" yaml:"record,omitempty"`
	Errors validator.ValidationErrors `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// View returns the serializable form of the report.
func (r Report) View() View {
	v := View{Schema: r.schema, Valid: r.ok}
	if r.ok {
		v.Record = r.record.Canonical()
	} else {
		v.Errors = r.Errors()
	}
	return v
}

func (r Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.View())
}

func (r Report) MarshalYAML() (any, error) {
	return r.View(), nil
}
