package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Record is a validated value of a Schema. It only exists after every field
// constraint and cross-field rule passed, and it cannot be modified.
//
// Field values are held in their canonical Go types: string, int64, float64,
// bool, time.Time (UTC), uuid.UUID, Record for nested records, []any for
// lists and nil for absent optional fields.
type Record struct {
	schema *Schema
	values map[string]any
}

// Schema returns the schema the record was validated against.
func (r Record) Schema() *Schema {
	return r.schema
}

// IsZero reports whether r is the zero Record.
func (r Record) IsZero() bool {
	return r.schema == nil
}

// Fields returns the field names in schema order.
func (r Record) Fields() []string {
	if r.schema == nil {
		return nil
	}
	return r.schema.FieldNames()
}

// Get returns the value of name. Lists are copied, nested lists included.
func (r Record) Get(name string) (any, bool) {
	v, ok := r.values[name]
	if l, isList := v.([]any); isList {
		return cloneList(l), ok
	}
	return v, ok
}

// Has reports whether name holds a non-nil value.
func (r Record) Has(name string) bool {
	return r.values[name] != nil
}

// String returns the string value of name, or "" if it is not a string.
func (r Record) String(name string) string {
	s, _ := r.values[name].(string)
	return s
}

// Int returns the integer value of name, or 0.
func (r Record) Int(name string) int64 {
	n, _ := r.values[name].(int64)
	return n
}

// Float returns the numeric value of name as float64, or 0.
func (r Record) Float(name string) float64 {
	f, _ := number(r.values[name])
	return f
}

// Bool returns the boolean value of name, or false.
func (r Record) Bool(name string) bool {
	b, _ := r.values[name].(bool)
	return b
}

// Time returns the datetime value of name, or the zero time.
func (r Record) Time(name string) time.Time {
	t, _ := r.values[name].(time.Time)
	return t
}

// UUID returns the UUID value of name, or uuid.Nil.
func (r Record) UUID(name string) uuid.UUID {
	id, _ := r.values[name].(uuid.UUID)
	return id
}

// Record returns the nested record stored at name.
func (r Record) Record(name string) Record {
	rec, _ := r.values[name].(Record)
	return rec
}

// List returns a deep copy of the list stored at name.
func (r Record) List(name string) []any {
	l, _ := r.values[name].([]any)
	return cloneList(l)
}

// cloneList copies l and every list nested in it. Records are immutable
// and shared.
func cloneList(l []any) []any {
	if l == nil {
		return nil
	}
	out := make([]any, len(l))
	for i, v := range l {
		if inner, ok := v.([]any); ok {
			v = cloneList(inner)
		}
		out[i] = v
	}
	return out
}

// Records returns the elements of a list of records. Non-record elements
// are skipped.
func (r Record) Records(name string) []Record {
	l, _ := r.values[name].([]any)
	out := make([]Record, 0, len(l))
	for _, v := range l {
		if rec, ok := v.(Record); ok {
			out = append(out, rec)
		}
	}
	return out
}

// Canonical returns a JSON-compatible representation: datetimes become
// RFC 3339 strings, UUIDs strings, nested records maps. Validating the
// canonical form against the same schema yields an equal record.
func (r Record) Canonical() map[string]any {
	if r.schema == nil {
		return nil
	}
	out := make(map[string]any, len(r.values))
	for _, name := range r.schema.FieldNames() {
		out[name] = canonicalValue(r.values[name])
	}
	return out
}

// CanonicalValue converts a typed field value to its JSON-compatible form.
func CanonicalValue(v any) any { return canonicalValue(v) }

func canonicalValue(v any) any {
	switch val := v.(type) {
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	case uuid.UUID:
		return val.String()
	case Record:
		return val.Canonical()
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = canonicalValue(elem)
		}
		return out
	}
	return v
}

// Equal reports whether both records hold the same schema and values.
func (r Record) Equal(other Record) bool {
	if r.schema != other.schema {
		return false
	}
	return reflect.DeepEqual(r.Canonical(), other.Canonical())
}

// MarshalJSON encodes the canonical form.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Canonical())
}

// MarshalYAML encodes the canonical form.
func (r Record) MarshalYAML() (any, error) {
	return r.Canonical(), nil
}

// Bind copies the record into target, a pointer to a struct with json tags
// matching the field names.
func (r Record) Bind(target any) error {
	rv := reflect.ValueOf(target)
	if target == nil || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrNotBindable
	}
	data, err := r.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("bind record %q: %w", r.schema.Name(), err)
	}
	return nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
