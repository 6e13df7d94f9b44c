package schema

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/recordkit/pkg/validator"
)

// Rule is a cross-field predicate over a fully validated record. A failing
// rule yields exactly one business_rule error at Path with Message.
type Rule struct {
	Name    string
	Path    string
	Message string
	Check   Condition
}

// At returns a copy of the rule reporting its error at path.
func (r Rule) At(path string) Rule {
	r.Path = path
	return r
}

func (r Rule) validatorRule(rec Record) validator.Rule {
	return validator.Business(r.Path, r.Name, r.Message, func() bool {
		return r.Check(rec)
	})
}

// Condition is a predicate over a record. Conditions serve both as rule
// checks and as element predicates for list rules.
type Condition func(Record) bool

// Func wraps an arbitrary predicate as a rule reported at the record root.
func Func(name, message string, check Condition) Rule {
	return Rule{Name: name, Message: message, Check: check}
}

// HasPrefix requires the string field to start with prefix. It is a plain
// string-prefix check: "AC2024_001" starts with "AC".
func HasPrefix(name, field, prefix, message string) Rule {
	return Rule{
		Name:    name,
		Path:    field,
		Message: message,
		Check: func(r Record) bool {
			return strings.HasPrefix(r.String(field), prefix)
		},
	}
}

// Requires passes when cond is false or then holds.
func Requires(name string, cond, then Condition, message string) Rule {
	return Rule{
		Name:    name,
		Message: message,
		Check: func(r Record) bool {
			return !cond(r) || then(r)
		},
	}
}

// When gates rule behind cond; the rule passes whenever cond is false.
func When(cond Condition, rule Rule) Rule {
	check := rule.Check
	rule.Check = func(r Record) bool {
		return !cond(r) || check(r)
	}
	return rule
}

// AtLeastOne requires at least one element of the list field to satisfy pred.
func AtLeastOne(name, field string, pred Condition, message string) Rule {
	return Rule{
		Name:    name,
		Path:    field,
		Message: message,
		Check: func(r Record) bool {
			return slices.ContainsFunc(r.Records(field), pred)
		},
	}
}

// AtLeastPercent requires matching/total*100 >= pct over the list field.
// An empty list fails.
func AtLeastPercent(name, field string, pct float64, pred Condition, message string) Rule {
	return Rule{
		Name:    name,
		Path:    field,
		Message: message,
		Check: func(r Record) bool {
			elems := r.Records(field)
			if len(elems) == 0 {
				return false
			}
			matching := 0
			for _, e := range elems {
				if pred(e) {
					matching++
				}
			}
			return float64(matching)/float64(len(elems))*100 >= pct
		},
	}
}

// Every requires every element of the list field to satisfy pred. Any
// number of failing elements produce a single error.
func Every(name, field string, pred Condition, message string) Rule {
	return Rule{
		Name:    name,
		Path:    field,
		Message: message,
		Check: func(r Record) bool {
			for _, e := range r.Records(field) {
				if !pred(e) {
					return false
				}
			}
			return true
		},
	}
}

// FieldEquals holds when the field equals v. Numbers compare by value
// regardless of width.
func FieldEquals(field string, v any) Condition {
	return func(r Record) bool {
		got, _ := r.Get(field)
		return equalValues(got, v)
	}
}

// FieldIn holds when the field equals any of values.
func FieldIn(field string, values ...any) Condition {
	return func(r Record) bool {
		got, _ := r.Get(field)
		return slices.ContainsFunc(values, func(v any) bool {
			return equalValues(got, v)
		})
	}
}

// FieldIs holds when the boolean field equals want.
func FieldIs(field string, want bool) Condition {
	return func(r Record) bool {
		b, ok := r.values[field].(bool)
		return ok && b == want
	}
}

// FieldPresent holds when the field is non-nil.
func FieldPresent(field string) Condition {
	return func(r Record) bool {
		return r.Has(field)
	}
}

// FieldGreater holds when the numeric field is strictly greater than v.
func FieldGreater(field string, v float64) Condition {
	return compareField(field, func(n float64) bool { return n > v })
}

// FieldLess holds when the numeric field is strictly less than v.
func FieldLess(field string, v float64) Condition {
	return compareField(field, func(n float64) bool { return n < v })
}

// FieldAtLeast holds when the numeric field is greater than or equal to v.
func FieldAtLeast(field string, v float64) Condition {
	return compareField(field, func(n float64) bool { return n >= v })
}

func compareField(field string, cmp func(float64) bool) Condition {
	return func(r Record) bool {
		n, ok := number(r.values[field])
		return ok && cmp(n)
	}
}

// Not negates cond.
func Not(cond Condition) Condition {
	return func(r Record) bool {
		return !cond(r)
	}
}

// All holds when every condition holds.
func All(conds ...Condition) Condition {
	return func(r Record) bool {
		for _, c := range conds {
			if !c(r) {
				return false
			}
		}
		return true
	}
}

func equalValues(a, b any) bool {
	if x, ok := toFloat(a); ok {
		y, ok := toFloat(b)
		return ok && x == y
	}
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	case uuid.UUID:
		switch y := b.(type) {
		case uuid.UUID:
			return x == y
		case string:
			return x.String() == y
		}
	case nil:
		return b == nil
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
