package schema

import (
	"slices"
	"time"

	"github.com/dmitrymomot/recordkit/pkg/coerce"
	"github.com/dmitrymomot/recordkit/pkg/validator"
)

// Validate checks raw against s. Field constraints are all evaluated and
// every failure is collected; cross-field rules run only when no field
// failed, and every failing rule is reported.
//
// raw must be a map (map[string]any, or map[any]any as produced by YAML) or
// a Record; anything else yields a single type_coercion error at the root.
// A nil schema yields a single missing_required error at the root.
func Validate(raw any, s *Schema) Report {
	if s == nil {
		return Report{errors: validator.ValidationErrors{{
			Message: "schema is required",
			Code:    validator.CodeMissingRequired,
		}}}
	}
	values, errs := s.checkFields(raw)
	if len(errs) > 0 {
		return failed(s, errs)
	}

	rec := Record{schema: s, values: values}
	rules := make([]validator.Rule, len(s.rules))
	for i, r := range s.rules {
		rules[i] = r.validatorRule(rec)
	}
	if errs := validator.Collect(rules...); len(errs) > 0 {
		return failed(s, errs)
	}
	return Report{schema: s.name, ok: true, record: rec}
}

func (s *Schema) checkFields(raw any) (map[string]any, validator.ValidationErrors) {
	input, err := inputMap(raw)
	if err != nil {
		return nil, validator.ValidationErrors{validator.Coercion("", raw, coerce.TypeRecord)}
	}

	var errs validator.ValidationErrors
	values := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		v, present := input[f.Name]
		if !present || v == nil {
			value, fieldErrs := checkAbsent(f.Name, f.Constraint)
			errs.Merge(fieldErrs)
			values[f.Name] = value
			continue
		}
		value, fieldErrs := checkValue(f.Name, v, f.Constraint)
		errs.Merge(fieldErrs)
		values[f.Name] = value
	}

	if s.strict {
		errs.Merge(s.unknownKeys(input))
	}
	return values, errs
}

func inputMap(raw any) (map[string]any, error) {
	if rec, ok := raw.(Record); ok {
		return rec.Canonical(), nil
	}
	if rec, ok := raw.(*Record); ok && rec != nil {
		return rec.Canonical(), nil
	}
	return coerce.Map(raw)
}

func (s *Schema) unknownKeys(input map[string]any) validator.ValidationErrors {
	var keys []string
	for k := range input {
		if _, ok := s.index[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	var errs validator.ValidationErrors
	for _, k := range keys {
		errs.Add(validator.ValidationError{
			Path:    k,
			Message: "unknown field",
			Code:    validator.CodeBoundViolation,
			Bound:   validator.BoundUnknown,
			Value:   input[k],
		})
	}
	return errs
}

func checkAbsent(path string, c Constraint) (any, validator.ValidationErrors) {
	if !c.optional {
		return nil, validator.ValidationErrors{validator.Missing(path)}
	}
	if c.hasDefault {
		return cloneDefault(c.defaultVal), nil
	}
	return nil, nil
}

func cloneDefault(v any) any {
	if l, ok := v.([]any); ok {
		return cloneList(l)
	}
	return v
}

// checkValue coerces a present, non-nil value and runs every bound check.
func checkValue(path string, raw any, c Constraint) (any, validator.ValidationErrors) {
	switch c.typ {
	case TypeRecord:
		return checkRecord(path, raw, c)
	case TypeList:
		return checkList(path, raw, c)
	}

	value, err := coerceScalar(raw, c)
	if err != nil {
		return nil, validator.ValidationErrors{validator.Coercion(path, raw, string(c.typ))}
	}
	if errs := validator.Collect(c.bounds(path, value)...); len(errs) > 0 {
		return nil, errs
	}
	return value, nil
}

func coerceScalar(raw any, c Constraint) (any, error) {
	switch c.typ {
	case TypeString, TypeEnum:
		s, err := coerce.String(raw)
		if err != nil {
			return nil, err
		}
		if c.normalize != nil {
			s = c.normalize(s)
		}
		return s, nil
	case TypeInteger:
		return coerce.Int(raw)
	case TypeFloat:
		return coerce.Float(raw)
	case TypeBoolean:
		return coerce.Bool(raw)
	case TypeDateTime:
		return coerce.DateTime(raw)
	case TypeUUID:
		return coerce.UUID(raw)
	}
	return nil, &coerce.Error{Type: string(c.typ), Value: raw}
}

// bounds returns one rule per declared bound of a scalar constraint.
func (c Constraint) bounds(path string, value any) []validator.Rule {
	var rules []validator.Rule
	switch v := value.(type) {
	case string:
		if c.minLen != nil {
			rules = append(rules, validator.MinLen(path, v, *c.minLen))
		}
		if c.maxLen != nil {
			rules = append(rules, validator.MaxLen(path, v, *c.maxLen))
		}
		if len(c.enum) > 0 {
			rules = append(rules, validator.OneOf(path, v, c.enum))
		}
		if c.prefix != "" {
			rules = append(rules, validator.HasPrefix(path, v, c.prefix))
		}
		if c.compiledPattern != nil {
			rules = append(rules, validator.MatchesPattern(path, v, c.compiledPattern, ""))
		}
		switch c.format {
		case FormatEmail:
			rules = append(rules, validator.ValidEmail(path, v))
		case FormatURL:
			rules = append(rules, validator.ValidURL(path, v))
		case FormatUUID:
			rules = append(rules, validator.ValidUUID(path, v))
		case FormatAlphanumeric:
			rules = append(rules, validator.ValidAlphanumeric(path, v))
		}
	case int64:
		if c.min != nil {
			rules = append(rules, validator.Min(path, v, int64(*c.min)))
		}
		if c.max != nil {
			rules = append(rules, validator.Max(path, v, int64(*c.max)))
		}
	case float64:
		if c.min != nil {
			rules = append(rules, validator.Min(path, v, *c.min))
		}
		if c.max != nil {
			rules = append(rules, validator.Max(path, v, *c.max))
		}
	case time.Time:
		if c.earliest != nil {
			rules = append(rules, validator.NotBefore(path, v, *c.earliest))
		}
		if c.latest != nil {
			rules = append(rules, validator.NotAfter(path, v, *c.latest))
		}
	}
	return rules
}

// checkRecord validates a nested record against the child schema. Every
// child error, including failed child rules, is re-pathed under path.
func checkRecord(path string, raw any, c Constraint) (any, validator.ValidationErrors) {
	report := Validate(raw, c.child)
	if !report.ok {
		return nil, report.errors.Under(path)
	}
	return report.record, nil
}

func checkList(path string, raw any, c Constraint) (any, validator.ValidationErrors) {
	items, err := coerce.List(raw)
	if err != nil {
		return nil, validator.ValidationErrors{validator.Coercion(path, raw, coerce.TypeList)}
	}

	var rules []validator.Rule
	if c.minLen != nil {
		rules = append(rules, validator.MinItems(path, items, *c.minLen))
	}
	if c.maxLen != nil {
		rules = append(rules, validator.MaxItems(path, items, *c.maxLen))
	}
	errs := validator.Collect(rules...)

	values := make([]any, len(items))
	for i, item := range items {
		elemPath := validator.IndexPath(path, i)
		var (
			value    any
			elemErrs validator.ValidationErrors
		)
		if item == nil {
			value, elemErrs = checkAbsent(elemPath, *c.items)
		} else {
			value, elemErrs = checkValue(elemPath, item, *c.items)
		}
		errs.Merge(elemErrs)
		values[i] = value
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return values, nil
}
