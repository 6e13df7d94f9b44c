// Package schema defines records declaratively and validates loosely typed
// input against them.
//
// A Schema is an ordered list of fields, each bound by a Constraint, plus
// cross-field rules:
//
//	crew := schema.MustDefine("crew_member", []schema.Field{
//	    schema.String("member_id", schema.Length(3, 10)),
//	    schema.Enum("rank", []string{"cadet", "officer", "captain"}),
//	    schema.Integer("years_experience", schema.Range(0, 50)),
//	    schema.Boolean("is_active", schema.Default(true)),
//	}, nil)
//
//	report := schema.Validate(map[string]any{...}, crew)
//	if !report.Ok() {
//	    for _, e := range report.Errors() {
//	        fmt.Println(e.Path, e.Message)
//	    }
//	}
//
// Validation runs in two stages. Every field is checked and all field errors
// are collected; nested records and list elements are validated recursively
// and their errors re-pathed ("crew[1].years_experience"). Only when no field
// failed are the rules evaluated, in declaration order, each contributing at
// most one business_rule error.
package schema
