// Package coerce converts loosely-typed input into the canonical Go values the
// schema package checks constraints against.
//
// Input usually comes from encoding/json (decoded with UseNumber), yaml.v3, or
// hand-built maps, so every function accepts the shapes those decoders produce:
//
//	coerce.Int(json.Number("6"))       // 6
//	coerce.Float("13.5")               // 13.5
//	coerce.DateTime("2024-02-29")      // 2024-02-29T00:00:00Z
//	coerce.Bool("yes")                 // true
//
// Failures are *Error values that keep the original input and match
// ErrCoercion with errors.Is. All functions are pure and safe for concurrent use.
package coerce
