package serializer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/recordkit/pkg/schema"
)

// Result is the report of one input record.
type Result struct {
	Source string
	Index  int
	Report schema.Report
}

// resultView is the encoded form of Result.
type resultView struct {
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
	Index  int    `json:"index" yaml:"index"`

	schema.View `yaml:",inline"`
}

func (r Result) view() resultView {
	return resultView{Source: r.Source, Index: r.Index, View: r.Report.View()}
}

// MarshalJSON flattens the report next to source and index.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.view())
}

func (r Result) MarshalYAML() (any, error) {
	return r.view(), nil
}

// Writer encodes results in a fixed format.
type Writer struct {
	format Format
	output io.Writer
}

// NewWriter creates a writer. A nil output means stdout; an unknown format
// falls back to JSON.
func NewWriter(format Format, output io.Writer) *Writer {
	if output == nil {
		output = os.Stdout
	}
	if format.IsUnknown() {
		format = FormatJSON
	}
	return &Writer{format: format, output: output}
}

// Format returns the output format.
func (w *Writer) Format() Format { return w.format }

// WriteResults encodes results.
func (w *Writer) WriteResults(results []Result) error {
	switch w.format {
	case FormatYAML:
		return w.yaml(results)
	case FormatTable:
		return w.table(results)
	default:
		return w.json(results)
	}
}

// Write encodes any value in JSON or YAML. Table output falls back to YAML
// for values other than results.
func (w *Writer) Write(v any) error {
	if results, ok := v.([]Result); ok {
		return w.WriteResults(results)
	}
	if w.format == FormatJSON {
		return w.json(v)
	}
	return w.yaml(v)
}

func (w *Writer) json(v any) error {
	enc := json.NewEncoder(w.output)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to serialize to JSON: %w", err)
	}
	return nil
}

func (w *Writer) yaml(v any) error {
	enc := yaml.NewEncoder(w.output)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to serialize to YAML: %w", err)
	}
	return enc.Close()
}

// table prints one row per error, or a single row for a valid record.
func (w *Writer) table(results []Result) error {
	if len(results) == 0 {
		fmt.Fprintln(w.output, "<empty>")
		return nil
	}

	tw := tabwriter.NewWriter(w.output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tINDEX\tSCHEMA\tSTATUS\tPATH\tCODE\tMESSAGE")
	for _, r := range results {
		prefix := fmt.Sprintf("%s\t%d\t%s", orDash(r.Source), r.Index, r.Report.Schema())
		if r.Report.Ok() {
			fmt.Fprintf(tw, "%s\tvalid\t-\t-\t-\n", prefix)
			continue
		}
		for _, e := range r.Report.Errors() {
			code := string(e.Code)
			if e.Bound != "" {
				code += "/" + string(e.Bound)
			} else if e.Rule != "" {
				code += "/" + e.Rule
			}
			fmt.Fprintf(tw, "%s\tinvalid\t%s\t%s\t%s\n", prefix, orDash(e.Path), code, e.Message)
		}
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
