package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/recordkit/pkg/jsonschema"
	"github.com/dmitrymomot/recordkit/pkg/serializer"
)

// schemaInfo summarizes a registered schema.
type schemaInfo struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Strict      bool     `json:"strict" yaml:"strict"`
	Fields      []string `json:"fields" yaml:"fields"`
	Rules       []string `json:"rules,omitempty" yaml:"rules,omitempty"`
}

func schemaCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Inspect available schemas",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List built-in and loaded schemas",
				Action: func(ctx context.Context, _ *cli.Command) error {
					if err := a.loadSchemas(ctx); err != nil {
						return err
					}
					return a.listSchemas()
				},
			},
			{
				Name:      "export",
				Usage:     "Print a schema as JSON Schema",
				ArgsUsage: "NAME",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "check",
						Usage: "Compile the exported document before printing it",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.NArg() != 1 {
						return errors.New("exactly one schema name is required")
					}
					if err := a.loadSchemas(ctx); err != nil {
						return err
					}
					s, err := a.engine.Schema(cmd.Args().First())
					if err != nil {
						return err
					}

					doc := jsonschema.Export(s)
					if cmd.Bool("check") {
						if _, err := jsonschema.CompileDocument(doc); err != nil {
							return err
						}
					}

					enc := json.NewEncoder(a.stdout)
					enc.SetIndent("", "  ")
					return enc.Encode(doc)
				},
			},
		},
	}
}

func (a *app) listSchemas() error {
	var infos []schemaInfo
	for _, name := range a.registry.Names() {
		s, err := a.registry.Get(name)
		if err != nil {
			return err
		}
		info := schemaInfo{
			Name:        s.Name(),
			Description: s.Description(),
			Strict:      s.IsStrict(),
			Fields:      s.FieldNames(),
		}
		for _, r := range s.Rules() {
			info.Rules = append(info.Rules, r.Name)
		}
		infos = append(infos, info)
	}

	w := a.writer()
	if w.Format() != serializer.FormatTable {
		return w.Write(infos)
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tFIELDS\tRULES\tDESCRIPTION")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", info.Name, len(info.Fields), len(info.Rules), info.Description)
	}
	return tw.Flush()
}
