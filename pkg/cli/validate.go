package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/recordkit/pkg/logger"
	"github.com/dmitrymomot/recordkit/pkg/schema"
	"github.com/dmitrymomot/recordkit/pkg/serializer"
)

func validateCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate record files against a schema",
		ArgsUsage: "FILE...",
		Description: `Validate every record in the given JSON or YAML files.

A file may hold a single record, an array of records, or several YAML
documents. Use "-" to read from standard input.

The command exits with an error when any record is invalid.

# Examples

  recordkit validate --schema space_station station.json
  recordkit -f table validate -s space_mission missions.yaml
  cat contact.json | recordkit validate -s alien_contact -`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "schema",
				Aliases:  []string{"s"},
				Required: true,
				Usage:    "Name of the schema to validate against",
			},
			&cli.StringFlag{
				Name:  "input-format",
				Usage: "Input format (json or yaml); inferred from the file extension by default",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() == 0 {
				return errors.New("at least one input file is required")
			}
			if err := a.loadSchemas(ctx); err != nil {
				return err
			}
			s, err := a.engine.Schema(cmd.String("schema"))
			if err != nil {
				return err
			}

			var inFormat serializer.Format
			if f := cmd.String("input-format"); f != "" {
				if inFormat, err = serializer.ParseFormat(f); err != nil {
					return err
				}
			}

			results, err := a.validateFiles(ctx, s, cmd.Args().Slice(), inFormat)
			if err != nil {
				return err
			}
			if err := a.writer().WriteResults(results); err != nil {
				return err
			}

			invalid := 0
			for _, r := range results {
				if !r.Report.Ok() {
					invalid++
				}
			}
			a.log.InfoContext(ctx, "validation finished",
				logger.Schema(s.Name()),
				logger.ErrorCount(invalid),
			)
			if invalid > 0 {
				return fmt.Errorf("%w: %d of %d failed", ErrInvalidRecords, invalid, len(results))
			}
			return nil
		},
	}
}

func (a *app) validateFiles(ctx context.Context, s *schema.Schema, paths []string, format serializer.Format) ([]serializer.Result, error) {
	var results []serializer.Result
	for _, path := range paths {
		records, err := serializer.ReadFile(path, format)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		for i, report := range a.engine.ValidateAll(ctx, records, s) {
			results = append(results, serializer.Result{Source: path, Index: i, Report: report})
		}
	}
	return results, nil
}
