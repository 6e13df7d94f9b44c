package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/recordkit/pkg/logger"
)

func watchCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Reload schema documents on change and revalidate files",
		ArgsUsage: "[FILE...]",
		Description: `Watch the schema directory and reload its documents whenever one changes.

With --schema and input files, the files are validated after every
successful reload. Runs until interrupted.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "schema",
				Aliases: []string{"s"},
				Usage:   "Schema to revalidate the input files against",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if a.cfg.SchemaDir == "" {
				return errors.New("watch requires a schema directory (--schema-dir or RECORDKIT_SCHEMA_DIR)")
			}
			a.watchSchema = cmd.String("schema")
			a.watchFiles = cmd.Args().Slice()

			if a.watchSchema != "" && len(a.watchFiles) > 0 {
				if err := a.loadSchemas(ctx); err != nil {
					return err
				}
				a.revalidate(ctx)
			}
			return a.registry.Watch(ctx, a.cfg.SchemaDir)
		},
	}
}

// onReload revalidates the watched files after a successful reload.
func (a *app) onReload(ctx context.Context) func([]string, error) {
	return func(_ []string, err error) {
		if err != nil || a.watchSchema == "" || len(a.watchFiles) == 0 {
			return
		}
		a.revalidate(ctx)
	}
}

// revalidate validates the watched files and writes the results. Failures
// are logged and watching continues.
func (a *app) revalidate(ctx context.Context) {
	target := a.watchSchema
	s, err := a.engine.Schema(target)
	if err != nil {
		a.log.WarnContext(ctx, "schema unavailable", logger.Schema(target), logger.Error(err))
		return
	}
	results, err := a.validateFiles(ctx, s, a.watchFiles, "")
	if err != nil {
		a.log.WarnContext(ctx, "revalidation failed", logger.Error(err))
		return
	}
	if err := a.writer().WriteResults(results); err != nil {
		a.log.ErrorContext(ctx, "write results", logger.Error(err))
		return
	}
	a.log.InfoContext(ctx, "files revalidated", logger.Schema(target), slog.Int("records", len(results)))
}
