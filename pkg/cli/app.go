package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/recordkit/pkg/catalog"
	"github.com/dmitrymomot/recordkit/pkg/config"
	"github.com/dmitrymomot/recordkit/pkg/engine"
	"github.com/dmitrymomot/recordkit/pkg/environment"
	"github.com/dmitrymomot/recordkit/pkg/logger"
	"github.com/dmitrymomot/recordkit/pkg/metrics"
	"github.com/dmitrymomot/recordkit/pkg/registry"
	"github.com/dmitrymomot/recordkit/pkg/serializer"
)

const name = "recordkit"

var (
	// overridden during build with ldflags
	version = "dev"
	commit  = "unknown"
)

// ErrInvalidRecords is returned by validate when at least one record fails.
var ErrInvalidRecords = errors.New("invalid records")

// app holds the state shared by every command of one run.
type app struct {
	stdout    io.Writer
	logOutput io.Writer
	environ   map[string]string

	cfg      config.App
	log      *slog.Logger
	closeLog func() error
	registry *registry.Registry
	gatherer *prometheus.Registry
	engine   *engine.Engine
	loaded   bool

	watchSchema string
	watchFiles  []string
}

// Option configures a run.
type Option func(*app)

// WithStdout sets where command output goes.
func WithStdout(w io.Writer) Option {
	return func(a *app) { a.stdout = w }
}

// WithLogOutput sets where logs go unless a log file is configured.
func WithLogOutput(w io.Writer) Option {
	return func(a *app) { a.logOutput = w }
}

// WithEnviron replaces the process environment as the configuration source.
func WithEnviron(vars map[string]string) Option {
	return func(a *app) { a.environ = vars }
}

// Run executes the command line args, where args[0] is the program name.
func Run(ctx context.Context, args []string, opts ...Option) error {
	return NewCommand(opts...).Run(ctx, args)
}

// NewCommand builds the root command.
func NewCommand(opts ...Option) *cli.Command {
	a := &app{stdout: os.Stdout}
	for _, opt := range opts {
		opt(a)
	}

	return &cli.Command{
		Name:                  name,
		Version:               fmt.Sprintf("%s (%s)", version, commit),
		Usage:                 "Validate records against declarative schemas",
		EnableShellCompletion: true,
		Writer:                a.stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Read configuration variables from a dotenv file",
			},
			&cli.StringFlag{
				Name:    "schema-dir",
				Aliases: []string{"d"},
				Usage:   "Directory of YAML schema documents (env: RECORDKIT_SCHEMA_DIR)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: json, yaml or table (env: RECORDKIT_OUTPUT_FORMAT)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn or error (env: RECORDKIT_LOG_LEVEL)",
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write Prometheus metrics to this file on exit (env: RECORDKIT_METRICS_FILE)",
			},
		},
		Before: a.before,
		After:  a.after,
		Commands: []*cli.Command{
			validateCmd(a),
			watchCmd(a),
			schemaCmd(a),
		},
	}
}

// before loads configuration, applies flag overrides and wires the logger,
// registry and engine.
func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var loadOpts []config.LoadOption
	if f := cmd.String("env-file"); f != "" {
		loadOpts = append(loadOpts, config.WithEnvFiles(f))
	}
	if a.environ != nil {
		loadOpts = append(loadOpts, config.WithEnviron(a.environ))
	}
	cfg, err := config.LoadApp(loadOpts...)
	if err != nil {
		return ctx, err
	}

	overrides := map[string]*string{
		"schema-dir":   &cfg.SchemaDir,
		"format":       &cfg.OutputFormat,
		"log-level":    &cfg.LogLevel,
		"metrics-file": &cfg.MetricsFile,
	}
	for flag, field := range overrides {
		if cmd.IsSet(flag) {
			*field = cmd.String(flag)
		}
	}
	if _, err := serializer.ParseFormat(cfg.OutputFormat); err != nil {
		return ctx, err
	}
	a.cfg = cfg
	ctx = environment.WithContext(ctx, cfg.Env)

	logOpts, err := cfg.LoggerOptions()
	if err != nil {
		return ctx, err
	}
	if a.logOutput != nil {
		logOpts = append(logOpts, logger.WithOutput(a.logOutput))
	}
	log, closeLog, err := logger.New(logOpts...)
	if err != nil {
		return ctx, err
	}
	a.log, a.closeLog = log, closeLog
	log.DebugContext(ctx, "starting", slog.String("version", version), slog.String("commit", commit))

	regOpts := []registry.Option{
		registry.WithLogger(log),
		registry.WithDebounce(cfg.WatchDebounce),
		registry.WithReloadHook(a.onReload(ctx)),
	}
	if cfg.SchemaDir == "" {
		a.registry = catalog.Registry(regOpts...)
	} else {
		a.registry = registry.New(regOpts...)
	}

	a.gatherer = prometheus.NewRegistry()
	collector, err := metrics.New(a.gatherer)
	if err != nil {
		return ctx, err
	}
	a.engine = engine.New(
		engine.WithLogger(log),
		engine.WithObserver(collector),
		engine.WithResolver(a.registry),
	)

	return ctx, nil
}

func (a *app) after(ctx context.Context, _ *cli.Command) error {
	var errs []error
	if a.cfg.MetricsFile != "" && a.gatherer != nil {
		if err := metrics.WriteFile(a.gatherer, a.cfg.MetricsFile); err != nil {
			errs = append(errs, err)
		} else {
			a.log.DebugContext(ctx, "metrics written", logger.File(a.cfg.MetricsFile))
		}
	}
	if a.closeLog != nil {
		if err := a.closeLog(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// loadSchemas adds the documents of the schema directory, once.
func (a *app) loadSchemas(ctx context.Context) error {
	if a.loaded || a.cfg.SchemaDir == "" {
		return nil
	}
	if _, err := a.registry.LoadDir(ctx, a.cfg.SchemaDir); err != nil {
		return fmt.Errorf("load schemas from %s: %w", a.cfg.SchemaDir, err)
	}
	a.loaded = true
	return nil
}

func (a *app) writer() *serializer.Writer {
	format, _ := serializer.ParseFormat(a.cfg.OutputFormat)
	return serializer.NewWriter(format, a.stdout)
}
