package config

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/recordkit/pkg/environment"
	"github.com/dmitrymomot/recordkit/pkg/logger"
	"github.com/dmitrymomot/recordkit/pkg/serializer"
	"github.com/dmitrymomot/recordkit/pkg/validator"
)

// App is the configuration of the recordkit command. Every variable carries
// the RECORDKIT_ prefix, e.g. RECORDKIT_SCHEMA_DIR.
type App struct {
	Env           environment.Environment `env:"ENV" envDefault:"development"`
	LogLevel      string                  `env:"LOG_LEVEL"`
	LogFormat     string                  `env:"LOG_FORMAT"`
	LogFile       string                  `env:"LOG_FILE"`
	SchemaDir     string                  `env:"SCHEMA_DIR"`
	OutputFormat  string                  `env:"OUTPUT_FORMAT" envDefault:"table"`
	MetricsFile   string                  `env:"METRICS_FILE"`
	WatchDebounce time.Duration           `env:"WATCH_DEBOUNCE" envDefault:"100ms"`
}

// LoadApp reads App from the RECORDKIT_ variables.
func LoadApp(opts ...LoadOption) (App, error) {
	cfg, err := Load[App](append([]LoadOption{WithPrefix(Prefix)}, opts...)...)
	if err != nil {
		return App{}, err
	}
	if err := cfg.validate(); err != nil {
		return App{}, errors.Join(ErrInvalidConfig, err)
	}
	return cfg, nil
}

func (c App) validate() error {
	return validator.Apply(
		validator.Min(Prefix+"WATCH_DEBOUNCE", c.WatchDebounce, time.Millisecond),
		validator.OneOf(Prefix+"OUTPUT_FORMAT", strings.ToLower(c.OutputFormat), serializer.SupportedFormats()),
	)
}

// LoggerOptions translates the logging settings. Level and format default
// to what the environment implies.
func (c App) LoggerOptions() ([]logger.Option, error) {
	opts := []logger.Option{logger.WithEnvironment(c.Env)}
	if c.LogLevel != "" {
		level, err := logger.ParseLevel(c.LogLevel)
		if err != nil {
			return nil, err
		}
		opts = append(opts, logger.WithLevel(level))
	}
	if c.LogFormat != "" {
		format, err := logger.ParseFormat(c.LogFormat)
		if err != nil {
			return nil, err
		}
		opts = append(opts, logger.WithFormat(format))
	}
	if c.LogFile != "" {
		opts = append(opts, logger.WithRotatingFile(c.LogFile, logger.DefaultRotation))
	}
	return opts, nil
}

// Logger builds the logger described by c. The returned function closes
// the log file, if any.
func (c App) Logger() (*slog.Logger, func() error, error) {
	opts, err := c.LoggerOptions()
	if err != nil {
		return nil, nil, err
	}
	return logger.New(opts...)
}
