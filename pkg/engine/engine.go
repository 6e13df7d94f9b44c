// Package engine is the entry point for validating records. It wraps
// schema.Validate with logging, schema lookup by name and outcome
// observation.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/recordkit/pkg/logger"
	"github.com/dmitrymomot/recordkit/pkg/schema"
	"github.com/dmitrymomot/recordkit/pkg/schemadoc"
)

// ErrUnknownSchema is returned by ValidateNamed for names the resolver does
// not know.
var ErrUnknownSchema = errors.New("unknown schema")

// ErrNoResolver is returned by ValidateNamed when the engine has no resolver.
var ErrNoResolver = errors.New("engine has no schema resolver")

// Observer receives the outcome of every validation.
type Observer interface {
	Observe(report schema.Report, elapsed time.Duration)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(report schema.Report, elapsed time.Duration)

func (f ObserverFunc) Observe(report schema.Report, elapsed time.Duration) { f(report, elapsed) }

// Engine validates records and reports outcomes. It holds no per-call state
// and is safe for concurrent use.
type Engine struct {
	logger    *slog.Logger
	observers []Observer
	resolver  schemadoc.Resolver
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver adds an observer. Observers run in registration order.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observers = append(e.observers, o)
		}
	}
}

// WithResolver sets where ValidateNamed looks schemas up, typically a
// registry.
func WithResolver(r schemadoc.Resolver) Option {
	return func(e *Engine) { e.resolver = r }
}

// New creates an engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(logger.Component("engine"))
	return e
}

// Validate validates raw against s. Valid outcomes are logged at debug
// level, invalid ones at info level.
func (e *Engine) Validate(ctx context.Context, raw any, s *schema.Schema) schema.Report {
	start := e.now()
	report := schema.Validate(raw, s)
	elapsed := e.now().Sub(start)

	if report.Ok() {
		e.logger.DebugContext(ctx, "record valid",
			logger.Schema(report.Schema()),
			logger.Duration(elapsed),
		)
	} else {
		errs := report.Errors()
		e.logger.InfoContext(ctx, "record invalid",
			logger.Schema(report.Schema()),
			logger.ErrorCount(len(errs)),
			logger.Errors(errs),
			logger.Duration(elapsed),
		)
	}

	for _, o := range e.observers {
		o.Observe(report, elapsed)
	}
	return report
}

// ValidateAll validates every element of raws against s, in order.
func (e *Engine) ValidateAll(ctx context.Context, raws []any, s *schema.Schema) []schema.Report {
	reports := make([]schema.Report, len(raws))
	for i, raw := range raws {
		reports[i] = e.Validate(ctx, raw, s)
	}
	return reports
}

// ValidateNamed looks the schema up by name and validates raw against it.
func (e *Engine) ValidateNamed(ctx context.Context, raw any, name string) (schema.Report, error) {
	s, err := e.Schema(name)
	if err != nil {
		return schema.Report{}, err
	}
	return e.Validate(ctx, raw, s), nil
}

// Schema resolves name through the configured resolver.
func (e *Engine) Schema(name string) (*schema.Schema, error) {
	if e.resolver == nil {
		return nil, ErrNoResolver
	}
	s, ok := e.resolver.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, name)
	}
	return s, nil
}
