package engine_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/recordkit/pkg/engine"
	"github.com/dmitrymomot/recordkit/pkg/logger"
	"github.com/dmitrymomot/recordkit/pkg/schema"
	"github.com/dmitrymomot/recordkit/pkg/schemadoc"
	"github.com/dmitrymomot/recordkit/pkg/validator"
)

var lander = schema.MustDefine("lander", []schema.Field{
	schema.String("id", schema.MinLength(3)),
	schema.Integer("fuel", schema.Range(0, 100)),
}, nil)

type recorder struct {
	mu      sync.Mutex
	reports []schema.Report
}

func (r *recorder) Observe(report schema.Report, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, _, err := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelDebug))
	require.NoError(t, err)

	rec := &recorder{}
	var calls int
	e := engine.New(
		engine.WithLogger(log),
		engine.WithObserver(rec),
		engine.WithObserver(engine.ObserverFunc(func(schema.Report, time.Duration) { calls++ })),
	)

	ok := e.Validate(context.Background(), map[string]any{"id": "P-1", "fuel": 40}, lander)
	assert.True(t, ok.Ok())

	bad := e.Validate(context.Background(), map[string]any{"id": "P", "fuel": 140}, lander)
	require.False(t, bad.Ok())
	assert.Len(t, bad.Errors(), 2)

	assert.Len(t, rec.reports, 2)
	assert.Equal(t, 2, calls)

	out := buf.String()
	assert.Contains(t, out, `"msg":"record valid"`)
	assert.Contains(t, out, `"msg":"record invalid"`)
	assert.Contains(t, out, `"error_count":2`)
	assert.Contains(t, out, `"component":"engine"`)

	t.Run("nil schema", func(t *testing.T) {
		report := e.Validate(context.Background(), map[string]any{"id": "P-1"}, nil)
		require.False(t, report.Ok())
		require.Len(t, report.Errors(), 1)
		assert.Equal(t, validator.CodeMissingRequired, report.Errors()[0].Code)
		assert.Empty(t, report.Schema())
	})
}

func TestValidateAll(t *testing.T) {
	t.Parallel()

	e := engine.New(engine.WithLogger(logger.Discard()))
	reports := e.ValidateAll(context.Background(), []any{
		map[string]any{"id": "P-1", "fuel": 1},
		"not a record",
		map[string]any{"id": "P-2"},
	}, lander)

	require.Len(t, reports, 3)
	assert.True(t, reports[0].Ok())
	assert.False(t, reports[1].Ok())
	assert.Equal(t, "fuel", reports[2].Errors()[0].Path)
}

func TestValidateNamed(t *testing.T) {
	t.Parallel()

	e := engine.New(
		engine.WithLogger(logger.Discard()),
		engine.WithResolver(schemadoc.NewSet(lander)),
	)

	report, err := e.ValidateNamed(context.Background(), map[string]any{"id": "P-9", "fuel": 0}, "lander")
	require.NoError(t, err)
	assert.True(t, report.Ok())

	_, err = e.ValidateNamed(context.Background(), nil, "rover")
	assert.ErrorIs(t, err, engine.ErrUnknownSchema)

	_, err = engine.New().ValidateNamed(context.Background(), nil, "lander")
	assert.ErrorIs(t, err, engine.ErrNoResolver)
}
