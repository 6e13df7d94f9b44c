package registry_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/recordkit/pkg/registry"
	"github.com/dmitrymomot/recordkit/pkg/schema"
	"github.com/dmitrymomot/recordkit/pkg/schemadoc"
)

const crewDoc = `
name: crew_member
fields:
  - name: name
    type: string
    min_length: 2
`

const teamDoc = `
name: team
fields:
  - name: lead
    type: record
    schema: crew_member
`

func writeDoc(t *testing.T, dir, file, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0o600))
}

func TestRegister(t *testing.T) {
	t.Parallel()

	r := registry.New()
	station := schema.MustDefine("station", []schema.Field{schema.String("id")}, nil)
	lander := schema.MustDefine("lander", []schema.Field{schema.String("id")}, nil)

	require.NoError(t, r.Register(station))
	require.NoError(t, r.Register(lander))
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"lander", "station"}, r.Names())

	got, err := r.Get("station")
	require.NoError(t, err)
	assert.Same(t, station, got)

	_, err = r.Get("rover")
	assert.ErrorIs(t, err, registry.ErrNotFound)

	assert.ErrorIs(t, r.Register(station), registry.ErrDuplicate)
	assert.ErrorIs(t, r.Register(nil), registry.ErrNilSchema)
	assert.Panics(t, func() { r.MustRegister(lander) })

	var _ schemadoc.Resolver = r
}

func TestLoadDir(t *testing.T) {
	t.Parallel()

	t.Run("documents reference each other", func(t *testing.T) {
		dir := t.TempDir()
		writeDoc(t, dir, "team.yaml", teamDoc)
		writeDoc(t, dir, "crew.yaml", crewDoc)

		r := registry.New()
		names, err := r.LoadDir(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"crew_member", "team"}, names)

		team, err := r.Get("team")
		require.NoError(t, err)
		report := schema.Validate(map[string]any{"lead": map[string]any{"name": "X"}}, team)
		require.False(t, report.Ok())
		assert.Equal(t, "lead.name", report.Errors()[0].Path)
	})

	t.Run("documents reference registered schemas", func(t *testing.T) {
		dir := t.TempDir()
		writeDoc(t, dir, "team.yaml", teamDoc)

		r := registry.New()
		r.MustRegister(schema.MustDefine("crew_member", []schema.Field{schema.String("name")}, nil))

		_, err := r.LoadDir(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"crew_member", "team"}, r.Names())
	})

	t.Run("document clashing with registered schema", func(t *testing.T) {
		dir := t.TempDir()
		writeDoc(t, dir, "crew.yaml", crewDoc)

		r := registry.New()
		r.MustRegister(schema.MustDefine("crew_member", []schema.Field{schema.String("name")}, nil))

		_, err := r.LoadDir(context.Background(), dir)
		assert.ErrorIs(t, err, registry.ErrDuplicate)
	})

	t.Run("reload replaces the document set", func(t *testing.T) {
		dir := t.TempDir()
		writeDoc(t, dir, "crew.yaml", crewDoc)
		writeDoc(t, dir, "team.yaml", teamDoc)

		r := registry.New()
		_, err := r.LoadDir(context.Background(), dir)
		require.NoError(t, err)

		require.NoError(t, os.Remove(filepath.Join(dir, "team.yaml")))
		_, err = r.LoadDir(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"crew_member"}, r.Names())
	})

	t.Run("failed load keeps previous set", func(t *testing.T) {
		dir := t.TempDir()
		writeDoc(t, dir, "crew.yaml", crewDoc)

		r := registry.New()
		_, err := r.LoadDir(context.Background(), dir)
		require.NoError(t, err)

		writeDoc(t, dir, "broken.yaml", "name: broken\nfields: [")
		_, err = r.LoadDir(context.Background(), dir)
		require.ErrorIs(t, err, schemadoc.ErrInvalidDocument)
		assert.Equal(t, []string{"crew_member"}, r.Names())
	})
}

func TestConcurrentReads(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, dir, "crew.yaml", crewDoc)

	r := registry.New()
	_, err := r.LoadDir(context.Background(), dir)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				s, err := r.Get("crew_member")
				if assert.NoError(t, err) {
					schema.Validate(map[string]any{"name": "Sarah"}, s)
				}
			}
		}()
	}
	for range 5 {
		_, err := r.LoadDir(context.Background(), dir)
		require.NoError(t, err)
	}
	wg.Wait()
}

func TestRegisterDuringLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, dir, "crew.yaml", crewDoc)
	member := schema.MustDefine("crew_member", []schema.Field{schema.String("name")}, nil)

	for range 50 {
		r := registry.New()

		var (
			wg      sync.WaitGroup
			regErr  error
			loadErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			regErr = r.Register(member)
		}()
		go func() {
			defer wg.Done()
			_, loadErr = r.LoadDir(context.Background(), dir)
		}()
		wg.Wait()

		failed := 0
		for _, err := range []error{regErr, loadErr} {
			if err != nil {
				assert.ErrorIs(t, err, registry.ErrDuplicate)
				failed++
			}
		}
		assert.Equal(t, 1, failed, "exactly one of the two must lose")
		assert.Equal(t, []string{"crew_member"}, r.Names())
		assert.Equal(t, 1, r.Len())
	}
}

func TestWatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, dir, "crew.yaml", crewDoc)

	var (
		mu      sync.Mutex
		reloads [][]string
	)
	r := registry.New(
		registry.WithDebounce(20*time.Millisecond),
		registry.WithReloadHook(func(names []string, err error) {
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				reloads = append(reloads, names)
			}
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Watch(ctx, dir) }()

	require.Eventually(t, func() bool {
		_, err := r.Get("crew_member")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		writeDoc(t, dir, "team.yaml", teamDoc)
		_, err := r.Get("team")
		return err == nil
	}, 5*time.Second, 100*time.Millisecond)

	mu.Lock()
	assert.NotEmpty(t, reloads)
	mu.Unlock()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatch_InitialLoadError(t *testing.T) {
	t.Parallel()

	r := registry.New()
	err := r.Watch(context.Background(), filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
