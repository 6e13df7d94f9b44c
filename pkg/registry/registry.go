package registry

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/dmitrymomot/recordkit/pkg/logger"
	"github.com/dmitrymomot/recordkit/pkg/schema"
	"github.com/dmitrymomot/recordkit/pkg/schemadoc"
)

// Registry maps schema names to schemas. Reads take the read lock; LoadDir
// builds a new document set and swaps it in under the write lock, so readers
// never observe a partially loaded set.
//
// Schemas added with Register are kept across reloads. Schemas loaded from
// documents are replaced as a whole by every LoadDir call.
type Registry struct {
	mu       sync.RWMutex
	static   map[string]*schema.Schema
	loaded   map[string]*schema.Schema
	logger   *slog.Logger
	debounce time.Duration
	onReload func(names []string, err error)
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for load and watch events.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithDebounce sets the quiet period Watch waits for before reloading.
func WithDebounce(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.debounce = d
		}
	}
}

// WithReloadHook registers fn to be called after every reload performed by
// Watch, with the loaded schema names or the load error.
func WithReloadHook(fn func(names []string, err error)) Option {
	return func(r *Registry) {
		r.onReload = fn
	}
}

// DefaultDebounce is the default quiet period of Watch.
const DefaultDebounce = 100 * time.Millisecond

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		static:   make(map[string]*schema.Schema),
		loaded:   make(map[string]*schema.Schema),
		logger:   slog.Default(),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(logger.Component("registry"))
	return r
}

// Register adds s. Names are unique across registered and loaded schemas.
func (r *Registry) Register(s *schema.Schema) error {
	if s == nil {
		return ErrNilSchema
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.has(s.Name()) {
		return fmt.Errorf("%w: %q", ErrDuplicate, s.Name())
	}
	r.static[s.Name()] = s
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(s *schema.Schema) {
	if err := r.Register(s); err != nil {
		panic(err)
	}
}

func (r *Registry) has(name string) bool {
	_, inStatic := r.static[name]
	_, inLoaded := r.loaded[name]
	return inStatic || inLoaded
}

// Get returns the named schema or an error wrapping ErrNotFound.
func (r *Registry) Get(name string) (*schema.Schema, error) {
	s, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return s, nil
}

// Lookup returns the named schema. It implements schemadoc.Resolver.
func (r *Registry) Lookup(name string) (*schema.Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if s, ok := r.static[name]; ok {
		return s, true
	}
	s, ok := r.loaded[name]
	return s, ok
}

// Names returns every schema name in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := slices.Collect(maps.Keys(r.static))
	names = slices.AppendSeq(names, maps.Keys(r.loaded))
	slices.Sort(names)
	return names
}

// Len returns the number of schemas.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.static) + len(r.loaded)
}

// LoadDir reads every schema document under dir and replaces the loaded
// set. Documents may reference each other and registered schemas. On error
// the previous set stays in place.
func (r *Registry) LoadDir(ctx context.Context, dir string) ([]string, error) {
	docs, err := schemadoc.LoadDir(ctx, dir)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	base := schemadoc.NewSet(slices.Collect(maps.Values(r.static))...)
	r.mu.RUnlock()

	for _, d := range docs {
		if _, clash := base[d.Name]; clash {
			return nil, fmt.Errorf("%w: document %q in %s", ErrDuplicate, d.Name, d.Source)
		}
	}

	built, err := schemadoc.BuildAll(docs, base)
	if err != nil {
		return nil, err
	}

	next := make(map[string]*schema.Schema, len(built))
	names := make([]string, 0, len(built))
	for _, s := range built {
		next[s.Name()] = s
		names = append(names, s.Name())
	}
	slices.Sort(names)

	r.mu.Lock()
	for name := range next {
		if _, clash := r.static[name]; clash {
			r.mu.Unlock()
			return nil, fmt.Errorf("%w: document %q registered while loading", ErrDuplicate, name)
		}
	}
	r.loaded = next
	r.mu.Unlock()

	r.logger.InfoContext(ctx, "schemas loaded",
		slog.String("dir", dir),
		slog.Int("count", len(names)),
	)
	return names, nil
}
