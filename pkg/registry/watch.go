package registry

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dmitrymomot/recordkit/pkg/logger"
	"github.com/dmitrymomot/recordkit/pkg/schemadoc"
)

// Watch loads dir, then reloads it whenever a schema document under it
// changes, until ctx is done. Bursts of events are coalesced into a single
// reload after the debounce period. A failed reload is logged and keeps the
// previous set. Watch returns the error of the initial load, if any.
func (r *Registry) Watch(ctx context.Context, dir string) error {
	if _, err := r.LoadDir(ctx, dir); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := addDirs(w, dir); err != nil {
		return err
	}

	d := newDebouncer(r.debounce)
	defer d.stop()

	r.logger.InfoContext(ctx, "watching schema documents",
		slog.String("dir", dir),
		logger.Duration(r.debounce),
	)

	reload := func() {
		names, err := r.LoadDir(ctx, dir)
		if err != nil {
			r.logger.ErrorContext(ctx, "schema reload failed", logger.Error(err))
		}
		if r.onReload != nil {
			r.onReload(names, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !hidden(event.Name) {
					if err := addDirs(w, event.Name); err != nil {
						r.logger.WarnContext(ctx, "cannot watch new directory", logger.Error(err))
					}
				}
			}
			if !relevant(event) {
				continue
			}
			r.logger.DebugContext(ctx, "schema document changed",
				slog.String("file", event.Name),
				slog.String("op", event.Op.String()),
			)
			d.trigger(reload)

		case err, ok := <-w.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			r.logger.ErrorContext(ctx, "watcher error", logger.Error(err))
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	return schemadoc.IsDocumentFile(event.Name)
}

func hidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// addDirs watches root and every non-hidden directory below it.
func addDirs(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && hidden(path) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watch %q: %w", path, err)
		}
		return nil
	})
}

// debouncer runs the most recent callback once no trigger arrived for
// interval.
type debouncer struct {
	interval time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{interval: interval}
}

func (d *debouncer) trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		stopped := d.stopped
		d.mu.Unlock()
		if !stopped {
			fn()
		}
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
