package planregistry

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

type Registry struct {
	path     string
	current  atomic.Pointer[Snapshot]
	logger   *slog.Logger
	onReload func(err error)
}

type Option func(*Registry)

func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// WithReloadHook is called after every reload attempt, with nil on success.
func WithReloadHook(fn func(err error)) Option {
	return func(r *Registry) { r.onReload = fn }
}

// Open loads the catalog at path.
func Open(path string, opts ...Option) (*Registry, error) {
	r := newRegistry(path, opts...)
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewStatic wraps an in-memory catalog; Reload and Watch are no-ops.
func NewStatic(c Catalog, opts ...Option) *Registry {
	r := newRegistry("", opts...)
	r.current.Store(newSnapshot(c))
	return r
}

func newRegistry(path string, opts ...Option) *Registry {
	r := &Registry{path: path, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Snapshot returns the current catalog. A calculation should take one snapshot
// and use it throughout so a reload never changes plans mid-way.
func (r *Registry) Snapshot() *Snapshot {
	if r == nil {
		return nil
	}
	return r.current.Load()
}

// Reload re-reads the catalog file. On failure the previous snapshot stays.
func (r *Registry) Reload() error {
	if r.path == "" {
		return nil
	}
	err := r.reload()
	if r.onReload != nil {
		r.onReload(err)
	}
	return err
}

func (r *Registry) reload() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("read fare catalog: %w", err)
	}
	c, err := ParseCatalogFile(data, r.path)
	if err != nil {
		return err
	}
	r.current.Store(newSnapshot(c))
	r.logger.Info("fare catalog loaded", "path", r.path, "locations", len(c.Locations))
	return nil
}

// Watch reloads the catalog whenever its file changes, until ctx is done.
// The directory is watched because editors often replace files on save.
func (r *Registry) Watch(ctx context.Context) error {
	if r.path == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	target := filepath.Clean(r.path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if err := r.Reload(); err != nil {
				r.logger.Warn("fare catalog reload failed, keeping previous", "path", r.path, "error", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("fare catalog watcher error", "error", err)
		}
	}
}
