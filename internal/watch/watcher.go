// Package watch reports when a component's version history may have changed.
// It watches either a log document or a repository's refs with fsnotify and
// collapses bursts of events into a single change notification.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ErrClosed is returned by Run after Close.
var ErrClosed = errors.New("watcher closed")

// Watcher observes files and directories and calls back once their contents
// settle after a change.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *zap.Logger

	// filters maps a watched directory to the file names of interest in it.
	// A nil set means every entry counts.
	filters map[string]map[string]bool

	mu     sync.Mutex
	closed bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger used for event tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New creates a Watcher that waits debounce after the last event before
// reporting a change.
func New(debounce time.Duration, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		debounce: debounce,
		logger:   zap.NewNop(),
		filters:  make(map[string]map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// AddFile watches a single file. The parent directory is watched instead of
// the file itself so that editors replacing the file by rename are noticed.
func (w *Watcher) AddFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	dir := filepath.Dir(abs)

	names, seen := w.filters[dir]
	if seen && names == nil {
		// Already watching everything in dir.
		return nil
	}
	if !seen {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		names = make(map[string]bool)
		w.filters[dir] = names
	}
	names[filepath.Base(abs)] = true

	w.logger.Debug("watching file", zap.String("path", abs))
	return nil
}

// AddDir watches every entry of a directory. Subdirectories are not followed.
func (w *Watcher) AddDir(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	if _, seen := w.filters[abs]; !seen {
		if err := w.watcher.Add(abs); err != nil {
			return fmt.Errorf("watching %s: %w", abs, err)
		}
	}
	w.filters[abs] = nil

	w.logger.Debug("watching directory", zap.String("path", abs))
	return nil
}

// AddGitDir watches the places where new commits and tags show up: HEAD,
// packed-refs and the loose refs directories. Missing refs directories are
// skipped.
func (w *Watcher) AddGitDir(gitDir string) error {
	for _, name := range []string{"HEAD", "packed-refs"} {
		if err := w.AddFile(filepath.Join(gitDir, name)); err != nil {
			return err
		}
	}
	for _, sub := range []string{"refs/heads", "refs/tags"} {
		dir := filepath.Join(gitDir, filepath.FromSlash(sub))
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		if err := w.AddDir(dir); err != nil {
			return err
		}
	}
	return nil
}

// Watched returns the directories being watched.
func (w *Watcher) Watched() []string {
	return w.watcher.WatchList()
}

// Run delivers change notifications to onChange until ctx is cancelled or
// onChange returns an error. All Add calls must happen before Run.
// Run closes the watcher when it returns; a cancelled context is not
// reported as an error.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	defer w.Close()

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
		}
	}
	defer stopTimer()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return ErrClosed
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("change detected",
				zap.String("path", event.Name),
				zap.String("op", event.Op.String()))

			if w.debounce <= 0 {
				if err := onChange(ctx); err != nil {
					return err
				}
				continue
			}
			stopTimer()
			timer = time.NewTimer(w.debounce)
			pending = timer.C

		case <-pending:
			pending = nil
			if err := onChange(ctx); err != nil {
				return err
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return ErrClosed
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

// relevant reports whether event touches something being watched.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}
	names, ok := w.filters[filepath.Dir(event.Name)]
	if !ok {
		// Events for a watched directory itself.
		_, ok = w.filters[event.Name]
		return ok
	}
	return names == nil || names[filepath.Base(event.Name)]
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.watcher.Close()
}
