// Package watch observes a session directory and hands finished session
// logs to a processing callback. It powers the watch-and-process loop:
// leave it running, record sessions, and each one is analyzed as soon as
// its file settles.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long a session file must stay quiet before it is
// considered complete. Recorders append continuously while a session is
// live, so every write pushes the deadline out.
const DefaultSettle = 2 * time.Second

// Options configures a Watcher.
type Options struct {
	// Dir is the session directory to observe.
	Dir string
	// Settle overrides DefaultSettle when positive.
	Settle time.Duration
	// Process is invoked once per settled session log.
	Process func(path string) error
	// Warn receives non-fatal errors (watcher hiccups, process failures).
	// Nil disables warning delivery.
	Warn func(err error)
}

// Watcher observes one directory for finished session logs.
type Watcher struct {
	opts     Options
	settle   time.Duration
	pending  map[string]time.Time
	seen     map[string]bool
	interval time.Duration
}

// New prepares a watcher. Files already present in the directory are
// remembered and never reprocessed; only sessions recorded after Run
// starts are handed to Process.
func New(opts Options) (*Watcher, error) {
	w := &Watcher{
		opts:     opts,
		settle:   opts.Settle,
		pending:  make(map[string]time.Time),
		seen:     make(map[string]bool),
		interval: 250 * time.Millisecond,
	}
	if w.settle <= 0 {
		w.settle = DefaultSettle
	}

	existing, err := filepath.Glob(filepath.Join(opts.Dir, "session-*.csv"))
	if err != nil {
		return nil, err
	}
	for _, path := range existing {
		w.seen[path] = true
	}
	return w, nil
}

// isSessionLog reports whether path names a session CSV in the watched dir.
func (w *Watcher) isSessionLog(path string) bool {
	if filepath.Dir(path) != filepath.Clean(w.opts.Dir) {
		return false
	}
	ok, _ := filepath.Match("session-*.csv", filepath.Base(path))
	return ok
}

func (w *Watcher) warn(err error) {
	if w.opts.Warn != nil && err != nil {
		w.opts.Warn(err)
	}
}

// Run watches until ctx is cancelled. Watcher errors and process failures
// are reported through Warn and never stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := os.MkdirAll(w.opts.Dir, 0o755); err != nil {
		return err
	}
	if err := watcher.Add(w.opts.Dir); err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !w.isSessionLog(event.Name) {
				continue
			}
			if w.seen[event.Name] {
				continue
			}
			w.pending[event.Name] = time.Now().Add(w.settle)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.warn(err)

		case now := <-ticker.C:
			w.flush(now)
		}
	}
}

// flush processes every pending file whose settle deadline has passed.
func (w *Watcher) flush(now time.Time) {
	for path, deadline := range w.pending {
		if now.Before(deadline) {
			continue
		}
		delete(w.pending, path)
		w.seen[path] = true
		if w.opts.Process == nil {
			continue
		}
		if err := w.opts.Process(path); err != nil {
			w.warn(err)
		}
	}
}
