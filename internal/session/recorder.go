// Package session provides durable, append-only recording of one capture
// session's raw input events to a CSV log, with an explicit open/closed
// lifecycle. Every Recorder is independently constructed and owns its file
// handle exclusively; nothing in this package is process-global.
package session

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// State is the recorder lifecycle state.
type State int

const (
	StateNotStarted State = iota
	StateOpen
	StatePaused
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not started"
	case StateOpen:
		return "open"
	case StatePaused:
		return "paused"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Options configures a Recorder.
type Options struct {
	// Dir is the directory session logs are written to. Created if absent.
	Dir string
	// ExportDir, when set, receives a copy of the CSV and snapshot on a
	// non-discarding Finalize.
	ExportDir string
	// Clock overrides time.Now, for tests.
	Clock func() time.Time
	// OpenFile overrides os.OpenFile for the session log, for tests.
	OpenFile func(name string, flag int, perm os.FileMode) (io.WriteCloser, error)
}

// Recorder owns the lifecycle of one recording session:
// NotStarted -> Open -> {Paused <-> Open} -> Closed. Closed is terminal.
type Recorder struct {
	dir       string
	exportDir string
	clock     func() time.Time
	openFile  func(name string, flag int, perm os.FileMode) (io.WriteCloser, error)

	state     State
	id        string
	path      string
	file      io.WriteCloser
	startedAt time.Time
	resumedAt time.Time
	active    time.Duration

	events  int
	dropped int
	last    string
}

// NewRecorder constructs a recorder in the NotStarted state.
func NewRecorder(opts Options) *Recorder {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	open := opts.OpenFile
	if open == nil {
		open = func(name string, flag int, perm os.FileMode) (io.WriteCloser, error) {
			return os.OpenFile(name, flag, perm)
		}
	}
	return &Recorder{
		dir:       opts.Dir,
		exportDir: opts.ExportDir,
		clock:     clock,
		openFile:  open,
		id:        uuid.New().String(),
	}
}

// Start allocates the session log, writes the header row, and opens the file
// for continuous appending. On failure no partial state is left open and the
// recorder remains NotStarted.
func (r *Recorder) Start() error {
	if r.state != StateNotStarted {
		return ErrAlreadyStarted
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create session directory %s: %w", r.dir, ErrStorageUnavailable)
	}

	// The filename is keyed to the start time at second granularity; bump
	// the stamp until the candidate is free so two sessions started within
	// the same second never collide.
	start := r.clock()
	stamp := start
	var f io.WriteCloser
	var path string
	for {
		path = filepath.Join(r.dir, logName(stamp))
		var err error
		f, err = r.openFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			break
		}
		if os.IsExist(err) {
			stamp = stamp.Add(time.Second)
			continue
		}
		return fmt.Errorf("open session log %s: %w", path, ErrStorageUnavailable)
	}

	if _, err := io.WriteString(f, Header+"\n"); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write session header: %w", ErrStorageUnavailable)
	}

	r.state = StateOpen
	r.path = path
	r.file = f
	r.startedAt = start
	r.resumedAt = start
	return nil
}

// Record serializes the event as one row and appends it immediately, so a
// crash loses at most the last unflushed line. No-op unless the recorder is
// Open. If the underlying handle has gone bad, one silent reopen-and-retry
// is attempted; after that the event is dropped and ErrWriteFailed is
// reported without interrupting the input path.
func (r *Recorder) Record(e EventRecord) error {
	if r.state != StateOpen {
		return nil
	}
	if e.Time.IsZero() {
		e.Time = r.clock()
	}

	row := e.MarshalRow()
	if _, err := r.file.Write(row); err != nil {
		if err := r.reopenAndRewrite(row); err != nil {
			r.dropped++
			return fmt.Errorf("%w: %s", ErrWriteFailed, e.Kind)
		}
	}

	r.events++
	r.last = e.Describe()
	return nil
}

// reopenAndRewrite closes the (presumed bad) handle, reopens the log for
// append, and retries the row exactly once.
func (r *Recorder) reopenAndRewrite(row []byte) error {
	r.file.Close()
	f, err := r.openFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	r.file = f
	_, err = f.Write(row)
	return err
}

// Pause stops Record from accepting events without closing the file handle.
func (r *Recorder) Pause() {
	if r.state != StateOpen {
		return
	}
	r.active += r.clock().Sub(r.resumedAt)
	r.state = StatePaused
}

// Resume re-enables Record after a Pause.
func (r *Recorder) Resume() {
	if r.state != StatePaused {
		return
	}
	r.resumedAt = r.clock()
	r.state = StateOpen
}

// Finalize flushes and closes the session log. Idempotent: the second call
// is a no-op. When discard is true the session is abandoned (the file is
// retained as-is but no snapshot, manifest, or export copy is produced).
// Otherwise snapshot, when non-nil, is invoked exactly once with the sibling
// .png path; a snapshot failure is non-fatal and leaves the log untouched.
func (r *Recorder) Finalize(discard bool, snapshot func(path string) error) error {
	switch r.state {
	case StateNotStarted, StateClosed:
		return nil
	case StateOpen:
		r.active += r.clock().Sub(r.resumedAt)
	}
	r.state = StateClosed

	closeErr := r.file.Close()
	r.file = nil
	if discard {
		return closeErr
	}

	var firstErr error
	if closeErr != nil {
		firstErr = fmt.Errorf("close session log: %w", closeErr)
	}

	if snapshot != nil {
		if err := snapshot(SnapshotPath(r.path)); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%w: %v", ErrSnapshotFailed, err)
		}
	}

	if err := writeManifest(ManifestPath(r.path), Manifest{
		ID:              r.id,
		SessionID:       ID(r.path),
		StartedAtLocal:  r.startedAt.Format(TimestampLayout),
		EndedAtLocal:    r.clock().Format(TimestampLayout),
		DurationSeconds: r.active.Seconds(),
		EventCount:      r.events,
		DroppedCount:    r.dropped,
	}); err != nil && firstErr == nil {
		firstErr = err
	}

	if r.exportDir != "" {
		if err := r.export(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// export copies the session artifacts to the user-facing export location.
func (r *Recorder) export() error {
	if err := os.MkdirAll(r.exportDir, 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	paths := []string{r.path, SnapshotPath(r.path), ManifestPath(r.path)}
	for _, src := range paths {
		if _, err := os.Stat(src); err != nil {
			continue // optional artifact not produced
		}
		if err := copyFile(src, r.exportDir); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, destDir string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}
	dest := filepath.Join(destDir, filepath.Base(src))
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("copy to %s: %w", dest, err)
	}
	return nil
}

// State returns the current lifecycle state.
func (r *Recorder) State() State { return r.state }

// ID returns the unique identifier for this recorder instance.
func (r *Recorder) ID() string { return r.id }

// Path returns the session log path. Empty before Start.
func (r *Recorder) Path() string { return r.path }

// StartTime returns the session start time. Zero before Start.
func (r *Recorder) StartTime() time.Time { return r.startedAt }

// EventCount returns the number of rows successfully appended.
func (r *Recorder) EventCount() int { return r.events }

// DroppedCount returns the number of events lost to write failures.
func (r *Recorder) DroppedCount() int { return r.dropped }

// LastEvent returns a description of the most recent recorded event.
func (r *Recorder) LastEvent() string { return r.last }

// Duration returns the accumulated active recording time, excluding time
// spent paused.
func (r *Recorder) Duration() time.Duration {
	if r.state == StateOpen {
		return r.active + r.clock().Sub(r.resumedAt)
	}
	return r.active
}
