// Package analysis implements the offline pipeline over stored session
// logs: loading, derived metrics, and cross-session comparison. It only
// reads the files the recorder produced; it never touches a live session.
package analysis

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/savantlab/padlab/internal/session"
)

// ErrNoSessions is returned when a directory holds no loadable session logs.
var ErrNoSessions = errors.New("no sessions found")

// Row is one parsed log row plus its offset from the session start.
type Row struct {
	session.EventRecord
	TimeDelta float64 // seconds since the first event
}

// SessionData holds one loaded session.
type SessionData struct {
	Path    string
	ID      string
	Start   time.Time // timestamp of the first event; zero when empty
	Rows    []Row
	Skipped int // malformed rows (e.g. a crash-truncated last line)
}

// LoadSession reads and parses a single session CSV. Malformed rows are
// skipped and counted rather than failing the load: a crashed capture leaves
// at most one partial trailing line and the rest of the file stays usable.
func LoadSession(path string) (*SessionData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open session %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read session %s: %w", path, err)
		}
		return nil, fmt.Errorf("session %s: empty file", path)
	}
	if header := scanner.Text(); header != session.Header {
		return nil, fmt.Errorf("session %s: unexpected header %q", path, header)
	}

	data := &SessionData{Path: path, ID: session.ID(path)}
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		e, err := session.ParseRow(line)
		if err != nil {
			data.Skipped++
			continue
		}
		if data.Start.IsZero() {
			data.Start = e.Time
		}
		data.Rows = append(data.Rows, Row{
			EventRecord: e,
			TimeDelta:   e.Time.Sub(data.Start).Seconds(),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read session %s: %w", path, err)
	}
	return data, nil
}

// LoadDirectory loads every session-*.csv under dir, sorted by name (which
// sorts by start time). Sessions with zero events are skipped, as are files
// that fail to load; failures come back as warnings, not errors.
func LoadDirectory(dir string) ([]*SessionData, []string, error) {
	pattern := filepath.Join(dir, "session-*.csv")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	sort.Strings(matches)

	var sessions []*SessionData
	var warnings []string
	for _, path := range matches {
		data, err := LoadSession(path)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		if len(data.Rows) == 0 {
			continue
		}
		sessions = append(sessions, data)
	}
	if len(sessions) == 0 {
		return nil, warnings, fmt.Errorf("%w in %s", ErrNoSessions, dir)
	}
	return sessions, warnings, nil
}

// Duration returns the session length in seconds, from first to last event.
func (s *SessionData) Duration() float64 {
	if len(s.Rows) == 0 {
		return 0
	}
	return s.Rows[len(s.Rows)-1].TimeDelta
}

// EventTypeCounts tallies rows per event kind.
func (s *SessionData) EventTypeCounts() map[session.Kind]int {
	counts := make(map[session.Kind]int)
	for _, r := range s.Rows {
		counts[r.Kind]++
	}
	return counts
}

// PointerRows returns move and drag rows, the ones carrying a position.
func (s *SessionData) PointerRows() []Row {
	return s.filter(func(r Row) bool { return r.Kind.IsPointer() && r.Pos != nil })
}

// DragRows returns only the pointer-drag rows.
func (s *SessionData) DragRows() []Row {
	return s.filter(func(r Row) bool { return r.Kind.IsDrag() && r.Pos != nil })
}

// ScrollRows returns the scroll-wheel rows.
func (s *SessionData) ScrollRows() []Row {
	return s.filter(func(r Row) bool { return r.Kind == session.KindScrollWheel })
}

// TouchRows returns the per-finger touch rows.
func (s *SessionData) TouchRows() []Row {
	return s.filter(func(r Row) bool { return r.Kind == session.KindTouch && r.Touch != nil })
}

// GestureRows returns magnify, rotate, and swipe rows.
func (s *SessionData) GestureRows() []Row {
	return s.filter(func(r Row) bool {
		switch r.Kind {
		case session.KindMagnify, session.KindRotate, session.KindSwipe:
			return true
		}
		return false
	})
}

func (s *SessionData) filter(keep func(Row) bool) []Row {
	var out []Row
	for _, r := range s.Rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Summary is the one-line description used by listings.
func (s *SessionData) Summary() string {
	return fmt.Sprintf("%s  %d events  %.1fs", s.ID, len(s.Rows), s.Duration())
}
