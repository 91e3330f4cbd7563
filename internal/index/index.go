// Package index maintains a sqlite database of per-session statistics so
// cross-session queries don't reparse every CSV.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/savantlab/padlab/internal/analysis"
)

// Store is the session statistics index.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the index database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	s := &Store{db: db}
	if err := s.ensureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  session_id TEXT PRIMARY KEY,
  start_time TEXT NOT NULL,
  total_events INTEGER NOT NULL,
  duration_sec REAL NOT NULL,
  mean_speed REAL NOT NULL,
  max_speed REAL NOT NULL,
  median_speed REAL NOT NULL,
  mean_acceleration REAL NOT NULL,
  max_acceleration REAL NOT NULL,
  total_distance REAL NOT NULL,
  indexed_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

// Upsert records or refreshes one session's statistics.
func (s *Store) Upsert(ctx context.Context, stats analysis.Statistics) error {
	const stmt = `
INSERT INTO sessions (session_id, start_time, total_events, duration_sec, mean_speed, max_speed, median_speed, mean_acceleration, max_acceleration, total_distance, indexed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(session_id) DO UPDATE SET
  start_time=excluded.start_time,
  total_events=excluded.total_events,
  duration_sec=excluded.duration_sec,
  mean_speed=excluded.mean_speed,
  max_speed=excluded.max_speed,
  median_speed=excluded.median_speed,
  mean_acceleration=excluded.mean_acceleration,
  max_acceleration=excluded.max_acceleration,
  total_distance=excluded.total_distance,
  indexed_at=excluded.indexed_at;
`
	_, err := s.db.ExecContext(ctx, stmt,
		stats.SessionID,
		stats.StartTime.Format(time.RFC3339),
		stats.TotalEvents,
		stats.DurationSec,
		stats.MeanSpeed,
		stats.MaxSpeed,
		stats.MedianSpeed,
		stats.MeanAcceleration,
		stats.MaxAcceleration,
		stats.TotalDistance,
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert session %s: %w", stats.SessionID, err)
	}
	return nil
}

// List returns every indexed session ordered by start time.
func (s *Store) List(ctx context.Context) ([]analysis.Statistics, error) {
	const query = `
SELECT session_id, start_time, total_events, duration_sec, mean_speed, max_speed, median_speed, mean_acceleration, max_acceleration, total_distance
FROM sessions ORDER BY start_time;
`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var all []analysis.Statistics
	for rows.Next() {
		var st analysis.Statistics
		var startTime string
		if err := rows.Scan(
			&st.SessionID, &startTime, &st.TotalEvents, &st.DurationSec,
			&st.MeanSpeed, &st.MaxSpeed, &st.MedianSpeed,
			&st.MeanAcceleration, &st.MaxAcceleration, &st.TotalDistance,
		); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		st.StartTime, err = time.Parse(time.RFC3339, startTime)
		if err != nil {
			return nil, fmt.Errorf("parse start time %q: %w", startTime, err)
		}
		all = append(all, st)
	}
	return all, rows.Err()
}

// Get looks up one session by ID. The second return reports whether it
// exists.
func (s *Store) Get(ctx context.Context, sessionID string) (analysis.Statistics, bool, error) {
	const query = `
SELECT session_id, start_time, total_events, duration_sec, mean_speed, max_speed, median_speed, mean_acceleration, max_acceleration, total_distance
FROM sessions WHERE session_id = ?;
`
	var st analysis.Statistics
	var startTime string
	err := s.db.QueryRowContext(ctx, query, sessionID).Scan(
		&st.SessionID, &startTime, &st.TotalEvents, &st.DurationSec,
		&st.MeanSpeed, &st.MaxSpeed, &st.MedianSpeed,
		&st.MeanAcceleration, &st.MaxAcceleration, &st.TotalDistance,
	)
	if err == sql.ErrNoRows {
		return analysis.Statistics{}, false, nil
	}
	if err != nil {
		return analysis.Statistics{}, false, fmt.Errorf("get session %s: %w", sessionID, err)
	}
	st.StartTime, err = time.Parse(time.RFC3339, startTime)
	if err != nil {
		return analysis.Statistics{}, false, fmt.Errorf("parse start time %q: %w", startTime, err)
	}
	return st, true, nil
}

// Delete removes a session from the index. Missing sessions are not an
// error.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}
