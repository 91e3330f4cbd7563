// Package report assembles a session's analysis results into a single
// renderable document.
package report

import (
	"time"

	"github.com/savantlab/padlab/internal/analysis"
	"github.com/savantlab/padlab/internal/session"
)

// SessionReport is the complete, renderable summary of one session.
type SessionReport struct {
	Session    Meta                     `json:"session"`
	Statistics analysis.Statistics      `json:"statistics"`
	Reversals  analysis.ReversalSummary `json:"reversals"`
	Events     map[session.Kind]int     `json:"events"`
	Artifacts  Artifacts                `json:"artifacts"`
	Warnings   []string                 `json:"warnings,omitempty"`
}

// Meta holds summary metadata about the session.
type Meta struct {
	ID          string    `json:"id"`
	StartTime   time.Time `json:"start_time"`
	DurationSec float64   `json:"duration_sec"`
	LogPath     string    `json:"log_path"`
	SkippedRows int       `json:"skipped_rows,omitempty"`
}

// Artifacts names the files the pipeline produced for this session.
type Artifacts struct {
	MetricsCSV string `json:"metrics_csv,omitempty"`
	StatsJSON  string `json:"stats_json,omitempty"`
	Overview   string `json:"overview_png,omitempty"`
	Snapshot   string `json:"snapshot_png,omitempty"`
}

// Build assembles a report from a loaded session and its statistics.
func Build(data *analysis.SessionData, stats analysis.Statistics, warnings []string) *SessionReport {
	return &SessionReport{
		Session: Meta{
			ID:          data.ID,
			StartTime:   data.Start,
			DurationSec: data.Duration(),
			LogPath:     data.Path,
			SkippedRows: data.Skipped,
		},
		Statistics: stats,
		Reversals:  analysis.Reversals(data),
		Events:     data.EventTypeCounts(),
		Warnings:   warnings,
	}
}
