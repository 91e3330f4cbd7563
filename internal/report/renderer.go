package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/savantlab/padlab/internal/session"
)

// Renderer serializes a SessionReport to bytes.
type Renderer interface {
	Render(r *SessionReport) ([]byte, error)
}

// JSONRenderer renders a report as indented JSON.
type JSONRenderer struct{}

func (jr *JSONRenderer) Render(r *SessionReport) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// MarkdownRenderer renders a report as human-readable Markdown.
type MarkdownRenderer struct{}

func (mr *MarkdownRenderer) Render(r *SessionReport) ([]byte, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Session %s — %s\n\n",
		r.Session.ID,
		r.Session.StartTime.Format("2006-01-02 15:04:05 MST"),
	)

	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- Duration: %.1fs\n", r.Session.DurationSec)
	fmt.Fprintf(&sb, "- Events: %d\n", r.Statistics.TotalEvents)
	fmt.Fprintf(&sb, "- Total distance: %.1f px\n", r.Statistics.TotalDistance)
	if r.Session.SkippedRows > 0 {
		fmt.Fprintf(&sb, "- Skipped rows: %d\n", r.Session.SkippedRows)
	}
	sb.WriteString("\n")

	sb.WriteString("## Kinematics\n\n")
	sb.WriteString("| Metric | Mean | Max |\n")
	sb.WriteString("|--------|------|-----|\n")
	fmt.Fprintf(&sb, "| Speed (px/s) | %.1f | %.1f |\n", r.Statistics.MeanSpeed, r.Statistics.MaxSpeed)
	fmt.Fprintf(&sb, "| Acceleration (px/s²) | %.1f | %.1f |\n", r.Statistics.MeanAcceleration, r.Statistics.MaxAcceleration)
	fmt.Fprintf(&sb, "\nMedian speed: %.1f px/s. Position range x [%.0f, %.0f], y [%.0f, %.0f].\n\n",
		r.Statistics.MedianSpeed,
		r.Statistics.XMin, r.Statistics.XMax,
		r.Statistics.YMin, r.Statistics.YMax,
	)

	sb.WriteString("## Events\n\n")
	if len(r.Events) == 0 {
		sb.WriteString("_No events recorded._\n")
	} else {
		kinds := make([]string, 0, len(r.Events))
		for k := range r.Events {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)
		sb.WriteString("| Kind | Count |\n")
		sb.WriteString("|------|-------|\n")
		for _, k := range kinds {
			fmt.Fprintf(&sb, "| %s | %d |\n", k, r.Events[session.Kind(k)])
		}
	}
	sb.WriteString("\n")

	sb.WriteString("## Strokes\n\n")
	if r.Reversals.Strokes == 0 {
		sb.WriteString("_No drag strokes._\n")
	} else {
		fmt.Fprintf(&sb, "- Strokes: %d (%d started right, %d started left)\n",
			r.Reversals.Strokes, r.Reversals.StartedRight, r.Reversals.StartedLeft)
		fmt.Fprintf(&sb, "- With direction reversal: %d (avg %.2f reversals per stroke)\n",
			r.Reversals.WithReversal, r.Reversals.AvgReversals)
	}
	sb.WriteString("\n")

	sb.WriteString("## Artifacts\n\n")
	wrote := false
	for _, a := range []struct{ label, path string }{
		{"Metrics CSV", r.Artifacts.MetricsCSV},
		{"Stats JSON", r.Artifacts.StatsJSON},
		{"Overview", r.Artifacts.Overview},
		{"Snapshot", r.Artifacts.Snapshot},
	} {
		if a.path != "" {
			fmt.Fprintf(&sb, "- %s: `%s`\n", a.label, a.path)
			wrote = true
		}
	}
	if !wrote {
		sb.WriteString("_None._\n")
	}
	sb.WriteString("\n")

	if len(r.Warnings) > 0 {
		sb.WriteString("## Warnings\n\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&sb, "- %s\n", w)
		}
		sb.WriteString("\n")
	}

	return []byte(sb.String()), nil
}
