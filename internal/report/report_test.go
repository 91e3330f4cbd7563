package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/savantlab/padlab/internal/analysis"
	"github.com/savantlab/padlab/internal/session"
)

func testReport(t *testing.T) *SessionReport {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)
	events := []session.EventRecord{
		session.PointerEvent(session.KindMouseMoved, start, 100, 100, 0, 0),
		session.PointerEvent(session.KindLeftMouseDragged, start.Add(50*time.Millisecond), 150, 100, 50, 0),
		session.PointerEvent(session.KindLeftMouseDragged, start.Add(100*time.Millisecond), 200, 100, 50, 0),
		session.ScrollEvent(start.Add(150*time.Millisecond), 0, -10, 1),
	}
	path := filepath.Join(t.TempDir(), "session-20260101-000000.csv")
	body := session.Header + "\n"
	for _, e := range events {
		body += string(e.MarshalRow())
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	data, err := analysis.LoadSession(path)
	if err != nil {
		t.Fatal(err)
	}
	stats := analysis.ComputeStatistics(data, analysis.PointerMetrics(data))
	return Build(data, stats, nil)
}

func TestBuild(t *testing.T) {
	r := testReport(t)
	if r.Session.ID != "session-20260101-000000" {
		t.Errorf("ID = %q", r.Session.ID)
	}
	if r.Statistics.TotalEvents != 4 {
		t.Errorf("TotalEvents = %d", r.Statistics.TotalEvents)
	}
	if r.Events[session.KindLeftMouseDragged] != 2 {
		t.Errorf("events = %v", r.Events)
	}
	if r.Reversals.Strokes != 1 {
		t.Errorf("Strokes = %d, want 1", r.Reversals.Strokes)
	}
}

func TestJSONRendererRoundTrip(t *testing.T) {
	r := testReport(t)
	r.Artifacts.Overview = "session-20260101-000000_overview.png"

	out, err := (&JSONRenderer{}).Render(r)
	if err != nil {
		t.Fatal(err)
	}
	var decoded SessionReport
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Session.ID != r.Session.ID {
		t.Errorf("ID = %q", decoded.Session.ID)
	}
	if decoded.Artifacts.Overview != r.Artifacts.Overview {
		t.Errorf("Overview = %q", decoded.Artifacts.Overview)
	}
	if decoded.Events[session.KindScrollWheel] != 1 {
		t.Errorf("events = %v", decoded.Events)
	}
}

func TestMarkdownRendererSections(t *testing.T) {
	r := testReport(t)
	r.Artifacts.StatsJSON = "stats.json"
	r.Warnings = []string{"one malformed row skipped"}

	out, err := (&MarkdownRenderer{}).Render(r)
	if err != nil {
		t.Fatal(err)
	}
	md := string(out)

	for _, want := range []string{
		"# Session session-20260101-000000",
		"## Summary",
		"## Kinematics",
		"## Events",
		"| leftMouseDragged | 2 |",
		"## Strokes",
		"## Artifacts",
		"`stats.json`",
		"## Warnings",
		"one malformed row skipped",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestMarkdownRendererEmptyReport(t *testing.T) {
	r := &SessionReport{Session: Meta{ID: "session-20260101-000000"}}
	out, err := (&MarkdownRenderer{}).Render(r)
	if err != nil {
		t.Fatal(err)
	}
	md := string(out)
	if !strings.Contains(md, "_No events recorded._") {
		t.Error("missing empty-events placeholder")
	}
	if !strings.Contains(md, "_No drag strokes._") {
		t.Error("missing empty-strokes placeholder")
	}
	if !strings.Contains(md, "_None._") {
		t.Error("missing empty-artifacts placeholder")
	}
	if strings.Contains(md, "## Warnings") {
		t.Error("warnings section should be omitted when empty")
	}
}
