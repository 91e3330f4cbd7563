package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/savantlab/padlab/internal/analysis"
	"github.com/savantlab/padlab/internal/index"
	"github.com/savantlab/padlab/internal/plot"
	"github.com/savantlab/padlab/internal/report"
	"github.com/savantlab/padlab/internal/session"
)

// processSession runs the full analysis pipeline for one session log:
// derived metrics CSV, statistics JSON, overview image, and an index
// upsert when a store is given.
func processSession(ctx context.Context, path, outputDir string, store *index.Store) (*report.SessionReport, error) {
	data, err := analysis.LoadSession(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	samples := analysis.PointerMetrics(data)
	stats := analysis.ComputeStatistics(data, samples)

	var warnings []string
	if data.Skipped > 0 {
		warnings = append(warnings, fmt.Sprintf("%d malformed rows skipped", data.Skipped))
	}
	r := report.Build(data, stats, warnings)

	metricsPath := filepath.Join(outputDir, analysis.MetricsFilename(data.ID))
	if err := writeMetricsFile(metricsPath, samples); err != nil {
		return nil, err
	}
	r.Artifacts.MetricsCSV = metricsPath

	statsPath := filepath.Join(outputDir, analysis.StatsFilename(data.ID))
	if err := writeStatsFile(statsPath, stats); err != nil {
		return nil, err
	}
	r.Artifacts.StatsJSON = statsPath

	overviewPath := filepath.Join(outputDir, plot.OverviewFilename(data.ID))
	if err := plot.SavePNG(overviewPath, plot.Overview(data, samples)); err != nil {
		return nil, err
	}
	r.Artifacts.Overview = overviewPath

	if snapshot := session.SnapshotPath(path); fileExists(snapshot) {
		r.Artifacts.Snapshot = snapshot
	}

	if store != nil {
		if err := store.Upsert(ctx, stats); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func writeMetricsFile(path string, samples []analysis.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}
	if err := analysis.WriteMetricsCSV(f, samples); err != nil {
		f.Close()
		return fmt.Errorf("write metrics: %w", err)
	}
	return f.Close()
}

func writeStatsFile(path string, stats analysis.Statistics) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write stats: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// renderReport serializes a report in the configured format.
func renderReport(r *report.SessionReport, format string) ([]byte, error) {
	var renderer report.Renderer
	switch format {
	case "json":
		renderer = &report.JSONRenderer{}
	default:
		renderer = &report.MarkdownRenderer{}
	}
	return renderer.Render(r)
}
