package session

import (
	"path/filepath"
	"strings"
	"time"
)

// stampLayout keys the session filename to its start time at second
// granularity: session-<YYYYMMDD-HHmmss>.csv.
const stampLayout = "20060102-150405"

// logName returns the CSV filename for a session started at t.
func logName(t time.Time) string {
	return "session-" + t.Format(stampLayout) + ".csv"
}

// SiblingPath returns the path of a sibling artifact sharing the CSV's stem.
// ext includes the leading dot or dash, e.g. ".png", ".mov", "-camera.mov".
// External collaborators (screen and camera capture) must use the same stem
// so downstream analysis can correlate artifacts.
func SiblingPath(csvPath, ext string) string {
	stem := strings.TrimSuffix(csvPath, filepath.Ext(csvPath))
	return stem + ext
}

// SnapshotPath returns the canvas snapshot path for a session CSV.
func SnapshotPath(csvPath string) string { return SiblingPath(csvPath, ".png") }

// ManifestPath returns the session manifest path for a session CSV.
func ManifestPath(csvPath string) string { return SiblingPath(csvPath, ".json") }

// ScreenRecordingPath returns the screen capture path for a session CSV.
func ScreenRecordingPath(csvPath string) string { return SiblingPath(csvPath, ".mov") }

// CameraRecordingPath returns the face capture path for a session CSV.
func CameraRecordingPath(csvPath string) string { return SiblingPath(csvPath, "-camera.mov") }

// ID returns the session identifier for a session CSV path: the file stem,
// e.g. "session-20260829-103000".
func ID(csvPath string) string {
	base := filepath.Base(csvPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
