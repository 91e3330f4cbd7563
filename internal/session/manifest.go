package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Manifest is the JSON summary written next to the CSV on a non-discarding
// Finalize. It mirrors the log's stem so downstream tooling can correlate
// the pair.
type Manifest struct {
	ID              string  `json:"id"`
	SessionID       string  `json:"session_id"`
	StartedAtLocal  string  `json:"started_at_local"`
	EndedAtLocal    string  `json:"ended_at_local"`
	DurationSeconds float64 `json:"duration_seconds"`
	EventCount      int     `json:"event_count"`
	DroppedCount    int     `json:"dropped_count"`
}

// writeManifest marshals m and writes it atomically via a temp file in the
// same directory followed by os.Rename.
func writeManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session manifest: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "manifest-*.json.tmp")
	if err != nil {
		return fmt.Errorf("write session manifest: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session manifest: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("write session manifest: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("write session manifest: %w", err)
	}
	return nil
}

// ReadManifest loads a session manifest from disk.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("read session manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse session manifest %s: %w", path, err)
	}
	return &m, nil
}
