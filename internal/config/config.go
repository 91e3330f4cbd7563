package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds all configurable padlab settings.
type Config struct {
	SessionDir   string `json:"session_dir"`   // where session logs are written
	OutputDir    string `json:"output_dir"`    // analysis artifacts
	ExportDir    string `json:"export_dir"`    // final keep-case copies; empty disables export
	CanvasWidth  int    `json:"canvas_width"`
	CanvasHeight int    `json:"canvas_height"`
	ReportFormat string `json:"report_format"` // "markdown" | "json"
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		SessionDir:   "sessions",
		OutputDir:    "analysis_output",
		CanvasWidth:  1200,
		CanvasHeight: 800,
		ReportFormat: "markdown",
	}
}

// LoadGlobal reads ~/.config/padlab/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "padlab", "config.json")
	return loadFile(path, true)
}

// LoadProject reads .padlabconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".padlabconfig", false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()
	for _, cfg := range []*Config{global, project} {
		if cfg == nil {
			continue
		}
		if cfg.SessionDir != "" {
			result.SessionDir = cfg.SessionDir
		}
		if cfg.OutputDir != "" {
			result.OutputDir = cfg.OutputDir
		}
		if cfg.ExportDir != "" {
			result.ExportDir = cfg.ExportDir
		}
		if cfg.CanvasWidth > 0 {
			result.CanvasWidth = cfg.CanvasWidth
		}
		if cfg.CanvasHeight > 0 {
			result.CanvasHeight = cfg.CanvasHeight
		}
		if cfg.ReportFormat != "" {
			result.ReportFormat = cfg.ReportFormat
		}
	}
	return result
}

// IndexPath returns the sqlite index location under the output dir.
func (c Config) IndexPath() string {
	return filepath.Join(c.OutputDir, "index.db")
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
