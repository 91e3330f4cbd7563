package config

import (
	"errors"
	"os"
	"testing"

	"pgregory.net/rapid"
)

func TestConfigMergePrecedence(t *testing.T) {
	// Generator for a non-empty string field value.
	nonEmptyString := rapid.StringMatching(`[a-zA-Z0-9/_.-]{1,20}`)

	// Generator for a Config with each field either unset or set.
	configGen := rapid.Custom(func(t *rapid.T) *Config {
		cfg := &Config{}
		if rapid.Bool().Draw(t, "hasSessionDir") {
			cfg.SessionDir = nonEmptyString.Draw(t, "sessionDir")
		}
		if rapid.Bool().Draw(t, "hasOutputDir") {
			cfg.OutputDir = nonEmptyString.Draw(t, "outputDir")
		}
		if rapid.Bool().Draw(t, "hasExportDir") {
			cfg.ExportDir = nonEmptyString.Draw(t, "exportDir")
		}
		if rapid.Bool().Draw(t, "hasCanvasWidth") {
			cfg.CanvasWidth = rapid.IntRange(1, 4000).Draw(t, "canvasWidth")
		}
		if rapid.Bool().Draw(t, "hasReportFormat") {
			cfg.ReportFormat = nonEmptyString.Draw(t, "reportFormat")
		}
		return cfg
	})

	rapid.Check(t, func(t *rapid.T) {
		global := configGen.Draw(t, "global")
		project := configGen.Draw(t, "project")

		merged := Merge(global, project)
		defaults := Defaults()

		checkStringField(t, "SessionDir",
			global.SessionDir, project.SessionDir, defaults.SessionDir,
			merged.SessionDir)
		checkStringField(t, "OutputDir",
			global.OutputDir, project.OutputDir, defaults.OutputDir,
			merged.OutputDir)
		checkStringField(t, "ExportDir",
			global.ExportDir, project.ExportDir, defaults.ExportDir,
			merged.ExportDir)
		checkStringField(t, "ReportFormat",
			global.ReportFormat, project.ReportFormat, defaults.ReportFormat,
			merged.ReportFormat)

		// CanvasWidth follows the same precedence with zero as "unset".
		switch {
		case project.CanvasWidth > 0:
			if merged.CanvasWidth != project.CanvasWidth {
				t.Fatalf("CanvasWidth: expected project value %d, got %d", project.CanvasWidth, merged.CanvasWidth)
			}
		case global.CanvasWidth > 0:
			if merged.CanvasWidth != global.CanvasWidth {
				t.Fatalf("CanvasWidth: expected global value %d, got %d", global.CanvasWidth, merged.CanvasWidth)
			}
		default:
			if merged.CanvasWidth != defaults.CanvasWidth {
				t.Fatalf("CanvasWidth: expected default %d, got %d", defaults.CanvasWidth, merged.CanvasWidth)
			}
		}
	})
}

// checkStringField asserts the merge precedence rule for a single string field:
//   - project non-empty  → merged == project
//   - project empty, global non-empty → merged == global
//   - both empty → merged == defaultVal
func checkStringField(t *rapid.T, name, globalVal, projectVal, defaultVal, mergedVal string) {
	t.Helper()
	switch {
	case projectVal != "":
		if mergedVal != projectVal {
			t.Fatalf("%s: both set — expected project value %q, got %q", name, projectVal, mergedVal)
		}
	case globalVal != "":
		if mergedVal != globalVal {
			t.Fatalf("%s: only global set — expected global value %q, got %q", name, globalVal, mergedVal)
		}
	default:
		if mergedVal != defaultVal {
			t.Fatalf("%s: neither set — expected default %q, got %q", name, defaultVal, mergedVal)
		}
	}
}

func TestDefaultsValues(t *testing.T) {
	d := Defaults()
	if d.ReportFormat != "markdown" {
		t.Errorf("ReportFormat: want %q, got %q", "markdown", d.ReportFormat)
	}
	if d.SessionDir != "sessions" {
		t.Errorf("SessionDir: want %q, got %q", "sessions", d.SessionDir)
	}
	if d.CanvasWidth != 1200 || d.CanvasHeight != 800 {
		t.Errorf("canvas size: want 1200x800, got %dx%d", d.CanvasWidth, d.CanvasHeight)
	}
	if d.ExportDir != "" {
		t.Errorf("ExportDir: want disabled by default, got %q", d.ExportDir)
	}
}

func TestLoadGlobalMissingFileReturnsDefaults(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config, got nil")
	}
	defaults := Defaults()
	if cfg.ReportFormat != defaults.ReportFormat {
		t.Errorf("ReportFormat: want %q, got %q", defaults.ReportFormat, cfg.ReportFormat)
	}
	if cfg.OutputDir != defaults.OutputDir {
		t.Errorf("OutputDir: want %q, got %q", defaults.OutputDir, cfg.OutputDir)
	}
}

func TestLoadProjectMissingFileReturnsNil(t *testing.T) {
	tmp := t.TempDir()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(tmp); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(orig) })

	cfg, err := LoadProject()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != nil {
		t.Errorf("expected nil config, got %+v", cfg)
	}
}

func TestLoadGlobalParseError(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	// Write an invalid JSON file where LoadGlobal expects it.
	cfgDir := tmp + "/.config/padlab"
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfgDir+"/config.json", []byte("{invalid json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadGlobal()
	if err == nil {
		t.Fatal("expected an error for invalid JSON, got nil")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("expected *ParseError, got %T: %v", err, err)
	}
}

func TestIndexPath(t *testing.T) {
	cfg := Config{OutputDir: "out"}
	if got := cfg.IndexPath(); got != "out/index.db" {
		t.Errorf("IndexPath = %q", got)
	}
}
