package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Vitruves/detection-report/internal/models"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		configYAML  string
		expectError bool
		validate    func(*models.Config) error
	}{
		{
			name: "full config",
			configYAML: `
input:
  image_extensions: [".jpg", ".bmp"]
  no_detection_label: "none"
output:
  directory: ./reports
  format: csv
  sheet_name: Counts
  preview: true
`,
			validate: func(cfg *models.Config) error {
				if len(cfg.Input.ImageExtensions) != 2 || cfg.Input.ImageExtensions[1] != ".bmp" {
					t.Errorf("Expected extensions [.jpg .bmp], got %v", cfg.Input.ImageExtensions)
				}
				if cfg.Input.NoDetectionLabel != "none" {
					t.Errorf("Expected no detection label 'none', got '%s'", cfg.Input.NoDetectionLabel)
				}
				if cfg.Output.Directory != "./reports" {
					t.Errorf("Expected directory './reports', got '%s'", cfg.Output.Directory)
				}
				if cfg.Output.Format != "csv" {
					t.Errorf("Expected format 'csv', got '%s'", cfg.Output.Format)
				}
				if cfg.Output.SheetName != "Counts" {
					t.Errorf("Expected sheet 'Counts', got '%s'", cfg.Output.SheetName)
				}
				if !cfg.Output.Preview {
					t.Error("Expected preview to be enabled")
				}
				return nil
			},
		},
		{
			name:       "empty config uses defaults",
			configYAML: ``,
			validate: func(cfg *models.Config) error {
				if len(cfg.Input.ImageExtensions) != 3 {
					t.Errorf("Expected 3 default extensions, got %v", cfg.Input.ImageExtensions)
				}
				if cfg.Input.NoDetectionLabel != "no detection" {
					t.Errorf("Expected default no detection label, got '%s'", cfg.Input.NoDetectionLabel)
				}
				if cfg.Output.Format != "xlsx" {
					t.Errorf("Expected default format 'xlsx', got '%s'", cfg.Output.Format)
				}
				if cfg.Output.SheetName != "Summary" {
					t.Errorf("Expected default sheet 'Summary', got '%s'", cfg.Output.SheetName)
				}
				return nil
			},
		},
		{
			name: "format is case-insensitive",
			configYAML: `
output:
  format: XLSX
`,
			validate: func(cfg *models.Config) error {
				if cfg.Output.Format != "xlsx" {
					t.Errorf("Expected format 'xlsx', got '%s'", cfg.Output.Format)
				}
				return nil
			},
		},
		{
			name: "unsupported format",
			configYAML: `
output:
  format: pdf
`,
			expectError: true,
		},
		{
			name: "extension without dot",
			configYAML: `
input:
  image_extensions: ["jpg"]
`,
			expectError: true,
		},
		{
			name: "sheet name too long",
			configYAML: `
output:
  sheet_name: "a sheet name that is far too long for excel"
`,
			expectError: true,
		},
		{
			name:        "invalid yaml",
			configYAML:  "output: [unclosed",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configFile := filepath.Join(tmpDir, "config.yaml")

			if err := os.WriteFile(configFile, []byte(tt.configYAML), 0644); err != nil {
				t.Fatalf("Failed to write test config file: %v", err)
			}

			cfg, err := Load(configFile)

			if tt.expectError {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(cfg)
			}
		})
	}
}

func TestLoadExpandsEnvFromDotEnv(t *testing.T) {
	tmpDir := t.TempDir()

	envFile := filepath.Join(tmpDir, ".env")
	if err := os.WriteFile(envFile, []byte("DETECTION_REPORT_TEST_DIR=/srv/reports\n"), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("DETECTION_REPORT_TEST_DIR") })

	configFile := filepath.Join(tmpDir, "config.yaml")
	content := "output:\n  directory: ${DETECTION_REPORT_TEST_DIR}\n"
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(configFile)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Output.Directory != "/srv/reports" {
		t.Errorf("Expected directory from .env, got '%s'", cfg.Output.Directory)
	}
}

func TestLoadEnvDoesNotOverrideEnvironment(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("DETECTION_REPORT_TEST_FORMAT", "json")

	envFile := filepath.Join(tmpDir, ".env")
	if err := os.WriteFile(envFile, []byte("DETECTION_REPORT_TEST_FORMAT=csv\n"), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}

	configFile := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configFile, []byte("output:\n  format: ${DETECTION_REPORT_TEST_FORMAT}\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(configFile)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Expected environment value 'json', got '%s'", cfg.Output.Format)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadOrDefault(missing, false)
	if err != nil {
		t.Fatalf("Expected defaults for optional missing file, got %v", err)
	}
	if cfg.Output.Format != "xlsx" {
		t.Errorf("Expected default format, got '%s'", cfg.Output.Format)
	}

	if _, err := LoadOrDefault(missing, true); err == nil {
		t.Error("Expected error for required missing file")
	}
}

func TestValidateAfterOverride(t *testing.T) {
	cfg := Default()
	cfg.Output.Format = "docx"

	if err := Validate(cfg); err == nil {
		t.Error("Expected error for overridden unsupported format")
	}

	cfg.Output.Format = "parquet"
	if err := Validate(cfg); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}
