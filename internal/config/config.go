package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Vitruves/detection-report/internal/models"
	"github.com/Vitruves/detection-report/internal/utils"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultFile = "config.yaml"

var (
	defaultExtensions = []string{".jpg", ".jpeg", ".png"}
	validFormats      = []string{"xlsx", "csv", "json", "parquet", "text"}
)

// Load reads a YAML config. Variables from a .env file next to the config
// or in the working directory are loaded first so ${VAR} references expand.
func Load(filename string) (*models.Config, error) {
	loadEnv(filepath.Dir(filename))

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	content := os.ExpandEnv(string(data))

	var cfg models.Config
	if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	setDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads filename when it exists. A missing file is only an
// error when required is set.
func LoadOrDefault(filename string, required bool) (*models.Config, error) {
	if _, err := os.Stat(filename); err != nil {
		if os.IsNotExist(err) && !required {
			loadEnv(".")
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Load(filename)
}

// Default returns a config with every default applied.
func Default() *models.Config {
	var cfg models.Config
	setDefaults(&cfg)
	return &cfg
}

// Validate checks a config after flag overrides have been applied.
func Validate(cfg *models.Config) error {
	return validate(cfg)
}

func loadEnv(dirs ...string) {
	seen := make(map[string]bool)
	for _, dir := range append(dirs, ".") {
		path := filepath.Join(dir, ".env")
		if seen[path] {
			continue
		}
		seen[path] = true
		if _, err := os.Stat(path); err == nil {
			// Existing environment wins over .env values.
			_ = godotenv.Load(path)
		}
	}
}

func setDefaults(cfg *models.Config) {
	if len(cfg.Input.ImageExtensions) == 0 {
		cfg.Input.ImageExtensions = append([]string(nil), defaultExtensions...)
	}
	if cfg.Input.NoDetectionLabel == "" {
		cfg.Input.NoDetectionLabel = "no detection"
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "xlsx"
	}
	cfg.Output.Format = strings.ToLower(cfg.Output.Format)
	if cfg.Output.SheetName == "" {
		cfg.Output.SheetName = "Summary"
	}
}

func validate(cfg *models.Config) error {
	if !utils.Contains(validFormats, cfg.Output.Format) {
		return fmt.Errorf("unsupported output format: %s (expected one of %s)", cfg.Output.Format, strings.Join(validFormats, ", "))
	}

	if len(cfg.Input.ImageExtensions) == 0 {
		return fmt.Errorf("at least one image extension is required")
	}
	for _, ext := range cfg.Input.ImageExtensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("image extension must start with a dot: %q", ext)
		}
	}

	if strings.TrimSpace(cfg.Input.NoDetectionLabel) == "" {
		return fmt.Errorf("no_detection_label must not be blank")
	}

	if len(cfg.Output.SheetName) > 31 {
		return fmt.Errorf("sheet name exceeds 31 characters: %s", cfg.Output.SheetName)
	}

	return nil
}
