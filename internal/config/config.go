// ABOUTME: Configuration loading and parsing for the notebook
// ABOUTME: Supports YAML or TOML files with environment variable expansion and duration parsing

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config represents the complete notebook configuration
type Config struct {
	Storage   StorageConfig   `yaml:"storage" toml:"storage"`
	Notes     NotesConfig     `yaml:"notes" toml:"notes"`
	Documents DocumentsConfig `yaml:"documents" toml:"documents"`
	Status    StatusConfig    `yaml:"status" toml:"status"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
}

// StorageConfig controls where the database lives
type StorageConfig struct {
	// DataDir overrides candidate resolution when set
	DataDir         string `yaml:"data_dir" toml:"data_dir"`
	FallbackDirName string `yaml:"fallback_dir_name" toml:"fallback_dir_name"`
	DatabaseFile    string `yaml:"database_file" toml:"database_file"`
	// SeedPath is the bundled database copied on first run
	SeedPath string `yaml:"seed_path" toml:"seed_path"`
}

// NotesConfig holds note validation and naming rules
type NotesConfig struct {
	MaxTextLength  int    `yaml:"max_text_length" toml:"max_text_length"`
	DefaultTabName string `yaml:"default_tab_name" toml:"default_tab_name"`
	DateLayout     string `yaml:"date_layout" toml:"date_layout"` // Go reference layout
}

// DocumentsConfig holds document naming rules
type DocumentsConfig struct {
	DefaultNamePrefix string `yaml:"default_name_prefix" toml:"default_name_prefix"`
}

// StatusConfig holds status message timing
type StatusConfig struct {
	Duration time.Duration `yaml:"-" toml:"-"`

	// Raw string value for unmarshaling
	DurationRaw string `yaml:"duration" toml:"duration"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			FallbackDirName: "Notebook",
			DatabaseFile:    "notebook.sqlite3",
		},
		Notes: NotesConfig{
			MaxTextLength:  20,
			DefaultTabName: "Notes",
			DateLayout:     "02.01.2006",
		},
		Documents: DocumentsConfig{
			DefaultNamePrefix: "Document",
		},
		Status: StatusConfig{
			Duration:    1600 * time.Millisecond,
			DurationRaw: "1600ms",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Files ending in .toml are parsed as TOML, everything else as YAML.
// Environment variables in the format ${VAR_NAME} are expanded.
// Keys missing from the file keep their Default() values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(expanded, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault behaves like Load but returns Default() when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		d := Default()
		return &d, nil
	}
	return cfg, err
}

// Write serializes cfg as YAML to path, creating parent directories.
func Write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	cfg.Status.DurationRaw = cfg.Status.Duration.String()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Storage.DatabaseFile == "" {
		return fmt.Errorf("storage.database_file is required")
	}
	if strings.ContainsAny(c.Storage.DatabaseFile, `/\`) {
		return fmt.Errorf("storage.database_file must be a file name, not a path")
	}

	if c.Notes.MaxTextLength <= 0 {
		return fmt.Errorf("notes.max_text_length must be positive, got %d", c.Notes.MaxTextLength)
	}
	if strings.TrimSpace(c.Notes.DefaultTabName) == "" {
		return fmt.Errorf("notes.default_tab_name is required")
	}
	if c.Notes.DateLayout == "" {
		return fmt.Errorf("notes.date_layout is required")
	}

	if strings.TrimSpace(c.Documents.DefaultNamePrefix) == "" {
		return fmt.Errorf("documents.default_name_prefix is required")
	}

	if c.Status.Duration < 0 {
		return fmt.Errorf("status.duration must not be negative")
	}

	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	if cfg.Status.DurationRaw != "" {
		d, err := time.ParseDuration(cfg.Status.DurationRaw)
		if err != nil {
			return fmt.Errorf("parsing status.duration %q: %w", cfg.Status.DurationRaw, err)
		}
		cfg.Status.Duration = d
	}
	return nil
}
