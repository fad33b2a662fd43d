// Package config holds project-wide constants and the optional yinyang.yaml
// project file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level yinyang.yaml configuration.
type Config struct {
	// Prompt is printed before each REPL entry.
	Prompt string `yaml:"prompt,omitempty"`

	// ContinuationPrompt is printed while a form spans several lines.
	ContinuationPrompt string `yaml:"continuation_prompt,omitempty"`

	// HistoryFile is where the line editor keeps history. Relative paths are
	// resolved against the user's home directory. "-" disables history.
	HistoryFile string `yaml:"history_file,omitempty"`

	// MaxDepth bounds evaluation nesting. Zero means the evaluator default.
	MaxDepth int `yaml:"max_depth,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`

	// Color enables coloured REPL output when stdout is a terminal. Defaults
	// to true.
	Color *bool `yaml:"color,omitempty"`

	// Prelude lists source files evaluated before a script or REPL starts.
	// Relative paths are resolved against the config file's directory.
	Prelude []string `yaml:"prelude,omitempty"`
}

// Default returns the configuration used when no yinyang.yaml is found.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and parses a yinyang.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses yinyang.yaml content from bytes.
// The path argument is used for error messages and to resolve prelude paths.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()

	configDir := filepath.Dir(path)
	for i, p := range cfg.Prelude {
		if !filepath.IsAbs(p) {
			cfg.Prelude[i] = filepath.Join(configDir, p)
		}
	}
	return &cfg, nil
}

// FindConfig searches for yinyang.yaml starting from dir and walking up
// to parent directories.
// Returns the path to the config file and nil error if found,
// or empty string and nil error if not found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("%s: max_depth must not be negative, got %d", path, c.MaxDepth)
	}
	if c.LogLevel != "" {
		if _, err := ParseLogLevel(c.LogLevel); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	for i, p := range c.Prelude {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("%s: prelude[%d]: path is empty", path, i)
		}
		if !IsSourceFile(p) {
			return fmt.Errorf("%s: prelude[%d]: %q is not a source file (want one of %s)",
				path, i, p, strings.Join(SourceFileExtensions, ", "))
		}
	}
	return nil
}

// setDefaults fills in default values for omitted fields.
func (c *Config) setDefaults() {
	if c.Prompt == "" {
		c.Prompt = DefaultPrompt
	}
	if c.ContinuationPrompt == "" {
		c.ContinuationPrompt = DefaultContinuationPrompt
	}
	if c.HistoryFile == "" {
		c.HistoryFile = DefaultHistoryFile
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Color == nil {
		on := true
		c.Color = &on
	}
}

// ColorEnabled reports whether coloured output was requested.
func (c *Config) ColorEnabled() bool {
	return c.Color == nil || *c.Color
}

// HistoryPath resolves HistoryFile. It returns "" when history is disabled or
// the home directory is unknown.
func (c *Config) HistoryPath() string {
	if c.HistoryFile == "-" {
		return ""
	}
	if filepath.IsAbs(c.HistoryFile) {
		return c.HistoryFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, c.HistoryFile)
}

// ParseLogLevel maps a level name onto slog.
func ParseLogLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelWarn, fmt.Errorf("unknown log_level %q", name)
	}
	return level, nil
}

// IsSourceFile reports whether path has a recognized source extension.
func IsSourceFile(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range SourceFileExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
