// Package config loads the optional subkit YAML settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

const (
	LineEndingCRLF = "crlf"
	LineEndingLF   = "lf"
)

// Config holds document defaults and translation settings.
type Config struct {
	Title       string    `yaml:"title"`
	Language    string    `yaml:"language"`
	NamedStyles bool      `yaml:"named_styles"`
	LineEnding  string    `yaml:"line_ending"`
	Translate   Translate `yaml:"translate"`
}

type Translate struct {
	Provider    string `yaml:"provider"`
	Model       string `yaml:"model"`
	Concurrency int    `yaml:"concurrency"`
	BatchSize   int    `yaml:"batch_size"`
}

func Default() *Config {
	return &Config{
		LineEnding: LineEndingCRLF,
		Translate: Translate{
			Provider:    "gemini",
			Concurrency: 3,
			BatchSize:   50,
		},
	}
}

// DefaultPath is config.yaml under the user's config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "subkit", "config.yaml")
}

// Load reads path over the defaults. A missing file is not an error when
// path is the default location; an explicitly named file must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating parent directories.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

func (c *Config) normalize() error {
	c.LineEnding = strings.ToLower(strings.TrimSpace(c.LineEnding))
	switch c.LineEnding {
	case "":
		c.LineEnding = LineEndingCRLF
	case LineEndingCRLF, LineEndingLF:
	default:
		return fmt.Errorf("line_ending must be %q or %q, got %q",
			LineEndingCRLF, LineEndingLF, c.LineEnding)
	}

	defaults := Default().Translate
	if c.Translate.Provider == "" {
		c.Translate.Provider = defaults.Provider
	}
	if c.Translate.Concurrency <= 0 {
		c.Translate.Concurrency = defaults.Concurrency
	}
	if c.Translate.BatchSize <= 0 {
		c.Translate.BatchSize = defaults.BatchSize
	}
	return nil
}

// Delimiter returns the line delimiter for line based output formats.
func (c *Config) Delimiter() string {
	if c.LineEnding == LineEndingLF {
		return "\n"
	}
	return "\r\n"
}
