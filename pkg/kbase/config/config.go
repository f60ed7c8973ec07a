package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/kbase/pkg/kbase/internalerr"
)

// Config holds knowledge base settings.
type Config struct {
	// Rules are text files asserted at startup, in order.
	Rules []string `yaml:"rules"`
	// Journal is an SQLite path for the event journal; empty keeps it in memory.
	Journal  string `yaml:"journal"`
	LogLevel string `yaml:"log_level"`
	Metrics  bool   `yaml:"metrics"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{LogLevel: "info"}
}

// Load reads a YAML configuration file. Relative rule and journal paths
// are resolved against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidConfig, path, err)
	}

	dir := filepath.Dir(path)
	for i, r := range cfg.Rules {
		cfg.Rules[i] = resolve(dir, r)
	}
	if cfg.Journal != "" && cfg.Journal != ":memory:" {
		cfg.Journal = resolve(dir, cfg.Journal)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if _, ok := parseLevel(c.LogLevel); !ok {
		return fmt.Errorf("%w: unknown log_level %q", internalerr.ErrInvalidConfig, c.LogLevel)
	}
	for _, r := range c.Rules {
		if strings.TrimSpace(r) == "" {
			return fmt.Errorf("%w: empty rules path", internalerr.ErrInvalidConfig)
		}
	}
	return nil
}

// Level returns the slog level for LogLevel, defaulting to info.
func (c *Config) Level() slog.Level {
	lvl, _ := parseLevel(c.LogLevel)
	return lvl
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
