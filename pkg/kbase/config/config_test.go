package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/kbase/pkg/kbase/internalerr"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "kbase.yaml")

	content := `rules:
  - blocks.kb
  - /abs/extra.kb
journal: journal.db
log_level: debug
metrics: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if len(cfg.Rules) != 2 {
		t.Fatalf("Expected 2 rule files, got %d", len(cfg.Rules))
	}
	if cfg.Rules[0] != filepath.Join(tmpDir, "blocks.kb") {
		t.Errorf("Relative rules path not resolved: %s", cfg.Rules[0])
	}
	if cfg.Rules[1] != "/abs/extra.kb" {
		t.Errorf("Absolute rules path changed: %s", cfg.Rules[1])
	}
	if cfg.Journal != filepath.Join(tmpDir, "journal.db") {
		t.Errorf("Journal path not resolved: %s", cfg.Journal)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("Expected debug level, got %v", cfg.Level())
	}
	if !cfg.Metrics {
		t.Error("Expected metrics enabled")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kbase.yaml")
	if err := os.WriteFile(path, []byte("rules: []\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Level() != slog.LevelInfo {
		t.Errorf("Expected info level, got %v", cfg.Level())
	}
	if cfg.Journal != "" || cfg.Metrics {
		t.Errorf("Unexpected non-default values: %+v", cfg)
	}
}

func TestLoadConfigMemoryJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kbase.yaml")
	if err := os.WriteFile(path, []byte("journal: \":memory:\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Journal != ":memory:" {
		t.Errorf("In-memory journal should not be resolved, got %s", cfg.Journal)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tmpDir := t.TempDir()

	badYAML := filepath.Join(tmpDir, "bad.yaml")
	if err := os.WriteFile(badYAML, []byte("rules: [unclosed\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(badYAML); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for malformed YAML, got %v", err)
	}

	badLevel := filepath.Join(tmpDir, "level.yaml")
	if err := os.WriteFile(badLevel, []byte("log_level: loud\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(badLevel); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for bad level, got %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/kbase.yaml"); err == nil {
		t.Error("Should error on nonexistent config")
	}
}
