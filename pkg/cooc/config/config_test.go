package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/cooc/pkg/cooc/internalerr"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Pipeline.MaxDocs != 50000 {
		t.Errorf("Expected max_docs 50000, got %d", cfg.Pipeline.MaxDocs)
	}
	if cfg.Pipeline.MinCount != 3 {
		t.Errorf("Expected min_count 3, got %d", cfg.Pipeline.MinCount)
	}
	if cfg.Pipeline.MinScore != 15 {
		t.Errorf("Expected min_score 15, got %g", cfg.Pipeline.MinScore)
	}
	if cfg.Pipeline.MaxAssociates != 30 {
		t.Errorf("Expected max_associates 30, got %d", cfg.Pipeline.MaxAssociates)
	}
	if cfg.Pipeline.TargetMaxFrequency != 0 {
		t.Error("Target frequency should default to derived value (0)")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, "cooc.yaml", `corpus:
  path: /data/wiki.tsv
  encoding: latin1
pipeline:
  max_docs: 1000
  min_score: 10.5
  seed: 42
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Corpus.Path != "/data/wiki.tsv" || cfg.Corpus.Encoding != "latin1" {
		t.Errorf("Unexpected corpus section: %+v", cfg.Corpus)
	}
	if cfg.Pipeline.MaxDocs != 1000 || cfg.Pipeline.MinScore != 10.5 || cfg.Pipeline.Seed != 42 {
		t.Errorf("Unexpected pipeline section: %+v", cfg.Pipeline)
	}
	// untouched keys keep their defaults
	if cfg.Pipeline.MinCount != 3 || cfg.Pipeline.MaxAssociates != 30 {
		t.Errorf("Defaults lost: %+v", cfg.Pipeline)
	}
	if cfg.Query.Threshold != 3 {
		t.Errorf("Expected default threshold 3, got %g", cfg.Query.Threshold)
	}
}

func TestLoadInvalid(t *testing.T) {
	path := writeFile(t, "cooc.yaml", `pipeline:
  min_count: 0
  max_associates: -1
corpus:
  encoding: ebcdic
`)

	_, err := Load(path)
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("Expected ErrInvalidConfig, got %v", err)
	}
	for _, want := range []string{"min_count", "max_associates", "ebcdic"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Error should mention %s: %v", want, err)
		}
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeFile(t, "cooc.yaml", "pipeline: [unclosed")
	if _, err := Load(path); err == nil {
		t.Error("Should error on malformed YAML")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/cooc.yaml"); err == nil {
		t.Error("Should error on nonexistent file")
	}
}

func TestLoadStoplist(t *testing.T) {
	path := writeFile(t, "stoplist.yaml", `terms:
  - the
  - a
  - and
`)

	sl, err := LoadStoplist(path)
	if err != nil {
		t.Fatalf("Failed to load stoplist: %v", err)
	}

	if len(sl.Terms) != 3 {
		t.Errorf("Expected 3 terms, got %d", len(sl.Terms))
	}

	expected := map[string]bool{"the": true, "a": true, "and": true}
	for _, term := range sl.Terms {
		if !expected[term] {
			t.Errorf("Unexpected term: %s", term)
		}
	}
}
