package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/cooc/pkg/cooc/internalerr"
)

// Config is the YAML run configuration.
type Config struct {
	Corpus   Corpus   `yaml:"corpus"`
	Pipeline Pipeline `yaml:"pipeline"`
	Query    Query    `yaml:"query"`
	Store    Store    `yaml:"store"`
}

// Corpus describes the document source.
type Corpus struct {
	Path string `yaml:"path"`
	// Format is "tsv" (id, title, text per line) or "jsonl" (feed items).
	Format    string `yaml:"format"`
	Encoding  string `yaml:"encoding"`
	StripHTML bool   `yaml:"strip_html"`
	Stoplist  string `yaml:"stoplist"`
}

// Pipeline holds the association parameters.
type Pipeline struct {
	MaxDocs            int     `yaml:"max_docs"`
	MinCount           int     `yaml:"min_count"`
	MinScore           float64 `yaml:"min_score"`
	MaxAssociates      int     `yaml:"max_associates"`
	TargetMaxFrequency float64 `yaml:"target_max_frequency"`
	Seed               uint64  `yaml:"seed"`
}

// Query configures lookups against a finished run.
type Query struct {
	CacheSize int     `yaml:"cache_size"`
	Threshold float64 `yaml:"threshold"`
}

// Store configures where runs are exported. An empty path keeps them in
// memory.
type Store struct {
	Path string `yaml:"path"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Corpus: Corpus{Format: "tsv", Encoding: "utf-8"},
		Pipeline: Pipeline{
			MaxDocs:       50000,
			MinCount:      3,
			MinScore:      15,
			MaxAssociates: 30,
		},
		Query: Query{
			CacheSize: 256,
			Threshold: 3,
		},
	}
}

// Load reads a YAML file on top of Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings no run could use.
func (c Config) Validate() error {
	var errs []error
	if c.Pipeline.MinCount < 1 {
		errs = append(errs, fmt.Errorf("pipeline.min_count must be >= 1, got %d", c.Pipeline.MinCount))
	}
	if c.Pipeline.MaxAssociates < 1 {
		errs = append(errs, fmt.Errorf("pipeline.max_associates must be >= 1, got %d", c.Pipeline.MaxAssociates))
	}
	if c.Pipeline.MinScore < 0 {
		errs = append(errs, fmt.Errorf("pipeline.min_score must be >= 0, got %g", c.Pipeline.MinScore))
	}
	if c.Pipeline.TargetMaxFrequency < 0 {
		errs = append(errs, fmt.Errorf("pipeline.target_max_frequency must be >= 0, got %g", c.Pipeline.TargetMaxFrequency))
	}
	switch c.Corpus.Format {
	case "", "tsv", "jsonl":
	default:
		errs = append(errs, fmt.Errorf("corpus.format %q not supported", c.Corpus.Format))
	}
	switch strings.ToLower(c.Corpus.Encoding) {
	case "", "utf-8", "utf8", "latin1", "latin-1", "latin_1", "iso-8859-1":
	default:
		errs = append(errs, fmt.Errorf("corpus.encoding %q not supported", c.Corpus.Encoding))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", internalerr.ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}
