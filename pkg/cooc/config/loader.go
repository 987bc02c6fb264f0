package config

import (
	"fmt"

	"github.com/cognicore/cooc/internal/rss"
	"github.com/cognicore/cooc/pkg/cooc/ingest"
)

// Loader loads the run configuration and the files it points to. Non-empty
// fields override the matching setting in the config file.
type Loader struct {
	ConfigPath   string
	CorpusPath   string
	StoplistPath string
}

// Components holds everything a run needs from configuration.
type Components struct {
	Config   Config
	Source   ingest.Source
	Stoplist []string
}

// Load reads all configuration files and returns initialized components
func (l *Loader) Load() (*Components, error) {
	cfg := Default()
	if l.ConfigPath != "" {
		loaded, err := Load(l.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if l.CorpusPath != "" {
		cfg.Corpus.Path = l.CorpusPath
	}
	if l.StoplistPath != "" {
		cfg.Corpus.Stoplist = l.StoplistPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	comp := &Components{Config: cfg}

	switch {
	case cfg.Corpus.Path == "":
	case cfg.Corpus.Format == "jsonl":
		comp.Source = rss.JSONLSource{Path: cfg.Corpus.Path}
	default:
		comp.Source = ingest.FileSource{Path: cfg.Corpus.Path, Encoding: cfg.Corpus.Encoding}
	}

	if cfg.Corpus.Stoplist != "" {
		stoplist, err := LoadStoplist(cfg.Corpus.Stoplist)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		comp.Stoplist = stoplist.Terms
	}

	return comp, nil
}

// ReaderOptions returns the corpus reader settings for a run.
func (c *Components) ReaderOptions() ingest.ReaderOptions {
	return ingest.ReaderOptions{
		MaxDocs:   c.Config.Pipeline.MaxDocs,
		Ignore:    c.Stoplist,
		StripHTML: c.Config.Corpus.StripHTML,
	}
}
