package cooc

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/james-bowman/sparse"

	"github.com/cognicore/cooc/pkg/cooc/associate"
	"github.com/cognicore/cooc/pkg/cooc/cooccur"
	"github.com/cognicore/cooc/pkg/cooc/downsample"
	"github.com/cognicore/cooc/pkg/cooc/encode"
	"github.com/cognicore/cooc/pkg/cooc/ingest"
	"github.com/cognicore/cooc/pkg/cooc/internalerr"
	"github.com/cognicore/cooc/pkg/cooc/lexicon"
	"github.com/cognicore/cooc/pkg/cooc/llr"
	"github.com/cognicore/cooc/pkg/cooc/query"
	"github.com/cognicore/cooc/pkg/cooc/store"
)

// Options configures a Pipeline
type Options struct {
	Source ingest.Source

	MaxDocs       int
	MinCount      int
	MinScore      float64
	MaxAssociates int
	// TargetMaxFrequency caps word frequency before cooccurrence counting.
	// Zero derives it from the number of documents read.
	TargetMaxFrequency float64
	// Seed makes downsampling reproducible. Zero picks a random seed.
	Seed uint64

	Stoplist  []string
	StripHTML bool
	// Progress enables throughput reports while reading the corpus.
	Progress bool

	CacheSize int
	Logf      func(format string, args ...any)
}

// DefaultOptions returns the standard parameters for src.
func DefaultOptions(src ingest.Source) Options {
	return Options{
		Source:        src,
		MaxDocs:       50000,
		MinCount:      lexicon.DefaultMinCount,
		MinScore:      associate.DefaultMinScore,
		MaxAssociates: associate.DefaultMaxAssociates,
		CacheSize:     query.DefaultCacheSize,
	}
}

// Pipeline runs the association stages over one corpus.
type Pipeline struct {
	opts   Options
	reader *ingest.Reader
}

// New creates a Pipeline.
func New(opts Options) (*Pipeline, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("pipeline: no corpus source: %w", internalerr.ErrInvalidConfig)
	}
	if opts.MinCount < 1 {
		return nil, fmt.Errorf("pipeline: min count %d: %w", opts.MinCount, internalerr.ErrInvalidConfig)
	}
	if opts.MaxAssociates < 1 {
		return nil, fmt.Errorf("pipeline: max associates %d: %w", opts.MaxAssociates, internalerr.ErrInvalidConfig)
	}

	var progress *ingest.Progress
	if opts.Progress {
		progress = ingest.NewProgress()
		progress.Logf = opts.Logf
	}
	reader := ingest.NewReader(opts.Source, ingest.ReaderOptions{
		MaxDocs:   opts.MaxDocs,
		Ignore:    opts.Stoplist,
		StripHTML: opts.StripHTML,
		Progress:  progress,
	})
	return &Pipeline{opts: opts, reader: reader}, nil
}

// Result holds every artifact of a run. Matrices are word x word and
// indexed like Lexicon, except Incidence which is document x word.
type Result struct {
	Params store.Params
	Docs   int

	Lexicon     *lexicon.Lexicon
	Incidence   *sparse.CSC
	Downsampled downsample.Stats
	// WordCounts is the number of documents holding each word after
	// downsampling.
	WordCounts []int64

	Cooccurrence *sparse.CSR
	Scores       *sparse.CSR
	Associates   *sparse.CSR
	Synonyms     *sparse.CSR

	Concentration float64
	Query         *query.Index
}

// Run executes the stages in order: count and prune the lexicon, encode a
// second pass, downsample frequent words, count cooccurrence, score pairs
// and select associates.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res := &Result{Params: store.Params{
		MaxDocs:            p.opts.MaxDocs,
		MinCount:           p.opts.MinCount,
		MinScore:           p.opts.MinScore,
		MaxAssociates:      p.opts.MaxAssociates,
		TargetMaxFrequency: p.opts.TargetMaxFrequency,
		Seed:               p.opts.Seed,
	}}

	lex, _, err := lexicon.Build(ctx, p.reader.Docs(ctx), p.opts.MinCount)
	if err != nil {
		return nil, err
	}
	res.Lexicon = lex
	p.logf("lexicon: %d words kept, %d pruned", lex.Len(), len(lex.Pruned()))

	z, err := encode.Encode(ctx, p.reader.WithIgnore(lex.Pruned()).Docs(ctx), lex)
	if err != nil {
		return nil, err
	}
	res.Docs, _ = z.Dims()

	target := p.opts.TargetMaxFrequency
	if target <= 0 {
		target = downsample.TargetMaxFrequency(res.Docs)
	}
	res.Params.TargetMaxFrequency = target
	seed := p.opts.Seed
	if seed == 0 {
		seed = downsample.NewRand(0).Uint64() | 1
	}
	res.Params.Seed = seed

	res.Incidence, res.Downsampled, err = downsample.Downsample(z, lex.Counts(), downsample.Options{
		TargetMaxFrequency: target,
		Rand:               downsample.NewRand(seed),
	})
	if err != nil {
		return nil, err
	}
	p.logf("downsample %d words out of %d", res.Downsampled.Words, lex.Len())

	res.WordCounts = cooccur.WordCounts(res.Incidence)
	p.logf("doc x word matrix ready: %d x %d", res.Docs, lex.Len())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Cooccurrence = cooccur.Build(res.Incidence)
	p.logf("cooccurrence computation done %.3f sparsity", cooccur.Density(res.Cooccurrence))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Scores, err = llr.Score(res.Cooccurrence, res.WordCounts, int64(res.Docs))
	if err != nil {
		return nil, err
	}
	p.logf("scoring done: %d pairs", res.Scores.NNZ())

	res.Associates = associate.Select(res.Scores, associate.Options{
		MinScore:      p.opts.MinScore,
		MaxAssociates: p.opts.MaxAssociates,
	})
	res.Synonyms = associate.Synonyms(res.Associates)
	p.logf("associates ready: %d", res.Associates.NNZ())

	res.Concentration = cooccur.Concentration(res.WordCounts, cooccur.DefaultConcentrationLimit)
	p.logf("concentration %.3f", res.Concentration)

	res.Query = query.NewIndex(query.Relations{
		Lexicon:    lex,
		Scores:     res.Scores,
		Associates: res.Associates,
		Synonyms:   res.Synonyms,
	}, p.opts.CacheSize)
	return res, nil
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.opts.Logf != nil {
		p.opts.Logf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// Summary is a compact description of a run.
type Summary struct {
	Docs             int
	Words            int
	Pruned           int
	DownsampledWords int
	CoocPairs        int
	Density          float64
	ScoredPairs      int
	AssociatePairs   int
	SynonymPairs     int
	Concentration    float64
}

// Summary reports the size of every artifact.
func (r *Result) Summary() Summary {
	return Summary{
		Docs:             r.Docs,
		Words:            r.Lexicon.Len(),
		Pruned:           len(r.Lexicon.Pruned()),
		DownsampledWords: r.Downsampled.Words,
		CoocPairs:        r.Cooccurrence.NNZ(),
		Density:          cooccur.Density(r.Cooccurrence),
		ScoredPairs:      r.Scores.NNZ(),
		AssociatePairs:   r.Associates.NNZ(),
		SynonymPairs:     r.Synonyms.NNZ(),
		Concentration:    r.Concentration,
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("%d docs, %d words (%d pruned, %d downsampled), %d cooccurring pairs (%.4f), %d associates, %d synonym pairs, concentration %.2f",
		s.Docs, s.Words, s.Pruned, s.DownsampledWords, s.CoocPairs, s.Density, s.AssociatePairs, s.SynonymPairs, s.Concentration)
}

// Export converts the result into a storable run. Synonym pairs of a word
// with itself are left out.
func (r *Result) Export(id string, createdAt time.Time) (store.Run, error) {
	run := store.Run{
		ID:        id,
		CreatedAt: createdAt,
		Params:    r.Params,
		Docs:      r.Docs,
	}

	counts := r.Lexicon.Counts()
	for i, tok := range r.Lexicon.Words() {
		run.Words = append(run.Words, store.Word{
			Token:    tok,
			Index:    i,
			Count:    counts[i],
			DocCount: r.WordCounts[i],
		})
	}

	var err error
	r.Associates.DoNonZero(func(i, j int, _ float64) {
		if err != nil {
			return
		}
		var a, b string
		if a, b, err = r.pair(i, j); err == nil {
			run.Associates = append(run.Associates, store.Pair{A: a, B: b, Weight: r.Scores.At(i, j)})
		}
	})
	r.Synonyms.DoNonZero(func(i, j int, v float64) {
		if err != nil || i == j {
			return
		}
		var a, b string
		if a, b, err = r.pair(i, j); err == nil {
			run.Synonyms = append(run.Synonyms, store.Pair{A: a, B: b, Weight: v})
		}
	})
	if err != nil {
		return store.Run{}, err
	}
	return run, nil
}

func (r *Result) pair(i, j int) (string, string, error) {
	a, err := r.Lexicon.Token(i)
	if err != nil {
		return "", "", err
	}
	b, err := r.Lexicon.Token(j)
	if err != nil {
		return "", "", err
	}
	return a, b, nil
}

// Save exports the result under a fresh run ID and stores it.
func Save(ctx context.Context, st store.Store, r *Result) (string, error) {
	if st == nil {
		return "", errors.New("save: nil store")
	}
	now := time.Now().UTC()
	id := store.NewRunID(now)
	run, err := r.Export(id, now)
	if err != nil {
		return "", err
	}
	if err := st.SaveRun(ctx, run); err != nil {
		return "", fmt.Errorf("save run %s: %w", id, err)
	}
	return id, nil
}
