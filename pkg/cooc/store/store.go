package store

import (
	"cmp"
	"context"
	"crypto/rand"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Store persists finished runs and answers word queries against them.
type Store interface {
	Close() error

	// SaveRun stores a complete run. Run IDs are unique.
	SaveRun(ctx context.Context, r Run) error
	// GetRun loads a run by ID. Unknown IDs return internalerr.ErrNotFound.
	GetRun(ctx context.Context, id string) (Run, error)
	// LatestRun returns the run with the greatest ID.
	LatestRun(ctx context.Context) (Run, error)

	// Associates lists the associates of word in a run, highest score first.
	Associates(ctx context.Context, runID, word string) ([]Neighbor, error)
	// Synonyms lists words sharing more than minOverlap associates with word,
	// largest overlap first.
	Synonyms(ctx context.Context, runID, word string, minOverlap float64) ([]Neighbor, error)
}

// Run is the exported outcome of one pipeline execution.
type Run struct {
	ID         string
	CreatedAt  time.Time
	Params     Params
	Docs       int
	Words      []Word
	Associates []Pair
	Synonyms   []Pair
}

// Params records the settings a run was computed with.
type Params struct {
	MaxDocs            int     `json:"max_docs"`
	MinCount           int     `json:"min_count"`
	MinScore           float64 `json:"min_score"`
	MaxAssociates      int     `json:"max_associates"`
	TargetMaxFrequency float64 `json:"target_max_frequency"`
	Seed               uint64  `json:"seed"`
}

// Word is a lexicon entry.
type Word struct {
	Token string
	Index int
	// Count is the corpus occurrence count, DocCount the number of documents
	// holding the word after downsampling.
	Count    int64
	DocCount int64
}

// Pair is a weighted word relation: A's associate B with its LLR score, or
// A and B with their shared-associate count.
type Pair struct {
	A, B   string
	Weight float64
}

// Neighbor is a query answer.
type Neighbor struct {
	Token  string
	Weight float64
}

var (
	idMu      sync.Mutex
	idEntropy = ulid.Monotonic(rand.Reader, 0)
)

// NewRunID returns a ULID for a run created at t. IDs sort by creation time.
func NewRunID(t time.Time) string {
	idMu.Lock()
	defer idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), idEntropy).String()
}

// SortNeighbors orders neighbors by weight descending, then token.
func SortNeighbors(ns []Neighbor) {
	slices.SortFunc(ns, func(a, b Neighbor) int {
		if c := cmp.Compare(b.Weight, a.Weight); c != 0 {
			return c
		}
		return strings.Compare(a.Token, b.Token)
	})
}
