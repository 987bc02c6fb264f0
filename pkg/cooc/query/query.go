package query

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/james-bowman/sparse"

	"github.com/cognicore/cooc/pkg/cooc/lexicon"
	"github.com/cognicore/cooc/pkg/cooc/spmat"
)

// DefaultCacheSize is the number of answers kept per cache.
const DefaultCacheSize = 256

// DefaultThreshold is the overlap a word must exceed to count as similar.
const DefaultThreshold = 3.0

// Neighbor is a related word with its weight: the LLR score for
// associates, the shared-associate count for similar words.
type Neighbor struct {
	Token  string
	Weight float64
}

// Relations are the matrices an Index answers from. All are word x word
// and indexed like Lexicon.
type Relations struct {
	Lexicon    *lexicon.Lexicon
	Scores     *sparse.CSR
	Associates *sparse.CSR
	Synonyms   *sparse.CSR
}

type similarKey struct {
	word      int
	threshold float64
}

// Index answers word lookups against a finished run. It is safe for
// concurrent use.
type Index struct {
	rel        Relations
	similar    *lru.Cache[similarKey, []Neighbor]
	associates *lru.Cache[int, []Neighbor]
}

// NewIndex wraps rel. cacheSize <= 0 uses DefaultCacheSize.
func NewIndex(rel Relations, cacheSize int) *Index {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	similar, _ := lru.New[similarKey, []Neighbor](cacheSize)
	associates, _ := lru.New[int, []Neighbor](cacheSize)
	return &Index{rel: rel, similar: similar, associates: associates}
}

// Lookup returns the word index of word.
func (x *Index) Lookup(word string) (int, error) {
	return x.rel.Lexicon.Index(strings.ToLower(word))
}

// Token returns the word with index i.
func (x *Index) Token(i int) (string, error) {
	return x.rel.Lexicon.Token(i)
}

// Associates lists the associates of word, highest LLR score first.
func (x *Index) Associates(word string) ([]Neighbor, error) {
	i, err := x.Lookup(word)
	if err != nil {
		return nil, fmt.Errorf("associates of %q: %w", word, err)
	}
	if cached, ok := x.associates.Get(i); ok {
		return slices.Clone(cached), nil
	}

	cols, _ := spmat.Row(x.rel.Associates, i)
	out := make([]Neighbor, 0, len(cols))
	for _, j := range cols {
		tok, err := x.rel.Lexicon.Token(j)
		if err != nil {
			return nil, err
		}
		out = append(out, Neighbor{Token: tok, Weight: x.rel.Scores.At(i, j)})
	}
	sortNeighbors(out)

	x.associates.Add(i, out)
	return slices.Clone(out), nil
}

// Similar lists the words sharing more than threshold associates with
// word, largest overlap first. The word itself is never included.
func (x *Index) Similar(word string, threshold float64) ([]Neighbor, error) {
	i, err := x.Lookup(word)
	if err != nil {
		return nil, fmt.Errorf("similar to %q: %w", word, err)
	}
	key := similarKey{word: i, threshold: threshold}
	if cached, ok := x.similar.Get(key); ok {
		return slices.Clone(cached), nil
	}

	cols, vals := spmat.Row(x.rel.Synonyms, i)
	var out []Neighbor
	for k, j := range cols {
		if j == i || vals[k] <= threshold {
			continue
		}
		tok, err := x.rel.Lexicon.Token(j)
		if err != nil {
			return nil, err
		}
		out = append(out, Neighbor{Token: tok, Weight: vals[k]})
	}
	sortNeighbors(out)

	x.similar.Add(key, out)
	return slices.Clone(out), nil
}

// Purge drops every cached answer.
func (x *Index) Purge() {
	x.similar.Purge()
	x.associates.Purge()
}

func sortNeighbors(ns []Neighbor) {
	slices.SortFunc(ns, func(a, b Neighbor) int {
		if c := cmp.Compare(b.Weight, a.Weight); c != 0 {
			return c
		}
		return strings.Compare(a.Token, b.Token)
	})
}
