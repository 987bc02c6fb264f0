package lexicon

import (
	"context"
	"fmt"
	"iter"
	"slices"

	"github.com/cognicore/cooc/pkg/cooc/internalerr"
)

// DefaultMinCount is the occurrence count a token needs to stay in the lexicon.
const DefaultMinCount = 3

// Lexicon is the pruned vocabulary of a corpus.
//
// Surviving tokens are sorted and each token's position in that order is its
// word index, so indices always cover [0, Len()) exactly once and are the
// same for the same set of counts.
type Lexicon struct {
	words  []string
	index  map[string]int
	counts []int64

	// tokens removed by pruning
	pruned map[string]struct{}
}

// Builder accumulates token occurrence counts.
type Builder struct {
	counts map[string]int64
	docs   int
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{counts: make(map[string]int64)}
}

// Add counts every occurrence of every token in one document.
func (b *Builder) Add(tokens []string) {
	b.docs++
	for _, tok := range tokens {
		b.counts[tok]++
	}
}

// Docs returns the number of documents added so far.
func (b *Builder) Docs() int {
	return b.docs
}

// Build prunes tokens seen fewer than minCount times and assigns word
// indices to the rest. The builder can keep accumulating afterwards.
func (b *Builder) Build(minCount int) *Lexicon {
	lex := &Lexicon{
		index:  make(map[string]int),
		pruned: make(map[string]struct{}),
	}
	for tok, n := range b.counts {
		if n < int64(minCount) {
			lex.pruned[tok] = struct{}{}
			continue
		}
		lex.words = append(lex.words, tok)
	}
	slices.Sort(lex.words)

	lex.counts = make([]int64, len(lex.words))
	for i, w := range lex.words {
		lex.index[w] = i
		lex.counts[i] = b.counts[w]
	}
	return lex
}

// Build counts a full pass of documents and prunes the result.
func Build(ctx context.Context, docs iter.Seq2[[]string, error], minCount int) (*Lexicon, int, error) {
	b := NewBuilder()
	for doc, err := range docs {
		if err != nil {
			return nil, 0, fmt.Errorf("count tokens: %w", err)
		}
		b.Add(doc)
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	return b.Build(minCount), b.Docs(), nil
}

// Len returns the vocabulary size.
func (l *Lexicon) Len() int {
	return len(l.words)
}

// Words returns the surviving tokens in index order.
func (l *Lexicon) Words() []string {
	return slices.Clone(l.words)
}

// Index returns the word index of token.
func (l *Lexicon) Index(token string) (int, error) {
	i, ok := l.index[token]
	if !ok {
		return -1, fmt.Errorf("token %q: %w", token, internalerr.ErrNotFound)
	}
	return i, nil
}

// Lookup is like Index but reports presence with a bool.
func (l *Lexicon) Lookup(token string) (int, bool) {
	i, ok := l.index[token]
	return i, ok
}

// Token returns the token with word index i.
func (l *Lexicon) Token(i int) (string, error) {
	if i < 0 || i >= len(l.words) {
		return "", fmt.Errorf("word index %d: %w", i, internalerr.ErrNotFound)
	}
	return l.words[i], nil
}

// Count returns the occurrence count of token, zero if it is not in the lexicon.
func (l *Lexicon) Count(token string) int64 {
	if i, ok := l.index[token]; ok {
		return l.counts[i]
	}
	return 0
}

// Counts returns occurrence counts in word index order.
func (l *Lexicon) Counts() []int64 {
	return slices.Clone(l.counts)
}

// Pruned returns the set of tokens removed for being too rare.
func (l *Lexicon) Pruned() map[string]struct{} {
	out := make(map[string]struct{}, len(l.pruned))
	for tok := range l.pruned {
		out[tok] = struct{}{}
	}
	return out
}
