package encode

import (
	"context"
	"fmt"
	"iter"

	"github.com/james-bowman/sparse"

	"github.com/cognicore/cooc/pkg/cooc/lexicon"
)

// Encode builds the binary document x word incidence matrix for a pass over
// the corpus. Row d is the d-th document; entry (d, w) is 1 when document d
// contains word w at least once. Tokens missing from the lexicon are
// skipped. Documents without any known token still get an (empty) row.
//
// The result is column-major because downsampling and cooccurrence both
// work one word at a time.
func Encode(ctx context.Context, docs iter.Seq2[[]string, error], lex *lexicon.Lexicon) (*sparse.CSC, error) {
	var rows, cols []int
	seen := make(map[int]struct{})
	ndocs := 0

	for doc, err := range docs {
		if err != nil {
			return nil, fmt.Errorf("encode: %w", err)
		}
		clear(seen)
		start := len(cols)
		for _, tok := range doc {
			w, ok := lex.Lookup(tok)
			if !ok {
				continue
			}
			if _, dup := seen[w]; dup {
				continue
			}
			seen[w] = struct{}{}
			cols = append(cols, w)
		}
		for range cols[start:] {
			rows = append(rows, ndocs)
		}
		ndocs++
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return Incidence(ndocs, lex.Len(), rows, cols), nil
}

// Incidence builds an ndocs x nwords binary matrix from (row, col) pairs.
// Pairs must be unique.
func Incidence(ndocs, nwords int, rows, cols []int) *sparse.CSC {
	if len(rows) == 0 {
		return sparse.NewCSC(ndocs, nwords, make([]int, nwords+1), []int{}, []float64{})
	}
	data := make([]float64, len(rows))
	for i := range data {
		data[i] = 1
	}
	return sparse.NewCOO(ndocs, nwords, rows, cols, data).ToCSC()
}
