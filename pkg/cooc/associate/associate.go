package associate

import (
	"slices"

	"github.com/james-bowman/sparse"

	"github.com/cognicore/cooc/pkg/cooc/spmat"
)

const (
	DefaultMinScore      = 15.0
	DefaultMaxAssociates = 30
)

// Options bounds associate selection.
type Options struct {
	MinScore      float64
	MaxAssociates int
}

// DefaultOptions returns the standard floor and per-word limit.
func DefaultOptions() Options {
	return Options{MinScore: DefaultMinScore, MaxAssociates: DefaultMaxAssociates}
}

// SelectRow picks the associates of one word from its scored partners.
// Partners scoring below MinScore are discarded; of the rest, every partner
// scoring at least the MaxAssociates-th highest score is kept, so ties at
// the cutoff may yield more than MaxAssociates results. The returned
// indices keep the order of cols.
func SelectRow(cols []int, scores []float64, opts Options) []int {
	var qualified []float64
	for _, s := range scores {
		if s >= opts.MinScore {
			qualified = append(qualified, s)
		}
	}
	if len(qualified) == 0 {
		return nil
	}

	slices.Sort(qualified)
	slices.Reverse(qualified)
	k := len(qualified)
	if opts.MaxAssociates > 0 {
		k = min(k, opts.MaxAssociates)
	}
	cutoff := qualified[k-1]

	kept := make([]int, 0, k)
	for n, j := range cols {
		if scores[n] >= opts.MinScore && scores[n] >= cutoff {
			kept = append(kept, j)
		}
	}
	return kept
}

// Select applies SelectRow to every row of the score matrix and returns the
// unweighted associates relation: entry (i, j) is 1 when j is an associate
// of i.
func Select(scores *sparse.CSR, opts Options) *sparse.CSR {
	r, c := scores.Dims()
	indptr := make([]int, r+1)
	var ind []int
	var data []float64
	for i := 0; i < r; i++ {
		cols, vals := spmat.Row(scores, i)
		for _, j := range SelectRow(cols, vals, opts) {
			ind = append(ind, j)
			data = append(data, 1)
		}
		indptr[i+1] = len(ind)
	}
	if len(ind) == 0 {
		return spmat.Empty(r, c)
	}
	return sparse.NewCSR(r, c, indptr, ind, data)
}

// Synonyms returns associates · associatesᵗ. Entry (i, j) counts the words
// that are associates of both i and j.
func Synonyms(assoc *sparse.CSR) *sparse.CSR {
	return spmat.Mul(assoc, spmat.Transpose(assoc))
}

// Above lists the columns of row i whose value exceeds threshold, in
// ascending column order.
func Above(m *sparse.CSR, i int, threshold float64) []int {
	cols, vals := spmat.Row(m, i)
	var out []int
	for k, j := range cols {
		if vals[k] > threshold {
			out = append(out, j)
		}
	}
	slices.Sort(out)
	return out
}
