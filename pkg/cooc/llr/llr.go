// Package llr scores word pairs with the log-likelihood ratio test on 2x2
// document contingency tables.
package llr

import (
	"fmt"
	"math"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cognicore/cooc/pkg/cooc/internalerr"
	"github.com/cognicore/cooc/pkg/cooc/spmat"
)

// Table is a 2x2 contingency table of document counts for words A and B.
//
//	        B     ¬B
//	 A    K11    K12
//	¬A    K21    K22
type Table struct {
	K11, K12, K21, K22 float64
}

// NewTable builds the table for a pair that cooccurs in k11 documents, where
// A appears in k1_ documents, B in k_1 documents, out of n in total.
func NewTable(k11, k1_, k_1, n int64) (Table, error) {
	t := Table{
		K11: float64(k11),
		K12: float64(k1_ - k11),
		K21: float64(k_1 - k11),
		K22: float64(n - k1_ - k_1 + k11),
	}
	if t.K11 < 0 || t.K12 < 0 || t.K21 < 0 || t.K22 < 0 {
		return Table{}, fmt.Errorf("llr: inconsistent counts k11=%d k1_=%d k_1=%d n=%d: %w",
			k11, k1_, k_1, n, internalerr.ErrInvalidInput)
	}
	return t, nil
}

// Sum returns K11+K12+K21+K22.
func (t Table) Sum() float64 {
	return t.K11 + t.K12 + t.K21 + t.K22
}

// LLR returns 2 * (H(row sums) + H(column sums) - H(table)).
func (t Table) LLR() float64 {
	rows := Entropy(t.K11+t.K12, t.K21+t.K22)
	cols := Entropy(t.K11+t.K21, t.K12+t.K22)
	all := Entropy(t.K11, t.K12, t.K21, t.K22)
	score := 2 * (rows + cols - all)
	if score < 0 {
		// rounding on near-independent tables
		return 0
	}
	return score
}

// Entropy is the unnormalized Shannon entropy -Σ k ln(k/N) of a vector of
// non-negative counts summing to N. Zero counts contribute nothing.
func Entropy(counts ...float64) float64 {
	n := floats.Sum(counts)
	if n <= 0 {
		return 0
	}
	p := make([]float64, len(counts))
	floats.ScaleTo(p, 1/n, counts)
	return n * stat.Entropy(p)
}

// Score computes an LLR score for every stored entry (i, j) of the
// cooccurrence matrix. counts[i] is the number of documents containing word
// i and ndocs the total number of documents. The result keeps the sparsity
// pattern of cooc, storing explicit zeros for independent pairs, and is
// symmetric whenever cooc is.
func Score(cooc *sparse.CSR, counts []int64, ndocs int64) (*sparse.CSR, error) {
	r, c := cooc.Dims()
	if r != c || len(counts) != r {
		return nil, fmt.Errorf("llr: %dx%d cooccurrence with %d counts: %w", r, c, len(counts), internalerr.ErrInvalidInput)
	}

	indptr := make([]int, r+1)
	ind := make([]int, 0, cooc.NNZ())
	data := make([]float64, 0, cooc.NNZ())

	for i := 0; i < r; i++ {
		cols, vals := spmat.Row(cooc, i)
		for k, j := range cols {
			if vals[k] == 0 {
				continue
			}
			// (i, j) and (j, i) must agree bit for bit
			a, b := min(i, j), max(i, j)
			t, err := NewTable(int64(vals[k]), counts[a], counts[b], ndocs)
			if err != nil {
				return nil, fmt.Errorf("llr: pair (%d, %d): %w", i, j, err)
			}
			s := t.LLR()
			if math.IsNaN(s) || math.IsInf(s, 0) {
				return nil, fmt.Errorf("llr: pair (%d, %d) scored %v: %w", i, j, s, internalerr.ErrInvalidInput)
			}
			ind = append(ind, j)
			data = append(data, s)
		}
		indptr[i+1] = len(ind)
	}
	return sparse.NewCSR(r, c, indptr, ind, data), nil
}
