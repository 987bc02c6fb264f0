package cooccur

import (
	"github.com/james-bowman/sparse"

	"github.com/cognicore/cooc/pkg/cooc/spmat"
)

// DefaultConcentrationLimit is the count cap used by the scale diagnostic.
const DefaultConcentrationLimit = 1000

// WordCounts returns, for each word, the number of documents in which it
// has a (post-downsampling) incidence.
func WordCounts(z *sparse.CSC) []int64 {
	_, c := z.Dims()
	counts := make([]int64, c)
	for j := 0; j < c; j++ {
		_, vals := spmat.Col(z, j)
		for _, v := range vals {
			if v != 0 {
				counts[j]++
			}
		}
	}
	return counts
}

// Build computes the word x word cooccurrence matrix zᵗ·z: entry (i, j) is
// the number of documents containing both word i and word j. The diagonal
// is always zero and the result is symmetric.
func Build(z *sparse.CSC) *sparse.CSR {
	_, c := z.Dims()
	if z.NNZ() == 0 {
		return spmat.Empty(c, c)
	}
	product := spmat.Mul(spmat.TransposeCSC(z), spmat.ToCSR(z))
	return spmat.Filter(product, func(i, j int, _ float64) bool { return i != j })
}

// Density is the fraction of word pairs that cooccur at least once.
func Density(cooc *sparse.CSR) float64 {
	r, c := cooc.Dims()
	if r == 0 || c == 0 {
		return 0
	}
	return float64(cooc.NNZ()) / (float64(r) * float64(c))
}

// Concentration compares the sum of squared word counts with the same sum
// when every count is capped at limit. The ratio is at least 1 and equals 1
// exactly when no count exceeds the cap; large values mean a few very
// common words dominate the cooccurrence cost.
func Concentration(counts []int64, limit int64) float64 {
	var n1, n2 float64
	for _, k := range counts {
		n1 += float64(k) * float64(k)
		capped := min(k, limit)
		n2 += float64(capped) * float64(capped)
	}
	if n2 == 0 {
		return 1
	}
	return n1 / n2
}
