package associate

import (
	"testing"

	"github.com/james-bowman/sparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/cooc/pkg/cooc/spmat"
)

func TestSelectRowTiesAtCutoff(t *testing.T) {
	cols := []int{4, 7, 1, 9, 2}
	scores := []float64{18, 12, 20, 18, 15}

	got := SelectRow(cols, scores, Options{MinScore: 0, MaxAssociates: 3})
	assert.Equal(t, []int{4, 1, 9}, got, "cutoff 18 keeps both tied partners")
}

func TestSelectRowFloor(t *testing.T) {
	cols := []int{0, 1, 2, 3}
	scores := []float64{14.9, 15, 40, 3}

	got := SelectRow(cols, scores, DefaultOptions())
	assert.ElementsMatch(t, []int{1, 2}, got)

	for n, j := range cols {
		if scores[n] < DefaultMinScore {
			assert.NotContains(t, got, j)
		}
	}
}

func TestSelectRowNoneQualify(t *testing.T) {
	assert.Empty(t, SelectRow([]int{0, 1}, []float64{1, 2}, DefaultOptions()))
	assert.Empty(t, SelectRow(nil, nil, DefaultOptions()))
}

func TestSelectRowFewerThanLimit(t *testing.T) {
	got := SelectRow([]int{3, 5}, []float64{16, 30}, Options{MinScore: 15, MaxAssociates: 30})
	assert.Equal(t, []int{3, 5}, got)
}

func scoreMatrix() *sparse.CSR {
	// symmetric scores over 4 words
	rows := []int{0, 1, 0, 2, 1, 3, 2, 3}
	cols := []int{1, 0, 2, 0, 3, 1, 3, 2}
	vals := []float64{20, 20, 16, 16, 25, 25, 5, 5}
	return sparse.NewCOO(4, 4, rows, cols, vals).ToCSR()
}

func TestSelect(t *testing.T) {
	assoc := Select(scoreMatrix(), Options{MinScore: 15, MaxAssociates: 1})

	assert.Equal(t, 1.0, assoc.At(0, 1))
	assert.Equal(t, 0.0, assoc.At(0, 2), "only the best partner survives")
	assert.Equal(t, 1.0, assoc.At(1, 3))
	assert.Equal(t, 1.0, assoc.At(2, 0))
	assert.Equal(t, 1.0, assoc.At(3, 1))
	assert.Equal(t, 4, assoc.NNZ())

	assoc.DoNonZero(func(_, _ int, v float64) {
		assert.Equal(t, 1.0, v, "associates are unweighted")
	})
}

func TestSelectEmpty(t *testing.T) {
	assoc := Select(spmat.Empty(3, 3), DefaultOptions())
	r, c := assoc.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 0, assoc.NNZ())
	assert.Equal(t, 0, Synonyms(assoc).NNZ())
}

func TestSynonymsSymmetric(t *testing.T) {
	assoc := Select(scoreMatrix(), Options{MinScore: 0, MaxAssociates: 2})
	syn := Synonyms(assoc)
	require.True(t, spmat.Symmetric(syn))

	// 0 -> {1,2}, 3 -> {1,2}
	assert.Equal(t, 2.0, syn.At(0, 3))
	assert.Equal(t, 2.0, syn.At(3, 0))
}

func TestAbove(t *testing.T) {
	m := sparse.NewCOO(1, 5, []int{0, 0, 0}, []int{4, 1, 2}, []float64{5, 1, 4}).ToCSR()
	assert.Equal(t, []int{2, 4}, Above(m, 0, 3))
	assert.Empty(t, Above(m, 0, 10))
}
