package spmat

import (
	"testing"

	"github.com/james-bowman/sparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 3x4:
//
//	1 0 2 0
//	0 0 0 3
//	4 0 0 0
func sample() *sparse.CSR {
	return sparse.NewCSR(3, 4,
		[]int{0, 2, 3, 4},
		[]int{0, 2, 3, 0},
		[]float64{1, 2, 3, 4})
}

func TestRow(t *testing.T) {
	cols, vals := Row(sample(), 0)
	assert.Equal(t, []int{0, 2}, cols)
	assert.Equal(t, []float64{1, 2}, vals)

	cols, _ = Row(Empty(2, 2), 1)
	assert.Empty(t, cols)
}

func TestTranspose(t *testing.T) {
	m := sample()
	mt := Transpose(m)

	r, c := mt.Dims()
	require.Equal(t, 4, r)
	require.Equal(t, 3, c)
	m.DoNonZero(func(i, j int, v float64) {
		assert.Equal(t, v, mt.At(j, i))
	})
	assert.Equal(t, m.NNZ(), mt.NNZ())
}

func TestCSCConversions(t *testing.T) {
	csc := sparse.NewCOO(3, 2, []int{0, 2, 1}, []int{0, 0, 1}, []float64{1, 1, 1}).ToCSC()

	rows, cols, vals := Triples(csc)
	assert.Equal(t, []int{0, 2, 1}, rows)
	assert.Equal(t, []int{0, 0, 1}, cols)
	assert.Equal(t, []float64{1, 1, 1}, vals)

	csr := ToCSR(csc)
	assert.Equal(t, 1.0, csr.At(2, 0))
	assert.Equal(t, 1.0, csr.At(1, 1))

	tr := TransposeCSC(csc)
	r, c := tr.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 1.0, tr.At(0, 2))
}

func TestMul(t *testing.T) {
	m := sample()
	p := Mul(m, Transpose(m))

	// row0·row0 = 1+4, row0·row2 = 1*4
	assert.Equal(t, 5.0, p.At(0, 0))
	assert.Equal(t, 4.0, p.At(0, 2))
	assert.Equal(t, 9.0, p.At(1, 1))
	assert.Equal(t, 0.0, p.At(0, 1))
	assert.True(t, Symmetric(Filter(p, func(int, int, float64) bool { return true })))
}

func TestMulEmpty(t *testing.T) {
	p := Mul(Empty(0, 3), Empty(3, 0))
	r, c := p.Dims()
	assert.Equal(t, 0, r)
	assert.Equal(t, 0, c)

	p = Mul(Empty(2, 3), Empty(3, 2))
	assert.Equal(t, 0, p.NNZ())
}

func TestFilter(t *testing.T) {
	f := Filter(sample(), func(i, j int, v float64) bool { return i != 0 || j != 0 })
	assert.Equal(t, 3, f.NNZ())
	assert.Equal(t, 0.0, f.At(0, 0))
	assert.Equal(t, 2.0, f.At(0, 2))
}

func TestSymmetric(t *testing.T) {
	assert.False(t, Symmetric(sample()))
	sym := sparse.NewCSR(2, 2, []int{0, 1, 2}, []int{1, 0}, []float64{7, 7})
	assert.True(t, Symmetric(sym))
}
