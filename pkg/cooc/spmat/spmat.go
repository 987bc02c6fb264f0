// Package spmat holds the small set of sparse matrix operations the pipeline
// stages share. Matrices are james-bowman/sparse CSR and CSC values; every
// function here returns a new matrix and leaves its arguments untouched.
package spmat

import (
	"slices"

	"github.com/james-bowman/sparse"
)

// Empty returns an r x c CSR matrix with no stored entries.
func Empty(r, c int) *sparse.CSR {
	return sparse.NewCSR(r, c, make([]int, r+1), []int{}, []float64{})
}

// Row returns the stored column indices and values of row i. The slices
// alias the matrix storage and must not be modified.
func Row(m *sparse.CSR, i int) ([]int, []float64) {
	raw := m.RawMatrix()
	start, end := raw.Indptr[i], raw.Indptr[i+1]
	return raw.Ind[start:end], raw.Data[start:end]
}

// Col returns the stored row indices and values of column j of a CSC matrix.
// The slices alias the matrix storage and must not be modified.
func Col(m *sparse.CSC, j int) ([]int, []float64) {
	raw := m.RawMatrix()
	start, end := raw.Indptr[j], raw.Indptr[j+1]
	return raw.Ind[start:end], raw.Data[start:end]
}

// Triples lists the entries of a CSC matrix as (row, col, value) triples in
// column-major order.
func Triples(m *sparse.CSC) (rows, cols []int, vals []float64) {
	_, c := m.Dims()
	n := m.NNZ()
	rows = make([]int, 0, n)
	cols = make([]int, 0, n)
	vals = make([]float64, 0, n)
	for j := 0; j < c; j++ {
		ind, data := Col(m, j)
		for k, i := range ind {
			rows = append(rows, i)
			cols = append(cols, j)
			vals = append(vals, data[k])
		}
	}
	return rows, cols, vals
}

// ToCSR converts a CSC matrix to CSR.
func ToCSR(m *sparse.CSC) *sparse.CSR {
	r, c := m.Dims()
	if m.NNZ() == 0 {
		return Empty(r, c)
	}
	rows, cols, vals := Triples(m)
	return sparse.NewCOO(r, c, rows, cols, vals).ToCSR()
}

// TransposeCSC returns mᵗ in CSR form.
func TransposeCSC(m *sparse.CSC) *sparse.CSR {
	r, c := m.Dims()
	if m.NNZ() == 0 {
		return Empty(c, r)
	}
	rows, cols, vals := Triples(m)
	return sparse.NewCOO(c, r, cols, rows, vals).ToCSR()
}

// Transpose returns mᵗ.
func Transpose(m *sparse.CSR) *sparse.CSR {
	r, c := m.Dims()
	if m.NNZ() == 0 {
		return Empty(c, r)
	}
	rows := make([]int, 0, m.NNZ())
	cols := make([]int, 0, m.NNZ())
	vals := make([]float64, 0, m.NNZ())
	for i := 0; i < r; i++ {
		ind, data := Row(m, i)
		for k, j := range ind {
			rows = append(rows, j)
			cols = append(cols, i)
			vals = append(vals, data[k])
		}
	}
	return sparse.NewCOO(c, r, rows, cols, vals).ToCSR()
}

// Mul returns the product a·b.
func Mul(a, b *sparse.CSR) *sparse.CSR {
	ar, _ := a.Dims()
	_, bc := b.Dims()
	if ar == 0 || bc == 0 || a.NNZ() == 0 || b.NNZ() == 0 {
		return Empty(ar, bc)
	}
	var product sparse.CSR
	product.Mul(a, b)
	return &product
}

// Filter rebuilds m keeping only the entries for which keep returns true.
// Column indices of the result are sorted within each row and explicit
// zeros are never stored.
func Filter(m *sparse.CSR, keep func(i, j int, v float64) bool) *sparse.CSR {
	r, c := m.Dims()
	indptr := make([]int, r+1)
	ind := make([]int, 0, m.NNZ())
	data := make([]float64, 0, m.NNZ())

	type entry struct {
		j int
		v float64
	}
	var row []entry
	for i := 0; i < r; i++ {
		cols, vals := Row(m, i)
		row = row[:0]
		for k, j := range cols {
			if vals[k] != 0 && keep(i, j, vals[k]) {
				row = append(row, entry{j, vals[k]})
			}
		}
		slices.SortFunc(row, func(a, b entry) int { return a.j - b.j })
		for _, e := range row {
			ind = append(ind, e.j)
			data = append(data, e.v)
		}
		indptr[i+1] = len(ind)
	}
	return sparse.NewCSR(r, c, indptr, ind, data)
}

// Symmetric reports whether m equals its transpose.
func Symmetric(m *sparse.CSR) bool {
	r, c := m.Dims()
	if r != c {
		return false
	}
	symmetric := true
	m.DoNonZero(func(i, j int, v float64) {
		if m.At(j, i) != v {
			symmetric = false
		}
	})
	return symmetric
}
