//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package gf2

import (
	"fmt"

	mat "github.com/nathanhack/sparsemat"
)

// Dense implements a GF(2) matrix for the small blocks that are
// inverted or assembled entry by entry.
type Dense struct {
	m mat.SparseMat
}

// NewDense creates a zero rows×cols matrix.
func NewDense(rows, cols int) *Dense {
	return &Dense{
		m: mat.CSRMat(rows, cols),
	}
}

// NewDenseFromRows creates a matrix from the row bit values, one bit
// per byte. All rows must have the same nonzero length.
func NewDenseFromRows(rows [][]byte) (*Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrDimension)
	}
	m := NewDense(len(rows), len(rows[0]))
	for i, row := range rows {
		if len(row) != m.Cols() {
			return nil, fmt.Errorf("%w: row %d has %d columns, expected %d",
				ErrDimension, i, len(row), m.Cols())
		}
		for j, b := range row {
			if b&1 != 0 {
				m.m.Set(i, j, 1)
			}
		}
	}
	return m, nil
}

// Identity creates the n×n identity matrix.
func Identity(n int) *Dense {
	m := NewDense(n, n)
	for i := 0; i < n; i++ {
		m.m.Set(i, i, 1)
	}
	return m
}

// Rows implements Matrix.Rows.
func (m *Dense) Rows() int {
	rows, _ := m.m.Dims()
	return rows
}

// Cols implements Matrix.Cols.
func (m *Dense) Cols() int {
	_, cols := m.m.Dims()
	return cols
}

// At returns the entry at row r and column c.
func (m *Dense) At(r, c int) uint {
	return uint(m.m.At(r, c)) & 1
}

// Set sets the entry at row r and column c.
func (m *Dense) Set(r, c int, b uint) {
	m.m.Set(r, c, int(b&1))
}

// Row returns a copy of the row r.
func (m *Dense) Row(r int) Vector {
	return Vector{
		vec: mat.CSRVecCopy(m.m.Row(r)),
	}
}

// MulAdd implements Matrix.MulAdd.
func (m *Dense) MulAdd(dst, v Vector) {
	checkMulAdd(m, dst.Len(), v.Len())
	y := mat.CSRVec(dst.Len())
	y.MatMul(m.m, v.vec)
	dst.Xor(Vector{vec: y})
}

// MulAddSlots implements Matrix.MulAddSlots.
func (m *Dense) MulAddSlots(dst, v [][]byte) {
	checkMulAdd(m, len(dst), len(v))
	for r := range dst {
		for _, c := range nonzero(m.m.Row(r)) {
			xorSlot(dst[r], v[c])
		}
	}
}

// Transpose implements Matrix.Transpose.
func (m *Dense) Transpose() Matrix {
	return &Dense{
		m: m.m.T(),
	}
}

// Sub implements Matrix.Sub.
func (m *Dense) Sub(r0, r1, c0, c1 int) Matrix {
	checkSub(m, r0, r1, c0, c1)
	return &Dense{
		m: m.m.Slice(r0, c0, r1-r0, c1-c0),
	}
}

// Dense implements Matrix.Dense.
func (m *Dense) Dense() *Dense {
	return m.Clone()
}

// Clone returns an independent copy of the matrix.
func (m *Dense) Clone() *Dense {
	return &Dense{
		m: mat.CSRMatCopy(m.m),
	}
}

// Mul returns the product m·o.
func (m *Dense) Mul(o *Dense) (*Dense, error) {
	if m.Cols() != o.Rows() {
		return nil, fmt.Errorf("%w: Mul: %dx%d · %dx%d",
			ErrDimension, m.Rows(), m.Cols(), o.Rows(), o.Cols())
	}
	result := NewDense(m.Rows(), o.Cols())
	result.m.MatMul(m.m, o.m)
	return result, nil
}

// Inverse returns the inverse of the square matrix m. It returns
// ErrSingular if m is not invertible.
func (m *Dense) Inverse() (*Dense, error) {
	n := m.Rows()
	if n != m.Cols() {
		return nil, fmt.Errorf("%w: Inverse: %dx%d", ErrDimension, n, m.Cols())
	}
	a := m.Clone().m
	inv := Identity(n)

	// Gauss-Jordan elimination on (a|inv) with row operations.
	for c := 0; c < n; c++ {
		pivot := -1
		for r := c; r < n; r++ {
			if a.At(r, c) == 1 {
				pivot = r
				break
			}
		}
		if pivot < 0 {
			return nil, ErrSingular
		}
		if pivot != c {
			a.SwapRows(c, pivot)
			inv.m.SwapRows(c, pivot)
		}
		for r := 0; r < n; r++ {
			if r != c && a.At(r, c) == 1 {
				a.AddRows(r, c, r)
				inv.m.AddRows(r, c, r)
			}
		}
	}
	return inv, nil
}

// Equal tests if the matrices are equal.
func (m *Dense) Equal(o *Dense) bool {
	if m.Rows() != o.Rows() || m.Cols() != o.Cols() {
		return false
	}
	return m.m.Equals(o.m)
}

// IsIdentity tests if m is the identity matrix.
func (m *Dense) IsIdentity() bool {
	if m.Rows() != m.Cols() {
		return false
	}
	return m.Equal(Identity(m.Rows()))
}

func (m *Dense) String() string {
	return m.m.String()
}

func checkSub(m Matrix, r0, r1, c0, c1 int) {
	if r0 < 0 || r1 > m.Rows() || r0 >= r1 || c0 < 0 || c1 > m.Cols() ||
		c0 >= c1 {
		panic(fmt.Errorf("%w: Sub [%d:%d]x[%d:%d] of %dx%d",
			ErrIndex, r0, r1, c0, c1, m.Rows(), m.Cols()))
	}
}
