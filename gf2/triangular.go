//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package gf2

import (
	"fmt"
)

// Triangular implements a unit lower triangular square matrix. The
// substitutions walk its columns, which are the rows of the
// transpose; the first index of every column is the diagonal.
type Triangular struct {
	*Sparse
	cols [][]int
}

// NewTriangular wraps the square matrix m as a lower triangular
// solver. It returns ErrNotTriangular if m has ones above the
// diagonal and ErrSingular if a diagonal entry is zero.
func NewTriangular(m *Sparse) (*Triangular, error) {
	if m.Rows() != m.Cols() {
		return nil, fmt.Errorf("%w: triangular matrix is %dx%d",
			ErrDimension, m.Rows(), m.Cols())
	}
	t := m.transpose()
	cols := make([][]int, t.Rows())
	for c := range cols {
		col := t.Row(c)
		cols[c] = col
		if len(col) > 0 && col[0] < c {
			return nil, fmt.Errorf("%w: entry (%d,%d)", ErrNotTriangular,
				col[0], c)
		}
		if len(col) == 0 || col[0] != c {
			return nil, fmt.Errorf("%w: zero diagonal at %d", ErrSingular, c)
		}
	}
	return &Triangular{
		Sparse: m,
		cols:   cols,
	}, nil
}

// Solve implements Solver.Solve with forward substitution.
func (m *Triangular) Solve(v Vector) {
	checkMulAdd(m, v.Len(), v.Len())
	for c, col := range m.cols {
		if v.Bit(c) == 0 {
			continue
		}
		for _, r := range col[1:] {
			v.Flip(r)
		}
	}
}

// SolveSlots implements Solver.SolveSlots.
func (m *Triangular) SolveSlots(v [][]byte) {
	checkMulAdd(m, len(v), len(v))
	for c, col := range m.cols {
		for _, r := range col[1:] {
			xorSlot(v[r], v[c])
		}
	}
}

// SolveTranspose implements Solver.SolveTranspose with backward
// substitution: row c of Mᵗ is column c of M.
func (m *Triangular) SolveTranspose(v Vector) {
	checkMulAdd(m, v.Len(), v.Len())
	for c := len(m.cols) - 1; c >= 0; c-- {
		bit := v.Bit(c)
		for _, r := range m.cols[c][1:] {
			bit ^= v.Bit(r)
		}
		v.SetBit(c, bit)
	}
}

// SolveTransposeSlots implements Solver.SolveTransposeSlots.
func (m *Triangular) SolveTransposeSlots(v [][]byte) {
	checkMulAdd(m, len(v), len(v))
	for c := len(m.cols) - 1; c >= 0; c-- {
		for _, r := range m.cols[c][1:] {
			xorSlot(v[c], v[r])
		}
	}
}
