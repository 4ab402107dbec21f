//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package gf2

import (
	"fmt"
	"sort"

	mat "github.com/nathanhack/sparsemat"
)

// Sparse implements a sparse GF(2) matrix on a sparsemat CSR matrix.
// The column indexes of each row are cached in increasing order for
// the slot and parallel paths. Sparse matrices are immutable.
type Sparse struct {
	m    mat.SparseMat
	rows [][]int
}

// NewSparse creates a rows×cols matrix from the column indexes of
// each row. The index lists are taken over by the matrix and sorted
// in place.
func NewSparse(rows, cols int, rowIdx [][]int) (*Sparse, error) {
	if err := normalize(rowIdx, rows, cols); err != nil {
		return nil, err
	}
	m := mat.CSRMat(rows, cols)
	for r, row := range rowIdx {
		for _, c := range row {
			m.Set(r, c, 1)
		}
	}
	return &Sparse{
		m:    m,
		rows: rowIdx,
	}, nil
}

// NewSparseFromColumns creates a rows×cols matrix from the row
// indexes of each column.
func NewSparseFromColumns(rows, cols int, columns [][]int) (*Sparse, error) {
	if err := normalize(columns, cols, rows); err != nil {
		return nil, err
	}
	return NewSparse(rows, cols, invertLists(columns, rows))
}

// newSparse wraps the sparsemat matrix m and reads its row index
// lists.
func newSparse(m mat.SparseMat) *Sparse {
	rows, _ := m.Dims()
	idx := make([][]int, rows)
	for r := range idx {
		idx[r] = nonzero(m.Row(r))
	}
	return &Sparse{
		m:    m,
		rows: idx,
	}
}

func normalize(lists [][]int, count, limit int) error {
	if len(lists) != count {
		return fmt.Errorf("%w: %d index lists, expected %d",
			ErrDimension, len(lists), count)
	}
	for i, list := range lists {
		if !sort.IntsAreSorted(list) {
			sort.Ints(list)
		}
		for j, v := range list {
			if v < 0 || v >= limit {
				return fmt.Errorf("%w: list %d: index %d not in [0,%d)",
					ErrIndex, i, v, limit)
			}
			if j > 0 && list[j-1] == v {
				return fmt.Errorf("%w: list %d: index %d repeated",
					ErrIndex, i, v)
			}
		}
	}
	return nil
}

// Rows implements Matrix.Rows.
func (m *Sparse) Rows() int {
	return len(m.rows)
}

// Cols implements Matrix.Cols.
func (m *Sparse) Cols() int {
	_, cols := m.m.Dims()
	return cols
}

// Row returns the column indexes of row r. The caller must not
// modify the returned slice.
func (m *Sparse) Row(r int) []int {
	return m.rows[r]
}

// MulAdd implements Matrix.MulAdd.
func (m *Sparse) MulAdd(dst, v Vector) {
	checkMulAdd(m, dst.Len(), v.Len())
	y := mat.CSRVec(dst.Len())
	y.MatMul(m.m, v.vec)
	dst.Xor(Vector{vec: y})
}

// MulAddSlots implements Matrix.MulAddSlots.
func (m *Sparse) MulAddSlots(dst, v [][]byte) {
	checkMulAdd(m, len(dst), len(v))
	m.mulAddSlotRows(dst, v, 0, len(m.rows))
}

func (m *Sparse) mulAddSlotRows(dst, v [][]byte, from, to int) {
	for r := from; r < to; r++ {
		for _, c := range m.rows[r] {
			xorSlot(dst[r], v[c])
		}
	}
}

// MulAddParallel implements ParallelMatrix.MulAddParallel. The row
// products are computed by the workers and added to dst afterwards.
func (m *Sparse) MulAddParallel(dst, v Vector, workers int) {
	checkMulAdd(m, dst.Len(), v.Len())
	bits := make([]uint, len(m.rows))
	ForEach(len(m.rows), 1, workers, func(from, to int) {
		for r := from; r < to; r++ {
			for _, c := range m.rows[r] {
				bits[r] ^= v.Bit(c)
			}
		}
	})
	for r, bit := range bits {
		if bit == 1 {
			dst.Flip(r)
		}
	}
}

// MulAddSlotsParallel implements ParallelMatrix.MulAddSlotsParallel.
func (m *Sparse) MulAddSlotsParallel(dst, v [][]byte, workers int) {
	checkMulAdd(m, len(dst), len(v))
	ForEach(len(m.rows), 1, workers, func(from, to int) {
		m.mulAddSlotRows(dst, v, from, to)
	})
}

// Transpose implements Matrix.Transpose.
func (m *Sparse) Transpose() Matrix {
	return m.transpose()
}

func (m *Sparse) transpose() *Sparse {
	return newSparse(m.m.T())
}

// Sub implements Matrix.Sub.
func (m *Sparse) Sub(r0, r1, c0, c1 int) Matrix {
	return m.SubSparse(r0, r1, c0, c1)
}

// SubSparse returns the sub-matrix rows [r0,r1) × columns [c0,c1) as
// a sparse matrix.
func (m *Sparse) SubSparse(r0, r1, c0, c1 int) *Sparse {
	checkSub(m, r0, r1, c0, c1)
	return newSparse(m.m.Slice(r0, c0, r1-r0, c1-c0))
}

// Dense implements Matrix.Dense.
func (m *Sparse) Dense() *Dense {
	return &Dense{
		m: mat.CSRMatCopy(m.m),
	}
}

// invertLists converts column lists into row lists and vice versa.
// The outputs are sorted since the inputs are visited in order.
func invertLists(lists [][]int, count int) [][]int {
	result := make([][]int, count)
	for i, list := range lists {
		for _, v := range list {
			result[v] = append(result[v], i)
		}
	}
	return result
}
