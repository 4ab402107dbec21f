//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package gf2 implements vectors and linear operators over the
// two-element field GF(2). Addition is XOR and multiplication is AND.
//
// Vectors and matrices are stored in github.com/nathanhack/sparsemat
// containers and the operators share the Matrix capability set:
// transpose, sub-matrix extraction, and multiply-accumulate into bit
// vectors or into vectors of fixed-width byte slots.
//
//   - Dense wraps a sparsemat matrix and supports inversion.
//   - Sparse wraps a sparsemat CSR matrix and caches its row index
//     lists for the slot paths.
//   - Triangular is a unit lower triangular Sparse that can also be
//     inverted by substitution.
//
// The slot variants apply the same linear map componentwise to byte
// strings: a slot vector v of length n is n byte strings of equal
// width and M·v is computed by XORing the slots selected by the ones
// of M.
package gf2

import (
	"crypto/subtle"
	"fmt"
)

// Matrix defines the linear operator capabilities of a GF(2) matrix.
type Matrix interface {
	// Rows returns the number of rows.
	Rows() int

	// Cols returns the number of columns.
	Cols() int

	// MulAdd computes dst += M·v. The length of v must be Cols and
	// the length of dst must be Rows.
	MulAdd(dst, v Vector)

	// MulAddSlots computes dst += M·v for slot vectors.
	MulAddSlots(dst, v [][]byte)

	// Transpose returns the transpose of the matrix. The result may
	// share storage with the receiver.
	Transpose() Matrix

	// Sub returns the sub-matrix rows [r0,r1) × columns [c0,c1).
	Sub(r0, r1, c0, c1 int) Matrix

	// Dense returns a dense copy of the matrix.
	Dense() *Dense
}

// Solver is a square invertible Matrix that can apply its inverse
// and the inverse of its transpose in place.
type Solver interface {
	Matrix

	// Solve sets v = M⁻¹·v.
	Solve(v Vector)

	// SolveSlots sets v = M⁻¹·v for a slot vector.
	SolveSlots(v [][]byte)

	// SolveTranspose sets v = M⁻ᵗ·v.
	SolveTranspose(v Vector)

	// SolveTransposeSlots sets v = M⁻ᵗ·v for a slot vector.
	SolveTransposeSlots(v [][]byte)
}

// ParallelMatrix is implemented by operators that can split their
// multiply-accumulate over workers. The result must not depend on
// the number of workers.
type ParallelMatrix interface {
	Matrix
	MulAddParallel(dst, v Vector, workers int)
	MulAddSlotsParallel(dst, v [][]byte, workers int)
}

// Equal tests if the matrices a and b have the same shape and
// entries, regardless of their storage.
func Equal(a, b Matrix) bool {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return false
	}
	return a.Dense().Equal(b.Dense())
}

// NewSlots allocates n zero slots of width bytes each.
func NewSlots(n, width int) [][]byte {
	buf := make([]byte, n*width)
	result := make([][]byte, n)
	for i := 0; i < n; i++ {
		result[i] = buf[i*width : (i+1)*width : (i+1)*width]
	}
	return result
}

// CloneSlots returns a deep copy of the slot vector v.
func CloneSlots(v [][]byte) [][]byte {
	if len(v) == 0 {
		return nil
	}
	result := NewSlots(len(v), len(v[0]))
	for i := range v {
		copy(result[i], v[i])
	}
	return result
}

// SlotWidth returns the common width of the slots of v. It returns
// false if v is empty or the slots have different widths.
func SlotWidth(v [][]byte) (int, bool) {
	if len(v) == 0 {
		return 0, false
	}
	width := len(v[0])
	for _, s := range v {
		if len(s) != width {
			return 0, false
		}
	}
	return width, width > 0
}

// AddSlots sets dst = dst + v for slot vectors of equal shape.
func AddSlots(dst, v [][]byte) {
	if len(dst) != len(v) {
		panic(fmt.Errorf("%w: AddSlots: %d != %d", ErrDimension, len(dst), len(v)))
	}
	for i := range dst {
		xorSlot(dst[i], v[i])
	}
}

func xorSlot(dst, src []byte) {
	subtle.XORBytes(dst, dst, src)
}

func checkMulAdd(m Matrix, dst, v int) {
	if dst != m.Rows() || v != m.Cols() {
		panic(dimensionError("MulAdd", m.Rows(), m.Cols(), dst, v))
	}
}
