//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package gf2

import (
	"errors"
	"fmt"
)

var (
	// ErrSingular is returned when a matrix is not invertible.
	ErrSingular = errors.New("gf2: singular matrix")

	// ErrDimension is returned when operand shapes do not match.
	ErrDimension = errors.New("gf2: dimension mismatch")

	// ErrIndex is returned when a row or column index is out of
	// range or repeated.
	ErrIndex = errors.New("gf2: invalid index")

	// ErrNotTriangular is returned when a matrix expected to be
	// lower triangular has entries above the diagonal.
	ErrNotTriangular = errors.New("gf2: matrix is not lower triangular")
)

func dimensionError(op string, rows, cols, dst, v int) error {
	return fmt.Errorf("%w: %s: %dx%d matrix, dst=%d, v=%d",
		ErrDimension, op, rows, cols, dst, v)
}
