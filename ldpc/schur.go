//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package ldpc

import (
	"fmt"

	"github.com/markkurossi/silent/gf2"
)

// ComputeEp computes the inverse of the Schur complement
// Ep=(F·C⁻¹·B+E)⁻¹. Column j of F·C⁻¹·B is computed from column j of B
// with one triangular solve; the g columns are independent and are
// computed by up to workers goroutines. It returns ErrSingular if
// the Schur complement is not invertible.
func ComputeEp(B gf2.Matrix, C gf2.Solver, E, F gf2.Matrix, workers int) (
	*gf2.Dense, error) {

	m := C.Rows()
	g := E.Rows()
	if B.Rows() != m || B.Cols() != g || E.Cols() != g ||
		F.Rows() != g || F.Cols() != m {
		return nil, fmt.Errorf("%w: B=%dx%d, C=%dx%d, E=%dx%d, F=%dx%d",
			gf2.ErrDimension, B.Rows(), B.Cols(), C.Rows(), C.Cols(),
			E.Rows(), E.Cols(), F.Rows(), F.Cols())
	}

	columns := make([]gf2.Vector, g)
	gf2.ForEach(g, 1, workers, func(from, to int) {
		unit := gf2.NewVector(g)
		for j := from; j < to; j++ {
			unit.SetBit(j, 1)
			col := gf2.NewVector(m)
			B.MulAdd(col, unit)
			unit.SetBit(j, 0)

			C.Solve(col)

			y := gf2.NewVector(g)
			F.MulAdd(y, col)
			columns[j] = y
		}
	})

	inner := E.Dense()
	for j, col := range columns {
		for _, i := range col.Ones() {
			inner.Set(i, j, inner.At(i, j)^1)
		}
	}
	ep, err := inner.Inverse()
	if err != nil {
		return nil, fmt.Errorf("ldpc: Schur complement: %w", err)
	}
	return ep, nil
}
