//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package ldpc

import (
	"slices"

	"github.com/markkurossi/silent/gf2"
)

type rightBlocks struct {
	C *gf2.Triangular
	F *gf2.Sparse
}

// rightCode builds C and F. Column c is the right seed row c mod g
// shifted down by c; its first k-g rows belong to C and the rest to
// F. The columns are independent and built in parallel.
func rightCode(family *CodeFamily, k, workers int) (*rightBlocks, error) {
	g := family.Gap
	m := k - g

	cCols := make([][]int, m)
	fCols := make([][]int, m)

	gf2.ForEach(m, 1, workers, func(from, to int) {
		for c := from; c < to; c++ {
			pattern := family.RightSeed[c%g]
			var cCol, fCol []int
			for _, o := range pattern {
				r := (c + o) % k
				if r < m {
					cCol = append(cCol, r)
				} else {
					fCol = append(fCol, r-m)
				}
			}
			slices.Sort(cCol)
			slices.Sort(fCol)
			cCols[c] = cCol
			fCols[c] = fCol
		}
	})

	cm, err := gf2.NewSparseFromColumns(m, m, cCols)
	if err != nil {
		return nil, err
	}
	C, err := gf2.NewTriangular(cm)
	if err != nil {
		return nil, err
	}
	F, err := gf2.NewSparseFromColumns(g, m, fCols)
	if err != nil {
		return nil, err
	}
	return &rightBlocks{
		C: C,
		F: F,
	}, nil
}
