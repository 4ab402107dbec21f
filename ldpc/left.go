//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package ldpc

import (
	"fmt"
	"math"
	"slices"

	"github.com/markkurossi/silent/gf2"
)

// leftBlocks hold the blocks of the left code. E is nil when the
// blocks are reconstructed for a cached Ep.
type leftBlocks struct {
	A *gf2.Sparse
	B *gf2.Sparse
	D *gf2.Sparse
	E *gf2.Sparse
}

// leftPositions returns the sorted rows of the first circulant
// column. Colliding positions are moved forward until free.
func leftPositions(seed []float64, k int) ([]int, error) {
	used := make(map[int]bool, len(seed))
	positions := make([]int, 0, len(seed))

	for i, s := range seed {
		pos := int(math.Floor(float64(k)*s)) % k
		for tries := 0; used[pos]; tries++ {
			if tries >= MaxTries {
				return nil, fmt.Errorf("%w: seed %d, k=%d",
					ErrCollisionExceeded, i, k)
			}
			pos = (pos + 1) % k
		}
		used[pos] = true
		positions = append(positions, pos)
	}
	slices.Sort(positions)
	return positions, nil
}

// circulant expands the k×k circulant matrix whose column j has ones
// at rows (p+j) mod k.
func circulant(positions []int, k, workers int) (*gf2.Sparse, error) {
	columns := make([][]int, k)
	gf2.ForEach(k, 1, workers, func(from, to int) {
		for j := from; j < to; j++ {
			col := make([]int, len(positions))
			for i, p := range positions {
				col[i] = (p + j) % k
			}
			slices.Sort(col)
			columns[j] = col
		}
	})
	return gf2.NewSparseFromColumns(k, k, columns)
}

// leftCode builds A, B, D, and E by slicing the expanded circulant
// matrix.
func leftCode(family *CodeFamily, k, workers int) (*leftBlocks, error) {
	positions, err := leftPositions(family.LeftSeed, k)
	if err != nil {
		return nil, err
	}
	circ, err := circulant(positions, k, workers)
	if err != nil {
		return nil, err
	}
	m := k - family.Gap

	return &leftBlocks{
		A: circ.SubSparse(0, m, 0, m),
		B: circ.SubSparse(0, m, m, k),
		D: circ.SubSparse(m, k, 0, m),
		E: circ.SubSparse(m, k, m, k),
	}, nil
}

// leftCodeOnline builds A, B, and D by walking the first circulant
// column through its k shifts. Rows past k-g overflow into D; a
// clustered seed can overflow several rows per shift.
func leftCodeOnline(family *CodeFamily, k int) (*leftBlocks, error) {
	positions, err := leftPositions(family.LeftSeed, k)
	if err != nil {
		return nil, err
	}
	g := family.Gap
	m := k - g

	aCols := make([][]int, m)
	dCols := make([][]int, m)
	bCols := make([][]int, g)

	col := slices.Clone(positions)
	for j := 0; j < m; j++ {
		for _, r := range col {
			if r < m {
				aCols[j] = append(aCols[j], r)
			} else {
				dCols[j] = append(dCols[j], r-m)
			}
		}
		shiftColumn(col, k)
	}
	for j := 0; j < g; j++ {
		for _, r := range col {
			if r < m {
				bCols[j] = append(bCols[j], r)
			}
		}
		shiftColumn(col, k)
	}

	a, err := gf2.NewSparseFromColumns(m, m, aCols)
	if err != nil {
		return nil, err
	}
	b, err := gf2.NewSparseFromColumns(m, g, bCols)
	if err != nil {
		return nil, err
	}
	d, err := gf2.NewSparseFromColumns(g, m, dCols)
	if err != nil {
		return nil, err
	}
	return &leftBlocks{
		A: a,
		B: b,
		D: d,
	}, nil
}

// shiftColumn moves the sorted rows one step down the circulant,
// keeping them sorted. Only the last row can wrap around.
func shiftColumn(rows []int, k int) {
	for i := range rows {
		rows[i]++
	}
	if n := len(rows); n > 0 && rows[n-1] == k {
		copy(rows[1:], rows[:n-1])
		rows[0] = 0
	}
}
