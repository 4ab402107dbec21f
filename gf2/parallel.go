//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package gf2

import (
	"golang.org/x/sync/errgroup"
)

// ForEach calls fn over the index range [0,n) split into at most
// workers contiguous chunks. Chunk boundaries are multiples of
// align. The calls run concurrently and ForEach returns when all of
// them are done. With workers <= 1 fn is called once for the whole
// range.
func ForEach(n, align, workers int, fn func(from, to int)) {
	if align < 1 {
		align = 1
	}
	if workers <= 1 || n <= align {
		fn(0, n)
		return
	}
	chunk := (n + workers - 1) / workers
	chunk = (chunk + align - 1) / align * align

	var g errgroup.Group
	g.SetLimit(workers)
	for from := 0; from < n; from += chunk {
		to := min(from+chunk, n)
		g.Go(func() error {
			fn(from, to)
			return nil
		})
	}
	g.Wait()
}
