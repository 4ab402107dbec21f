//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package ldpc

import (
	"fmt"

	"github.com/markkurossi/silent/env"
	"github.com/markkurossi/silent/gf2"
)

// Blocks hold the blocks of the parity-check matrix H=[A B C; D E F]
// and the inverse Schur complement Ep. E is needed only to compute
// Ep and may be nil.
type Blocks struct {
	A  gf2.Matrix
	B  gf2.Matrix
	C  gf2.Solver
	D  gf2.Matrix
	E  gf2.Matrix
	F  gf2.Matrix
	Ep *gf2.Dense
}

// Validate checks the block shapes against the parameters.
func (b *Blocks) Validate(params Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	m := params.M()
	g := params.Gap

	type shape struct {
		name       string
		mat        gf2.Matrix
		rows, cols int
	}
	shapes := []shape{
		{"A", b.A, m, m},
		{"B", b.B, m, g},
		{"C", b.C, m, m},
		{"D", b.D, g, m},
		{"F", b.F, g, m},
	}
	if b.E != nil {
		shapes = append(shapes, shape{"E", b.E, g, g})
	}
	if b.Ep != nil {
		shapes = append(shapes, shape{"Ep", b.Ep, g, g})
	} else {
		shapes = append(shapes, shape{"Ep", nil, g, g})
	}
	for _, s := range shapes {
		if s.mat == nil {
			return fmt.Errorf("%w: block %s missing", ErrInvalidParams, s.name)
		}
		if s.mat.Rows() != s.rows || s.mat.Cols() != s.cols {
			return fmt.Errorf("%w: block %s is %dx%d, expected %dx%d",
				gf2.ErrDimension, s.name, s.mat.Rows(), s.mat.Cols(),
				s.rows, s.cols)
		}
	}
	return nil
}

// Encoder implements the transpose encoder of the LDPC code. It is
// immutable and safe for concurrent use.
type Encoder struct {
	params  Params
	blocks  Blocks
	at      gf2.Matrix
	bt      gf2.Matrix
	dt      gf2.Matrix
	ft      gf2.Matrix
	ept     gf2.Matrix
	workers int
	report  BuildReport
}

// NewEncoder creates an encoder from the blocks. The encoder takes
// over the blocks and they must not be modified afterwards.
func NewEncoder(params Params, blocks *Blocks, config *env.Config) (
	*Encoder, error) {

	if blocks == nil {
		return nil, fmt.Errorf("%w: no blocks", ErrInvalidParams)
	}
	if err := blocks.Validate(params); err != nil {
		return nil, err
	}
	return &Encoder{
		params:  params,
		blocks:  *blocks,
		at:      blocks.A.Transpose(),
		bt:      blocks.B.Transpose(),
		dt:      blocks.D.Transpose(),
		ft:      blocks.F.Transpose(),
		ept:     blocks.Ep.Transpose(),
		workers: config.GetEncodeWorkers(),
	}, nil
}

// K returns the half block size k.
func (enc *Encoder) K() int {
	return enc.params.K
}

// Gap returns the gap g.
func (enc *Encoder) Gap() int {
	return enc.params.Gap
}

// N returns the input length 2k-g.
func (enc *Encoder) N() int {
	return enc.params.N()
}

// M returns the output length k-g.
func (enc *Encoder) M() int {
	return enc.params.M()
}

// T returns the LPN noise weight t.
func (enc *Encoder) T() int {
	return enc.params.T
}

// Params returns the code parameters.
func (enc *Encoder) Params() Params {
	return enc.params
}

// Ep returns a copy of the inverse Schur complement.
func (enc *Encoder) Ep() *gf2.Dense {
	return enc.blocks.Ep.Clone()
}

// Report returns the construction report of the encoder.
func (enc *Encoder) Report() BuildReport {
	return enc.report
}

// Encode computes e·Gᵗ for the bit vector e of length N. The result
// has length M.
func (enc *Encoder) Encode(e gf2.Vector) (gf2.Vector, error) {
	n := enc.params.N()
	if e.Len() != n {
		return gf2.Vector{}, fmt.Errorf("%w: input length %d, expected %d",
			ErrPrecondition, e.Len(), n)
	}
	k := enc.params.K
	m := enc.params.M()

	x := e.Slice(0, m)
	p := e.Slice(m, k)
	pp := e.Slice(k, n)
	ppp := gf2.NewVector(m)

	// 1. pp = C⁻ᵗ·pp
	enc.blocks.C.SolveTranspose(pp)

	// 2. p = p + Bᵗ·pp
	enc.mulAdd(enc.bt, p, pp)

	// 3. p = Epᵗ·p
	q := gf2.NewVector(enc.params.Gap)
	enc.ept.MulAdd(q, p)
	p = q

	// 4. x = x + Dᵗ·p
	enc.dt.MulAdd(x, p)

	// 5. ppp = ppp + Fᵗ·p
	enc.ft.MulAdd(ppp, p)

	// 6. pp = pp + C⁻ᵗ·ppp
	enc.blocks.C.SolveTranspose(ppp)
	pp.Xor(ppp)

	// 7. x = x + Aᵗ·pp
	enc.mulAdd(enc.at, x, pp)

	return x, nil
}

// EncodeSlots computes e·Gᵗ componentwise for the N slots of e. All
// slots must have the same nonzero width. The result has M slots of
// the same width.
func (enc *Encoder) EncodeSlots(e [][]byte) ([][]byte, error) {
	n := enc.params.N()
	if len(e) != n {
		return nil, fmt.Errorf("%w: input length %d, expected %d",
			ErrPrecondition, len(e), n)
	}
	width, ok := gf2.SlotWidth(e)
	if !ok {
		return nil, fmt.Errorf("%w: slots must have equal nonzero width",
			ErrPrecondition)
	}
	k := enc.params.K
	m := enc.params.M()

	x := gf2.CloneSlots(e[0:m])
	p := gf2.CloneSlots(e[m:k])
	pp := gf2.CloneSlots(e[k:n])
	ppp := gf2.NewSlots(m, width)

	enc.blocks.C.SolveTransposeSlots(pp)

	enc.mulAddSlots(enc.bt, p, pp)

	q := gf2.NewSlots(enc.params.Gap, width)
	enc.ept.MulAddSlots(q, p)
	p = q

	enc.dt.MulAddSlots(x, p)

	enc.ft.MulAddSlots(ppp, p)

	enc.blocks.C.SolveTransposeSlots(ppp)
	gf2.AddSlots(pp, ppp)

	enc.mulAddSlots(enc.at, x, pp)

	return x, nil
}

// EncodeBlocks computes e·Gᵗ componentwise for the N 128-bit blocks
// of e.
func (enc *Encoder) EncodeBlocks(e []gf2.Block) ([]gf2.Block, error) {
	if len(e) != enc.params.N() {
		return nil, fmt.Errorf("%w: input length %d, expected %d",
			ErrPrecondition, len(e), enc.params.N())
	}
	out, err := enc.EncodeSlots(gf2.BlocksToSlots(e))
	if err != nil {
		return nil, err
	}
	return gf2.SlotsToBlocks(out), nil
}

func (enc *Encoder) mulAdd(m gf2.Matrix, dst, v gf2.Vector) {
	pm, ok := m.(gf2.ParallelMatrix)
	if ok && enc.workers > 1 {
		pm.MulAddParallel(dst, v, enc.workers)
	} else {
		m.MulAdd(dst, v)
	}
}

func (enc *Encoder) mulAddSlots(m gf2.Matrix, dst, v [][]byte) {
	pm, ok := m.(gf2.ParallelMatrix)
	if ok && enc.workers > 1 {
		pm.MulAddSlotsParallel(dst, v, enc.workers)
	} else {
		m.MulAddSlots(dst, v)
	}
}
