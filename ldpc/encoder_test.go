//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package ldpc

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/markkurossi/silent/env"
	"github.com/markkurossi/silent/gf2"
)

type testCatalog map[Family]*CodeFamily

func (c testCatalog) CodeFamily(family Family) (*CodeFamily, error) {
	cf, ok := c[family]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFamily, family)
	}
	return cf, nil
}

// testLPN returns k (or 2^exponent if k is 0) and t as its guess and
// accepts all noise weights from secure up.
type testLPN struct {
	k      int
	t      int
	secure int
}

func (l testLPN) Guess(exponent int) (n, k, t int, err error) {
	k = l.k
	if k == 0 {
		k = 1 << exponent
	}
	return 2 * k, k, l.t, nil
}

func (l testLPN) Secure(n, k, t int) bool {
	return t >= l.secure
}

var testFamily = &CodeFamily{
	Weight:   5,
	Gap:      4,
	LeftSeed: []float64{0, 0.21, 0.43, 0.62, 0.87},
	RightSeed: [][]int{
		{0, 1, 4},
		{0, 2, 4},
		{0, 3, 4},
		{0, 1, 3, 4},
	},
}

func newTestBuilder(lpn LPN, cache EpCache, config *env.Config) *Builder {
	return NewBuilder(testCatalog{Silver5: testFamily}, lpn, cache, config)
}

func buildTestEncoder(t *testing.T, k int, config *env.Config) *Encoder {
	b := newTestBuilder(testLPN{k: k, t: 1, secure: 1}, nil, config)
	enc, err := b.BuildFull(Silver5, 0)
	if err != nil {
		t.Fatalf("BuildFull failed: %v", err)
	}
	return enc
}

func randomInput(rng *rand.Rand, n int) gf2.Vector {
	v := gf2.NewVector(n)
	for i := 0; i < n; i++ {
		v.SetBit(i, uint(rng.Intn(2)))
	}
	return v
}

func fromColumns(t *testing.T, rows, cols int, columns ...[]int) *gf2.Sparse {
	m, err := gf2.NewSparseFromColumns(rows, cols, columns)
	if err != nil {
		t.Fatalf("NewSparseFromColumns failed: %v", err)
	}
	return m
}

// parityCheck assembles the dense H=[A B C; D E F].
func parityCheck(params Params, b *Blocks) *gf2.Dense {
	m := params.M()
	g := params.Gap
	h := gf2.NewDense(params.K, params.N())

	put := func(mat gf2.Matrix, r0, c0 int) {
		d := mat.Dense()
		for r := 0; r < d.Rows(); r++ {
			for c := 0; c < d.Cols(); c++ {
				if d.At(r, c) == 1 {
					h.Set(r0+r, c0+c, 1)
				}
			}
		}
	}
	put(b.A, 0, 0)
	put(b.B, 0, m)
	put(b.C, 0, m+g)
	put(b.D, m, 0)
	put(b.E, m, m)
	put(b.F, m, m+g)

	return h
}

// bruteForceGenerator finds the systematic generator matrix G of H by
// trying all parity parts for each unit message.
func bruteForceGenerator(t *testing.T, params Params, h *gf2.Dense) *gf2.Dense {
	m := params.M()
	n := params.N()
	g := gf2.NewDense(m, n)

	for i := 0; i < m; i++ {
		var found int
		for z := 0; z < 1<<(n-m); z++ {
			c := gf2.NewVector(n)
			c.SetBit(i, 1)
			for j := 0; j < n-m; j++ {
				c.SetBit(m+j, uint(z>>j)&1)
			}
			syndrome := gf2.NewVector(params.K)
			h.MulAdd(syndrome, c)
			if !syndrome.IsZero() {
				continue
			}
			found++
			for j := 0; j < n; j++ {
				g.Set(i, j, c.Bit(j))
			}
		}
		if found != 1 {
			t.Fatalf("message %d: %d codewords", i, found)
		}
	}
	return g
}

// generator derives G from the blocks: p=Ep·(D+F·C⁻¹·A)·u and
// pp=C⁻¹·(A·u+B·p).
func generator(params Params, b *Blocks) *gf2.Dense {
	m := params.M()
	gap := params.Gap
	g := gf2.NewDense(m, params.N())

	for i := 0; i < m; i++ {
		u := gf2.NewVector(m)
		u.SetBit(i, 1)

		au := gf2.NewVector(m)
		b.A.MulAdd(au, u)
		b.C.Solve(au)

		q := gf2.NewVector(gap)
		b.D.MulAdd(q, u)
		b.F.MulAdd(q, au)

		p := gf2.NewVector(gap)
		b.Ep.MulAdd(p, q)

		pp := gf2.NewVector(m)
		b.A.MulAdd(pp, u)
		b.B.MulAdd(pp, p)
		b.C.Solve(pp)

		g.Set(i, i, 1)
		for _, j := range p.Ones() {
			g.Set(i, m+j, 1)
		}
		for _, j := range pp.Ones() {
			g.Set(i, m+gap+j, 1)
		}
	}
	return g
}

func checkEncodeMatches(t *testing.T, enc *Encoder, g *gf2.Dense) {
	n := enc.N()
	for j := 0; j < n; j++ {
		e := gf2.NewVector(n)
		e.SetBit(j, 1)
		out, err := enc.Encode(e)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		for i := 0; i < enc.M(); i++ {
			if out.Bit(i) != g.At(i, j) {
				t.Fatalf("e_%d: bit %d: got %d, expected %d",
					j, i, out.Bit(i), g.At(i, j))
			}
		}
	}
}

func TestEncodeToy(t *testing.T) {
	params := Params{
		K:   4,
		Gap: 1,
		T:   1,
	}
	a := fromColumns(t, 3, 3, []int{0, 1}, []int{1, 2}, []int{0, 2})
	b := fromColumns(t, 3, 1, []int{0, 2})
	cm := fromColumns(t, 3, 3, []int{0, 1}, []int{1, 2}, []int{2})
	c, err := gf2.NewTriangular(cm)
	if err != nil {
		t.Fatalf("NewTriangular failed: %v", err)
	}
	d := fromColumns(t, 1, 3, []int{0}, nil, []int{0})
	e, err := gf2.NewSparse(1, 1, [][]int{nil})
	if err != nil {
		t.Fatalf("NewSparse failed: %v", err)
	}
	f := fromColumns(t, 1, 3, nil, []int{0}, nil)

	ep, err := ComputeEp(b, c, e, f, 1)
	if err != nil {
		t.Fatalf("ComputeEp failed: %v", err)
	}
	if !ep.IsIdentity() {
		t.Fatalf("Ep: got %v, expected identity", ep)
	}
	blocks := &Blocks{
		A:  a,
		B:  b,
		C:  c,
		D:  d,
		E:  e,
		F:  f,
		Ep: ep,
	}
	enc, err := NewEncoder(params, blocks, nil)
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}
	if enc.N() != 7 || enc.M() != 3 {
		t.Fatalf("got n=%d, m=%d", enc.N(), enc.M())
	}

	g := bruteForceGenerator(t, params, parityCheck(params, blocks))

	for bits := 0; bits < 1<<7; bits++ {
		in := gf2.NewVector(7)
		for i := 0; i < 7; i++ {
			in.SetBit(i, uint(bits>>i)&1)
		}
		out, err := enc.Encode(in)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		expected := gf2.NewVector(3)
		g.MulAdd(expected, in)
		if !out.Equal(expected) {
			t.Errorf("e=%v: got %v, expected %v", in, out, expected)
		}
	}
}

func TestComputeEpSingular(t *testing.T) {
	b := fromColumns(t, 3, 1, []int{0, 2})
	cm := fromColumns(t, 3, 3, []int{0, 1}, []int{1, 2}, []int{2})
	c, err := gf2.NewTriangular(cm)
	if err != nil {
		t.Fatalf("NewTriangular failed: %v", err)
	}
	// F·C⁻¹·B is 1 and E cancels it.
	e, err := gf2.NewSparse(1, 1, [][]int{{0}})
	if err != nil {
		t.Fatalf("NewSparse failed: %v", err)
	}
	f := fromColumns(t, 1, 3, nil, []int{0}, nil)

	_, err = ComputeEp(b, c, e, f, 1)
	if !errors.Is(err, ErrSingular) {
		t.Fatalf("ComputeEp: got %v, expected %v", err, ErrSingular)
	}
}

func TestEncodeBuilt(t *testing.T) {
	enc := buildTestEncoder(t, 40, nil)
	params := enc.Params()

	h := parityCheck(params, &enc.blocks)
	g := generator(params, &enc.blocks)

	// Every row of G is a codeword.
	for i := 0; i < g.Rows(); i++ {
		syndrome := gf2.NewVector(params.K)
		h.MulAdd(syndrome, g.Row(i))
		if !syndrome.IsZero() {
			t.Fatalf("row %d of G is not a codeword", i)
		}
	}
	checkEncodeMatches(t, enc, g)
}

func TestEncodeProperties(t *testing.T) {
	enc := buildTestEncoder(t, 200, nil)
	n := enc.N()
	rng := rand.New(rand.NewSource(42))

	zero, err := enc.Encode(gf2.NewVector(n))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if zero.Len() != enc.M() || !zero.IsZero() {
		t.Fatalf("Encode(0)=%v", zero)
	}

	for i := 0; i < 20; i++ {
		e1 := randomInput(rng, n)
		e2 := randomInput(rng, n)
		orig := e1.Clone()

		o1, err := enc.Encode(e1)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if !e1.Equal(orig) {
			t.Fatalf("Encode modified its input")
		}
		if o1.Len() != enc.M() {
			t.Fatalf("output length %d, expected %d", o1.Len(), enc.M())
		}
		again, err := enc.Encode(e1)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if !again.Equal(o1) {
			t.Fatalf("Encode is not deterministic")
		}

		o2, err := enc.Encode(e2)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		sum := e1.Clone()
		sum.Xor(e2)
		o12, err := enc.Encode(sum)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		o1.Xor(o2)
		if !o12.Equal(o1) {
			t.Fatalf("Encode is not linear")
		}
	}
}

func TestEncodeRepresentations(t *testing.T) {
	enc := buildTestEncoder(t, 200, nil)
	n := enc.N()
	m := enc.M()
	rng := rand.New(rand.NewSource(7))

	e := randomInput(rng, n)
	expected, err := enc.Encode(e)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	slots := gf2.NewSlots(n, 1)
	for i := 0; i < n; i++ {
		slots[i][0] = byte(e.Bit(i))
	}
	out, err := enc.EncodeSlots(slots)
	if err != nil {
		t.Fatalf("EncodeSlots failed: %v", err)
	}
	if len(out) != m {
		t.Fatalf("EncodeSlots: %d slots, expected %d", len(out), m)
	}
	for i := 0; i < m; i++ {
		if out[i][0] != byte(expected.Bit(i)) {
			t.Fatalf("slot %d: got %d, expected %d",
				i, out[i][0], expected.Bit(i))
		}
	}

	// Each bit plane of the blocks is encoded independently.
	blocks := make([]gf2.Block, n)
	planes := []gf2.Vector{e, randomInput(rng, n)}
	for i := range blocks {
		blocks[i].D0 = uint64(rng.Uint32()) << 1
		blocks[i].D0 |= uint64(planes[0].Bit(i))
		blocks[i].D1 = uint64(planes[1].Bit(i)) << 63
	}
	encoded, err := enc.EncodeBlocks(blocks)
	if err != nil {
		t.Fatalf("EncodeBlocks failed: %v", err)
	}
	p1, err := enc.Encode(planes[1])
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	for i := 0; i < m; i++ {
		if uint(encoded[i].D0&1) != expected.Bit(i) {
			t.Fatalf("block %d: D0 bit 0 mismatch", i)
		}
		if uint(encoded[i].D1>>63) != p1.Bit(i) {
			t.Fatalf("block %d: D1 bit 63 mismatch", i)
		}
	}
}

func TestEncodePrecondition(t *testing.T) {
	enc := buildTestEncoder(t, 40, nil)
	n := enc.N()

	_, err := enc.Encode(gf2.NewVector(n - 1))
	if !errors.Is(err, ErrPrecondition) {
		t.Errorf("Encode: got %v, expected %v", err, ErrPrecondition)
	}
	_, err = enc.EncodeSlots(gf2.NewSlots(n+1, 2))
	if !errors.Is(err, ErrPrecondition) {
		t.Errorf("EncodeSlots: got %v, expected %v", err, ErrPrecondition)
	}
	mixed := gf2.NewSlots(n, 2)
	mixed[3] = make([]byte, 3)
	_, err = enc.EncodeSlots(mixed)
	if !errors.Is(err, ErrPrecondition) {
		t.Errorf("EncodeSlots(mixed): got %v, expected %v",
			err, ErrPrecondition)
	}
	_, err = enc.EncodeSlots(gf2.NewSlots(n, 0))
	if !errors.Is(err, ErrPrecondition) {
		t.Errorf("EncodeSlots(empty): got %v, expected %v",
			err, ErrPrecondition)
	}
	_, err = enc.EncodeBlocks(make([]gf2.Block, n-2))
	if !errors.Is(err, ErrPrecondition) {
		t.Errorf("EncodeBlocks: got %v, expected %v", err, ErrPrecondition)
	}
}

func TestNewEncoderShapes(t *testing.T) {
	enc := buildTestEncoder(t, 40, nil)

	blocks := enc.blocks
	blocks.Ep = gf2.Identity(enc.Gap() + 1)
	_, err := NewEncoder(enc.Params(), &blocks, nil)
	if !errors.Is(err, gf2.ErrDimension) {
		t.Errorf("NewEncoder: got %v, expected %v", err, gf2.ErrDimension)
	}

	blocks = enc.blocks
	blocks.D = nil
	_, err = NewEncoder(enc.Params(), &blocks, nil)
	if !errors.Is(err, ErrInvalidParams) {
		t.Errorf("NewEncoder: got %v, expected %v", err, ErrInvalidParams)
	}

	ep := enc.Ep()
	ep.Set(0, 0, ep.At(0, 0)^1)
	if enc.Ep().Equal(ep) {
		t.Errorf("Ep returned internal state")
	}
}

func TestEncodeParallel(t *testing.T) {
	enc := buildTestEncoder(t, 1000, nil)
	par, err := NewEncoder(enc.Params(), &enc.blocks, &env.Config{
		Parallel: true,
		Workers:  4,
	})
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 5; i++ {
		e := randomInput(rng, enc.N())
		o1, err := enc.Encode(e)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		o2, err := par.Encode(e)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if !o1.Equal(o2) {
			t.Fatalf("parallel Encode differs")
		}

		blocks := make([]gf2.Block, enc.N())
		for j := range blocks {
			blocks[j].D0 = rng.Uint64()
			blocks[j].D1 = rng.Uint64()
		}
		b1, err := enc.EncodeBlocks(blocks)
		if err != nil {
			t.Fatalf("EncodeBlocks failed: %v", err)
		}
		b2, err := par.EncodeBlocks(blocks)
		if err != nil {
			t.Fatalf("EncodeBlocks failed: %v", err)
		}
		for j := range b1 {
			if b1[j] != b2[j] {
				t.Fatalf("parallel EncodeBlocks differs at %d", j)
			}
		}
	}
}

func TestEncodeConcurrent(t *testing.T) {
	enc := buildTestEncoder(t, 500, nil)
	rng := rand.New(rand.NewSource(11))

	const count = 8
	inputs := make([]gf2.Vector, count)
	outputs := make([]gf2.Vector, count)
	for i := range inputs {
		inputs[i] = randomInput(rng, enc.N())
		out, err := enc.Encode(inputs[i])
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		outputs[i] = out
	}

	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for round := 0; round < 10; round++ {
				out, err := enc.Encode(inputs[i])
				if err != nil {
					t.Errorf("Encode failed: %v", err)
					return
				}
				if !out.Equal(outputs[i]) {
					t.Errorf("input %d: concurrent Encode differs", i)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}

func BenchmarkEncode(b *testing.B) {
	builder := newTestBuilder(testLPN{t: 1, secure: 1}, nil, nil)
	enc, err := builder.BuildFull(Silver5, 14)
	if err != nil {
		b.Fatalf("BuildFull failed: %v", err)
	}
	e := randomInput(rand.New(rand.NewSource(1)), enc.N())

	for b.Loop() {
		_, err := enc.Encode(e)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncodeBlocks(b *testing.B) {
	builder := newTestBuilder(testLPN{t: 1, secure: 1}, nil, nil)
	enc, err := builder.BuildFull(Silver5, 14)
	if err != nil {
		b.Fatalf("BuildFull failed: %v", err)
	}
	rng := rand.New(rand.NewSource(1))
	blocks := make([]gf2.Block, enc.N())
	for i := range blocks {
		blocks[i].D0 = rng.Uint64()
		blocks[i].D1 = rng.Uint64()
	}

	for b.Loop() {
		_, err := enc.EncodeBlocks(blocks)
		if err != nil {
			b.Fatal(err)
		}
	}
}
