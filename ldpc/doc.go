//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package ldpc implements the structured LDPC code of the silent OT
// and VOLE correlation generators and its transpose encoder.
//
// The code is defined by the parity-check matrix
//
//	H = [A B C]
//	    [D E F]
//
// where A, B, D, and E are slices of a k×k circulant matrix built
// from the left seed of a code family, and C and F are built from
// the periodic right seed. C is unit lower triangular and the
// Schur complement F·C⁻¹·B+E is inverted once into Ep. The encoder
// computes e·Gᵗ for the generator G of H in time linear in the
// number of nonzero entries of H, without forming G.
//
// Matrices are built either by a full search over k and t or, for
// the sizes in an EpCache, from a precomputed Ep:
//
//	builder := ldpc.NewBuilder(catalog.New(), lpn.NewSearch(128), cache, nil)
//	enc, err := builder.Build(ldpc.Silver5, 20)
//	if err != nil { ... }
//	out, err := enc.EncodeBlocks(noise)
//
// Encoders are immutable and safe for concurrent use.
package ldpc
