//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package gf2

import (
	"fmt"
	"slices"
	"strings"

	mat "github.com/nathanhack/sparsemat"
)

// Vector implements a GF(2) vector on a sparsemat dictionary of keys
// vector. A Vector value shares its storage with its copies; use
// Clone for an independent vector.
type Vector struct {
	vec mat.SparseVector
}

// NewVector creates a zero vector of length n.
func NewVector(n int) Vector {
	return Vector{
		vec: mat.DOKVec(n),
	}
}

// NewVectorFromBits creates a vector from the bit values. Each
// element of bits selects the vector bit with its lowest bit.
func NewVectorFromBits(bits []byte) Vector {
	v := NewVector(len(bits))
	for i, b := range bits {
		if b&1 != 0 {
			v.vec.Set(i, 1)
		}
	}
	return v
}

// NewVectorFromBools creates a vector from the boolean values.
func NewVectorFromBools(flags []bool) Vector {
	v := NewVector(len(flags))
	for i, f := range flags {
		if f {
			v.vec.Set(i, 1)
		}
	}
	return v
}

// NewVectorFromBytes creates a vector of length n from the packed
// bytes data. Bit i is bit i%8 of data[i/8].
func NewVectorFromBytes(data []byte, n int) (Vector, error) {
	if len(data) != (n+7)/8 {
		return Vector{}, fmt.Errorf("%w: %d bytes for %d bits",
			ErrDimension, len(data), n)
	}
	v := NewVector(n)
	for i := 0; i < n; i++ {
		if data[i/8]&(1<<uint(i%8)) != 0 {
			v.vec.Set(i, 1)
		}
	}
	return v, nil
}

// Len returns the vector length in bits.
func (v Vector) Len() int {
	return v.vec.Len()
}

// Bit returns the bit i.
func (v Vector) Bit(i int) uint {
	return uint(v.vec.At(i)) & 1
}

// SetBit sets the bit i to the lowest bit of b.
func (v Vector) SetBit(i int, b uint) {
	v.vec.Set(i, int(b&1))
}

// Flip adds one to the bit i.
func (v Vector) Flip(i int) {
	v.vec.Set(i, v.vec.At(i)^1)
}

// Xor adds the vector o to v.
func (v Vector) Xor(o Vector) {
	if v.Len() != o.Len() {
		panic(fmt.Errorf("%w: Xor: %d != %d", ErrDimension, v.Len(), o.Len()))
	}
	for _, i := range o.Ones() {
		v.Flip(i)
	}
}

// Dot returns the inner product of v and o.
func (v Vector) Dot(o Vector) uint {
	if v.Len() != o.Len() {
		panic(fmt.Errorf("%w: Dot: %d != %d", ErrDimension, v.Len(), o.Len()))
	}
	var bit uint
	for _, i := range v.Ones() {
		bit ^= o.Bit(i)
	}
	return bit
}

// Weight returns the number of ones in v.
func (v Vector) Weight() int {
	return len(v.vec.NonzeroArray())
}

// IsZero tests if all bits of v are zero.
func (v Vector) IsZero() bool {
	return v.Weight() == 0
}

// Equal tests if the vectors are equal.
func (v Vector) Equal(o Vector) bool {
	if v.Len() != o.Len() {
		return false
	}
	return v.vec.Equals(o.vec)
}

// Clone returns an independent copy of v.
func (v Vector) Clone() Vector {
	result := NewVector(v.Len())
	for _, i := range v.Ones() {
		result.vec.Set(i, 1)
	}
	return result
}

// Slice returns a copy of the bits [from,to) of v.
func (v Vector) Slice(from, to int) Vector {
	if from < 0 || to > v.Len() || from > to {
		panic(fmt.Errorf("%w: Slice [%d:%d] of %d", ErrIndex, from, to,
			v.Len()))
	}
	result := NewVector(to - from)
	if from == to {
		return result
	}
	for _, i := range nonzero(v.vec.Slice(from, to-from)) {
		result.vec.Set(i, 1)
	}
	return result
}

// Bits returns the vector bits as bytes, one bit per byte.
func (v Vector) Bits() []byte {
	result := make([]byte, v.Len())
	for _, i := range v.Ones() {
		result[i] = 1
	}
	return result
}

// Bytes returns the vector packed into (Len+7)/8 bytes. Bit i is bit
// i%8 of byte i/8.
func (v Vector) Bytes() []byte {
	result := make([]byte, (v.Len()+7)/8)
	for _, i := range v.Ones() {
		result[i/8] |= 1 << uint(i%8)
	}
	return result
}

// Ones returns the indexes of the set bits in increasing order.
func (v Vector) Ones() []int {
	return nonzero(v.vec)
}

func (v Vector) String() string {
	var sb strings.Builder
	for _, b := range v.Bits() {
		sb.WriteByte('0' + b)
	}
	return sb.String()
}

// nonzero returns the sorted indexes of the ones of v.
func nonzero(v mat.SparseVector) []int {
	idx := v.NonzeroArray()
	if len(idx) == 0 {
		return nil
	}
	result := slices.Clone(idx)
	slices.Sort(result)
	return result
}
