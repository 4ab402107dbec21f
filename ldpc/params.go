//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package ldpc

import (
	"fmt"
	"math"
	"strings"
)

const (
	// MaxTries bounds the k and t search loops and the left seed
	// collision resolution.
	MaxTries = 100

	// OnlineMinExponent is the smallest size exponent of the default
	// Ep cache range.
	OnlineMinExponent = 14

	// OnlineMaxExponent is the largest size exponent of the default
	// Ep cache range.
	OnlineMaxExponent = 24
)

// Family identifies a code family.
type Family int

// Code families.
const (
	Silver5 Family = iota
	Silver11
)

var familyNames = map[Family]string{
	Silver5:  "silver5",
	Silver11: "silver11",
}

func (f Family) String() string {
	name, ok := familyNames[f]
	if ok {
		return name
	}
	return fmt.Sprintf("{Family %d}", f)
}

// ParseFamily parses the code family name.
func ParseFamily(name string) (Family, error) {
	for f, n := range familyNames {
		if strings.EqualFold(n, name) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownFamily, name)
}

// CodeFamily defines the seeds of a code family.
type CodeFamily struct {
	// Weight is the number of ones in each circulant column.
	Weight int

	// Gap is the gap g between the two row blocks of H.
	Gap int

	// LeftSeed holds Weight fractional row positions in [0,1) of
	// the first circulant column.
	LeftSeed []float64

	// RightSeed holds Gap rows of column offsets in [0,Gap]. Column
	// c of the right code uses row c mod Gap. Offset 0 is the
	// diagonal of C.
	RightSeed [][]int
}

// Validate checks the family seeds.
func (cf *CodeFamily) Validate() error {
	if cf.Gap <= 0 {
		return fmt.Errorf("%w: gap %d", ErrInvalidFamily, cf.Gap)
	}
	if cf.Weight <= 0 || len(cf.LeftSeed) != cf.Weight {
		return fmt.Errorf("%w: weight %d with %d left seeds",
			ErrInvalidFamily, cf.Weight, len(cf.LeftSeed))
	}
	for i, s := range cf.LeftSeed {
		if math.IsNaN(s) || s < 0 || s >= 1 {
			return fmt.Errorf("%w: left seed %d: %v not in [0,1)",
				ErrInvalidFamily, i, s)
		}
	}
	if len(cf.RightSeed) != cf.Gap {
		return fmt.Errorf("%w: %d right seed rows for gap %d",
			ErrInvalidFamily, len(cf.RightSeed), cf.Gap)
	}
	for i, row := range cf.RightSeed {
		if len(row) == 0 {
			return fmt.Errorf("%w: right seed row %d is empty",
				ErrInvalidFamily, i)
		}
		seen := make(map[int]bool)
		for _, o := range row {
			if o < 0 || o > cf.Gap {
				return fmt.Errorf("%w: right seed row %d: offset %d not in [0,%d]",
					ErrInvalidFamily, i, o, cf.Gap)
			}
			if seen[o] {
				return fmt.Errorf("%w: right seed row %d: offset %d repeated",
					ErrInvalidFamily, i, o)
			}
			seen[o] = true
		}
	}
	return nil
}

// Params define the code parameters.
type Params struct {
	// K is the half block size.
	K int

	// Gap is the gap g < K.
	Gap int

	// T is the LPN noise weight.
	T int
}

// N returns the encoder input length 2K-Gap.
func (p Params) N() int {
	return 2*p.K - p.Gap
}

// M returns the encoder output length K-Gap.
func (p Params) M() int {
	return p.K - p.Gap
}

func (p Params) String() string {
	return fmt.Sprintf("n=%d, k=%d, g=%d, t=%d", p.N(), p.K, p.Gap, p.T)
}

// Validate checks the parameter invariants.
func (p Params) Validate() error {
	if p.Gap <= 0 || p.Gap >= p.K {
		return fmt.Errorf("%w: need 0 < g < k: %s", ErrInvalidParams, p)
	}
	return nil
}

// Catalog provides the seeds of code families.
type Catalog interface {
	// CodeFamily returns the seeds of the family.
	CodeFamily(family Family) (*CodeFamily, error)
}

// LPN provides the LPN parameter search.
type LPN interface {
	// Guess returns the initial parameters for the size exponent.
	Guess(exponent int) (n, k, t int, err error)

	// Secure tests if the parameters reach the security level.
	Secure(n, k, t int) bool
}
