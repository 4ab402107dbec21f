//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package catalog provides the seeds of the LDPC code families and
// the persistent storage of the precomputed Ep cache.
//
// The seeds are configuration. A family can be registered with
// explicit seed tables, or derived deterministically from a label
// with Derive. The default catalog holds the derived Silver5 and
// Silver11 families.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/markkurossi/silent/ldpc"
)

// Spec defines the shape of a derived code family.
type Spec struct {
	Family ldpc.Family

	// Weight is the number of left seed positions.
	Weight int

	// Gap is the gap g of the code.
	Gap int

	// RightWeight is the number of offsets in each right seed row.
	RightWeight int
}

// Label returns the derivation label of the family.
func (spec Spec) Label() string {
	return fmt.Sprintf("silent/ldpc/%s/w%d/g%d/r%d",
		spec.Family, spec.Weight, spec.Gap, spec.RightWeight)
}

// Defaults define the default code families.
var Defaults = []Spec{
	{
		Family:      ldpc.Silver5,
		Weight:      5,
		Gap:         16,
		RightWeight: 4,
	},
	{
		Family:      ldpc.Silver11,
		Weight:      11,
		Gap:         32,
		RightWeight: 4,
	},
}

// Catalog implements ldpc.Catalog. It is safe for concurrent use.
type Catalog struct {
	m        sync.RWMutex
	families map[ldpc.Family]*ldpc.CodeFamily
}

// New creates a catalog holding the default families.
func New() *Catalog {
	c := NewEmpty()
	for _, spec := range Defaults {
		cf, err := Derive(spec)
		if err != nil {
			panic(err)
		}
		if err := c.Register(spec.Family, cf); err != nil {
			panic(err)
		}
	}
	return c
}

// NewEmpty creates an empty catalog.
func NewEmpty() *Catalog {
	return &Catalog{
		families: make(map[ldpc.Family]*ldpc.CodeFamily),
	}
}

// Register sets the seeds of the family.
func (c *Catalog) Register(family ldpc.Family, cf *ldpc.CodeFamily) error {
	if err := cf.Validate(); err != nil {
		return err
	}
	c.m.Lock()
	c.families[family] = cf
	c.m.Unlock()
	return nil
}

// CodeFamily implements ldpc.Catalog.CodeFamily.
func (c *Catalog) CodeFamily(family ldpc.Family) (*ldpc.CodeFamily, error) {
	c.m.RLock()
	cf, ok := c.families[family]
	c.m.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ldpc.ErrUnknownFamily, family)
	}
	return cf, nil
}

// Families returns the registered families in increasing order.
func (c *Catalog) Families() []ldpc.Family {
	c.m.RLock()
	defer c.m.RUnlock()

	var result []ldpc.Family
	for f := range c.families {
		result = append(result, f)
	}
	slices.Sort(result)
	return result
}

// Derive derives the seeds of a code family from its label.
//
// Left seed i is drawn from the first half of the stratum
// [i/w,(i+1)/w) so the circulant column positions are spread over
// the whole column for all block sizes. Every right seed row holds
// the diagonal offset 0, the offset g, and RightWeight-2 distinct
// offsets from [1,g). Offset g gives every row of F a one.
func Derive(spec Spec) (*ldpc.CodeFamily, error) {
	if spec.Weight <= 0 || spec.Gap < 2 {
		return nil, fmt.Errorf("%w: weight %d, gap %d",
			ldpc.ErrInvalidFamily, spec.Weight, spec.Gap)
	}
	if spec.RightWeight < 2 || spec.RightWeight-2 > spec.Gap-1 {
		return nil, fmt.Errorf("%w: right weight %d for gap %d",
			ldpc.ErrInvalidFamily, spec.RightWeight, spec.Gap)
	}
	prg := NewPRG(spec.Label())

	left := make([]float64, spec.Weight)
	for i := range left {
		left[i] = (float64(i) + 0.5*prg.Float64()) / float64(spec.Weight)
	}

	right := make([][]int, spec.Gap)
	for r := range right {
		row := []int{0, spec.Gap}
		for len(row) < spec.RightWeight {
			o := 1 + prg.Intn(spec.Gap-1)
			if !slices.Contains(row, o) {
				row = append(row, o)
			}
		}
		slices.Sort(row)
		right[r] = row
	}

	cf := &ldpc.CodeFamily{
		Weight:    spec.Weight,
		Gap:       spec.Gap,
		LeftSeed:  left,
		RightSeed: right,
	}
	if err := cf.Validate(); err != nil {
		return nil, errors.Join(ldpc.ErrInvalidFamily, err)
	}
	return cf, nil
}
