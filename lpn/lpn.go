//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package lpn implements the Learning Parity with Noise parameter
// search for the silent correlation generators. It provides an
// initial (n,k,t) guess for a target output size and a predicate
// telling if a parameter triple reaches the security level.
//
// The security estimate is the cost of the Pooled Gauss attack: the
// attacker repeatedly picks k of the n samples, hoping that none of
// them hits the t noisy positions, and solves the resulting linear
// system by Gaussian elimination.
package lpn

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultSecurity is the default security level in bits.
	DefaultSecurity = 128

	// MinExponent is the smallest supported size exponent.
	MinExponent = 10

	// MaxExponent is the largest supported size exponent.
	MaxExponent = 30

	// omega is the exponent of the Gaussian elimination cost.
	omega = 2.8
)

var (
	// ErrExponent is returned for unsupported size exponents.
	ErrExponent = errors.New("lpn: size exponent out of range")

	// ErrNoParameters is returned when no noise weight reaches the
	// security level.
	ErrNoParameters = errors.New("lpn: no secure parameters")
)

// SecurityBits estimates the bit security of the LPN instance with
// n samples, dimension k, and noise weight t.
func SecurityBits(n, k, t int) float64 {
	if k <= 0 || t <= 0 || n-k-t < 0 {
		return 0
	}
	// log2(C(n,t) / C(n-k,t)): expected number of k-subsets to try
	// before one avoids all noisy positions.
	var trials float64
	for i := 0; i < t; i++ {
		trials += math.Log2(float64(n-i)) - math.Log2(float64(n-k-i))
	}
	return trials + omega*math.Log2(float64(k))
}

// Search implements the parameter search for a fixed security level.
type Search struct {
	Lambda int
}

// NewSearch creates a new parameter search for the security level
// lambda bits.
func NewSearch(lambda int) *Search {
	return &Search{
		Lambda: lambda,
	}
}

// Guess returns the initial parameters for the size exponent: k is
// 2^exponent, n is 2k, and t is the smallest secure noise weight.
func (s *Search) Guess(exponent int) (n, k, t int, err error) {
	if exponent < MinExponent || exponent > MaxExponent {
		return 0, 0, 0, fmt.Errorf("%w: %d not in [%d,%d]",
			ErrExponent, exponent, MinExponent, MaxExponent)
	}
	k = 1 << exponent
	n = 2 * k
	t, err = s.MinWeight(n, k)
	if err != nil {
		return 0, 0, 0, err
	}
	return n, k, t, nil
}

// MinWeight returns the smallest noise weight t for which (n,k,t)
// is secure.
func (s *Search) MinWeight(n, k int) (int, error) {
	for t := 1; n-k-t >= 0; t++ {
		if s.Secure(n, k, t) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: n=%d, k=%d", ErrNoParameters, n, k)
}

// Secure tests if the parameters (n,k,t) reach the security level.
func (s *Search) Secure(n, k, t int) bool {
	return SecurityBits(n, k, t) >= float64(s.Lambda)
}
