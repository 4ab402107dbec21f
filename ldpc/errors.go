//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package ldpc

import (
	"errors"
	"fmt"

	"github.com/markkurossi/silent/gf2"
)

var (
	// ErrCollisionExceeded is returned when the left seed positions
	// do not resolve within MaxTries increments.
	ErrCollisionExceeded = errors.New("ldpc: left seed collision not resolved")

	// ErrSingular is returned when C or the Schur complement is not
	// invertible.
	ErrSingular = gf2.ErrSingular

	// ErrParameterSearchExhausted is returned when no valid k was
	// found within MaxTries attempts.
	ErrParameterSearchExhausted = errors.New("ldpc: parameter search exhausted")

	// ErrSecurityParameterExhausted is returned when no secure t was
	// found within MaxTries increments.
	ErrSecurityParameterExhausted = errors.New("ldpc: security parameter search exhausted")

	// ErrNotCached is returned by the online strategy when the cache
	// has no entry for the size.
	ErrNotCached = errors.New("ldpc: not cached")

	// ErrPrecondition is returned for encoder inputs of wrong shape.
	ErrPrecondition = errors.New("ldpc: precondition violation")

	// ErrUnknownFamily is returned for unknown code families.
	ErrUnknownFamily = errors.New("ldpc: unknown code family")

	// ErrInvalidFamily is returned for invalid code family seeds.
	ErrInvalidFamily = errors.New("ldpc: invalid code family")

	// ErrInvalidParams is returned for invalid code parameters.
	ErrInvalidParams = errors.New("ldpc: invalid parameters")

	// ErrInvalidCacheEntry is returned for Ep cache entries that do
	// not match their code family.
	ErrInvalidCacheEntry = errors.New("ldpc: invalid cache entry")

	// ErrStrategy is returned for unknown build strategies.
	ErrStrategy = errors.New("ldpc: unknown strategy")
)

// SearchError describes an exhausted parameter search.
type SearchError struct {
	Err      error
	Family   Family
	Exponent int
	Attempts int
	K        int
	T        int
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("%s: %s 2^%d after %d attempts (k=%d, t=%d)",
		e.Err, e.Family, e.Exponent, e.Attempts, e.K, e.T)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// retryable tests if the construction error triggers the next k.
func retryable(err error) bool {
	return errors.Is(err, ErrSingular) || errors.Is(err, ErrCollisionExceeded)
}
