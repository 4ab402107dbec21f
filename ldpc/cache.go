//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package ldpc

import (
	"fmt"
	"slices"
	"sync"

	"github.com/markkurossi/silent/gf2"
)

// CacheEntry holds the precomputed parameters and Ep of one code
// size. Entries are immutable once stored in a cache.
type CacheEntry struct {
	Family   Family
	Exponent int
	K        int
	Gap      int
	T        int
	Ep       *gf2.Dense
}

// NewCacheEntry creates a cache entry from a built encoder.
func NewCacheEntry(family Family, exponent int, enc *Encoder) *CacheEntry {
	return &CacheEntry{
		Family:   family,
		Exponent: exponent,
		K:        enc.K(),
		Gap:      enc.Gap(),
		T:        enc.T(),
		Ep:       enc.Ep(),
	}
}

// Params returns the code parameters of the entry.
func (e *CacheEntry) Params() Params {
	return Params{
		K:   e.K,
		Gap: e.Gap,
		T:   e.T,
	}
}

// Validate checks the entry against its code family. A nil family
// checks only the entry itself.
func (e *CacheEntry) Validate(cf *CodeFamily) error {
	if err := e.Params().Validate(); err != nil {
		return fmt.Errorf("%w: %s 2^%d: %w",
			ErrInvalidCacheEntry, e.Family, e.Exponent, err)
	}
	if cf != nil && cf.Gap != e.Gap {
		return fmt.Errorf("%w: %s 2^%d: gap %d, family gap %d",
			ErrInvalidCacheEntry, e.Family, e.Exponent, e.Gap, cf.Gap)
	}
	if e.Ep == nil || e.Ep.Rows() != e.Gap || e.Ep.Cols() != e.Gap {
		return fmt.Errorf("%w: %s 2^%d: Ep is not %dx%d",
			ErrInvalidCacheEntry, e.Family, e.Exponent, e.Gap, e.Gap)
	}
	return nil
}

// EpCache provides precomputed Ep matrices for a closed range of
// size exponents.
type EpCache interface {
	// Lookup returns the entry for the family and size exponent. It
	// returns ErrNotCached if the cache has no such entry.
	Lookup(family Family, exponent int) (*CacheEntry, error)

	// Range returns the closed range of cached size exponents.
	Range() (min, max int)
}

type cacheKey struct {
	family   Family
	exponent int
}

// MemoryCache implements EpCache in memory. It is safe for concurrent
// use.
type MemoryCache struct {
	min     int
	max     int
	m       sync.RWMutex
	entries map[cacheKey]*CacheEntry
}

// NewMemoryCache creates an empty cache for the size exponents
// [min,max].
func NewMemoryCache(min, max int) *MemoryCache {
	return &MemoryCache{
		min:     min,
		max:     max,
		entries: make(map[cacheKey]*CacheEntry),
	}
}

// Range implements EpCache.Range.
func (c *MemoryCache) Range() (min, max int) {
	return c.min, c.max
}

// Lookup implements EpCache.Lookup.
func (c *MemoryCache) Lookup(family Family, exponent int) (
	*CacheEntry, error) {

	c.m.RLock()
	entry, ok := c.entries[cacheKey{family, exponent}]
	c.m.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s 2^%d", ErrNotCached, family, exponent)
	}
	return entry, nil
}

// Put stores the entry in the cache, replacing any earlier entry of
// the same family and size.
func (c *MemoryCache) Put(entry *CacheEntry) error {
	if entry.Exponent < c.min || entry.Exponent > c.max {
		return fmt.Errorf("%w: %s 2^%d: exponent not in [%d,%d]",
			ErrInvalidCacheEntry, entry.Family, entry.Exponent, c.min, c.max)
	}
	if err := entry.Validate(nil); err != nil {
		return err
	}
	c.m.Lock()
	c.entries[cacheKey{entry.Family, entry.Exponent}] = entry
	c.m.Unlock()
	return nil
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.m.RLock()
	defer c.m.RUnlock()
	return len(c.entries)
}

// Entries returns the cached entries sorted by family and size.
func (c *MemoryCache) Entries() []*CacheEntry {
	c.m.RLock()
	result := make([]*CacheEntry, 0, len(c.entries))
	for _, entry := range c.entries {
		result = append(result, entry)
	}
	c.m.RUnlock()

	slices.SortFunc(result, func(a, b *CacheEntry) int {
		if a.Family != b.Family {
			return int(a.Family) - int(b.Family)
		}
		return a.Exponent - b.Exponent
	})
	return result
}

// Precompute runs the full strategy for the family and size exponents
// and stores the results in the cache.
func Precompute(b *Builder, cache *MemoryCache, family Family,
	exponents ...int) error {

	for _, exponent := range exponents {
		enc, err := b.BuildFull(family, exponent)
		if err != nil {
			return err
		}
		err = cache.Put(NewCacheEntry(family, exponent, enc))
		if err != nil {
			return err
		}
		b.Debugf("ldpc: cached %s 2^%d: %s\n", family, exponent, enc.Params())
	}
	return nil
}
