//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package ldpc

import (
	"errors"
	"fmt"
	"time"

	"github.com/markkurossi/silent/env"
	"github.com/markkurossi/text/superscript"
)

// Strategy defines how the builder constructs the code.
type Strategy int

// Build strategies.
const (
	StrategyAuto Strategy = iota
	StrategyFull
	StrategyOnline
)

var strategyNames = map[Strategy]string{
	StrategyAuto:   "auto",
	StrategyFull:   "full",
	StrategyOnline: "online",
}

func (s Strategy) String() string {
	name, ok := strategyNames[s]
	if ok {
		return name
	}
	return fmt.Sprintf("{Strategy %d}", s)
}

// BuildReport describes how an encoder was constructed.
type BuildReport struct {
	Family   Family
	Exponent int

	// Strategy is the strategy that produced the blocks: StrategyFull
	// or StrategyOnline.
	Strategy Strategy

	// Attempts is the number of block sizes tried.
	Attempts int

	// TSteps is the number of noise weight increments.
	TSteps int

	// Fallback is set when an online build fell back to the full
	// strategy.
	Fallback bool

	// Timing holds the construction samples. It is nil unless
	// diagnostics are enabled.
	Timing *Timing
}

// Builder constructs LDPC encoders.
type Builder struct {
	Catalog Catalog
	LPN     LPN
	Cache   EpCache
	Config  *env.Config
}

// NewBuilder creates a new builder. The cache is optional and without
// it all builds use the full strategy.
func NewBuilder(catalog Catalog, lpn LPN, cache EpCache,
	config *env.Config) *Builder {

	return &Builder{
		Catalog: catalog,
		LPN:     lpn,
		Cache:   cache,
		Config:  config,
	}
}

// Debugf prints a debug message if verbose output is enabled.
func (b *Builder) Debugf(format string, a ...interface{}) {
	if b.Config == nil || !b.Config.Verbose {
		return
	}
	fmt.Fprintf(b.Config.GetLog(), format, a...)
}

// Build builds the encoder for the family and size exponent. Sizes
// inside the cache range use the online strategy and fall back to
// the full strategy if the size is not cached.
func (b *Builder) Build(family Family, exponent int) (*Encoder, error) {
	if b.Cache == nil {
		return b.BuildFull(family, exponent)
	}
	min, max := b.Cache.Range()
	if exponent < min || exponent > max {
		return b.BuildFull(family, exponent)
	}
	return b.buildOnlineOrFull(family, exponent)
}

// BuildStrategy builds the encoder with the strategy s.
func (b *Builder) BuildStrategy(family Family, exponent int, s Strategy) (
	*Encoder, error) {

	switch s {
	case StrategyAuto:
		return b.Build(family, exponent)
	case StrategyFull:
		return b.BuildFull(family, exponent)
	case StrategyOnline:
		return b.buildOnlineOrFull(family, exponent)
	default:
		return nil, fmt.Errorf("%w: %s", ErrStrategy, s)
	}
}

func (b *Builder) buildOnlineOrFull(family Family, exponent int) (
	*Encoder, error) {

	enc, err := b.BuildOnline(family, exponent)
	if err == nil {
		return enc, nil
	}
	if !errors.Is(err, ErrNotCached) {
		return nil, err
	}
	b.Debugf("ldpc: %s 2%s not cached, using full search\n",
		family, superscript.Itoa(exponent))
	onlineFallbacks.WithLabelValues(family.String()).Inc()

	enc, err = b.BuildFull(family, exponent)
	if err != nil {
		return nil, err
	}
	enc.report.Fallback = true
	return enc, nil
}

// BuildFull searches for the block size k starting from the LPN guess
// and then for a secure noise weight t at that k.
func (b *Builder) BuildFull(family Family, exponent int) (*Encoder, error) {
	cf, err := b.codeFamily(family)
	if err != nil {
		return nil, err
	}
	_, k0, t, err := b.LPN.Guess(exponent)
	if err != nil {
		return nil, err
	}
	params := Params{
		K:   k0,
		Gap: cf.Gap,
		T:   t,
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	timing := b.newTiming()

	var blocks *Blocks
	var attempts int
	for attempts = 0; attempts < MaxTries; attempts++ {
		params.K = k0 + attempts
		buildAttempts.WithLabelValues(family.String()).Inc()

		blocks, err = b.construct(cf, params.K, timing)
		if err == nil {
			break
		}
		if !retryable(err) {
			return nil, err
		}
		buildRetries.WithLabelValues(family.String(), retryReason(err)).Inc()
		b.Debugf("ldpc: %s k=%d: %v\n", family, params.K, err)
	}
	if blocks == nil {
		return nil, &SearchError{
			Err:      ErrParameterSearchExhausted,
			Family:   family,
			Exponent: exponent,
			Attempts: attempts,
			K:        params.K,
			T:        params.T,
		}
	}
	attempts++

	var tSteps int
	for ; !b.LPN.Secure(params.N(), params.K, params.T); tSteps++ {
		if tSteps >= MaxTries {
			return nil, &SearchError{
				Err:      ErrSecurityParameterExhausted,
				Family:   family,
				Exponent: exponent,
				Attempts: attempts,
				K:        params.K,
				T:        params.T,
			}
		}
		params.T++
	}

	enc, err := NewEncoder(params, blocks, b.Config)
	if err != nil {
		return nil, err
	}
	enc.report = BuildReport{
		Family:   family,
		Exponent: exponent,
		Strategy: StrategyFull,
		Attempts: attempts,
		TSteps:   tSteps,
		Timing:   timing,
	}
	builds.WithLabelValues(family.String(), StrategyFull.String()).Inc()

	b.Debugf("ldpc: %s 2%s: %s, %d attempts, %d t steps\n",
		family, superscript.Itoa(exponent), params, attempts, tSteps)

	return enc, nil
}

// BuildOnline builds the encoder from the cached Ep of the family
// and size exponent. It returns ErrNotCached if the cache has no
// entry for them.
func (b *Builder) BuildOnline(family Family, exponent int) (*Encoder, error) {
	if b.Cache == nil {
		return nil, fmt.Errorf("%w: no cache", ErrNotCached)
	}
	entry, err := b.Cache.Lookup(family, exponent)
	if err != nil {
		return nil, err
	}
	cf, err := b.codeFamily(family)
	if err != nil {
		return nil, err
	}
	if err := entry.Validate(cf); err != nil {
		return nil, err
	}
	params := entry.Params()
	workers := b.Config.GetWorkers()
	timing := b.newTiming()

	left, err := leftCodeOnline(cf, params.K)
	if err != nil {
		return nil, fmt.Errorf("%w: %s 2^%d: %w",
			ErrInvalidCacheEntry, family, exponent, err)
	}
	tLeft := time.Now()

	right, err := rightCode(cf, params.K, workers)
	if err != nil {
		return nil, fmt.Errorf("%w: %s 2^%d: %w",
			ErrInvalidCacheEntry, family, exponent, err)
	}
	if timing != nil {
		sample := timing.Sample(fmt.Sprintf("k=%d", params.K), "cached Ep")
		sample.SubSample("left", tLeft)
		sample.SubSample("right", sample.End)
	}

	enc, err := NewEncoder(params, &Blocks{
		A:  left.A,
		B:  left.B,
		C:  right.C,
		D:  left.D,
		F:  right.F,
		Ep: entry.Ep.Clone(),
	}, b.Config)
	if err != nil {
		return nil, err
	}
	enc.report = BuildReport{
		Family:   family,
		Exponent: exponent,
		Strategy: StrategyOnline,
		Attempts: 1,
		Timing:   timing,
	}
	builds.WithLabelValues(family.String(), StrategyOnline.String()).Inc()

	return enc, nil
}

func (b *Builder) codeFamily(family Family) (*CodeFamily, error) {
	if b.Catalog == nil {
		return nil, fmt.Errorf("%w: no catalog", ErrUnknownFamily)
	}
	cf, err := b.Catalog.CodeFamily(family)
	if err != nil {
		return nil, err
	}
	if err := cf.Validate(); err != nil {
		return nil, err
	}
	return cf, nil
}

func (b *Builder) newTiming() *Timing {
	if b.Config == nil || !b.Config.Diagnostics {
		return nil
	}
	return NewTiming()
}

// construct builds the blocks for the block size k. The timing is
// optional.
func (b *Builder) construct(cf *CodeFamily, k int, timing *Timing) (
	*Blocks, error) {

	workers := b.Config.GetWorkers()
	var ends []time.Time

	result := func(err error) error {
		if timing == nil {
			return err
		}
		status := "ok"
		if err != nil {
			status = err.Error()
		}
		sample := timing.Sample(fmt.Sprintf("k=%d", k), status)
		labels := []string{"left", "right", "Ep"}
		for i, end := range ends {
			sample.SubSample(labels[i], end)
		}
		return err
	}

	left, err := leftCode(cf, k, workers)
	if err != nil {
		return nil, result(err)
	}
	ends = append(ends, time.Now())

	right, err := rightCode(cf, k, workers)
	if err != nil {
		return nil, result(err)
	}
	ends = append(ends, time.Now())

	ep, err := ComputeEp(left.B, right.C, left.E, right.F, workers)
	if err != nil {
		return nil, result(err)
	}
	ends = append(ends, time.Now())

	return &Blocks{
		A:  left.A,
		B:  left.B,
		C:  right.C,
		D:  left.D,
		E:  left.E,
		F:  right.F,
		Ep: ep,
	}, result(nil)
}
