//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package catalog

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/francoispqt/gojay"
	"github.com/markkurossi/silent/gf2"
	"github.com/markkurossi/silent/ldpc"
)

// CacheVersion is the version of the cache file format.
const CacheVersion = 1

// ErrCacheFormat is returned for malformed cache files.
var ErrCacheFormat = errors.New("catalog: invalid cache file")

// The cache file is a JSON object:
//
//	{
//	  "version": 1,
//	  "entries": [
//	    {"family": "silver5", "exponent": 14, "k": 16400, "t": 71,
//	     "gap": 16, "ep": ["a5f0", ...]}
//	  ]
//	}
//
// Each Ep row is hex of the packed row bits, bit j in bit j%8 of
// byte j/8.
type cacheFile struct {
	version int
	entries cacheEntries
}

func (f *cacheFile) MarshalJSONObject(enc *gojay.Encoder) {
	enc.IntKey("version", f.version)
	enc.ArrayKey("entries", f.entries)
}

func (f *cacheFile) IsNil() bool {
	return f == nil
}

func (f *cacheFile) UnmarshalJSONObject(dec *gojay.Decoder, key string) error {
	switch key {
	case "version":
		return dec.Int(&f.version)
	case "entries":
		return dec.Array(&f.entries)
	}
	return nil
}

func (f *cacheFile) NKeys() int {
	return 2
}

type cacheEntries []*cacheEntry

func (e cacheEntries) MarshalJSONArray(enc *gojay.Encoder) {
	for _, entry := range e {
		enc.Object(entry)
	}
}

func (e cacheEntries) IsNil() bool {
	return len(e) == 0
}

func (e *cacheEntries) UnmarshalJSONArray(dec *gojay.Decoder) error {
	entry := new(cacheEntry)
	if err := dec.Object(entry); err != nil {
		return err
	}
	*e = append(*e, entry)
	return nil
}

type cacheEntry struct {
	family   string
	exponent int
	k        int
	t        int
	gap      int
	ep       hexRows
}

func (e *cacheEntry) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("family", e.family)
	enc.IntKey("exponent", e.exponent)
	enc.IntKey("k", e.k)
	enc.IntKey("t", e.t)
	enc.IntKey("gap", e.gap)
	enc.ArrayKey("ep", e.ep)
}

func (e *cacheEntry) IsNil() bool {
	return e == nil
}

func (e *cacheEntry) UnmarshalJSONObject(dec *gojay.Decoder, key string) error {
	switch key {
	case "family":
		return dec.String(&e.family)
	case "exponent":
		return dec.Int(&e.exponent)
	case "k":
		return dec.Int(&e.k)
	case "t":
		return dec.Int(&e.t)
	case "gap":
		return dec.Int(&e.gap)
	case "ep":
		return dec.Array(&e.ep)
	}
	return nil
}

func (e *cacheEntry) NKeys() int {
	return 6
}

type hexRows []string

func (rows hexRows) MarshalJSONArray(enc *gojay.Encoder) {
	for _, row := range rows {
		enc.String(row)
	}
}

func (rows hexRows) IsNil() bool {
	return len(rows) == 0
}

func (rows *hexRows) UnmarshalJSONArray(dec *gojay.Decoder) error {
	var row string
	if err := dec.String(&row); err != nil {
		return err
	}
	*rows = append(*rows, row)
	return nil
}

func encodeEntry(entry *ldpc.CacheEntry) *cacheEntry {
	rows := make(hexRows, entry.Ep.Rows())
	for i := range rows {
		rows[i] = hex.EncodeToString(entry.Ep.Row(i).Bytes())
	}
	return &cacheEntry{
		family:   entry.Family.String(),
		exponent: entry.Exponent,
		k:        entry.K,
		t:        entry.T,
		gap:      entry.Gap,
		ep:       rows,
	}
}

func decodeEntry(e *cacheEntry) (*ldpc.CacheEntry, error) {
	family, err := ldpc.ParseFamily(e.family)
	if err != nil {
		return nil, err
	}
	if len(e.ep) != e.gap {
		return nil, fmt.Errorf("%w: %s 2^%d: %d Ep rows for gap %d",
			ErrCacheFormat, e.family, e.exponent, len(e.ep), e.gap)
	}
	ep := gf2.NewDense(e.gap, e.gap)
	for i, row := range e.ep {
		data, err := hex.DecodeString(row)
		if err != nil {
			return nil, fmt.Errorf("%w: %s 2^%d: row %d: %w",
				ErrCacheFormat, e.family, e.exponent, i, err)
		}
		v, err := gf2.NewVectorFromBytes(data, e.gap)
		if err != nil {
			return nil, fmt.Errorf("%w: %s 2^%d: row %d: %w",
				ErrCacheFormat, e.family, e.exponent, i, err)
		}
		for _, j := range v.Ones() {
			ep.Set(i, j, 1)
		}
	}
	return &ldpc.CacheEntry{
		Family:   family,
		Exponent: e.exponent,
		K:        e.k,
		Gap:      e.gap,
		T:        e.t,
		Ep:       ep,
	}, nil
}

// WriteCache writes the cache entries to w.
func WriteCache(w io.Writer, cache *ldpc.MemoryCache) error {
	file := &cacheFile{
		version: CacheVersion,
	}
	for _, entry := range cache.Entries() {
		file.entries = append(file.entries, encodeEntry(entry))
	}
	return gojay.NewEncoder(w).EncodeObject(file)
}

// ReadCache reads cache entries from r and stores them in cache.
func ReadCache(r io.Reader, cache *ldpc.MemoryCache) error {
	file := new(cacheFile)
	if err := gojay.NewDecoder(r).DecodeObject(file); err != nil {
		return fmt.Errorf("%w: %w", ErrCacheFormat, err)
	}
	if file.version != CacheVersion {
		return fmt.Errorf("%w: version %d", ErrCacheFormat, file.version)
	}
	for _, e := range file.entries {
		entry, err := decodeEntry(e)
		if err != nil {
			return err
		}
		if err := cache.Put(entry); err != nil {
			return err
		}
	}
	return nil
}

// SaveCache writes the cache into the file path.
func SaveCache(path string, cache *ldpc.MemoryCache) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := WriteCache(w, cache); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadCache loads the cache file path into a new cache for the size
// exponents [min,max].
func LoadCache(path string, min, max int) (*ldpc.MemoryCache, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cache := ldpc.NewMemoryCache(min, max)
	if err := ReadCache(bufio.NewReader(f), cache); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cache, nil
}
