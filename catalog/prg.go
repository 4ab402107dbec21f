//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package catalog

import (
	"crypto/sha256"
	"encoding/binary"
	"math"

	"golang.org/x/crypto/chacha20"
)

// PRG is a deterministic pseudorandom generator keyed by a label. The
// ChaCha20 key is the SHA-256 hash of the label and the nonce is zero
// so the label alone must provide the domain separation.
type PRG struct {
	cipher *chacha20.Cipher
	buf    [8]byte
}

// NewPRG creates a new generator for the label.
func NewPRG(label string) *PRG {
	key := sha256.Sum256([]byte(label))
	var nonce [chacha20.NonceSize]byte

	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce[:])
	if err != nil {
		panic(err)
	}
	return &PRG{
		cipher: c,
	}
}

// Read implements io.Reader. It fills p with the key stream and never
// fails.
func (prg *PRG) Read(p []byte) (int, error) {
	clear(p)
	prg.cipher.XORKeyStream(p, p)
	return len(p), nil
}

// Uint64 returns the next 64 bits of the stream.
func (prg *PRG) Uint64() uint64 {
	prg.Read(prg.buf[:])
	return binary.LittleEndian.Uint64(prg.buf[:])
}

// Float64 returns a value in [0,1) with 53 bits of precision.
func (prg *PRG) Float64() float64 {
	return float64(prg.Uint64()>>11) / (1 << 53)
}

// Intn returns a uniform value in [0,n). It panics if n <= 0.
func (prg *PRG) Intn(n int) int {
	if n <= 0 {
		panic("catalog: Intn: invalid bound")
	}
	bound := uint64(n)
	limit := math.MaxUint64 - math.MaxUint64%bound
	for {
		v := prg.Uint64()
		if v < limit {
			return int(v % bound)
		}
	}
}
