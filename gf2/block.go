//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package gf2

import (
	"encoding/binary"
	"io"
)

// Block implements a 128-bit OT extension value. A vector of blocks
// is encoded as a slot vector of width 16.
type Block struct {
	D0 uint64
	D1 uint64
}

// NewBlock creates a new random block.
func NewBlock(rand io.Reader) (Block, error) {
	var buf [16]byte
	if _, err := io.ReadFull(rand, buf[:]); err != nil {
		return Block{}, err
	}
	return blockFromBytes(buf[:]), nil
}

func blockFromBytes(data []byte) Block {
	return Block{
		D0: binary.BigEndian.Uint64(data[0:8]),
		D1: binary.BigEndian.Uint64(data[8:16]),
	}
}

// BlocksToSlots converts the blocks into a slot vector of width 16.
func BlocksToSlots(blocks []Block) [][]byte {
	slots := NewSlots(len(blocks), 16)
	for i, b := range blocks {
		binary.BigEndian.PutUint64(slots[i][0:8], b.D0)
		binary.BigEndian.PutUint64(slots[i][8:16], b.D1)
	}
	return slots
}

// SlotsToBlocks converts a slot vector of width 16 into blocks.
func SlotsToBlocks(slots [][]byte) []Block {
	blocks := make([]Block, len(slots))
	for i, s := range slots {
		blocks[i] = blockFromBytes(s)
	}
	return blocks
}
