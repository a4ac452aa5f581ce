// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package grd

import (
	"encoding/binary"
	"io"
)

const (
	numSymbols   = 256 // Every literal byte value is a leaf symbol
	numTreeNodes = 512 // Leaves 0..255 plus internal nodes 256..510

	// Merging 256 leaves performs exactly 255 merges, allocating internal
	// nodes 256..510 in order, so the root always lands at index 510.
	rootNode = 510
)

// Cap on the declared output size of a single Huffman section. The field is
// an arbitrary uint32 from the file, so it must be bounded before allocation
// to avoid memory exhaustion on crafted inputs.
const maxHuffmanSize = 1 << 30

type huffmanNode struct {
	freq        uint32
	left, right uint16
}

// huffmanTree is the canonical decode tree for one Huffman-coded section.
// Nodes live in a fixed arena addressed by integer index: indices below
// numSymbols are leaves for the corresponding literal byte value, the rest
// are internal nodes allocated during construction.
//
// The tree shape must match the one built by the external encoder bit for
// bit. The encoder orders its worklist by ascending frequency with ties kept
// in arrival order, so construction here uses a stable insertion list rather
// than a heap: a heap may reorder equal-frequency entries and silently build
// a different (undecodable) tree.
type huffmanTree struct {
	nodes  [numTreeNodes]huffmanNode
	active []uint16 // Construction worklist, ascending frequency
}

// insert places node idx into the active list immediately before the first
// entry with strictly greater frequency, keeping equal-frequency entries in
// arrival order.
func (t *huffmanTree) insert(idx uint16) {
	freq := t.nodes[idx].freq
	pos := len(t.active)
	for i, a := range t.active {
		if t.nodes[a].freq > freq {
			pos = i
			break
		}
	}
	t.active = append(t.active, 0)
	copy(t.active[pos+1:], t.active[pos:])
	t.active[pos] = idx
}

// build reads the section preamble (output size, packed size, and the 256
// leaf frequencies) and constructs the decode tree. It returns the number of
// bytes the coded stream expands to. If an IO error occurs, then it panics.
func (t *huffmanTree) build(r io.Reader) int {
	var b [8 + 4*numSymbols]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		panic(err)
	}
	size := binary.LittleEndian.Uint32(b[0:])
	_ = binary.LittleEndian.Uint32(b[4:]) // Packed size; only the encoder needs it
	if size > maxHuffmanSize {
		panic(ErrCorrupt)
	}

	t.active = t.active[:0]
	for i := 0; i < numSymbols; i++ {
		t.nodes[i] = huffmanNode{freq: binary.LittleEndian.Uint32(b[8+4*i:])}
		t.insert(uint16(i))
	}

	next := uint16(numSymbols)
	for len(t.active) > 1 {
		l, r := t.active[0], t.active[1]
		t.active = t.active[2:]
		t.nodes[next] = huffmanNode{
			freq:  t.nodes[l].freq + t.nodes[r].freq,
			left:  l,
			right: r,
		}
		t.insert(next)
		next++
	}
	return int(size)
}

// decode expands the coded bit stream into buf, one tree walk per output
// byte: a 1 bit descends right, a 0 bit descends left, and reaching an index
// below numSymbols emits that literal byte. If an IO error occurs, then it
// panics.
func (t *huffmanTree) decode(br *bitReader, buf []byte) {
	for i := range buf {
		node := uint16(rootNode)
		for node >= numSymbols {
			if br.ReadBits(1) == 1 {
				node = t.nodes[node].right
			} else {
				node = t.nodes[node].left
			}
		}
		buf[i] = byte(node)
	}
}

// expandHuffman decodes one Huffman-coded section from r and returns the
// expanded payload, whose length is the stream's declared output size.
func expandHuffman(r io.Reader) []byte {
	var t huffmanTree
	buf := make([]byte, t.build(r))
	var br bitReader
	br.Init(r)
	t.decode(&br, buf)
	return buf
}
