// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package grd

import (
	"encoding/binary"
	"io"
)

// The expand functions panic on bad input by design; these wrappers convert
// the panic back into an error at the same boundary Decode does, so that
// tests can assert on error values directly.

func tryExpandHuffman(r io.Reader) (buf []byte, err error) {
	defer errRecover(&err)
	return expandHuffman(r), nil
}

func tryExpandRLE(r io.Reader, srcSize int, dst []byte) (err error) {
	defer errRecover(&err)
	expandRLE(r, srcSize, dst)
	return nil
}

func tryExpandDict(src, dst []byte) (err error) {
	defer errRecover(&err)
	expandDict(src, dst)
	return nil
}

// rlePack is a minimal run-length encoder used to synthesize test images:
// runs of three or more identical bytes become (0x80|len, value) pairs and
// everything else is emitted as literal chunks.
func rlePack(plane []byte) []byte {
	var out, lit []byte
	flush := func() {
		for len(lit) > 0 {
			n := len(lit)
			if n > 0x7f {
				n = 0x7f
			}
			out = append(out, byte(n))
			out = append(out, lit[:n]...)
			lit = lit[n:]
		}
	}
	for i := 0; i < len(plane); {
		j := i
		for j < len(plane) && j-i < 0x7f && plane[j] == plane[i] {
			j++
		}
		if j-i >= 3 {
			flush()
			out = append(out, byte(0x80|(j-i)), plane[i])
		} else {
			lit = append(lit, plane[i:j]...)
		}
		i = j
	}
	flush()
	return out
}

// dictPack produces a dictionary-coded section that expandDict will decode
// back to plane. It emits every byte literally, doubling occurrences of the
// escape marker; back references are never used, which is valid output for
// any encoder input.
func dictPack(escape byte, plane []byte) []byte {
	out := make([]byte, dictDataOffset)
	out[dictEscapeOffset] = escape
	for _, b := range plane {
		out = append(out, b)
		if b == escape {
			out = append(out, b)
		}
	}
	return out
}

// huffPack produces a Huffman-coded section that expandHuffman will decode
// back to data. It builds the same tree the decoder will (frequencies of the
// data bytes inserted with the stable tie-break rule), derives each leaf's
// code by walking that tree, and packs the codes LSB-first.
func huffPack(data []byte) []byte {
	var freq [numSymbols]uint32
	for _, b := range data {
		freq[b]++
	}

	var t huffmanTree
	for i := range freq {
		t.nodes[i] = huffmanNode{freq: freq[i]}
		t.insert(uint16(i))
	}
	next := uint16(numSymbols)
	for len(t.active) > 1 {
		l, r := t.active[0], t.active[1]
		t.active = t.active[2:]
		t.nodes[next] = huffmanNode{freq: t.nodes[l].freq + t.nodes[r].freq, left: l, right: r}
		t.insert(next)
		next++
	}

	type code struct {
		bits uint32
		n    uint
	}
	var codes [numSymbols]code
	var walk func(node uint16, bits uint32, n uint)
	walk = func(node uint16, bits uint32, n uint) {
		if node < numSymbols {
			codes[node] = code{bits, n}
			return
		}
		walk(t.nodes[node].left, bits, n+1)
		walk(t.nodes[node].right, bits|1<<n, n+1)
	}
	walk(rootNode, 0, 0)

	out := make([]byte, 8+4*numSymbols)
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	for i, f := range freq {
		binary.LittleEndian.PutUint32(out[8+4*i:], f)
	}

	var acc uint32
	var nacc uint
	for _, b := range data {
		c := codes[b]
		acc |= c.bits << nacc
		nacc += c.n
		for nacc >= 8 {
			out = append(out, byte(acc))
			acc >>= 8
			nacc -= 8
		}
	}
	if nacc > 0 {
		out = append(out, byte(acc))
	}
	return out
}
