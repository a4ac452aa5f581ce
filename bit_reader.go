// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package grd

import (
	"bufio"
	"io"
)

type byteReader interface {
	io.Reader
	io.ByteReader
}

// The bitReader extracts bits in LSB order from the underlying byte stream,
// pulling a new byte only after all 8 bits of the current one are consumed.
// The Huffman streams in GRD files are bit-packed this way and carry no
// alignment padding between the frequency table and the coded data, so the
// reader must never consume bytes ahead of what decoding actually needs.
type bitReader struct {
	rd      byteReader
	bufBits uint32 // Buffer to hold some bits
	numBits uint   // Number of valid bits in bufBits
	offset  int64  // Number of bytes read from the underlying reader
}

func (br *bitReader) Init(r io.Reader) {
	*br = bitReader{rd: byteReaderOf(r)}
}

func byteReaderOf(r io.Reader) byteReader {
	if rr, ok := r.(byteReader); ok {
		return rr
	}
	return bufio.NewReader(r)
}

// ReadBits reads nb bits in LSB order from the underlying reader.
// If an IO error occurs, then it panics.
func (br *bitReader) ReadBits(nb uint) uint {
	for br.numBits < nb {
		c, err := br.rd.ReadByte()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			panic(err)
		}
		br.offset++
		br.bufBits |= uint32(c) << br.numBits
		br.numBits += 8
	}
	val := uint(br.bufBits & uint32(1<<nb-1))
	br.bufBits >>= nb
	br.numBits -= nb
	return val
}
