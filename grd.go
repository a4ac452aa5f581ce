// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package grd implements a decoder for the GRD compressed image format.
//
// A GRD file stores each color channel as an independently compressed plane.
// The header's pack type selects one of three pipelines per channel:
// raw run-length encoding, Huffman coding followed by run-length encoding,
// or Huffman coding followed by dictionary (LZ77-style) substitution.
package grd

import "runtime"

// Error is the wrapper type for errors specific to this library.
type Error string

func (e Error) Error() string { return "grd: " + string(e) }

var (
	ErrInvalidHeader error = Error("invalid file header")
	ErrCorrupt       error = Error("image data is corrupted")
)

func errRecover(err *error) {
	switch ex := recover().(type) {
	case nil:
		// Do nothing.
	case runtime.Error:
		panic(ex)
	case error:
		*err = ex
	default:
		panic(ex)
	}
}

const headerSize = 0x20

// Pack types selecting the per-channel decode pipeline.
const (
	packRLE     = 0x01 // Raw run-length encoding
	packHuffRLE = 0xA1 // Huffman coding, then run-length encoding
	packHuffLZ  = 0xA2 // Huffman coding, then dictionary substitution
)
