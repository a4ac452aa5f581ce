// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package grd

// Layout of a dictionary-coded section after Huffman expansion: byte 8 holds
// the escape marker and the payload starts at byte 12. The remaining leading
// bytes are encoder metadata with no role in decoding.
const (
	dictEscapeOffset = 8
	dictDataOffset   = 12
)

// expandDict decodes the escape-coded payload of src into dst, filling it
// left to right until full. A literal byte is copied through; the escape
// marker introduces either an escaped literal (escape, escape) or a back
// reference (escape, offset, count) copied byte at a time so that copies may
// overlap the bytes they produce.
//
// Offsets greater than the escape value are decremented by one before use.
// The encoder excludes the escape value from the representable offset range
// and this undoes that shift; it is a quirk of the format and must be kept
// exactly as is to decode existing files.
//
// If src is exhausted or a back reference leaves the window, then it panics.
func expandDict(src, dst []byte) {
	if len(src) < dictDataOffset {
		panic(ErrCorrupt)
	}
	escape := src[dictEscapeOffset]
	src = src[dictDataOffset:]

	var s, d int
	for d < len(dst) {
		if s >= len(src) {
			panic(ErrCorrupt)
		}
		b := src[s]
		s++
		if b != escape {
			dst[d] = b
			d++
			continue
		}

		if s >= len(src) {
			panic(ErrCorrupt)
		}
		offset := src[s]
		s++
		if offset == escape {
			// The escape value itself is coded as an escaped literal.
			dst[d] = escape
			d++
			continue
		}

		if s >= len(src) {
			panic(ErrCorrupt)
		}
		count := int(src[s])
		s++
		if offset > escape {
			offset--
		}
		if int(offset) > d || d+count > len(dst) {
			panic(ErrCorrupt)
		}
		for i := 0; i < count; i++ {
			dst[d] = dst[d-int(offset)]
			d++
		}
	}
}
