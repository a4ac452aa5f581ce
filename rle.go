// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package grd

import "io"

// expandRLE decodes exactly srcSize bytes of run-length coded data from r
// into dst. A control byte with the high bit set emits a run: the low 7 bits
// give the length and the following byte the value. A control byte from 1 to
// 0x7F copies that many bytes through literally. A zero control byte does
// nothing beyond consuming itself.
//
// Termination is driven by the source byte count, not by dst becoming full;
// a stream that decodes past the end of dst is corrupt. If an IO error
// occurs or dst overflows, then it panics.
func expandRLE(r io.Reader, srcSize int, dst []byte) {
	br := byteReaderOf(r)
	var src, d int
	for src < srcSize {
		count := int(readByte(br))
		src++
		switch {
		case count > 0x7F:
			count &= 0x7F
			v := readByte(br)
			src++
			if d+count > len(dst) {
				panic(ErrCorrupt)
			}
			for i := 0; i < count; i++ {
				dst[d] = v
				d++
			}
		case count > 0:
			if d+count > len(dst) {
				panic(ErrCorrupt)
			}
			if _, err := io.ReadFull(br, dst[d:d+count]); err != nil {
				if err == io.EOF {
					err = io.ErrUnexpectedEOF
				}
				panic(err)
			}
			src += count
			d += count
		}
	}
}

func readByte(r io.ByteReader) byte {
	c, err := r.ReadByte()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		panic(err)
	}
	return c
}
