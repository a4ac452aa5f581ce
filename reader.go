// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package grd

import (
	"bytes"
	"io"
	"os"
)

type decoder struct {
	rd    io.ReaderAt
	hdr   Header
	pix   []byte // Interleaved output pixels
	plane []byte // Scratch plane for the channel being decoded
}

// Decode reads a GRD image from r, whose total size must be given, and
// returns the fully decoded image. Decoding either succeeds completely or
// fails with no partial output.
func Decode(r io.ReaderAt, size int64) (img *Image, err error) {
	hdr, err := ReadHeader(r, size)
	if err != nil {
		return nil, err
	}
	defer errRecover(&err)

	d := &decoder{
		rd:    r,
		hdr:   hdr,
		pix:   make([]byte, hdr.Width*hdr.Height*hdr.PixelSize()),
		plane: make([]byte, hdr.Width*hdr.Height),
	}
	d.unpack()
	return &Image{Header: hdr, Pix: d.pix}, nil
}

// DecodeFile decodes the GRD image stored at path.
func DecodeFile(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return Decode(f, fi.Size())
}

// unpack decodes every channel region in file order. The alpha region, when
// present, comes first; red, green, and blue always follow at offsets
// accumulated from the declared region lengths.
func (d *decoder) unpack() {
	pos := int64(headerSize)
	if d.hdr.HasAlpha() {
		d.unpackChannel(3, pos, int64(d.hdr.AlphaSize))
		pos += int64(d.hdr.AlphaSize)
	}
	d.unpackChannel(0, pos, int64(d.hdr.RedSize))
	pos += int64(d.hdr.RedSize)
	d.unpackChannel(1, pos, int64(d.hdr.GreenSize))
	pos += int64(d.hdr.GreenSize)
	d.unpackChannel(2, pos, int64(d.hdr.BlueSize))
}

// unpackChannel decodes one channel region into the scratch plane and
// scatters it into the pixel buffer. The dst argument is the channel's byte
// offset within a pixel (0=red, 1=green, 2=blue, 3=alpha).
func (d *decoder) unpackChannel(dst int, pos, size int64) {
	sec := io.NewSectionReader(d.rd, pos, size)
	for i := range d.plane {
		d.plane[i] = 0
	}

	switch d.hdr.PackType {
	case packRLE:
		expandRLE(sec, int(size), d.plane)
	case packHuffLZ:
		expandDict(expandHuffman(sec), d.plane)
	default:
		data := expandHuffman(sec)
		expandRLE(bytes.NewReader(data), len(data), d.plane)
	}

	// The plane is stored bottom row first, so scatter rows in reverse to
	// produce a top-down image.
	width, pixelSize := d.hdr.Width, d.hdr.PixelSize()
	for y := d.hdr.Height - 1; y >= 0; y-- {
		src := y * width
		for x := 0; x < width; x++ {
			d.pix[dst] = d.plane[src]
			src++
			dst += pixelSize
		}
	}
}
