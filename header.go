// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package grd

import (
	"encoding/binary"
	"io"
)

// Header describes a single GRD image and the layout of its channel regions.
// It is parsed from the fixed 32-byte header at the start of the file.
type Header struct {
	Version  byte // Container version (1 or 2)
	PackType byte // Compression pipeline selector (1, 0xA1, or 0xA2)

	Width  int // Cropped image width in pixels
	Height int // Cropped image height in pixels
	Depth  int // Bits per pixel (24 or 32)

	// Placement of the cropped image on the original screen canvas.
	OffsetX int
	OffsetY int

	// Byte lengths of the per-channel regions that follow the header,
	// stored back to back in the order alpha (if any), red, green, blue.
	AlphaSize uint32
	RedSize   uint32
	GreenSize uint32
	BlueSize  uint32
}

// PixelSize returns the number of bytes per output pixel.
func (h Header) PixelSize() int { return h.Depth / 8 }

// HasAlpha reports whether the decoded image carries an alpha channel.
func (h Header) HasAlpha() bool { return h.Depth == 32 && h.AlphaSize > 0 }

// parseHeader decodes the fixed 32-byte header.
// It validates field ranges, but not region lengths; see Header.Validate.
func parseHeader(b []byte) (Header, error) {
	var h Header
	if len(b) < headerSize {
		return h, ErrInvalidHeader
	}

	h.Version = b[0x00]
	h.PackType = b[0x01]
	if h.Version != 1 && h.Version != 2 {
		return h, ErrInvalidHeader
	}
	if h.PackType != packRLE && h.PackType != packHuffRLE && h.PackType != packHuffLZ {
		return h, ErrInvalidHeader
	}

	h.Depth = int(binary.LittleEndian.Uint16(b[0x06:]))
	if h.Depth != 24 && h.Depth != 32 {
		return h, ErrInvalidHeader
	}

	screenHeight := int(binary.LittleEndian.Uint16(b[0x04:]))
	left := int(binary.LittleEndian.Uint16(b[0x08:]))
	right := int(binary.LittleEndian.Uint16(b[0x0a:]))
	top := int(binary.LittleEndian.Uint16(b[0x0c:]))
	bottom := int(binary.LittleEndian.Uint16(b[0x0e:]))

	h.Width = abs(right - left)
	h.Height = abs(bottom - top)
	h.OffsetX = left
	h.OffsetY = screenHeight - bottom

	h.AlphaSize = binary.LittleEndian.Uint32(b[0x10:])
	h.RedSize = binary.LittleEndian.Uint32(b[0x14:])
	h.GreenSize = binary.LittleEndian.Uint32(b[0x18:])
	h.BlueSize = binary.LittleEndian.Uint32(b[0x1c:])
	return h, nil
}

// Cap on the decoded pixel buffer. The crop bounds are arbitrary uint16
// fields from the file, so the output size must be bounded before allocation
// to avoid memory exhaustion on crafted inputs.
const maxImageSize = 1 << 30

// Validate checks that the declared channel regions exactly account for the
// file contents following the header.
func (h Header) Validate(fileSize int64) error {
	regions := int64(h.AlphaSize) + int64(h.RedSize) + int64(h.GreenSize) + int64(h.BlueSize)
	if headerSize+regions != fileSize {
		return ErrInvalidHeader
	}
	if h.Width <= 0 || h.Height <= 0 {
		return ErrInvalidHeader
	}
	if int64(h.Width)*int64(h.Height)*int64(h.PixelSize()) > maxImageSize {
		return ErrInvalidHeader
	}
	return nil
}

// ReadHeader parses and validates the header of a GRD file of the given size.
func ReadHeader(r io.ReaderAt, size int64) (Header, error) {
	var b [headerSize]byte
	if _, err := r.ReadAt(b[:], 0); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return Header{}, err
	}
	h, err := parseHeader(b[:])
	if err != nil {
		return Header{}, err
	}
	if err := h.Validate(size); err != nil {
		return Header{}, err
	}
	return h, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
