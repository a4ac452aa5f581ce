// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package grd

import (
	"image"
	"image/color"
)

// Image is a decoded GRD image. It implements image.Image so that it can be
// handed directly to any standard encoder such as image/png.
type Image struct {
	Header Header

	// Pix holds the interleaved samples in R, G, B, A order with the top
	// row first. Its length is Width*Height*PixelSize; pixels are 3 bytes
	// wide for 24-bit images and 4 bytes wide for 32-bit images.
	Pix []byte
}

func (m *Image) ColorModel() color.Model { return color.NRGBAModel }

func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Header.Width, m.Header.Height)
}

func (m *Image) At(x, y int) color.Color {
	if !(image.Point{x, y}).In(m.Bounds()) {
		return color.NRGBA{}
	}
	i := (y*m.Header.Width + x) * m.Header.PixelSize()
	c := color.NRGBA{R: m.Pix[i+0], G: m.Pix[i+1], B: m.Pix[i+2], A: 0xff}
	if m.Header.HasAlpha() {
		c.A = m.Pix[i+3]
	}
	return c
}

// Opaque reports whether the image is fully opaque. Encoders use this to
// pick an alpha-free representation when possible.
func (m *Image) Opaque() bool {
	if !m.Header.HasAlpha() {
		return true
	}
	for i := 3; i < len(m.Pix); i += 4 {
		if m.Pix[i] != 0xff {
			return false
		}
	}
	return true
}
