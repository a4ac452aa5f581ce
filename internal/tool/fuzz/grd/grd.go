// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build gofuzz
// +build gofuzz

package grd

import (
	"bytes"

	"github.com/dsnet/grd"
)

// Fuzz decodes arbitrary bytes as a GRD image. Decoding must either fail
// cleanly or produce a pixel buffer of exactly the size the header declares.
func Fuzz(data []byte) int {
	img, err := grd.Decode(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0
	}
	h := img.Header
	if len(img.Pix) != h.Width*h.Height*h.PixelSize() {
		panic("pixel buffer size mismatch")
	}
	return 1 // Favor valid inputs
}
