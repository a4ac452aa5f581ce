// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// +build ignore

// Generates sample.grd, a pack-type 1 (raw run-length) test image for the
// benchmark tool. The channel planes are smooth gradients with occasional
// noise so that the run-length regions stay representative of real assets.
package main

import (
	"encoding/binary"
	"io/ioutil"
	"math/rand"
)

const (
	name   = "sample.grd"
	width  = 320
	height = 240
)

func main() {
	r := rand.New(rand.NewSource(0))

	makePlane := func(phase int) []byte {
		b := make([]byte, width*height)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				b[y*width+x] = byte((x + y + phase) / 4)
			}
		}
		for i := 0; i < len(b)/128; i++ {
			b[r.Intn(len(b))] = byte(r.Int())
		}
		return b
	}

	// Run-length encode a plane: repeated bytes become (0x80|len, value)
	// pairs and everything else is emitted as literal chunks.
	packRLE := func(plane []byte) []byte {
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

	red := packRLE(makePlane(0))
	green := packRLE(makePlane(64))
	blue := packRLE(makePlane(128))

	hdr := make([]byte, 0x20)
	hdr[0] = 1 // Container version
	hdr[1] = 1 // Pack type: raw run-length
	binary.LittleEndian.PutUint16(hdr[0x02:], width)
	binary.LittleEndian.PutUint16(hdr[0x04:], height)
	binary.LittleEndian.PutUint16(hdr[0x06:], 24)
	binary.LittleEndian.PutUint16(hdr[0x0a:], width)  // Crop right
	binary.LittleEndian.PutUint16(hdr[0x0e:], height) // Crop bottom
	binary.LittleEndian.PutUint32(hdr[0x14:], uint32(len(red)))
	binary.LittleEndian.PutUint32(hdr[0x18:], uint32(len(green)))
	binary.LittleEndian.PutUint32(hdr[0x1c:], uint32(len(blue)))

	b := hdr
	b = append(b, red...)
	b = append(b, green...)
	b = append(b, blue...)
	if err := ioutil.WriteFile(name, b, 0664); err != nil {
		panic(err)
	}
}
