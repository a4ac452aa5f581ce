// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package grd

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"io"
	"testing"

	"github.com/dsnet/grd/internal/testutil"
	"github.com/google/go-cmp/cmp"
)

// buildGRD assembles a complete GRD file from raw channel planes, compressing
// each plane according to packType. Planes are given bottom row first, the
// way they are stored in the file. A nil alpha plane omits the alpha region.
func buildGRD(packType byte, depth, width, height int, alpha, red, green, blue []byte) []byte {
	pack := func(plane []byte) []byte {
		if plane == nil {
			return nil
		}
		switch packType {
		case packRLE:
			return rlePack(plane)
		case packHuffLZ:
			return huffPack(dictPack(0xfe, plane))
		default:
			return huffPack(rlePack(plane))
		}
	}
	regions := [][]byte{pack(alpha), pack(red), pack(green), pack(blue)}

	hdr := make([]byte, headerSize)
	hdr[0] = 1
	hdr[1] = packType
	binary.LittleEndian.PutUint16(hdr[0x02:], uint16(width))
	binary.LittleEndian.PutUint16(hdr[0x04:], uint16(height))
	binary.LittleEndian.PutUint16(hdr[0x06:], uint16(depth))
	binary.LittleEndian.PutUint16(hdr[0x0a:], uint16(width))  // Crop right
	binary.LittleEndian.PutUint16(hdr[0x0e:], uint16(height)) // Crop bottom
	for i, r := range regions {
		binary.LittleEndian.PutUint32(hdr[0x10+4*i:], uint32(len(r)))
	}

	out := hdr
	for _, r := range regions {
		out = append(out, r...)
	}
	return out
}

func testDecode(t *testing.T, input []byte) *Image {
	t.Helper()
	img, err := Decode(bytes.NewReader(input), int64(len(input)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return img
}

// A 2x2 image whose channel planes are all uniform must decode to the same
// RGB triple in all four pixels regardless of the vertical flip.
func TestDecodeUniform(t *testing.T) {
	for _, packType := range []byte{packRLE, packHuffRLE, packHuffLZ} {
		u := func(v byte) []byte { return []byte{v, v, v, v} }
		input := buildGRD(packType, 24, 2, 2, nil, u(0x11), u(0x22), u(0x33))

		img := testDecode(t, input)
		want := bytes.Repeat([]byte{0x11, 0x22, 0x33}, 4)
		if !bytes.Equal(img.Pix, want) {
			t.Errorf("pack type %#02x: pixel mismatch:\ngot  %x\nwant %x", packType, img.Pix, want)
		}
	}
}

// Planes are stored bottom row first; the first decoded row must land in the
// last output row.
func TestDecodeFlip(t *testing.T) {
	input := buildGRD(packRLE, 24, 2, 2, nil,
		[]byte{10, 20, 30, 40},
		[]byte{50, 60, 70, 80},
		[]byte{90, 100, 110, 120})

	img := testDecode(t, input)
	want := []byte{
		30, 70, 110, 40, 80, 120, // Output row 0 is plane row 1
		10, 50, 90, 20, 60, 100, // Output row 1 is plane row 0
	}
	if !bytes.Equal(img.Pix, want) {
		t.Errorf("pixel mismatch:\ngot  %x\nwant %x", img.Pix, want)
	}
}

func TestDecodeAlpha(t *testing.T) {
	input := buildGRD(packRLE, 32, 2, 2,
		[]byte{1, 2, 3, 4},
		[]byte{10, 20, 30, 40},
		[]byte{50, 60, 70, 80},
		[]byte{90, 100, 110, 120})

	img := testDecode(t, input)
	want := []byte{
		30, 70, 110, 3, 40, 80, 120, 4,
		10, 50, 90, 1, 20, 60, 100, 2,
	}
	if !bytes.Equal(img.Pix, want) {
		t.Errorf("pixel mismatch:\ngot  %x\nwant %x", img.Pix, want)
	}

	if img.Opaque() {
		t.Errorf("Opaque() = true, want false")
	}
	if got, want := img.At(0, 0), (color.NRGBA{30, 70, 110, 3}); got != want {
		t.Errorf("At(0, 0) = %v, want %v", got, want)
	}
	if got, want := img.Bounds(), image.Rect(0, 0, 2, 2); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
}

// All three pack types must agree with a reference scatter over the same
// planes.
func TestDecodePackTypes(t *testing.T) {
	const width, height = 5, 3
	rnd := testutil.NewRand(1)
	planes := make([][]byte, 3)
	for i := range planes {
		planes[i] = rnd.Bytes(width * height)
	}

	want := make([]byte, width*height*3)
	for c, plane := range planes {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				dst := ((height-1-y)*width+x)*3 + c
				want[dst] = plane[y*width+x]
			}
		}
	}

	for _, packType := range []byte{packRLE, packHuffRLE, packHuffLZ} {
		input := buildGRD(packType, 24, width, height, nil, planes[0], planes[1], planes[2])
		img := testDecode(t, input)
		if diff := cmp.Diff(want, img.Pix); diff != "" {
			t.Errorf("pack type %#02x: pixel mismatch (-want +got):\n%s", packType, diff)
		}
	}
}

func TestDecodeOutputSize(t *testing.T) {
	rnd := testutil.NewRand(2)
	for i, v := range []struct{ width, height, depth int }{
		{1, 1, 24},
		{7, 3, 24},
		{4, 4, 32},
		{16, 1, 24},
	} {
		n := v.width * v.height
		var alpha []byte
		if v.depth == 32 {
			alpha = rnd.Bytes(n)
		}
		input := buildGRD(packRLE, v.depth, v.width, v.height,
			alpha, rnd.Bytes(n), rnd.Bytes(n), rnd.Bytes(n))

		img := testDecode(t, input)
		if got, want := len(img.Pix), n*v.depth/8; got != want {
			t.Errorf("test %d: pixel buffer size: got %d, want %d", i, got, want)
		}
	}
}

func TestDecodeSizeMismatch(t *testing.T) {
	input := buildGRD(packRLE, 24, 2, 2, nil,
		make([]byte, 4), make([]byte, 4), make([]byte, 4))

	// Any slack between the declared regions and the file size is invalid.
	for _, in := range [][]byte{
		append(bytes.Clone(input), 0x00),
		input[:len(input)-1],
	} {
		if _, err := Decode(bytes.NewReader(in), int64(len(in))); err != ErrInvalidHeader {
			t.Errorf("error mismatch: got %v, want %v", err, ErrInvalidHeader)
		}
	}
}

func TestDecodeTruncatedRegion(t *testing.T) {
	// A Huffman region too short to hold its frequency table fails cleanly.
	hdr := make([]byte, headerSize)
	hdr[0], hdr[1] = 1, 0xa1
	binary.LittleEndian.PutUint16(hdr[0x02:], 2)
	binary.LittleEndian.PutUint16(hdr[0x04:], 2)
	binary.LittleEndian.PutUint16(hdr[0x06:], 24)
	binary.LittleEndian.PutUint16(hdr[0x0a:], 2)
	binary.LittleEndian.PutUint16(hdr[0x0e:], 2)
	binary.LittleEndian.PutUint32(hdr[0x14:], 4) // Red region: 4 garbage bytes
	input := append(hdr, 0xde, 0xad, 0xbe, 0xef)

	_, err := Decode(bytes.NewReader(input), int64(len(input)))
	if err != io.ErrUnexpectedEOF {
		t.Errorf("error mismatch: got %v, want %v", err, io.ErrUnexpectedEOF)
	}
}

func BenchmarkDecode(b *testing.B) {
	const width, height = 256, 256
	rnd := testutil.NewRand(3)
	plane := make([]byte, width*height)
	for i := range plane {
		plane[i] = byte(i / 97) // Mildly compressible gradient
	}
	noise := rnd.Bytes(len(plane) / 64)
	for i, v := range noise {
		plane[i*64] = v
	}
	input := buildGRD(packHuffRLE, 24, width, height, nil, plane, plane, plane)

	b.SetBytes(int64(width * height * 3))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Decode(bytes.NewReader(input), int64(len(input))); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}
