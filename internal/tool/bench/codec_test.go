// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/dsnet/grd/internal/testutil"
)

// TestCodecs tests that the output of each registered encoder is a valid input
// for each registered decoder of the same format.
func TestCodecs(t *testing.T) {
	input := makePixelData(1e5)
	formats := []int{FormatFlate, FormatZstd, FormatXZ}
	const level = 6 // Default compression on all encoders

	for _, f := range formats {
		if len(Encoders[f]) == 0 || len(Decoders[f]) == 0 {
			continue
		}
		for encName, enc := range Encoders[f] {
			be := new(bytes.Buffer)
			zw := enc(be, level)
			if _, err := io.Copy(zw, bytes.NewReader(input)); err != nil {
				t.Fatalf("format %d, encoder %s: unexpected Write error: %v", f, encName, err)
			}
			if err := zw.Close(); err != nil {
				t.Fatalf("format %d, encoder %s: unexpected Close error: %v", f, encName, err)
			}

			for decName, dec := range Decoders[f] {
				name := fmt.Sprintf("format %d, encoder %s, decoder %s", f, encName, decName)
				bd := new(bytes.Buffer)
				zr := dec(bytes.NewReader(be.Bytes()))
				if _, err := io.Copy(bd, zr); err != nil {
					t.Fatalf("%s: unexpected Read error: %v", name, err)
				}
				if err := zr.Close(); err != nil {
					t.Fatalf("%s: unexpected Close error: %v", name, err)
				}
				if !bytes.Equal(bd.Bytes(), input) {
					t.Errorf("%s: data mismatch", name)
				}
			}
		}
	}
}

// Benchmark rows are labeled file:level:size, where round decimal sizes keep
// their exponent shorthand and everything else gets an IEC prefix.
func TestBenchmarkNames(t *testing.T) {
	vectors := []struct {
		file  string
		level int
		size  int
		want  string
	}{
		{"sample.grd", 6, 1e5, "sample.grd:6:1e5"},
		{"dir/sample.grd", 9, 1e6, "sample.grd:9:1e6"},
		{"sample.grd", 1, 2048, "sample.grd:1:2Ki"},
	}
	for i, v := range vectors {
		if got := getName(v.file, v.level, v.size); got != v.want {
			t.Errorf("test %d: getName(%q, %d, %d) = %q, want %q",
				i, v.file, v.level, v.size, got, v.want)
		}
	}
}

// makePixelData synthesizes data shaped like a decoded pixel buffer: long
// smooth gradients with a sprinkle of deterministic noise.
func makePixelData(n int) []byte {
	rnd := testutil.NewRand(0)
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i / 64)
	}
	for i := 0; i < n/64; i++ {
		b[rnd.Intn(n)] = byte(rnd.Int())
	}
	return b
}
