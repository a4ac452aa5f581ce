// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// grd2png converts GRD images to PNG.
//
// Example usage:
//	$ grd2png image.grd image.png
//
// When the input is a directory, every *.grd file beneath it is converted,
// mirroring the relative paths under the output directory with a .png
// extension. Files that fail to decode are logged and skipped.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dsnet/grd"
)

func main() {
	log.SetFlags(0)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s input.grd output.png\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s input-dir output-dir\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	input, output := flag.Arg(0), flag.Arg(1)

	fi, err := os.Stat(input)
	if err != nil {
		log.Fatal(err)
	}
	if fi.IsDir() {
		convertTree(input, output)
		return
	}
	if err := convertFile(input, output); err != nil {
		log.Fatal(err)
	}
}

func convertFile(input, output string) error {
	img, err := grd.DecodeFile(input)
	if err != nil {
		return err
	}
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func convertTree(input, output string) {
	err := filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".grd") {
			return nil
		}
		rel, err := filepath.Rel(input, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(output, strings.TrimSuffix(rel, filepath.Ext(rel))+".png")
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return err
		}
		// A file that fails to decode only skips itself, not the batch.
		if err := convertFile(path, dst); err != nil {
			log.Printf("skipping %s: %v", path, err)
			return nil
		}
		log.Printf("converted %s -> %s", path, dst)
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}
}
