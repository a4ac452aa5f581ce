// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// pacx extracts the contents of a PAC archive into a directory.
//
// Example usage:
//	$ pacx data.pac extracted/
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dsnet/grd/arc"
)

func main() {
	log.SetFlags(0)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s archive.pac output-dir\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	input, output := flag.Arg(0), flag.Arg(1)
	if !strings.EqualFold(filepath.Ext(input), ".pac") {
		log.Fatalf("%s: not a .pac archive", input)
	}

	a, err := arc.Open(input)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close()

	if err := os.MkdirAll(output, 0755); err != nil {
		log.Fatal(err)
	}
	for _, e := range a.Entries {
		data, err := a.ReadEntry(e)
		if err != nil {
			log.Fatalf("%s: %v", e.Name, err)
		}
		dst := filepath.Join(output, filepath.Base(e.Name))
		if err := os.WriteFile(dst, data, 0666); err != nil {
			log.Fatal(err)
		}
		log.Printf("extracted %s", e.Name)
	}
}
