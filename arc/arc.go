// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package arc reads the PAC archive container that GRD images ship in.
//
// An archive is a fixed-width name index followed by raw entry data. Two
// index layouts exist: version 1 stores 32-bit entry offsets and version 2
// stores 64-bit ones. Entry content types are not recorded in the index, so
// they are sniffed from leading signatures instead.
package arc

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Error is the wrapper type for errors specific to this library.
type Error string

func (e Error) Error() string { return "arc: " + string(e) }

var (
	ErrInvalidArchive error = Error("invalid archive index")
	ErrCorrupt        error = Error("entry data is corrupted")
)

// Entry content types assigned by signature sniffing. Entries with no
// recognized signature keep TypeUnknown.
const (
	TypeUnknown = ""
	TypeAudio   = "audio"
	TypeImage   = "image"
	TypeScript  = "script"
)

const (
	oggMagic    = 0x5367674f // "OggS"
	scriptMagic = 0x140050
)

// Entry is a single archived file.
type Entry struct {
	Name   string
	Type   string
	Offset int64
	Size   uint32
}

// Archive provides access to the entries of an open PAC file.
type Archive struct {
	Version int
	Entries []Entry

	r    io.ReaderAt
	size int64
}

// Open reads and validates the index of the archive at path. The returned
// Archive keeps the file open; it is released by Close.
func Open(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	base := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	a, err := NewReader(f, fi.Size(), base)
	if err != nil {
		f.Close()
		return nil, err
	}
	return a, nil
}

// Close releases the underlying file if the archive owns one.
func (a *Archive) Close() error {
	if c, ok := a.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (a *Archive) init(r io.ReaderAt, size int64, name string) error {
	a.r, a.size = r, size

	var hdr [7]byte
	if _, err := r.ReadAt(hdr[:], 0); err != nil {
		return ErrInvalidArchive
	}
	count := int(int16(binary.LittleEndian.Uint16(hdr[0:])))
	if count <= 0 {
		return ErrInvalidArchive
	}
	nameLen := int(hdr[2])
	if nameLen == 0 {
		return ErrInvalidArchive
	}
	dataOffset := int64(binary.LittleEndian.Uint32(hdr[3:]))
	if dataOffset >= size {
		return ErrInvalidArchive
	}

	switch indexSize := int64(7 + (nameLen+8)*count); {
	case dataOffset == indexSize:
		a.Version = 1
	case dataOffset == indexSize+int64(4*count):
		a.Version = 2
	default:
		return ErrInvalidArchive
	}

	entrySize := nameLen + 8
	if a.Version == 2 {
		entrySize = nameLen + 12
	}
	index := make([]byte, entrySize*count)
	if _, err := r.ReadAt(index, 7); err != nil {
		return ErrInvalidArchive
	}

	a.Entries = make([]Entry, 0, count)
	for i := 0; i < count; i++ {
		rec := index[i*entrySize:]
		e := Entry{Name: strings.TrimRight(string(rec[:nameLen]), "\x00")}
		if a.Version == 1 {
			e.Offset = dataOffset + int64(binary.LittleEndian.Uint32(rec[nameLen:]))
			e.Size = binary.LittleEndian.Uint32(rec[nameLen+4:])
		} else {
			e.Offset = dataOffset + int64(binary.LittleEndian.Uint64(rec[nameLen:]))
			e.Size = binary.LittleEndian.Uint32(rec[nameLen+8:])
		}
		if e.Offset < 0 || e.Offset+int64(e.Size) > size {
			return ErrInvalidArchive
		}
		a.sniff(&e, name)
		a.Entries = append(a.Entries, e)
	}
	return nil
}

// NewReader parses an archive index from r, whose total size must be given.
// The name argument is the archive's base name without extension; the format
// encodes no content types, and some signatures are only meaningful inside
// specifically named archives.
func NewReader(r io.ReaderAt, size int64, name string) (*Archive, error) {
	a := new(Archive)
	if err := a.init(r, size, name); err != nil {
		return nil, err
	}
	return a, nil
}

// sniff inspects an entry's leading bytes and assigns a content type,
// rewriting the entry's extension for recognized formats.
func (a *Archive) sniff(e *Entry, arcName string) {
	var b [10]byte
	if _, err := a.r.ReadAt(b[:], e.Offset); err != nil {
		return
	}
	sig := binary.LittleEndian.Uint32(b[0:])
	switch {
	case sig == oggMagic:
		e.Name = replaceExt(e.Name, ".ogg")
		e.Type = TypeAudio
	case (sig&0xff == 1 || sig&0xff == 2) && strings.Contains(arcName, "grd"):
		e.Name = replaceExt(e.Name, ".grd")
		e.Type = TypeImage
	case sig&0xff == 0x44 && e.Size >= 9 && e.Size-9 == binary.LittleEndian.Uint32(b[5:]):
		e.Type = TypeAudio
	case binary.LittleEndian.Uint16(b[4:]) == 6 && binary.LittleEndian.Uint32(b[6:]) == scriptMagic:
		e.Type = TypeScript
		if arcName == "srp" {
			e.Name = replaceExt(e.Name, ".srp")
		}
	}
}

// ReadEntry returns the content of e, applying the nibble-swap transform to
// obfuscated script entries.
func (a *Archive) ReadEntry(e Entry) ([]byte, error) {
	data := make([]byte, e.Size)
	if _, err := a.r.ReadAt(data, e.Offset); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	if e.Type == TypeScript && isObfuscatedScript(data) {
		unscrambleScript(data)
	}
	return data, nil
}

func isObfuscatedScript(data []byte) bool {
	return len(data) >= 10 &&
		binary.LittleEndian.Uint16(data[4:]) == 6 &&
		binary.LittleEndian.Uint32(data[6:]) == scriptMagic
}

// unscrambleScript swaps the nibbles of every record payload byte in place.
// Each record is a 16-bit total length (which includes its own 4-byte
// framing) followed by a 4-byte tag and the payload.
func unscrambleScript(data []byte) {
	records := int(binary.LittleEndian.Uint32(data[0:]))
	pos := 4
	for i := 0; i < records; i++ {
		if pos+2 > len(data) {
			return
		}
		chunk := int(binary.LittleEndian.Uint16(data[pos:])) - 4
		pos += 6
		if chunk < 0 || pos+chunk > len(data) {
			return
		}
		for j := 0; j < chunk; j++ {
			data[pos] = data[pos]>>4 | data[pos]<<4
			pos++
		}
	}
}

func replaceExt(name, ext string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}
