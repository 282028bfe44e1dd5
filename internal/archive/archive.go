// Package archive reads tar streams with transparent decompression.
//
// The container format is detected from the stream's leading bytes, never
// from a file name, so renamed or extension-less archives open the same way.
package archive

import (
	"github.com/gabriel-vasile/mimetype"
)

// Compression identifies the compression wrapping a tar stream.
type Compression int

// Supported compression formats.
const (
	// Uncompressed represents a bare tar stream.
	Uncompressed Compression = iota

	// Gzip is gzip compression.
	Gzip

	// Bzip2 is bzip2 compression.
	Bzip2

	// Zstd is zstandard compression.
	Zstd

	// Xz is xz compression. It is detected so callers get a clear error,
	// but the module does not decode it.
	Xz
)

// Extension returns the conventional file suffix for the format.
func (c Compression) Extension() string {
	switch c {
	case Uncompressed:
		return "tar"
	case Gzip:
		return "tar.gz"
	case Bzip2:
		return "tar.bz2"
	case Zstd:
		return "tar.zst"
	case Xz:
		return "tar.xz"
	}
	return ""
}

// String returns a human-readable name for the format.
func (c Compression) String() string {
	switch c {
	case Uncompressed:
		return "uncompressed"
	case Gzip:
		return "gzip"
	case Bzip2:
		return "bzip2"
	case Zstd:
		return "zstd"
	case Xz:
		return "xz"
	}
	return "unknown"
}

// sniffLen is how many leading bytes DetectCompression inspects. The tar
// magic sits at offset 257, so the window must reach past it.
const sniffLen = 512

// DetectCompression identifies the compression wrapping a stream from its
// leading bytes. Streams that match no known container are reported as
// Uncompressed and left for the tar reader to judge.
func DetectCompression(peek []byte) Compression {
	mtype := mimetype.Detect(peek)
	switch {
	case mtype.Is("application/gzip"):
		return Gzip
	case mtype.Is("application/x-bzip2"):
		return Bzip2
	case mtype.Is("application/zstd"):
		return Zstd
	case mtype.Is("application/x-xz"):
		return Xz
	}
	return Uncompressed
}
