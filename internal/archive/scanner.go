package archive

import (
	"archive/tar"
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"

	s3tarerrors "github.com/input-output-hk/catalyst-forge-libs/aws/s3tar/errors"
)

// Scanner iterates over the regular-file entries of a tar archive in a
// single forward pass. The underlying stream is never rewound.
type Scanner struct {
	tr          *tar.Reader
	compression Compression
	closer      io.Closer
	read        int
	skipped     int
}

// Entry is one regular file inside the archive. Its payload is only
// readable until the scanner advances to the next entry.
type Entry struct {
	// Path is the entry name as recorded in the archive, with any
	// leading "./" stripped.
	Path string

	// Size is the payload size in bytes.
	Size int64

	r io.Reader
}

// Payload reads the entry's full contents from the archive stream.
// It must be called before the scanner's next Next call.
func (e *Entry) Payload() ([]byte, error) {
	data, err := io.ReadAll(e.r)
	if err != nil {
		return nil, s3tarerrors.NewError("read", s3tarerrors.ErrEntryRead).
			WithKey(e.Path).
			WithMessage(err.Error())
	}
	return data, nil
}

// NewScanner opens a tar archive for reading, transparently decompressing
// gzip, bzip2, and zstd containers. Detection uses the stream's magic
// bytes, so file naming does not matter.
func NewScanner(r io.Reader) (*Scanner, error) {
	if r == nil {
		return nil, s3tarerrors.NewError("scan", s3tarerrors.ErrInvalidInput).
			WithMessage("reader cannot be nil")
	}

	buf := bufio.NewReaderSize(r, sniffLen)
	peek, err := buf.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, s3tarerrors.NewError("scan", s3tarerrors.ErrUnrecognizedArchive).
			WithMessage(fmt.Sprintf("reading stream head: %v", err))
	}
	if len(peek) == 0 {
		return nil, s3tarerrors.NewError("scan", s3tarerrors.ErrUnrecognizedArchive).
			WithMessage("empty stream")
	}

	compression := DetectCompression(peek)
	switch compression {
	case Gzip:
		gz, err := gzip.NewReader(buf)
		if err != nil {
			return nil, s3tarerrors.NewError("scan", s3tarerrors.ErrUnrecognizedArchive).
				WithMessage(fmt.Sprintf("opening gzip stream: %v", err))
		}
		return &Scanner{tr: tar.NewReader(gz), compression: compression, closer: gz}, nil

	case Bzip2:
		return &Scanner{tr: tar.NewReader(bzip2.NewReader(buf)), compression: compression}, nil

	case Zstd:
		zr, err := zstd.NewReader(buf)
		if err != nil {
			return nil, s3tarerrors.NewError("scan", s3tarerrors.ErrUnrecognizedArchive).
				WithMessage(fmt.Sprintf("opening zstd stream: %v", err))
		}
		zrc := zr.IOReadCloser()
		return &Scanner{tr: tar.NewReader(zrc), compression: compression, closer: zrc}, nil

	case Xz:
		return nil, s3tarerrors.NewError("scan", s3tarerrors.ErrUnsupportedCompression).
			WithMessage("xz archives are not supported, recompress with gzip or zstd")
	}

	return &Scanner{tr: tar.NewReader(buf), compression: Uncompressed}, nil
}

// Next advances to the next regular-file entry, skipping directories,
// symlinks, and other special entries. It returns io.EOF once the archive
// is exhausted.
//
// A header failure before any entry has been returned means the stream was
// never a readable tar archive and surfaces as ErrUnrecognizedArchive. A
// failure after that point surfaces as ErrEntryRead.
func (s *Scanner) Next() (*Entry, error) {
	for {
		hdr, err := s.tr.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			if s.read == 0 {
				return nil, s3tarerrors.NewError("scan", s3tarerrors.ErrUnrecognizedArchive).
					WithMessage(err.Error())
			}
			return nil, s3tarerrors.NewError("scan", s3tarerrors.ErrEntryRead).
				WithMessage(err.Error())
		}

		if hdr.Typeflag != tar.TypeReg {
			s.skipped++
			continue
		}

		s.read++
		return &Entry{
			Path: strings.TrimPrefix(hdr.Name, "./"),
			Size: hdr.Size,
			r:    s.tr,
		}, nil
	}
}

// Compression reports the container format the scanner detected.
func (s *Scanner) Compression() Compression {
	return s.compression
}

// Skipped reports how many non-regular entries have been passed over so far.
func (s *Scanner) Skipped() int {
	return s.skipped
}

// Close releases the decompressor, if any. It does not close the
// underlying reader.
func (s *Scanner) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
