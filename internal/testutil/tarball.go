// Package testutil provides tar archive fixtures for tests.
package testutil

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"testing"
	"time"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/zstd"
)

// TarEntry describes one member of a fixture archive.
type TarEntry struct {
	// Name is the member path.
	Name string

	// Body is the payload for regular files.
	Body []byte

	// Mode is the permission bits; defaults to 0o644.
	Mode int64

	// Typeflag selects the member type; defaults to tar.TypeReg.
	Typeflag byte

	// Linkname is the target for link entries.
	Linkname string
}

// File returns a regular file entry with the given body.
func File(name string, body []byte) TarEntry {
	return TarEntry{Name: name, Body: body}
}

// TextFile returns a regular file entry with a string body.
func TextFile(name, body string) TarEntry {
	return File(name, []byte(body))
}

// Dir returns a directory entry.
func Dir(name string) TarEntry {
	return TarEntry{Name: name, Typeflag: tar.TypeDir, Mode: 0o755}
}

// Symlink returns a symbolic link entry pointing at target.
func Symlink(name, target string) TarEntry {
	return TarEntry{Name: name, Typeflag: tar.TypeSymlink, Linkname: target, Mode: 0o777}
}

// BuildTar assembles an uncompressed tar archive from entries.
func BuildTar(t *testing.T, entries ...TarEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	for _, entry := range entries {
		typeflag := entry.Typeflag
		if typeflag == 0 {
			typeflag = tar.TypeReg
		}
		mode := entry.Mode
		if mode == 0 {
			mode = 0o644
		}

		hdr := &tar.Header{
			Name:     entry.Name,
			Mode:     mode,
			Typeflag: typeflag,
			Linkname: entry.Linkname,
			ModTime:  time.Unix(1700000000, 0),
		}
		if typeflag == tar.TypeReg {
			hdr.Size = int64(len(entry.Body))
		}

		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("writing tar header for %s: %v", entry.Name, err)
		}
		if typeflag == tar.TypeReg {
			if _, err := tw.Write(entry.Body); err != nil {
				t.Fatalf("writing tar body for %s: %v", entry.Name, err)
			}
		}
	}

	if err := tw.Close(); err != nil {
		t.Fatalf("closing tar writer: %v", err)
	}
	return buf.Bytes()
}

// BuildTarGz assembles a gzip-compressed tar archive from entries.
func BuildTarGz(t *testing.T, entries ...TarEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(BuildTar(t, entries...)); err != nil {
		t.Fatalf("gzip compressing archive: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("closing gzip writer: %v", err)
	}
	return buf.Bytes()
}

// BuildTarBz2 assembles a bzip2-compressed tar archive from entries.
func BuildTarBz2(t *testing.T, entries ...TarEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	bz, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{Level: bzip2.BestSpeed})
	if err != nil {
		t.Fatalf("creating bzip2 writer: %v", err)
	}
	if _, err := bz.Write(BuildTar(t, entries...)); err != nil {
		t.Fatalf("bzip2 compressing archive: %v", err)
	}
	if err := bz.Close(); err != nil {
		t.Fatalf("closing bzip2 writer: %v", err)
	}
	return buf.Bytes()
}

// BuildTarZst assembles a zstd-compressed tar archive from entries.
func BuildTarZst(t *testing.T, entries ...TarEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatalf("creating zstd writer: %v", err)
	}
	if _, err := zw.Write(BuildTar(t, entries...)); err != nil {
		t.Fatalf("zstd compressing archive: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zstd writer: %v", err)
	}
	return buf.Bytes()
}
