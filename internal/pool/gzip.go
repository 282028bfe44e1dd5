// Package pool provides reuse of expensive per-entry resources.
//
// A deploy compresses every text entry it meets, and building a fresh
// gzip writer allocates the full deflate state each time. Pooling the
// writers keeps allocation cost flat no matter how many entries an
// archive holds.
package pool

import (
	"compress/gzip"
	"io"
	"sync"
)

// gzipWriters holds writers configured for BestCompression. Reset rebinds
// a pooled writer to a new destination, so one writer serves any number
// of entries.
var gzipWriters = sync.Pool{
	New: func() interface{} {
		w, _ := gzip.NewWriterLevel(io.Discard, gzip.BestCompression)
		return w
	},
}

// GetGzipWriter returns a pooled gzip writer bound to w.
func GetGzipWriter(w io.Writer) *gzip.Writer {
	gz := gzipWriters.Get().(*gzip.Writer)
	gz.Reset(w)
	return gz
}

// PutGzipWriter returns gz to the pool. The writer must be closed first;
// the next caller resets it before use.
func PutGzipWriter(gz *gzip.Writer) {
	gzipWriters.Put(gz)
}
