// Package classify maps archive entry paths to the headers their uploaded
// objects should carry.
//
// Classification is a pure function of the entry path: the content type
// comes from the extension and compressibility from the resolved type.
// Payload bytes are never inspected, so the same archive deploys the same
// way on every host.
package classify

import (
	"bytes"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3tar/internal/pool"
)

// DefaultContentType is used when the extension maps to nothing.
const DefaultContentType = "application/octet-stream"

// DefaultCacheControl is one year of public caching, the usual policy for
// fingerprinted static assets.
const DefaultCacheControl = "public, max-age=31536000"

// GzipEncoding is the Content-Encoding value for compressed payloads.
const GzipEncoding = "gzip"

// compressibleTypes lists the media types worth gzipping before upload.
// Images, fonts with built-in compression, and other binary formats are
// excluded; compressing them again wastes CPU for no size win.
var compressibleTypes = map[string]struct{}{
	"text/plain":                  {},
	"text/html":                   {},
	"text/javascript":             {},
	"text/css":                    {},
	"text/xml":                    {},
	"text/x-component":            {},
	"application/javascript":      {},
	"application/x-javascript":    {},
	"application/xml":             {},
	"application/json":            {},
	"application/xhtml+xml":       {},
	"application/rss+xml":         {},
	"application/atom+xml":        {},
	"application/vnd.ms-fontobject": {},
	"application/x-font-ttf":      {},
	"font/opentype":               {},
	"image/svg+xml":               {},
}

// extTypes pins the extensions common in web asset archives so
// classification does not depend on the host's MIME tables.
var extTypes = map[string]string{
	".html":  "text/html",
	".htm":   "text/html",
	".css":   "text/css",
	".js":    "application/javascript",
	".mjs":   "application/javascript",
	".json":  "application/json",
	".map":   "application/json",
	".xml":   "application/xml",
	".xhtml": "application/xhtml+xml",
	".rss":   "application/rss+xml",
	".atom":  "application/atom+xml",
	".txt":   "text/plain",
	".htc":   "text/x-component",
	".svg":   "image/svg+xml",
	".eot":   "application/vnd.ms-fontobject",
	".ttf":   "application/x-font-ttf",
	".otf":   "font/opentype",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".webp":  "image/webp",
	".ico":   "image/x-icon",
	".pdf":   "application/pdf",
	".wasm":  "application/wasm",
}

// Classifier decides per-entry upload headers.
type Classifier struct {
	cacheControl string
	compress     bool
}

// New creates a Classifier. An empty cacheControl selects
// DefaultCacheControl; compress false forces every entry through verbatim.
func New(cacheControl string, compress bool) *Classifier {
	if cacheControl == "" {
		cacheControl = DefaultCacheControl
	}
	return &Classifier{
		cacheControl: cacheControl,
		compress:     compress,
	}
}

// Result carries the resolved headers for one entry.
type Result struct {
	// ContentType is the MIME type derived from the entry's extension.
	ContentType string

	// ContentEncoding is "gzip" when the payload should be compressed,
	// empty otherwise.
	ContentEncoding string

	// CacheControl is the Cache-Control header for the object.
	CacheControl string

	// Compress reports whether the payload should be gzipped before upload.
	Compress bool
}

// Classify resolves the upload headers for an entry path. It never touches
// the filesystem or the payload.
func (c *Classifier) Classify(path string) Result {
	contentType := TypeByPath(path)
	result := Result{
		ContentType:  contentType,
		CacheControl: c.cacheControl,
	}
	if c.compress && Compressible(contentType) {
		result.Compress = true
		result.ContentEncoding = GzipEncoding
	}
	return result
}

// TypeByPath maps an entry path to its content type. The pinned table wins
// over the host MIME database; unknown extensions fall back to
// DefaultContentType.
func TypeByPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return DefaultContentType
	}

	if contentType, ok := extTypes[ext]; ok {
		return contentType
	}

	if contentType := mime.TypeByExtension(ext); contentType != "" {
		return contentType
	}

	return DefaultContentType
}

// Compressible reports whether objects of the given media type gain from
// gzip. Parameters such as charset are ignored.
func Compressible(contentType string) bool {
	mediaType := contentType
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = mediaType[:i]
	}
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))

	_, ok := compressibleTypes[mediaType]
	return ok
}

// GzipBytes compresses data with gzip at BestCompression. Writers come
// from a shared pool, so compressing entry after entry does not
// re-allocate deflate state.
func GzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	gz := pool.GetGzipWriter(&buf)
	defer pool.PutGzipWriter(gz)

	if _, err := gz.Write(data); err != nil {
		return nil, fmt.Errorf("compressing payload: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("flushing gzip stream: %w", err)
	}

	return buf.Bytes(), nil
}
