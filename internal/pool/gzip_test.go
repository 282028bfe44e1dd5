package pool

import (
	"bytes"
	"compress/gzip"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gunzip(t *testing.T, data []byte) []byte {
	t.Helper()

	r, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer r.Close()

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return out
}

func TestGzipWriterRoundTrip(t *testing.T) {
	payload := []byte("<html><body>pooled compression</body></html>")

	var buf bytes.Buffer
	gz := GetGzipWriter(&buf)
	require.NotNil(t, gz)

	_, err := gz.Write(payload)
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	PutGzipWriter(gz)

	assert.Equal(t, payload, gunzip(t, buf.Bytes()))
}

func TestGzipWriterReuse(t *testing.T) {
	payloads := [][]byte{
		[]byte("first entry body"),
		[]byte("second entry body, longer than the first one"),
		[]byte(""),
	}

	// Cycle writers through the pool several times; each reuse must
	// produce an independent, valid stream.
	for _, payload := range payloads {
		var buf bytes.Buffer
		gz := GetGzipWriter(&buf)

		_, err := gz.Write(payload)
		require.NoError(t, err)
		require.NoError(t, gz.Close())
		PutGzipWriter(gz)

		assert.Equal(t, payload, gunzip(t, buf.Bytes()))
	}
}

func TestGzipWriterCompresses(t *testing.T) {
	payload := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 200)

	var buf bytes.Buffer
	gz := GetGzipWriter(&buf)
	_, err := gz.Write(payload)
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	PutGzipWriter(gz)

	assert.Less(t, buf.Len(), len(payload))
	assert.Equal(t, payload, gunzip(t, buf.Bytes()))
}
