// Package testutil provides test data generators.
package testutil

import (
	"fmt"
	"math/rand"
)

// TestDataGenerator provides methods for generating test data.
type TestDataGenerator struct {
	rand *rand.Rand
}

// NewTestDataGenerator creates a new test data generator with a seeded random source.
func NewTestDataGenerator(seed int64) *TestDataGenerator {
	return &TestDataGenerator{
		rand: rand.New(rand.NewSource(seed)),
	}
}

// assetTemplates describes the file shapes GenerateAssetEntries cycles
// through. Text-like extensions get compressible bodies, binary
// extensions get random bytes.
var assetTemplates = []struct {
	pattern string
	text    bool
}{
	{"pages/page-%03d.html", true},
	{"assets/js/chunk-%03d.js", true},
	{"assets/css/theme-%03d.css", true},
	{"api/data-%03d.json", true},
	{"assets/img/photo-%03d.png", false},
	{"assets/fonts/face-%03d.woff2", false},
}

// GenerateAssetEntries generates a mixed tree of website asset entries
// resembling a static site build.
func (g *TestDataGenerator) GenerateAssetEntries(count int) []TarEntry {
	entries := make([]TarEntry, count)

	for i := 0; i < count; i++ {
		tmpl := assetTemplates[i%len(assetTemplates)]
		name := fmt.Sprintf(tmpl.pattern, i)
		size := g.rand.Intn(4096) + 256

		var body []byte
		if tmpl.text {
			body = g.GenerateTextBlob(size)
		} else {
			body = g.GenerateBinaryBlob(size)
		}
		entries[i] = File(name, body)
	}

	return entries
}

// GenerateTextBlob generates size bytes of repetitive ASCII text that
// compresses well.
func (g *TestDataGenerator) GenerateTextBlob(size int) []byte {
	const phrase = "the quick brown fox jumps over the lazy dog. "
	blob := make([]byte, size)
	for i := range blob {
		blob[i] = phrase[i%len(phrase)]
	}
	return blob
}

// GenerateBinaryBlob generates size bytes of pseudorandom data from the
// seeded source.
func (g *TestDataGenerator) GenerateBinaryBlob(size int) []byte {
	blob := make([]byte, size)
	g.rand.Read(blob)
	return blob
}

// GenerateDeployMetadata generates test metadata for deploy options.
func (g *TestDataGenerator) GenerateDeployMetadata() map[string]string {
	return map[string]string{
		"build-id":  fmt.Sprintf("build-%d", g.rand.Intn(100000)),
		"commit":    fmt.Sprintf("%08x", g.rand.Int63()),
		"generator": "testutil",
	}
}
