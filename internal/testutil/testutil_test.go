package testutil

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockS3Client(t *testing.T) {
	t.Run("implements S3API interface", func(t *testing.T) {
		mock := &MockS3Client{}
		// This test will fail at compile time if MockS3Client doesn't implement S3API
		_ = mock
	})

	t.Run("PutObject with custom function", func(t *testing.T) {
		mock := &MockS3Client{
			PutObjectFunc: func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
				assert.Equal(t, "test-bucket", *params.Bucket)
				assert.Equal(t, "test-key", *params.Key)
				return &s3.PutObjectOutput{
					ETag: StringPtr("test-etag"),
				}, nil
			},
		}

		output, err := mock.PutObject(context.Background(), &s3.PutObjectInput{
			Bucket: StringPtr("test-bucket"),
			Key:    StringPtr("test-key"),
		})

		require.NoError(t, err)
		assert.Equal(t, "test-etag", *output.ETag)
	})

	t.Run("returns default when no function set", func(t *testing.T) {
		mock := &MockS3Client{}

		putOutput, err := mock.PutObject(context.Background(), &s3.PutObjectInput{
			Bucket: StringPtr("test-bucket"),
			Key:    StringPtr("test-key"),
		})
		require.NoError(t, err)
		assert.NotNil(t, putOutput)

		headOutput, err := mock.HeadBucket(context.Background(), &s3.HeadBucketInput{
			Bucket: StringPtr("test-bucket"),
		})
		require.NoError(t, err)
		assert.NotNil(t, headOutput)
	})

	t.Run("counts operation calls", func(t *testing.T) {
		mock := &MockS3Client{}

		_, _ = mock.PutObject(context.Background(), &s3.PutObjectInput{})
		_, _ = mock.PutObject(context.Background(), &s3.PutObjectInput{})
		_, _ = mock.HeadBucket(context.Background(), &s3.HeadBucketInput{})

		assert.Equal(t, 2, mock.PutObjectCalls())
		assert.Equal(t, 1, mock.HeadBucketCalls())
		assert.Equal(t, 0, mock.AbortCalls())
	})
}

func TestMockBuilder(t *testing.T) {
	t.Run("builds mock with successful upload", func(t *testing.T) {
		mock := NewMockBuilder().WithSuccessfulUpload().Build()

		output, err := mock.PutObject(context.Background(), &s3.PutObjectInput{
			Bucket: StringPtr("test-bucket"),
			Key:    StringPtr("test-key"),
			Body:   bytes.NewReader([]byte("test data")),
		})

		require.NoError(t, err)
		assert.Equal(t, `"test-etag"`, *output.ETag)
	})

	t.Run("builds mock with bucket not found", func(t *testing.T) {
		mock := NewMockBuilder().WithBucketNotFound().Build()

		_, err := mock.HeadBucket(context.Background(), &s3.HeadBucketInput{
			Bucket: StringPtr("test-bucket"),
		})

		require.Error(t, err)
	})

	t.Run("builds mock with object store", func(t *testing.T) {
		store := NewObjectStore()
		mock := NewMockBuilder().WithObjectStore(store).Build()

		_, err := mock.PutObject(context.Background(), &s3.PutObjectInput{
			Bucket:          StringPtr("test-bucket"),
			Key:             StringPtr("site/index.html"),
			Body:            bytes.NewReader([]byte("<html></html>")),
			ContentType:     StringPtr("text/html"),
			ContentEncoding: StringPtr("gzip"),
			CacheControl:    StringPtr("no-store"),
		})
		require.NoError(t, err)

		obj, ok := store.Get("test-bucket", "site/index.html")
		require.True(t, ok)
		assert.Equal(t, []byte("<html></html>"), obj.Body)
		assert.Equal(t, "text/html", obj.ContentType)
		assert.Equal(t, "gzip", obj.ContentEncoding)
		assert.Equal(t, "no-store", obj.CacheControl)
		assert.Equal(t, 1, store.Len())
		assert.Equal(t, []string{"test-bucket/site/index.html"}, store.Keys())
	})

	t.Run("builds mock with flaky upload", func(t *testing.T) {
		store := NewObjectStore()
		mock := NewMockBuilder().WithFlakyUpload(store, "bad/key.js").Build()

		_, err := mock.PutObject(context.Background(), &s3.PutObjectInput{
			Bucket: StringPtr("test-bucket"),
			Key:    StringPtr("bad/key.js"),
			Body:   bytes.NewReader([]byte("boom")),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated upload failure")

		_, err = mock.PutObject(context.Background(), &s3.PutObjectInput{
			Bucket: StringPtr("test-bucket"),
			Key:    StringPtr("good/key.js"),
			Body:   bytes.NewReader([]byte("fine")),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("builds mock with multipart upload", func(t *testing.T) {
		mock := NewMockBuilder().WithMultipartUpload().Build()

		// Create multipart upload
		createOutput, err := mock.CreateMultipartUpload(context.Background(), &s3.CreateMultipartUploadInput{
			Bucket: StringPtr("test-bucket"),
			Key:    StringPtr("test-key"),
		})
		require.NoError(t, err)
		assert.NotEmpty(t, *createOutput.UploadId)

		// Upload part
		partOutput, err := mock.UploadPart(context.Background(), &s3.UploadPartInput{
			Bucket:     StringPtr("test-bucket"),
			Key:        StringPtr("test-key"),
			UploadId:   createOutput.UploadId,
			PartNumber: Int32Ptr(1),
			Body:       bytes.NewReader([]byte("test data")),
		})
		require.NoError(t, err)
		assert.NotEmpty(t, *partOutput.ETag)
	})
}

func TestMockProgressTracker(t *testing.T) {
	t.Run("records uploads and failures", func(t *testing.T) {
		tracker := &MockProgressTracker{}

		tracker.ObjectUploaded("site/index.html", 512)
		tracker.ObjectUploaded("site/app.js", 256)
		tracker.ObjectFailed("site/broken.css", assert.AnError)
		tracker.Complete()

		uploaded := tracker.Uploaded()
		require.Len(t, uploaded, 2)
		assert.Equal(t, "site/index.html", uploaded[0].Key)
		assert.Equal(t, int64(512), uploaded[0].Size)

		failed := tracker.Failed()
		require.Len(t, failed, 1)
		assert.Equal(t, "site/broken.css", failed[0].Key)
		assert.Equal(t, assert.AnError, failed[0].Err)

		assert.True(t, tracker.CompleteCalled())
	})

	t.Run("resets state", func(t *testing.T) {
		tracker := &MockProgressTracker{}
		tracker.ObjectUploaded("site/index.html", 512)
		tracker.ObjectFailed("site/app.js", assert.AnError)
		tracker.Complete()

		tracker.Reset()

		assert.Empty(t, tracker.Uploaded())
		assert.Empty(t, tracker.Failed())
		assert.False(t, tracker.CompleteCalled())
	})
}

func TestHelpers(t *testing.T) {
	t.Run("generates random data", func(t *testing.T) {
		data := GenerateRandomData(1024)
		assert.Len(t, data, 1024)

		// Data should be different each time
		data2 := GenerateRandomData(1024)
		assert.NotEqual(t, data, data2)
	})

	t.Run("generates test bucket name", func(t *testing.T) {
		name := GenerateTestBucketName("test")
		assert.Contains(t, name, "test-")
		assert.LessOrEqual(t, len(name), 63)
		assert.Regexp(t, "^[a-z0-9][a-z0-9.-]*[a-z0-9]$", name)
	})

	t.Run("calculates ETag", func(t *testing.T) {
		data := []byte("test data")
		etag := CalculateETag(data)
		assert.NotEmpty(t, etag)
		// Should be hex with quotes
		assert.True(t, strings.HasPrefix(etag, `"`))
		assert.True(t, strings.HasSuffix(etag, `"`))
	})
}

func TestTestDataGenerator(t *testing.T) {
	gen := NewTestDataGenerator(12345)

	t.Run("generates asset entries", func(t *testing.T) {
		entries := gen.GenerateAssetEntries(12)
		assert.Len(t, entries, 12)

		seen := make(map[string]struct{}, len(entries))
		for _, entry := range entries {
			assert.NotEmpty(t, entry.Name)
			assert.GreaterOrEqual(t, len(entry.Body), 256)
			assert.Less(t, len(entry.Body), 4352)

			_, dup := seen[entry.Name]
			assert.False(t, dup, "duplicate entry name %s", entry.Name)
			seen[entry.Name] = struct{}{}
		}
	})

	t.Run("text blobs repeat a compressible phrase", func(t *testing.T) {
		blob := gen.GenerateTextBlob(100)
		assert.Len(t, blob, 100)
		assert.Contains(t, string(blob), "quick brown fox")
	})

	t.Run("binary blobs vary between calls", func(t *testing.T) {
		first := gen.GenerateBinaryBlob(64)
		second := gen.GenerateBinaryBlob(64)
		assert.Len(t, first, 64)
		assert.NotEqual(t, first, second)
	})

	t.Run("deploy metadata has expected keys", func(t *testing.T) {
		metadata := gen.GenerateDeployMetadata()
		assert.Contains(t, metadata, "build-id")
		assert.Contains(t, metadata, "commit")
		assert.Equal(t, "testutil", metadata["generator"])
	})
}
