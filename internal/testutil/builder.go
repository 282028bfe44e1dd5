// Package testutil provides a builder for creating mock S3 clients.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// MockBuilder provides a fluent interface for building MockS3Client instances.
type MockBuilder struct {
	client *MockS3Client
}

// NewMockBuilder creates a new MockBuilder.
func NewMockBuilder() *MockBuilder {
	return &MockBuilder{
		client: &MockS3Client{},
	}
}

// Build returns the configured MockS3Client.
func (b *MockBuilder) Build() *MockS3Client {
	return b.client
}

// WithPutObject configures the PutObject behavior.
func (b *MockBuilder) WithPutObject(
	fn func(context.Context, *s3.PutObjectInput) (*s3.PutObjectOutput, error),
) *MockBuilder {
	b.client.PutObjectFunc = func(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return fn(ctx, params)
	}
	return b
}

// WithHeadBucket configures the HeadBucket behavior.
func (b *MockBuilder) WithHeadBucket(
	fn func(context.Context, *s3.HeadBucketInput) (*s3.HeadBucketOutput, error),
) *MockBuilder {
	b.client.HeadBucketFunc = func(ctx context.Context, params *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
		return fn(ctx, params)
	}
	return b
}

// WithSuccessfulUpload configures the mock to always return successful uploads.
func (b *MockBuilder) WithSuccessfulUpload() *MockBuilder {
	b.client.PutObjectFunc = func(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		// Consume the body if provided
		if params.Body != nil {
			_, _ = io.Copy(io.Discard, params.Body)
		}
		return &s3.PutObjectOutput{
			ETag: StringPtr(`"test-etag"`),
		}, nil
	}
	return b
}

// WithFailedUpload configures the mock to always return upload failures.
func (b *MockBuilder) WithFailedUpload(err error) *MockBuilder {
	b.client.PutObjectFunc = func(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, err
	}
	return b
}

// WithBucketNotFound configures the mock so bucket preflight checks fail.
func (b *MockBuilder) WithBucketNotFound() *MockBuilder {
	b.client.HeadBucketFunc = func(ctx context.Context, params *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
		return nil, &types.NotFound{
			Message: StringPtr("Not Found"),
		}
	}
	return b
}

// WithAccessDenied configures the mock to return access denied errors.
func (b *MockBuilder) WithAccessDenied() *MockBuilder {
	accessDeniedErr := errors.New("AccessDenied: access denied")

	b.client.PutObjectFunc = func(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, accessDeniedErr
	}
	b.client.HeadBucketFunc = func(ctx context.Context, params *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
		return nil, accessDeniedErr
	}

	return b
}

// WithMultipartUpload configures the mock for multipart upload operations.
func (b *MockBuilder) WithMultipartUpload() *MockBuilder {
	uploadID := "test-upload-id"

	b.client.CreateMultipartUploadFunc = func(ctx context.Context, params *s3.CreateMultipartUploadInput, _ ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
		return &s3.CreateMultipartUploadOutput{
			UploadId: StringPtr(uploadID),
			Bucket:   params.Bucket,
			Key:      params.Key,
		}, nil
	}

	b.client.UploadPartFunc = func(ctx context.Context, params *s3.UploadPartInput, _ ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
		// Consume the body if provided
		if params.Body != nil {
			_, _ = io.Copy(io.Discard, params.Body)
		}
		return &s3.UploadPartOutput{
			ETag: StringPtr(fmt.Sprintf(`"part-etag-%d"`, aws.ToInt32(params.PartNumber))),
		}, nil
	}

	b.client.CompleteMultipartUploadFunc = func(ctx context.Context, params *s3.CompleteMultipartUploadInput, _ ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
		return &s3.CompleteMultipartUploadOutput{
			ETag:   StringPtr(`"multipart-etag"`),
			Bucket: params.Bucket,
			Key:    params.Key,
		}, nil
	}

	b.client.AbortMultipartUploadFunc = func(ctx context.Context, params *s3.AbortMultipartUploadInput, _ ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
		return &s3.AbortMultipartUploadOutput{}, nil
	}

	return b
}

// WithObjectStore configures the mock to capture every upload in store,
// so tests can assert on exactly what was sent.
func (b *MockBuilder) WithObjectStore(store *ObjectStore) *MockBuilder {
	b.client.PutObjectFunc = storingPutObject(store, nil)
	return b
}

// WithFlakyUpload captures uploads in store but fails any whose object key
// is listed in failKeys.
func (b *MockBuilder) WithFlakyUpload(store *ObjectStore, failKeys ...string) *MockBuilder {
	failing := make(map[string]struct{}, len(failKeys))
	for _, key := range failKeys {
		failing[key] = struct{}{}
	}
	b.client.PutObjectFunc = storingPutObject(store, failing)
	return b
}

// storingPutObject returns a PutObject implementation that records uploads
// in store and rejects keys present in failing.
func storingPutObject(
	store *ObjectStore,
	failing map[string]struct{},
) func(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	return func(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		key := aws.ToString(params.Key)
		if _, bad := failing[key]; bad {
			return nil, fmt.Errorf("InternalError: simulated upload failure for %s", key)
		}

		var body []byte
		if params.Body != nil {
			var err error
			body, err = io.ReadAll(params.Body)
			if err != nil {
				return nil, err
			}
		}

		store.put(aws.ToString(params.Bucket), key, StoredObject{
			Body:            body,
			ContentType:     aws.ToString(params.ContentType),
			ContentEncoding: aws.ToString(params.ContentEncoding),
			CacheControl:    aws.ToString(params.CacheControl),
			ACL:             string(params.ACL),
			StorageClass:    string(params.StorageClass),
			Metadata:        params.Metadata,
		})

		return &s3.PutObjectOutput{
			ETag: StringPtr(CalculateETag(body)),
		}, nil
	}
}

// StoredObject is one object captured by an ObjectStore.
type StoredObject struct {
	Body            []byte
	ContentType     string
	ContentEncoding string
	CacheControl    string
	ACL             string
	StorageClass    string
	Metadata        map[string]string
}

// ObjectStore records uploaded objects in memory, keyed by "bucket/key".
// It is safe for concurrent use.
type ObjectStore struct {
	mu      sync.Mutex
	objects map[string]StoredObject
}

// NewObjectStore creates an empty ObjectStore.
func NewObjectStore() *ObjectStore {
	return &ObjectStore{
		objects: make(map[string]StoredObject),
	}
}

func (s *ObjectStore) put(bucket, key string, obj StoredObject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[bucket+"/"+key] = obj
}

// Get returns the stored object for bucket and key.
func (s *ObjectStore) Get(bucket, key string) (StoredObject, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[bucket+"/"+key]
	return obj, ok
}

// Len reports how many objects are stored.
func (s *ObjectStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// Keys returns every stored "bucket/key" identifier in sorted order.
func (s *ObjectStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
