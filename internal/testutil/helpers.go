// Package testutil provides common test helpers and utilities.
package testutil

import (
	"context"
	"crypto/md5"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// StringPtr returns a pointer to the given string value.
func StringPtr(s string) *string {
	return aws.String(s)
}

// Int64Ptr returns a pointer to the given int64 value.
func Int64Ptr(i int64) *int64 {
	return aws.Int64(i)
}

// Int32Ptr returns a pointer to the given int32 value.
func Int32Ptr(i int32) *int32 {
	return aws.Int32(i)
}

// BoolPtr returns a pointer to the given bool value.
func BoolPtr(b bool) *bool {
	return aws.Bool(b)
}

// TimePtr returns a pointer to the given time value.
func TimePtr(t time.Time) *time.Time {
	return aws.Time(t)
}

// GenerateRandomData creates a byte slice of the specified size with random data.
func GenerateRandomData(size int) []byte {
	data := make([]byte, size)
	if _, err := rand.Read(data); err != nil {
		// Fall back to a deterministic pattern if crypto/rand fails
		for i := range data {
			data[i] = byte(i % 256)
		}
	}
	return data
}

// GenerateTestBucketName creates a unique bucket name for testing.
func GenerateTestBucketName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// CalculateETag computes the MD5 hash of data formatted as an S3 ETag.
func CalculateETag(data []byte) string {
	return fmt.Sprintf("\"%x\"", md5.Sum(data))
}

// CreatePutObjectOutput creates a realistic PutObjectOutput for the given payload.
func CreatePutObjectOutput(data []byte) *s3.PutObjectOutput {
	return &s3.PutObjectOutput{
		ETag: StringPtr(CalculateETag(data)),
	}
}

// CleanupTestBucket returns a function that removes every object from the
// bucket and then deletes the bucket itself. Errors are ignored.
func CleanupTestBucket(client *s3.Client, bucketName string) func() {
	return func() {
		ctx := context.Background()

		paginator := s3.NewListObjectsV2Paginator(client, &s3.ListObjectsV2Input{
			Bucket: StringPtr(bucketName),
		})
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				break
			}
			for _, obj := range page.Contents {
				_, _ = client.DeleteObject(ctx, &s3.DeleteObjectInput{
					Bucket: StringPtr(bucketName),
					Key:    obj.Key,
				})
			}
		}

		_, _ = client.DeleteBucket(ctx, &s3.DeleteBucketInput{
			Bucket: StringPtr(bucketName),
		})
	}
}
