// Package upload stores archive entry payloads in S3.
//
// Payloads below the multipart threshold go up in a single PutObject call.
// Larger payloads are split and sent through the multipart API.
package upload

import (
	"bytes"
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	s3tarerrors "github.com/input-output-hk/catalyst-forge-libs/aws/s3tar/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3tar/internal/s3api"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3tar/s3tartypes"
)

const (
	// multipartThreshold is the payload size at which Put switches from a
	// single PutObject call to the multipart API.
	multipartThreshold = 100 * 1024 * 1024

	// defaultPartSize is the part size used when the client does not set
	// one. 5 MiB is the S3 minimum.
	defaultPartSize = 5 * 1024 * 1024

	// maxParts is the S3 limit on parts per multipart upload.
	maxParts = 10000
)

// Uploader stores object payloads in S3.
type Uploader struct {
	s3Client s3api.S3API
}

// New creates a new Uploader instance.
func New(s3Client s3api.S3API) *Uploader {
	return &Uploader{
		s3Client: s3Client,
	}
}

// Put stores one payload under the given key with the headers from config.
// The payload must already be fully materialized; the size decides between
// a single PutObject call and a multipart upload.
func (u *Uploader) Put(
	ctx context.Context,
	bucket, key string,
	data []byte,
	config *s3tartypes.UploadConfig,
) (*s3tartypes.UploadResult, error) {
	if config == nil {
		config = &s3tartypes.UploadConfig{}
	}

	if int64(len(data)) >= multipartThreshold {
		return u.putMultipart(ctx, bucket, key, data, config)
	}

	return u.putObject(ctx, bucket, key, data, config)
}

// putObject performs a single-call upload.
func (u *Uploader) putObject(
	ctx context.Context,
	bucket, key string,
	data []byte,
	config *s3tartypes.UploadConfig,
) (*s3tartypes.UploadResult, error) {
	startTime := time.Now()
	size := int64(len(data))

	input := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
	}
	if config.ContentType != "" {
		input.ContentType = aws.String(config.ContentType)
	}
	if config.ContentEncoding != "" {
		input.ContentEncoding = aws.String(config.ContentEncoding)
	}
	if config.CacheControl != "" {
		input.CacheControl = aws.String(config.CacheControl)
	}
	if config.StorageClass != "" {
		input.StorageClass = types.StorageClass(config.StorageClass)
	}
	if config.ACL != "" {
		input.ACL = types.ObjectCannedACL(config.ACL)
	}
	if len(config.Metadata) > 0 {
		input.Metadata = config.Metadata
	}

	output, err := u.s3Client.PutObject(ctx, input)
	if err != nil {
		return nil, s3tarerrors.NewError("put", err).WithBucket(bucket).WithKey(key)
	}

	result := &s3tartypes.UploadResult{
		Key:      key,
		Size:     size,
		Duration: time.Since(startTime),
	}
	if output.ETag != nil {
		result.ETag = *output.ETag
	}

	return result, nil
}
