package upload

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	s3tarerrors "github.com/input-output-hk/catalyst-forge-libs/aws/s3tar/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3tar/s3tartypes"
)

// putMultipart uploads a payload through the S3 multipart API. On any
// failure the upload is aborted so no orphaned parts accumulate.
func (u *Uploader) putMultipart(
	ctx context.Context,
	bucket, key string,
	data []byte,
	config *s3tartypes.UploadConfig,
) (*s3tartypes.UploadResult, error) {
	startTime := time.Now()
	size := int64(len(data))
	partSize := resolvePartSize(size, config.PartSize)

	createInput := &s3.CreateMultipartUploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if config.ContentType != "" {
		createInput.ContentType = aws.String(config.ContentType)
	}
	if config.ContentEncoding != "" {
		createInput.ContentEncoding = aws.String(config.ContentEncoding)
	}
	if config.CacheControl != "" {
		createInput.CacheControl = aws.String(config.CacheControl)
	}
	if config.StorageClass != "" {
		createInput.StorageClass = types.StorageClass(config.StorageClass)
	}
	if config.ACL != "" {
		createInput.ACL = types.ObjectCannedACL(config.ACL)
	}
	if len(config.Metadata) > 0 {
		createInput.Metadata = config.Metadata
	}

	createOutput, err := u.s3Client.CreateMultipartUpload(ctx, createInput)
	if err != nil {
		return nil, s3tarerrors.NewError("putMultipart", err).WithBucket(bucket).WithKey(key)
	}
	uploadID := aws.ToString(createOutput.UploadId)

	completedParts, err := u.uploadParts(ctx, bucket, key, uploadID, data, partSize)
	if err != nil {
		u.abortMultipartUpload(ctx, bucket, key, uploadID)
		return nil, s3tarerrors.NewError("putMultipart", err).WithBucket(bucket).WithKey(key)
	}

	completeOutput, err := u.s3Client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
		MultipartUpload: &types.CompletedMultipartUpload{
			Parts: completedParts,
		},
	})
	if err != nil {
		u.abortMultipartUpload(ctx, bucket, key, uploadID)
		return nil, s3tarerrors.NewError("putMultipart", err).WithBucket(bucket).WithKey(key)
	}

	result := &s3tartypes.UploadResult{
		Key:      key,
		Size:     size,
		Duration: time.Since(startTime),
	}
	if completeOutput.ETag != nil {
		result.ETag = *completeOutput.ETag
	}

	return result, nil
}

// resolvePartSize picks the part size for a payload, respecting the S3
// minimum and the part count ceiling.
func resolvePartSize(totalSize, configured int64) int64 {
	partSize := configured
	if partSize < defaultPartSize {
		partSize = defaultPartSize
	}
	if minSize := (totalSize + maxParts - 1) / maxParts; partSize < minSize {
		partSize = minSize
	}
	return partSize
}

// uploadParts sends every part in order and returns the completed parts
// sorted by part number, as CompleteMultipartUpload requires.
func (u *Uploader) uploadParts(
	ctx context.Context,
	bucket, key, uploadID string,
	data []byte,
	partSize int64,
) ([]types.CompletedPart, error) {
	totalSize := int64(len(data))
	numParts := (totalSize + partSize - 1) / partSize

	completed := make([]types.CompletedPart, 0, numParts)
	for partNum := int64(1); partNum <= numParts; partNum++ {
		offset := (partNum - 1) * partSize
		end := offset + partSize
		if end > totalSize {
			end = totalSize
		}

		output, err := u.s3Client.UploadPart(ctx, &s3.UploadPartInput{
			Bucket:        aws.String(bucket),
			Key:           aws.String(key),
			UploadId:      aws.String(uploadID),
			PartNumber:    aws.Int32(int32(partNum)),
			Body:          bytes.NewReader(data[offset:end]),
			ContentLength: aws.Int64(end - offset),
		})
		if err != nil {
			return nil, fmt.Errorf("uploading part %d of %d: %w", partNum, numParts, err)
		}

		completed = append(completed, types.CompletedPart{
			ETag:       output.ETag,
			PartNumber: aws.Int32(int32(partNum)),
		})
	}

	return completed, nil
}

// abortMultipartUpload cleans up after a failed multipart upload.
// Errors are ignored since this is cleanup and the original upload error
// is what the caller needs to see.
func (u *Uploader) abortMultipartUpload(ctx context.Context, bucket, key, uploadID string) {
	_, _ = u.s3Client.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
	})
}
