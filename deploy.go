// Package s3tar provides the public deploy API for tar archive contents.
package s3tar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	s3tarerrors "github.com/input-output-hk/catalyst-forge-libs/aws/s3tar/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3tar/internal/archive"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3tar/internal/classify"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3tar/internal/executor"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3tar/internal/upload"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3tar/internal/validation"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3tar/s3tartypes"
)

// DefaultCacheControl is the Cache-Control header applied when no
// WithCacheControl option is given.
const DefaultCacheControl = classify.DefaultCacheControl

// Deploy reads a tar archive from reader and uploads every regular file it
// contains to the bucket. The archive may be uncompressed or wrapped in
// gzip, bzip2, or zstd; the container is detected from the stream itself.
//
// Each entry is classified by its path extension. Text-like entries are
// gzipped and uploaded with a Content-Encoding header unless compression is
// disabled. Entry uploads that fail are recorded in the result while the
// deploy keeps going; the combined outcome comes back as ErrDeployIncomplete.
// A stream that fails mid-archive aborts the deploy with ErrEntryRead, and
// entries uploaded before the failure stay in the bucket.
func (c *Client) Deploy(
	ctx context.Context,
	reader io.Reader,
	bucket string,
	opts ...s3tartypes.DeployOption,
) (*s3tartypes.DeployResult, error) {
	startTime := time.Now()

	// Apply default options from the client configuration
	clientCfg := c.getClientConfig()
	cfg := &s3tartypes.DeployConfig{
		Concurrency:  clientCfg.Concurrency,
		CacheControl: DefaultCacheControl,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	// Validate inputs
	if reader == nil {
		return nil, s3tarerrors.NewError("deploy", s3tarerrors.ErrInvalidInput).
			WithBucket(bucket).
			WithMessage("reader cannot be nil")
	}
	if err := validation.ValidateBucketName(bucket); err != nil {
		return nil, err
	}
	if err := validation.ValidateACL(string(cfg.ACL)); err != nil {
		return nil, err
	}
	if err := validation.ValidateStorageClass(string(cfg.StorageClass)); err != nil {
		return nil, err
	}
	if cfg.Metadata != nil {
		if err := validation.ValidateMetadata(cfg.Metadata); err != nil {
			return nil, err
		}
		cfg.Metadata = validation.SanitizeMetadata(cfg.Metadata)
	}

	// Normalize the prefix so joining never produces double or missing slashes
	prefix := strings.TrimPrefix(cfg.Prefix, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	// Fail before reading any entry when the destination is unreachable
	if !cfg.DryRun {
		if err := c.preflightBucket(ctx, bucket); err != nil {
			return nil, err
		}
	}

	scanner, err := archive.NewScanner(reader)
	if err != nil {
		return nil, err
	}
	defer scanner.Close()

	classifier := classify.New(cfg.CacheControl, !cfg.DisableCompression)
	pool := executor.New(upload.New(c.s3Client), cfg.Concurrency)
	if cfg.ProgressTracker != nil {
		pool = pool.WithProgressTracker(cfg.ProgressTracker)
	}

	uploadCfg := s3tartypes.UploadConfig{
		CacheControl: cfg.CacheControl,
		Metadata:     cfg.Metadata,
		StorageClass: cfg.StorageClass,
		ACL:          cfg.ACL,
		PartSize:     clientCfg.PartSize,
	}

	result := &s3tartypes.DeployResult{}
	var scanErr error
	attempted := 0
	dryRunFiles := 0
	var dryRunBytes int64

	for {
		entry, err := scanner.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			scanErr = err
			break
		}
		attempted++

		// A hostile entry path is a recorded failure, not a fatal error
		if err := validation.ValidateEntryPath(entry.Path); err != nil {
			result.Failures = append(result.Failures, s3tartypes.UploadFailure{
				Path:    entry.Path,
				Message: err.Error(),
			})
			continue
		}

		key := path.Join(prefix, entry.Path)
		if err := validation.ValidateObjectKey(key); err != nil {
			result.Failures = append(result.Failures, s3tartypes.UploadFailure{
				Path:    entry.Path,
				Key:     key,
				Message: err.Error(),
			})
			continue
		}

		data, err := entry.Payload()
		if err != nil {
			scanErr = err
			break
		}

		headers := classifier.Classify(entry.Path)
		body := data
		if headers.Compress {
			body, err = classify.GzipBytes(data)
			if err != nil {
				result.Failures = append(result.Failures, s3tartypes.UploadFailure{
					Path:    entry.Path,
					Key:     key,
					Message: err.Error(),
				})
				continue
			}
		}

		if cfg.DryRun {
			dryRunFiles++
			dryRunBytes += int64(len(body))
			if cfg.ProgressTracker != nil {
				cfg.ProgressTracker.ObjectUploaded(key, int64(len(body)))
			}
			continue
		}

		entryCfg := uploadCfg
		entryCfg.ContentType = headers.ContentType
		entryCfg.ContentEncoding = headers.ContentEncoding

		task := &executor.Task{
			Path:   entry.Path,
			Bucket: bucket,
			Key:    key,
			Data:   body,
			Config: &entryCfg,
		}
		if err := pool.Submit(ctx, task); err != nil {
			scanErr = s3tarerrors.NewError("deploy", err).WithBucket(bucket)
			break
		}
	}

	// Drain in-flight uploads before reporting anything
	poolResult := pool.Wait()

	result.FilesUploaded = poolResult.Uploaded + dryRunFiles
	result.BytesUploaded = poolResult.Bytes + dryRunBytes
	result.Failures = append(result.Failures, poolResult.Failures...)
	result.FilesSkipped = scanner.Skipped()
	result.FilesFailed = len(result.Failures)
	result.Duration = time.Since(startTime)

	if cfg.ProgressTracker != nil {
		cfg.ProgressTracker.Complete()
	}

	if scanErr != nil {
		return result, scanErr
	}
	if len(result.Failures) > 0 {
		return result, s3tarerrors.NewError("deploy", s3tarerrors.ErrDeployIncomplete).
			WithBucket(bucket).
			WithMessage(fmt.Sprintf("%d of %d entries failed", len(result.Failures), attempted))
	}

	return result, nil
}

// DeployFile opens the archive at archivePath through the client's
// filesystem and deploys it. The path must name a regular file.
func (c *Client) DeployFile(
	ctx context.Context,
	bucket, archivePath string,
	opts ...s3tartypes.DeployOption,
) (*s3tartypes.DeployResult, error) {
	if archivePath == "" {
		return nil, s3tarerrors.NewError("deployFile", s3tarerrors.ErrInvalidInput).
			WithBucket(bucket).
			WithMessage("archive path cannot be empty")
	}

	info, err := c.fs.Stat(archivePath)
	if err != nil {
		return nil, s3tarerrors.NewError("deployFile", err).
			WithBucket(bucket).
			WithMessage(fmt.Sprintf("cannot stat archive %s", archivePath))
	}
	if info.IsDir() {
		return nil, s3tarerrors.NewError("deployFile", s3tarerrors.ErrInvalidInput).
			WithBucket(bucket).
			WithMessage(fmt.Sprintf("%s is a directory, not an archive", archivePath))
	}

	file, err := c.fs.Open(archivePath)
	if err != nil {
		return nil, s3tarerrors.NewError("deployFile", err).
			WithBucket(bucket).
			WithMessage(fmt.Sprintf("cannot open archive %s", archivePath))
	}
	defer file.Close()

	return c.Deploy(ctx, file, bucket, opts...)
}

// preflightBucket verifies the destination bucket exists before any entry
// is read from the archive.
func (c *Client) preflightBucket(ctx context.Context, bucket string) error {
	_, err := c.s3Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return s3tarerrors.NewError("deploy", c.convertAWSError(err)).WithBucket(bucket)
	}
	return nil
}

// convertAWSError maps AWS SDK errors to our sentinel error types.
func (c *Client) convertAWSError(err error) error {
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return s3tarerrors.ErrBucketNotFound
	}

	var noSuchBucket *types.NoSuchBucket
	if errors.As(err, &noSuchBucket) {
		return s3tarerrors.ErrBucketNotFound
	}

	// Fall back to string matching for errors the SDK does not type
	errMsg := err.Error()
	switch {
	case strings.Contains(errMsg, "NotFound"), strings.Contains(errMsg, "NoSuchBucket"):
		return s3tarerrors.ErrBucketNotFound
	case strings.Contains(errMsg, "AccessDenied"), strings.Contains(errMsg, "Forbidden"):
		return s3tarerrors.ErrAccessDenied
	case strings.Contains(errMsg, "RequestTimeout"), strings.Contains(errMsg, "context deadline exceeded"):
		return s3tarerrors.ErrTimeout
	case strings.Contains(errMsg, "connection refused"), strings.Contains(errMsg, "no such host"):
		return s3tarerrors.ErrConnection
	}

	return err
}
