// Package s3tartypes provides shared type definitions for the s3tar module.
// It exists as a separate package so both the public API and internal
// packages can reference the same types without import cycles.
package s3tartypes

import (
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/input-output-hk/catalyst-forge-libs/fs"
)

// StorageClass represents the S3 storage class for uploaded objects.
type StorageClass string

// S3 storage class constants.
const (
	// StorageClassStandard is the default S3 storage class.
	StorageClassStandard StorageClass = "STANDARD"
	// StorageClassStandardIA is for infrequently accessed data.
	StorageClassStandardIA StorageClass = "STANDARD_IA"
	// StorageClassOneZoneIA is for infrequently accessed data in a single AZ.
	StorageClassOneZoneIA StorageClass = "ONEZONE_IA"
	// StorageClassIntelligentTiering automatically moves data between tiers.
	StorageClassIntelligentTiering StorageClass = "INTELLIGENT_TIERING"
	// StorageClassGlacier is for archival with retrieval times in minutes to hours.
	StorageClassGlacier StorageClass = "GLACIER"
	// StorageClassGlacierIR is for archival with immediate retrieval.
	StorageClassGlacierIR StorageClass = "GLACIER_IR"
	// StorageClassDeepArchive is the lowest-cost archival class.
	StorageClassDeepArchive StorageClass = "DEEP_ARCHIVE"
)

// ObjectACL represents a canned access control list applied to uploaded objects.
type ObjectACL string

// Canned ACL constants.
const (
	// ACLPrivate grants full control to the owner only.
	ACLPrivate ObjectACL = "private"
	// ACLPublicRead grants read access to all users.
	ACLPublicRead ObjectACL = "public-read"
	// ACLPublicReadWrite grants read and write access to all users.
	ACLPublicReadWrite ObjectACL = "public-read-write"
	// ACLAuthenticatedRead grants read access to authenticated AWS users.
	ACLAuthenticatedRead ObjectACL = "authenticated-read"
	// ACLBucketOwnerRead grants the bucket owner read access.
	ACLBucketOwnerRead ObjectACL = "bucket-owner-read"
	// ACLBucketOwnerFullControl grants the bucket owner full control.
	ACLBucketOwnerFullControl ObjectACL = "bucket-owner-full-control"
)

// ClientConfig holds configuration for creating an S3 client.
type ClientConfig struct {
	// Region is the AWS region for the client. Falls back to the
	// environment, then to DefaultRegion.
	Region string

	// Endpoint is a custom S3 endpoint URL for S3-compatible stores
	// such as MinIO or LocalStack.
	Endpoint string

	// MaxRetries is the maximum number of retry attempts for failed requests.
	MaxRetries int

	// RetryMode selects the AWS SDK retry strategy ("standard" or "adaptive").
	RetryMode string

	// Timeout is the per-request timeout. Zero means no timeout.
	Timeout time.Duration

	// Concurrency is the default number of parallel uploads for deploys
	// that do not set their own.
	Concurrency int

	// PartSize is the part size in bytes for multipart uploads.
	// Zero selects the 5 MiB default.
	PartSize int64

	// ForcePathStyle forces path-style bucket addressing. Required by
	// most S3-compatible stores.
	ForcePathStyle bool

	// CustomAWSConfig overrides the default AWS configuration entirely.
	CustomAWSConfig *aws.Config

	// CustomHTTPClient overrides the HTTP client used for requests.
	CustomHTTPClient *http.Client

	// Filesystem is the filesystem abstraction used for reading archives
	// from disk. Defaults to the OS filesystem.
	Filesystem fs.Filesystem
}

// DeployConfig holds per-deploy settings assembled from DeployOption values.
type DeployConfig struct {
	// Prefix is prepended to every entry path to form the object key.
	Prefix string

	// Concurrency is the number of parallel uploads. Values below one
	// run uploads sequentially.
	Concurrency int

	// CacheControl is the Cache-Control header applied to every object.
	CacheControl string

	// DisableCompression uploads all entries verbatim, with no
	// Content-Encoding header.
	DisableCompression bool

	// ACL is the canned ACL applied to every object. Empty means the
	// bucket default.
	ACL ObjectACL

	// StorageClass is the storage class for every object. Empty means
	// STANDARD.
	StorageClass StorageClass

	// Metadata is user-defined metadata attached to every object.
	Metadata map[string]string

	// ProgressTracker receives per-object progress events.
	ProgressTracker ProgressTracker

	// DryRun classifies and counts entries without uploading anything.
	DryRun bool
}

// UploadConfig carries the headers and settings for a single object upload.
type UploadConfig struct {
	// ContentType is the MIME type of the object.
	ContentType string

	// ContentEncoding is the Content-Encoding header, e.g. "gzip".
	// Empty omits the header.
	ContentEncoding string

	// CacheControl is the Cache-Control header. Empty omits the header.
	CacheControl string

	// Metadata is user-defined object metadata.
	Metadata map[string]string

	// StorageClass is the S3 storage class. Empty means STANDARD.
	StorageClass StorageClass

	// ACL is the canned ACL for the object. Empty means the bucket default.
	ACL ObjectACL

	// PartSize is the multipart part size in bytes. Zero selects the default.
	PartSize int64
}

// UploadResult contains the outcome of a single object upload.
type UploadResult struct {
	// Key is the object key that was uploaded.
	Key string

	// Size is the number of bytes uploaded.
	Size int64

	// ETag is the entity tag returned by S3.
	ETag string

	// Duration is how long the upload took.
	Duration time.Duration
}

// UploadFailure records one archive entry that could not be uploaded.
type UploadFailure struct {
	// Path is the entry path inside the archive.
	Path string

	// Key is the destination object key, when one was computed.
	Key string

	// Message describes what went wrong.
	Message string
}

// DeployResult summarizes a completed deploy.
type DeployResult struct {
	// FilesUploaded is the number of objects stored successfully.
	FilesUploaded int

	// FilesSkipped is the number of non-regular archive entries
	// (directories, symlinks, devices) that were passed over.
	FilesSkipped int

	// FilesFailed is the number of entries that could not be uploaded.
	FilesFailed int

	// BytesUploaded is the total payload bytes stored, after compression.
	BytesUploaded int64

	// Failures lists every entry that failed, in the order the failures
	// were observed.
	Failures []UploadFailure

	// Duration is the total deploy time.
	Duration time.Duration
}

// ProgressTracker receives progress events during a deploy. Implementations
// must be safe for concurrent use; uploads from the worker pool report
// from multiple goroutines.
type ProgressTracker interface {
	// ObjectUploaded is called after an object is stored successfully.
	ObjectUploaded(key string, size int64)

	// ObjectFailed is called when an object upload fails.
	ObjectFailed(key string, err error)

	// Complete is called once, after every entry has been resolved.
	Complete()
}

// Option and DeployOption types for functional options pattern.
type (
	// Option configures the S3 client.
	Option func(*ClientConfig)

	// DeployOption configures a single deploy operation.
	DeployOption func(*DeployConfig)
)
