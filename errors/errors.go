// Package errors provides error types and handling for tar-to-S3 deployments.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a deployment error with context about the operation that failed.
// It wraps the underlying AWS SDK or archive error with additional context for
// better debugging.
type Error struct {
	// Op is the operation that failed (e.g., "deploy", "put", "scan")
	Op string

	// Bucket is the S3 bucket name (if applicable)
	Bucket string

	// Key is the S3 object key (if applicable)
	Key string

	// Err is the underlying error from the AWS SDK or other source
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Bucket != "" && e.Key != "" {
		return fmt.Sprintf("s3tar.%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("s3tar.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	if e.Key != "" {
		return fmt.Sprintf("s3tar.%s object %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("s3tar.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithBucket adds bucket context to an existing error.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithKey adds object key context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewBucketError creates a new Error with bucket context.
func NewBucketError(op, bucket string, err error) *Error {
	return &Error{
		Op:     op,
		Bucket: bucket,
		Err:    err,
	}
}

// NewObjectError creates a new Error with bucket and key context.
func NewObjectError(op, bucket, key string, err error) *Error {
	return &Error{
		Op:     op,
		Bucket: bucket,
		Key:    key,
		Err:    err,
	}
}

// Sentinel errors for common deployment failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrBucketNotFound indicates that the destination bucket does not exist
	ErrBucketNotFound = errors.New("s3tar: bucket not found")

	// ErrAccessDenied indicates that access to the resource is denied
	ErrAccessDenied = errors.New("s3tar: access denied")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("s3tar: invalid input")

	// ErrInvalidBucketName indicates that the bucket name is invalid
	ErrInvalidBucketName = errors.New("s3tar: invalid bucket name")

	// ErrInvalidObjectKey indicates that the object key is invalid
	ErrInvalidObjectKey = errors.New("s3tar: invalid object key")

	// ErrUnrecognizedArchive indicates that the input stream could not be
	// identified as a tar archive in any supported container format
	ErrUnrecognizedArchive = errors.New("s3tar: unrecognized archive format")

	// ErrUnsupportedCompression indicates that the archive uses a
	// compression format this module cannot decode
	ErrUnsupportedCompression = errors.New("s3tar: unsupported compression format")

	// ErrEntryRead indicates that the archive stream failed mid-read,
	// after one or more entries had already been consumed
	ErrEntryRead = errors.New("s3tar: archive entry read failed")

	// ErrDeployIncomplete indicates that one or more entries could not be
	// uploaded; successful uploads from the same run remain in place
	ErrDeployIncomplete = errors.New("s3tar: deploy incomplete")

	// ErrTimeout indicates that the operation timed out
	ErrTimeout = errors.New("s3tar: operation timeout")

	// ErrConnection indicates a connection error
	ErrConnection = errors.New("s3tar: connection error")
)

// IsBucketNotFound checks if an error indicates that a bucket was not found.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsBucketNotFound(err error) bool {
	return errors.Is(err, ErrBucketNotFound)
}

// IsAccessDenied checks if an error indicates access was denied.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// IsInvalidInput checks if an error indicates invalid input.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUnrecognizedArchive checks if an error indicates the input was not a
// recognizable tar archive.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsUnrecognizedArchive(err error) bool {
	return errors.Is(err, ErrUnrecognizedArchive)
}

// IsEntryRead checks if an error indicates a mid-archive read failure.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsEntryRead(err error) bool {
	return errors.Is(err, ErrEntryRead)
}

// IsDeployIncomplete checks if an error indicates a deploy that finished
// with recorded per-entry failures.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsDeployIncomplete(err error) bool {
	return errors.Is(err, ErrDeployIncomplete)
}
