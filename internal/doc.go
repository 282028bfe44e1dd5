// Package internal contains private implementation details for the s3tar module.
// These packages are not intended for external use and may change without notice.
//
// The internal packages are organized as follows:
//   - archive: Container detection and single-pass tar scanning
//   - classify: Extension-based content typing and gzip compression
//   - executor: Bounded worker pool for concurrent uploads
//   - upload: Simple and multipart S3 object uploads
//   - validation: Input validation logic
//   - pool: Reuse of per-entry compression state
//   - s3api: The S3 client surface the module depends on
package internal
