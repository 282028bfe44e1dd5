// Package s3tar provides a high-level Go module for deploying the contents
// of tar archives to Amazon S3 and S3-compatible object stores.
//
// The module reads an archive in a single forward pass, classifies every
// regular file by its extension, optionally gzips text-like payloads, and
// stores each entry as an object under a configurable key prefix. It is
// built for shipping static asset bundles (sites, documentation, release
// artifacts) straight from CI output to a bucket.
//
// Key features:
//   - Content-based archive detection: uncompressed, gzip, bzip2, and zstd
//     containers are recognized from magic bytes, never from file names
//   - Extension-based content classification with a pinned MIME table
//   - Transparent gzip compression of text-like entries with a matching
//     Content-Encoding header
//   - Bounded upload concurrency with sequential default ordering
//   - Per-entry failure isolation: one bad upload never cancels the rest
//   - Multipart uploads for oversized entries
//   - Canned ACLs, storage classes, cache-control, and custom metadata
//   - Pluggable filesystem abstraction for testing
//
// Example usage:
//
//	client, err := s3tar.New(s3tar.WithRegion("us-west-2"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	result, err := client.DeployFile(ctx, "my-bucket", "site.tar.gz",
//	    s3tar.WithPrefix("v2"),
//	    s3tar.WithDeployConcurrency(8),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("uploaded %d files (%d bytes)\n", result.FilesUploaded, result.BytesUploaded)
package s3tar
