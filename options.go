// Package s3tar provides functional options for configuring client and deploy behavior.
// These options follow the functional options pattern for clean, composable configuration.
package s3tar

import (
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3tar/s3tartypes"
)

// WithRegion sets the AWS region for S3 operations.
// If not specified, uses the region from the credential chain, then
// DefaultRegion.
func WithRegion(region string) s3tartypes.Option {
	return func(c *s3tartypes.ClientConfig) {
		c.Region = region
	}
}

// WithMaxRetries sets the maximum number of retry attempts for failed operations.
// Default is 3 retries. Set to 0 to disable retries.
func WithMaxRetries(maxRetries int) s3tartypes.Option {
	return func(c *s3tartypes.ClientConfig) {
		c.MaxRetries = maxRetries
	}
}

// WithTimeout sets the timeout for individual S3 requests.
// Default is no timeout (0). Values should be positive durations.
func WithTimeout(timeout time.Duration) s3tartypes.Option {
	return func(c *s3tartypes.ClientConfig) {
		c.Timeout = timeout
	}
}

// WithConcurrency sets the default number of parallel uploads for deploys.
// Default is 1, meaning entries upload sequentially in archive order.
func WithConcurrency(concurrency int) s3tartypes.Option {
	return func(c *s3tartypes.ClientConfig) {
		if concurrency > 0 {
			c.Concurrency = concurrency
		}
	}
}

// WithPartSize sets the part size for multipart uploads.
// Default is 5MB, which is also the S3 minimum.
func WithPartSize(partSize int64) s3tartypes.Option {
	return func(c *s3tartypes.ClientConfig) {
		if partSize > 0 {
			c.PartSize = partSize
		}
	}
}

// WithForcePathStyle forces the use of path-style URLs instead of virtual-hosted style.
// This is required for S3-compatible services that don't support virtual hosting.
// Default is false (uses virtual-hosted style).
func WithForcePathStyle(forcePathStyle bool) s3tartypes.Option {
	return func(c *s3tartypes.ClientConfig) {
		c.ForcePathStyle = forcePathStyle
	}
}

// WithAWSConfig allows providing a custom AWS configuration.
// This overrides the default configuration loading behavior.
// Use this when you need fine-grained control over AWS SDK configuration.
func WithAWSConfig(config *aws.Config) s3tartypes.Option {
	return func(c *s3tartypes.ClientConfig) {
		// Store the custom config for later use
		c.CustomAWSConfig = config
	}
}

// WithEndpoint sets a custom S3 endpoint URL.
// This is useful for S3-compatible services or local testing with LocalStack.
func WithEndpoint(endpoint string) s3tartypes.Option {
	return func(c *s3tartypes.ClientConfig) {
		c.Endpoint = endpoint
	}
}

// WithRetryMode sets the retry mode for AWS SDK operations.
// Options are "standard", "adaptive". Default is "standard".
func WithRetryMode(mode string) s3tartypes.Option {
	return func(c *s3tartypes.ClientConfig) {
		c.RetryMode = mode
	}
}

// WithCustomHTTPClient allows providing a custom HTTP client.
// This gives full control over HTTP behavior including timeouts, proxies, etc.
func WithCustomHTTPClient(client *http.Client) s3tartypes.Option {
	return func(c *s3tartypes.ClientConfig) {
		c.CustomHTTPClient = client
	}
}

// WithFilesystem sets a custom filesystem implementation for reading archives.
// This allows using in-memory filesystems for testing or virtual filesystems.
// If not specified, defaults to the OS filesystem.
func WithFilesystem(filesystem fs.Filesystem) s3tartypes.Option {
	return func(c *s3tartypes.ClientConfig) {
		c.Filesystem = filesystem
	}
}

// WithPrefix sets the key prefix prepended to every entry path.
// A trailing slash is added when missing, so "v2" and "v2/" are equivalent.
func WithPrefix(prefix string) s3tartypes.DeployOption {
	return func(c *s3tartypes.DeployConfig) {
		c.Prefix = prefix
	}
}

// WithDeployConcurrency sets the number of parallel uploads for this deploy.
// This overrides the client-level default.
func WithDeployConcurrency(concurrency int) s3tartypes.DeployOption {
	return func(c *s3tartypes.DeployConfig) {
		if concurrency > 0 {
			c.Concurrency = concurrency
		}
	}
}

// WithCacheControl sets the Cache-Control header applied to every object.
// Default is one year of public caching.
func WithCacheControl(cacheControl string) s3tartypes.DeployOption {
	return func(c *s3tartypes.DeployConfig) {
		c.CacheControl = cacheControl
	}
}

// WithCompression toggles gzip compression of text-like entries.
// Default is true. When disabled, every entry uploads verbatim with no
// Content-Encoding header.
func WithCompression(enabled bool) s3tartypes.DeployOption {
	return func(c *s3tartypes.DeployConfig) {
		c.DisableCompression = !enabled
	}
}

// WithACL sets the canned ACL applied to every uploaded object.
func WithACL(acl s3tartypes.ObjectACL) s3tartypes.DeployOption {
	return func(c *s3tartypes.DeployConfig) {
		c.ACL = acl
	}
}

// WithStorageClass sets the storage class for every uploaded object.
func WithStorageClass(storageClass s3tartypes.StorageClass) s3tartypes.DeployOption {
	return func(c *s3tartypes.DeployConfig) {
		c.StorageClass = storageClass
	}
}

// WithMetadata sets user-defined metadata attached to every uploaded object.
func WithMetadata(metadata map[string]string) s3tartypes.DeployOption {
	return func(c *s3tartypes.DeployConfig) {
		if c.Metadata == nil {
			c.Metadata = make(map[string]string)
		}
		for k, v := range metadata {
			c.Metadata[k] = v
		}
	}
}

// WithProgress sets a progress tracker for the deploy.
func WithProgress(tracker s3tartypes.ProgressTracker) s3tartypes.DeployOption {
	return func(c *s3tartypes.DeployConfig) {
		c.ProgressTracker = tracker
	}
}

// WithDryRun classifies and counts entries without uploading anything.
// The destination bucket is not contacted.
func WithDryRun(dryRun bool) s3tartypes.DeployOption {
	return func(c *s3tartypes.DeployConfig) {
		c.DryRun = dryRun
	}
}
