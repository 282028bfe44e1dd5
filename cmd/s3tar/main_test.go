package main

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	s3tar "github.com/input-output-hk/catalyst-forge-libs/aws/s3tar"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3tar/s3tartypes"
)

// TestDeployOptions_InstallFlags tests that every flag parses into the
// options struct.
func TestDeployOptions_InstallFlags(t *testing.T) {
	var opts deployOptions
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.installFlags(flags)

	err := flags.Parse([]string{
		"--bucket", "releases",
		"--prefix", "site/v2",
		"--region", "eu-west-1",
		"--endpoint", "http://localhost:4566",
		"--cache-control", "no-store",
		"--acl", "public-read",
		"--storage-class", "STANDARD_IA",
		"--concurrency", "8",
		"--no-compress",
		"--path-style",
		"--dry-run",
		"--debug",
	})
	require.NoError(t, err)

	assert.Equal(t, "releases", opts.bucket)
	assert.Equal(t, "site/v2", opts.prefix)
	assert.Equal(t, "eu-west-1", opts.region)
	assert.Equal(t, "http://localhost:4566", opts.endpoint)
	assert.Equal(t, "no-store", opts.cacheControl)
	assert.Equal(t, "public-read", opts.acl)
	assert.Equal(t, "STANDARD_IA", opts.storageClass)
	assert.Equal(t, 8, opts.concurrency)
	assert.True(t, opts.noCompress)
	assert.True(t, opts.pathStyle)
	assert.True(t, opts.dryRun)
	assert.True(t, opts.debug)
}

// TestDeployOptions_Defaults tests the flag defaults with nothing passed.
func TestDeployOptions_Defaults(t *testing.T) {
	var opts deployOptions
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.installFlags(flags)

	require.NoError(t, flags.Parse(nil))

	assert.Empty(t, opts.bucket)
	assert.Empty(t, opts.prefix)
	assert.Equal(t, s3tar.DefaultCacheControl, opts.cacheControl)
	assert.Equal(t, 1, opts.concurrency)
	assert.False(t, opts.noCompress)
	assert.False(t, opts.dryRun)
}

// TestDeployOptions_ClientOptions tests the translation from flags to
// client configuration.
func TestDeployOptions_ClientOptions(t *testing.T) {
	opts := deployOptions{
		region:    "eu-west-1",
		endpoint:  "http://localhost:4566",
		pathStyle: true,
	}

	cfg := &s3tartypes.ClientConfig{}
	for _, opt := range opts.clientOptions() {
		opt(cfg)
	}

	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, "http://localhost:4566", cfg.Endpoint)
	assert.True(t, cfg.ForcePathStyle)

	// Unset flags contribute no options at all.
	assert.Empty(t, (&deployOptions{}).clientOptions())
}

// TestDeployOptions_DeployOpts tests the translation from flags to deploy
// configuration.
func TestDeployOptions_DeployOpts(t *testing.T) {
	opts := deployOptions{
		prefix:       "site/v2",
		concurrency:  8,
		cacheControl: "no-store",
		acl:          "public-read",
		storageClass: "STANDARD_IA",
		noCompress:   true,
		dryRun:       true,
	}

	cfg := &s3tartypes.DeployConfig{}
	for _, opt := range opts.deployOpts() {
		opt(cfg)
	}

	assert.Equal(t, "site/v2", cfg.Prefix)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, "no-store", cfg.CacheControl)
	assert.Equal(t, s3tartypes.ACLPublicRead, cfg.ACL)
	assert.Equal(t, s3tartypes.StorageClassStandardIA, cfg.StorageClass)
	assert.True(t, cfg.DisableCompression)
	assert.True(t, cfg.DryRun)
	assert.NotNil(t, cfg.ProgressTracker)
}

// TestNewDeployCommand_RequiresBucket tests that the command refuses to
// run without --bucket.
func TestNewDeployCommand_RequiresBucket(t *testing.T) {
	cmd := newDeployCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"site.tar"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket")
}

// TestNewDeployCommand_RequiresArchiveArgument tests that exactly one
// positional argument is demanded.
func TestNewDeployCommand_RequiresArchiveArgument(t *testing.T) {
	cmd := newDeployCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--bucket", "releases"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

// TestWriteSummary tests the summary line for normal and dry runs.
func TestWriteSummary(t *testing.T) {
	result := &s3tartypes.DeployResult{
		FilesUploaded: 2,
		FilesSkipped:  1,
		FilesFailed:   0,
		BytesUploaded: 512,
		Duration:      120 * time.Millisecond,
	}

	var buf bytes.Buffer
	writeSummary(&buf, result, false)
	assert.Equal(t, "uploaded 2 files (512B), 1 skipped, 0 failed in 120ms\n", buf.String())

	buf.Reset()
	writeSummary(&buf, result, true)
	assert.Equal(t, "would upload 2 files (512B), 1 skipped, 0 failed in 120ms\n", buf.String())
}

// TestLogTracker tests that progress events reach the logger.
func TestLogTracker(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	logrus.SetLevel(logrus.DebugLevel)
	defer logrus.SetLevel(logrus.InfoLevel)

	tracker := logTracker{}
	tracker.ObjectUploaded("site/index.html", 1024)
	tracker.ObjectFailed("site/app.js", errors.New("connection reset"))
	tracker.Complete()

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Contains(t, entries[0].Message, "site/index.html")
	assert.Equal(t, logrus.DebugLevel, entries[0].Level)
	assert.Contains(t, entries[1].Message, "site/app.js")
	assert.Equal(t, logrus.WarnLevel, entries[1].Level)
}
