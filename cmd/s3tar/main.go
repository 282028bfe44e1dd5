// Command s3tar deploys a tar archive to an S3 bucket, uploading each
// member as an individual object.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docker/go-units"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	s3tar "github.com/input-output-hk/catalyst-forge-libs/aws/s3tar"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3tar/s3tartypes"
)

// version is overridden at build time via -ldflags.
var version = "dev"

type deployOptions struct {
	bucket       string
	prefix       string
	region       string
	endpoint     string
	cacheControl string
	acl          string
	storageClass string
	concurrency  int
	noCompress   bool
	pathStyle    bool
	dryRun       bool
	debug        bool
}

func (o *deployOptions) installFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&o.bucket, "bucket", "b", "", "Destination S3 bucket (required)")
	flags.StringVarP(&o.prefix, "prefix", "p", "", "Key prefix prepended to every uploaded object")
	flags.StringVarP(&o.region, "region", "r", "", "AWS region (defaults to the ambient AWS configuration)")
	flags.StringVar(&o.endpoint, "endpoint", "", "Custom S3 endpoint URL")
	flags.StringVar(&o.cacheControl, "cache-control", s3tar.DefaultCacheControl, "Cache-Control header applied to uploaded objects")
	flags.StringVar(&o.acl, "acl", "", "Canned ACL applied to uploaded objects")
	flags.StringVar(&o.storageClass, "storage-class", "", "Storage class for uploaded objects")
	flags.IntVarP(&o.concurrency, "concurrency", "c", 1, "Parallel uploads; 1 deploys sequentially")
	flags.BoolVar(&o.noCompress, "no-compress", false, "Upload text entries verbatim instead of gzipping them")
	flags.BoolVar(&o.pathStyle, "path-style", false, "Use path-style S3 addressing")
	flags.BoolVar(&o.dryRun, "dry-run", false, "Classify and count entries without uploading anything")
	flags.BoolVarP(&o.debug, "debug", "D", false, "Enable debug logging")
}

// clientOptions translates the CLI flags that shape the S3 client.
func (o *deployOptions) clientOptions() []s3tartypes.Option {
	var opts []s3tartypes.Option
	if o.region != "" {
		opts = append(opts, s3tar.WithRegion(o.region))
	}
	if o.endpoint != "" {
		opts = append(opts, s3tar.WithEndpoint(o.endpoint))
	}
	if o.pathStyle {
		opts = append(opts, s3tar.WithForcePathStyle(true))
	}
	return opts
}

// deployOpts translates the CLI flags that shape a single deploy.
func (o *deployOptions) deployOpts() []s3tartypes.DeployOption {
	opts := []s3tartypes.DeployOption{
		s3tar.WithPrefix(o.prefix),
		s3tar.WithDeployConcurrency(o.concurrency),
		s3tar.WithCacheControl(o.cacheControl),
		s3tar.WithCompression(!o.noCompress),
		s3tar.WithDryRun(o.dryRun),
		s3tar.WithProgress(logTracker{}),
	}
	if o.acl != "" {
		opts = append(opts, s3tar.WithACL(s3tartypes.ObjectACL(o.acl)))
	}
	if o.storageClass != "" {
		opts = append(opts, s3tar.WithStorageClass(s3tartypes.StorageClass(o.storageClass)))
	}
	return opts
}

// logTracker reports per-object progress through logrus.
type logTracker struct{}

func (logTracker) ObjectUploaded(key string, size int64) {
	logrus.Debugf("uploaded %s (%s)", key, units.HumanSize(float64(size)))
}

func (logTracker) ObjectFailed(key string, err error) {
	logrus.Warnf("failed %s: %v", key, err)
}

func (logTracker) Complete() {}

func newDeployCommand() *cobra.Command {
	var opts deployOptions

	cmd := &cobra.Command{
		Use:   "s3tar [OPTIONS] ARCHIVE",
		Short: "Deploy a tar archive to an S3 bucket",
		Long: `Deploy reads a tar archive (raw, gzip, bzip2 or zstd compressed) and
uploads every regular file in it as an object in the destination bucket.
Text-like entries are gzipped and tagged with Content-Encoding: gzip so
browsers decompress them transparently.

Pass "-" as ARCHIVE to read the archive from standard input.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.debug {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return runDeploy(cmd.Context(), cmd.OutOrStdout(), opts, args[0])
		},
	}

	opts.installFlags(cmd.Flags())
	_ = cmd.MarkFlagRequired("bucket")

	return cmd
}

func runDeploy(ctx context.Context, out io.Writer, opts deployOptions, archivePath string) error {
	client, err := s3tar.New(opts.clientOptions()...)
	if err != nil {
		return fmt.Errorf("initializing S3 client: %w", err)
	}
	defer client.Close()

	var result *s3tartypes.DeployResult
	if archivePath == "-" {
		result, err = client.Deploy(ctx, os.Stdin, opts.bucket, opts.deployOpts()...)
	} else {
		result, err = client.DeployFile(ctx, opts.bucket, archivePath, opts.deployOpts()...)
	}

	if result != nil {
		writeSummary(out, result, opts.dryRun)
	}
	return err
}

// writeSummary prints the deploy outcome on a single line.
func writeSummary(out io.Writer, result *s3tartypes.DeployResult, dryRun bool) {
	verb := "uploaded"
	if dryRun {
		verb = "would upload"
	}
	fmt.Fprintf(out, "%s %d files (%s), %d skipped, %d failed in %s\n",
		verb,
		result.FilesUploaded,
		units.HumanSize(float64(result.BytesUploaded)),
		result.FilesSkipped,
		result.FilesFailed,
		result.Duration.Round(time.Millisecond),
	)
}

func main() {
	logrus.SetOutput(os.Stderr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logrus.Warn("interrupted, waiting for in-flight uploads")
		cancel()
	}()

	cmd := newDeployCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
