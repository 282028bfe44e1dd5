// Package s3tar provides tests for filesystem integration.
package s3tar

import (
	"context"
	"testing"

	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3tar/internal/testutil"
)

// TestClient_DeployFile_WithMemoryFS tests DeployFile against an in-memory
// filesystem.
func TestClient_DeployFile_WithMemoryFS(t *testing.T) {
	archive := testutil.BuildTarGz(t,
		testutil.TextFile("index.html", "<html><body>from disk</body></html>"),
		testutil.File("logo.png", []byte{0x89, 0x50, 0x4e, 0x47}),
	)

	tests := []struct {
		name        string
		archivePath string
		setupFS     func(fs *billy.FS) error
		wantErr     bool
		errContains string
	}{
		{
			name:        "deploys archive from memory fs",
			archivePath: "/build/site.tar.gz",
			setupFS: func(fs *billy.FS) error {
				if err := fs.MkdirAll("/build", 0o755); err != nil {
					return err
				}
				return fs.WriteFile("/build/site.tar.gz", archive, 0o644)
			},
			wantErr: false,
		},
		{
			name:        "missing archive file",
			archivePath: "/build/missing.tar.gz",
			setupFS:     func(fs *billy.FS) error { return nil },
			wantErr:     true,
			errContains: "cannot stat archive",
		},
		{
			name:        "archive path is a directory",
			archivePath: "/build",
			setupFS: func(fs *billy.FS) error {
				return fs.MkdirAll("/build", 0o755)
			},
			wantErr:     true,
			errContains: "is a directory, not an archive",
		},
		{
			name:        "empty archive path",
			archivePath: "",
			setupFS:     func(fs *billy.FS) error { return nil },
			wantErr:     true,
			errContains: "archive path cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memFS := billy.NewInMemoryFS()
			require.NoError(t, tt.setupFS(memFS))

			store := testutil.NewObjectStore()
			mockClient := testutil.NewMockBuilder().WithObjectStore(store).Build()
			client := NewWithClient(mockClient)
			client.SetFilesystem(memFS)

			result, err := client.DeployFile(context.Background(), "test-bucket", tt.archivePath)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				assert.Nil(t, result)
				assert.Equal(t, 0, mockClient.PutObjectCalls())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, 2, result.FilesUploaded)
			assert.Equal(t, []string{"test-bucket/index.html", "test-bucket/logo.png"}, store.Keys())
		})
	}
}

// TestClient_DeployFile_PassesOptions tests that deploy options flow
// through DeployFile to the underlying deploy.
func TestClient_DeployFile_PassesOptions(t *testing.T) {
	archive := testutil.BuildTar(t, testutil.TextFile("index.html", "<html></html>"))

	memFS := billy.NewInMemoryFS()
	require.NoError(t, memFS.WriteFile("/site.tar", archive, 0o644))

	store := testutil.NewObjectStore()
	mockClient := testutil.NewMockBuilder().WithObjectStore(store).Build()
	client := NewWithClient(mockClient)
	client.SetFilesystem(memFS)

	result, err := client.DeployFile(
		context.Background(),
		"test-bucket",
		"/site.tar",
		WithPrefix("v3"),
		WithCacheControl("no-store"),
	)

	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesUploaded)

	obj, ok := store.Get("test-bucket", "v3/index.html")
	require.True(t, ok)
	assert.Equal(t, "no-store", obj.CacheControl)
}
