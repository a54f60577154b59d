//go:build integration

package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/minio"
)

// TestServiceWithMinio round-trips an archive through a MinIO container.
func TestServiceWithMinio(t *testing.T) {
	ctx := context.Background()

	container, err := minio.Run(ctx, "minio/minio:RELEASE.2024-01-16T16-07-38Z",
		minio.WithUsername("pagespeed"),
		minio.WithPassword("pagespeed-secret"),
	)
	defer func() { _ = testcontainers.TerminateContainer(container) }()
	require.NoError(t, err)

	endpoint, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	svc, err := NewService(ctx, Options{
		ServiceURL: "http://" + endpoint,
		AccessKey:  container.Username,
		SecretKey:  container.Password,
		BucketName: "pagespeed-reports",
	})
	require.NoError(t, err)
	require.NoError(t, svc.EnsureBucket(ctx))
	require.NoError(t, svc.EnsureBucket(ctx))

	dir := t.TempDir()
	source := filepath.Join(dir, "report.zip")
	require.NoError(t, os.WriteFile(source, []byte("archive-bytes"), 0644))

	key := "reports/abc/report.zip"
	require.NoError(t, svc.UploadFile(ctx, key, source))

	obj, err := svc.GetFile(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(obj.Body)
	obj.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "archive-bytes", string(data))
	assert.NotNil(t, obj.ETag)
	assert.NotNil(t, obj.LastModified)

	target := filepath.Join(dir, "downloaded.zip")
	require.NoError(t, svc.DownloadFile(ctx, key, target))
	downloaded, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "archive-bytes", string(downloaded))

	require.NoError(t, svc.DeleteFile(ctx, key))
	_, err = svc.GetFile(ctx, key)
	assert.Error(t, err)
}
