package utils

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndOpenArchive(t *testing.T) {
	target := filepath.Join(t.TempDir(), "report.zip")
	modified := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	err := CreateArchive(target, []ArchiveFile{
		{Name: "lighthouse.json", Data: []byte(`{"lighthouseResult":{}}`), Modified: modified},
		{Name: "result.json", Data: []byte(`{"performance_score":42}`), Modified: modified},
	})
	require.NoError(t, err)

	rc, header, err := OpenArchiveFile(target, "result.json")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, `{"performance_score":42}`, string(data))
	assert.Equal(t, "result.json", header.Name)
	assert.True(t, header.Modified.Equal(modified))
}

func TestOpenArchiveFileMissingEntry(t *testing.T) {
	target := filepath.Join(t.TempDir(), "report.zip")
	require.NoError(t, CreateArchive(target, []ArchiveFile{{Name: "result.json", Data: []byte("{}")}}))

	_, _, err := OpenArchiveFile(target, "screenshot.png")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenArchiveFileMissingArchive(t *testing.T) {
	_, _, err := OpenArchiveFile(filepath.Join(t.TempDir(), "missing.zip"), "result.json")
	assert.Error(t, err)
}
