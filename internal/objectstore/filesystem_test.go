package objectstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applyform/internal/platform/logger"
)

func TestFilesystemStoreUpload(t *testing.T) {
	store := NewFilesystemStore(t.TempDir(), logger.Discard())

	url, err := store.Upload(context.Background(), []byte("%PDF-1.7"), "Jane_Doe_Application_Form_100320260930.pdf", "sub-1")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "file://"), url)

	path := strings.TrimPrefix(url, "file://")
	assert.Equal(t, "sub-1", filepath.Base(filepath.Dir(path)))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7"), content)
}

func TestFilesystemStoreDelete(t *testing.T) {
	store := NewFilesystemStore(t.TempDir(), logger.Discard())

	url, err := store.Upload(context.Background(), []byte("doc"), "a.pdf", "sub-1")
	require.NoError(t, err)

	assert.True(t, store.Delete(context.Background(), url))
	_, statErr := os.Stat(strings.TrimPrefix(url, "file://"))
	assert.True(t, os.IsNotExist(statErr))

	// Second delete is a miss, reported but not fatal.
	assert.False(t, store.Delete(context.Background(), url))
	assert.False(t, store.Delete(context.Background(), "s3://bucket/key"))
}
