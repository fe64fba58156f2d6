package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadStoreSaveAndCleanup(t *testing.T) {
	store, err := NewUploadStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("20260829-120000/teachers.xlsx", []byte("old"))
	require.NoError(t, err)
	_, err = store.Save("20260829-130000/teachers.xlsx", []byte("fresh"))
	require.NoError(t, err)

	stale := filepath.Join(store.baseDir, "20260829-120000", "teachers.xlsx")
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(stale, past, past))

	deleted, err := store.CleanupOlderThan(24 * time.Hour)
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, filepath.Join("20260829-120000", "teachers.xlsx"), deleted[0])

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(store.baseDir, "20260829-130000", "teachers.xlsx"))
	assert.NoError(t, err)
}
