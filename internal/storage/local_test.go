package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datahealth/internal/errors"
)

func TestStoreOpenDelete(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "uploads")
	s := NewLocalFileStorage(dir)
	id := uuid.New()

	path, err := s.Store(ctx, id, "sales.csv", []byte("a,b\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, id.String()+"_sales.csv"), path)

	rc, err := s.Open(ctx, path)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "a,b\n1,2\n", string(data))

	require.NoError(t, s.Delete(ctx, path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	require.NoError(t, s.Delete(ctx, path))

	_, err = s.Open(ctx, path)
	assert.True(t, errors.HasCode(err, errors.CodeNotFound))
}

func TestFileNameStripsDirectories(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, id.String()+"_data.csv", FileName(id, "../../etc/data.csv"))
	assert.Equal(t, id.String()+"_data.csv", FileName(id, `C:\Users\ann\data.csv`))
	assert.Equal(t, id.String()+"_upload", FileName(id, ".."))
}

func TestOpenRejectsOutsidePaths(t *testing.T) {
	s := NewLocalFileStorage(t.TempDir())
	_, err := s.Open(context.Background(), "/etc/passwd")
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
}
