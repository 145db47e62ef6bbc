package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"datahealth/internal/errors"
)

// LocalFileStorage keeps uploads as plain files under one directory
type LocalFileStorage struct {
	basePath string
}

// NewLocalFileStorage creates a storage rooted at basePath
func NewLocalFileStorage(basePath string) *LocalFileStorage {
	return &LocalFileStorage{basePath: basePath}
}

// FileName returns the stored name of an upload: "<datasetID>_<base name>"
func FileName(datasetID uuid.UUID, filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == ".." {
		base = "upload"
	}
	return datasetID.String() + "_" + base
}

// Store writes content to a new file and returns its path
func (s *LocalFileStorage) Store(ctx context.Context, datasetID uuid.UUID, filename string, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.basePath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}

	filePath := filepath.Join(s.basePath, FileName(datasetID, filename))
	if err := os.WriteFile(filePath, content, 0o644); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return filePath, nil
}

// Open returns a reader for a stored file
func (s *LocalFileStorage) Open(ctx context.Context, filePath string) (io.ReadCloser, error) {
	if err := s.contains(filePath); err != nil {
		return nil, err
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("dataset file")
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Delete removes a stored file; a file that is already gone is fine
func (s *LocalFileStorage) Delete(ctx context.Context, filePath string) error {
	if err := s.contains(filePath); err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// contains rejects paths outside the storage directory
func (s *LocalFileStorage) contains(filePath string) error {
	base, err := filepath.Abs(s.basePath)
	if err != nil {
		return err
	}
	target, err := filepath.Abs(filePath)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(base, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return errors.InvalidInput("path is outside the upload directory")
	}
	return nil
}
