package ports

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// FileStorage keeps the raw bytes of uploaded datasets
type FileStorage interface {
	// Store saves content and returns the path it was written to
	Store(ctx context.Context, datasetID uuid.UUID, filename string, content []byte) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete removes the file; a missing file is not an error
	Delete(ctx context.Context, path string) error
}
