package ports

import (
	"context"

	"github.com/google/uuid"

	"datahealth/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create stores a new user; a taken email is a CONFLICT
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by their ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByEmail retrieves a user by their email address
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// DatasetRepository defines the interface for dataset storage operations.
// Every lookup is scoped to the owning user.
type DatasetRepository interface {
	Create(ctx context.Context, ds *models.Dataset) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Dataset, error)
	// ListByUser returns the newest datasets first
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Dataset, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// ReportRepository defines the interface for stored analysis reports
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Report, error)
	DeleteByDataset(ctx context.Context, datasetID uuid.UUID) error
}
