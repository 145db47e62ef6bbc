package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"datahealth/internal/errors"
	"datahealth/models"
	"datahealth/ports"
)

// DefaultListLimit caps ListByUser when no positive limit is given
const DefaultListLimit = 100

const datasetColumns = `id, user_id, filename, upload_date, row_count, column_count, file_size, health_score, file_path`

// datasetRepository implements the DatasetRepository interface
type datasetRepository struct {
	db *sqlx.DB
}

// NewDatasetRepository creates a new dataset repository
func NewDatasetRepository(db *sqlx.DB) ports.DatasetRepository {
	return &datasetRepository{db: db}
}

// Create inserts a new dataset into the database
func (r *datasetRepository) Create(ctx context.Context, ds *models.Dataset) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO datasets (`+datasetColumns+`)
		VALUES (:id, :user_id, :filename, :upload_date, :row_count, :column_count, :file_size, :health_score, :file_path)
	`, ds)
	return translate(err, "dataset", "create")
}

// GetByID retrieves a dataset owned by userID
func (r *datasetRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Dataset, error) {
	var ds models.Dataset
	err := r.db.GetContext(ctx, &ds, `
		SELECT `+datasetColumns+`
		FROM datasets
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return nil, translate(err, "Dataset", "get")
	}
	return &ds, nil
}

// ListByUser returns the newest datasets of userID first
func (r *datasetRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Dataset, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	datasets := make([]*models.Dataset, 0)
	err := r.db.SelectContext(ctx, &datasets, `
		SELECT `+datasetColumns+`
		FROM datasets
		WHERE user_id = $1
		ORDER BY upload_date DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, translate(err, "datasets", "list")
	}
	return datasets, nil
}

// Delete removes a dataset owned by userID
func (r *datasetRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return translate(err, "Dataset", "delete")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NotFound("Dataset")
	}
	return nil
}
