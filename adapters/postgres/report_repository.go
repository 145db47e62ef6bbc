package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"datahealth/models"
	"datahealth/ports"
)

// reportRepository stores report documents as JSONB
type reportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *sqlx.DB) ports.ReportRepository {
	return &reportRepository{db: db}
}

// Create inserts a report. The document goes over the wire as text since
// lib/pq encodes []byte parameters as bytea.
func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reports (id, dataset_id, user_id, report_data, created_at)
		VALUES ($1, $2, $3, $4::jsonb, $5)
	`, report.ID, report.DatasetID, report.UserID, report.ReportData.String(), report.CreatedAt)
	return translate(err, "report", "create")
}

// GetByID retrieves a report owned by userID
func (r *reportRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Report, error) {
	var report models.Report
	err := r.db.GetContext(ctx, &report, `
		SELECT id, dataset_id, user_id, report_data, created_at
		FROM reports
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return nil, translate(err, "Report", "get")
	}
	return &report, nil
}

// DeleteByDataset removes every report of a dataset
func (r *reportRepository) DeleteByDataset(ctx context.Context, datasetID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE dataset_id = $1`, datasetID)
	return translate(err, "reports", "delete")
}
