package migration

import (
	"context"
	"database/sql"

	"datahealth/internal/errors"
	"datahealth/internal/logger"
)

// Execer is the part of *sqlx.DB the runner needs
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db Execer) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run creates every table and index. Each statement is idempotent, so Run
// is safe on every start.
func (r *MigrationRunner) Run(ctx context.Context, db Execer) error {
	if err := r.createUsersTable(ctx, db); err != nil {
		return errors.DatabaseError("failed to create users table", err)
	}

	if err := r.createDatasetsTable(ctx, db); err != nil {
		return errors.DatabaseError("failed to create datasets table", err)
	}

	if err := r.createReportsTable(ctx, db); err != nil {
		return errors.DatabaseError("failed to create reports table", err)
	}

	r.createIndexes(ctx, db)

	logger.Component("Migration").WithField("version", r.version).Info("schema up to date")
	return nil
}

func (r *MigrationRunner) createUsersTable(ctx context.Context, db Execer) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createDatasetsTable(ctx context.Context, db Execer) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS datasets (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			filename VARCHAR(512) NOT NULL,
			upload_date TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			row_count INTEGER NOT NULL DEFAULT 0,
			column_count INTEGER NOT NULL DEFAULT 0,
			file_size BIGINT NOT NULL DEFAULT 0,
			health_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			file_path TEXT NOT NULL
		)
	`)
	return err
}

func (r *MigrationRunner) createReportsTable(ctx context.Context, db Execer) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS reports (
			id UUID PRIMARY KEY,
			dataset_id UUID NOT NULL REFERENCES datasets(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			report_data JSONB NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db Execer) {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_datasets_user_uploaded ON datasets(user_id, upload_date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_reports_dataset_id ON reports(dataset_id)",
		"CREATE INDEX IF NOT EXISTS idx_reports_user_id ON reports(user_id)",
	}

	for _, idxSQL := range indexes {
		if _, err := db.ExecContext(ctx, idxSQL); err != nil {
			// Log but don't fail on index creation errors
			logger.Component("Migration").WithError(err).Warn("failed to create index")
		}
	}
}
