package models

import (
	"time"

	"github.com/google/uuid"
)

// Dataset is an uploaded file together with its fast-path health score
type Dataset struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Filename    string    `json:"filename" db:"filename"`
	UploadDate  time.Time `json:"upload_date" db:"upload_date"`
	Rows        int       `json:"rows" db:"row_count"`
	Columns     int       `json:"columns" db:"column_count"`
	FileSize    int64     `json:"file_size" db:"file_size"`
	HealthScore float64   `json:"health_score" db:"health_score"`
	FilePath    string    `json:"file_path" db:"file_path"`
}

// DatasetSummary is the upload response view of a dataset
type DatasetSummary struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	Rows        int       `json:"rows"`
	Columns     int       `json:"columns"`
	HealthScore float64   `json:"health_score"`
}

// Summary returns the short view of d
func (d *Dataset) Summary() DatasetSummary {
	return DatasetSummary{
		ID:          d.ID,
		Filename:    d.Filename,
		Rows:        d.Rows,
		Columns:     d.Columns,
		HealthScore: d.HealthScore,
	}
}
