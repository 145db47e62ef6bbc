package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"

	"datahealth/domain/quality"
)

// Report is a stored full analysis of one dataset. The report document is
// kept verbatim as JSON.
type Report struct {
	ID         uuid.UUID      `json:"id" db:"id"`
	DatasetID  uuid.UUID      `json:"dataset_id" db:"dataset_id"`
	UserID     uuid.UUID      `json:"user_id" db:"user_id"`
	ReportData types.JSONText `json:"report_data" db:"report_data"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}

// NewReport serializes doc into a new report record
func NewReport(id, datasetID, userID uuid.UUID, doc *quality.Report, createdAt time.Time) (*Report, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return &Report{
		ID:         id,
		DatasetID:  datasetID,
		UserID:     userID,
		ReportData: types.JSONText(data),
		CreatedAt:  createdAt,
	}, nil
}

// Document decodes the stored report
func (r *Report) Document() (*quality.Report, error) {
	var doc quality.Report
	if err := r.ReportData.Unmarshal(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// AnalysisResult is the response of a completed analysis
type AnalysisResult struct {
	ReportID    uuid.UUID       `json:"report_id"`
	DatasetName string          `json:"dataset_name"`
	ReportData  *quality.Report `json:"report_data"`
	DownloadURL string          `json:"download_url"`
	Message     string          `json:"message"`
}
