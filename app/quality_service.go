package app

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"datahealth/adapters/loader"
	"datahealth/domain/core"
	"datahealth/domain/table"
	"datahealth/internal/analyzer"
	"datahealth/internal/errors"
	"datahealth/internal/logger"
	"datahealth/internal/render"
	"datahealth/models"
	"datahealth/ports"
)

const datasetListLimit = 100

// QualityService runs uploads and analyses for one user at a time
type QualityService struct {
	datasets        ports.DatasetRepository
	reports         ports.ReportRepository
	files           ports.FileStorage
	analysisTimeout time.Duration
	now             func() time.Time
}

// NewQualityService wires the service. A zero timeout leaves analyses bounded
// only by the caller's context.
func NewQualityService(datasets ports.DatasetRepository, reports ports.ReportRepository, files ports.FileStorage, analysisTimeout time.Duration) *QualityService {
	return &QualityService{
		datasets:        datasets,
		reports:         reports,
		files:           files,
		analysisTimeout: analysisTimeout,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// Upload parses the file, stores it and records the dataset with its health score
func (s *QualityService) Upload(ctx context.Context, userID uuid.UUID, filename string, content []byte) (*models.Dataset, error) {
	if !loader.Supported(filename) {
		return nil, errors.UnsupportedFormat(filename)
	}

	t, err := loader.Load(filename, bytes.NewReader(content))
	if err != nil {
		return nil, errors.Wrap(err, "Error processing file")
	}

	id := core.NewID()
	path, err := s.files.Store(ctx, id, filename, content)
	if err != nil {
		return nil, errors.Wrap(err, "failed to store upload")
	}

	ds := &models.Dataset{
		ID:          id,
		UserID:      userID,
		Filename:    filename,
		UploadDate:  s.now(),
		Rows:        t.NumRows(),
		Columns:     t.NumCols(),
		FileSize:    int64(len(content)),
		HealthScore: analyzer.New(t).HealthScore(),
		FilePath:    path,
	}

	if err := s.datasets.Create(ctx, ds); err != nil {
		if delErr := s.files.Delete(ctx, path); delErr != nil {
			logger.Component("QualityService").WithError(delErr).Warn("failed to remove orphaned upload")
		}
		return nil, errors.Wrap(err, "failed to save dataset")
	}

	logger.Component("QualityService").
		WithField("dataset", ds.ID).
		WithField("rows", ds.Rows).
		WithField("score", ds.HealthScore).
		Info("dataset uploaded")
	return ds, nil
}

// ListDatasets returns the user's datasets, newest first
func (s *QualityService) ListDatasets(ctx context.Context, userID uuid.UUID) ([]*models.Dataset, error) {
	return s.datasets.ListByUser(ctx, userID, datasetListLimit)
}

// Analyze builds and stores the full report of a dataset
func (s *QualityService) Analyze(ctx context.Context, userID, datasetID uuid.UUID) (*models.AnalysisResult, error) {
	ds, err := s.datasets.GetByID(ctx, datasetID, userID)
	if err != nil {
		return nil, err
	}

	t, err := s.reload(ctx, ds)
	if err != nil {
		return nil, err
	}

	if s.analysisTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.analysisTimeout)
		defer cancel()
	}

	start := time.Now()
	report, err := analyzer.New(t).FullReport(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "Error analyzing dataset")
	}

	rec, err := models.NewReport(core.NewID(), ds.ID, userID, report, s.now())
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode report")
	}
	if err := s.reports.Create(ctx, rec); err != nil {
		return nil, errors.Wrap(err, "failed to save report")
	}

	logger.Component("QualityService").
		WithField("dataset", ds.ID).
		WithField("report", rec.ID).
		Infof("analysis completed in %.2fms", float64(time.Since(start).Nanoseconds())/1e6)

	return &models.AnalysisResult{
		ReportID:    rec.ID,
		DatasetName: ds.Filename,
		ReportData:  report,
		DownloadURL: DownloadURL(rec.ID),
		Message:     "Analysis completed successfully",
	}, nil
}

// DownloadURL is the API path of a rendered report
func DownloadURL(reportID uuid.UUID) string {
	return fmt.Sprintf("/api/reports/%s/download", reportID)
}

func (s *QualityService) reload(ctx context.Context, ds *models.Dataset) (*table.Table, error) {
	rc, err := s.files.Open(ctx, ds.FilePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open dataset file")
	}
	defer rc.Close()

	t, err := loader.Load(ds.Filename, rc)
	if err != nil {
		return nil, errors.Wrap(err, "failed to reload dataset")
	}
	return t, nil
}

// RenderedReport is a downloadable report document
type RenderedReport struct {
	Filename    string
	ContentType string
	Body        []byte
}

// RenderReport renders a stored report as an HTML document
func (s *QualityService) RenderReport(ctx context.Context, userID, reportID uuid.UUID) (*RenderedReport, error) {
	rec, err := s.reports.GetByID(ctx, reportID, userID)
	if err != nil {
		return nil, err
	}

	ds, err := s.datasets.GetByID(ctx, rec.DatasetID, userID)
	if err != nil {
		if errors.HasCode(err, errors.CodeNotFound) {
			return nil, errors.NotFound("Related dataset")
		}
		return nil, err
	}

	doc, err := rec.Document()
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode stored report")
	}

	return &RenderedReport{
		Filename:    render.DownloadFilename(ds.Filename),
		ContentType: "text/html; charset=utf-8",
		Body:        render.HTML(doc, ds.Filename, s.now()),
	}, nil
}

// DeleteDataset removes the stored file, the dataset and all of its reports
func (s *QualityService) DeleteDataset(ctx context.Context, userID, datasetID uuid.UUID) error {
	ds, err := s.datasets.GetByID(ctx, datasetID, userID)
	if err != nil {
		return err
	}

	if err := s.files.Delete(ctx, ds.FilePath); err != nil {
		logger.Component("QualityService").WithError(err).WithField("dataset", ds.ID).Warn("failed to remove dataset file")
	}
	if err := s.reports.DeleteByDataset(ctx, ds.ID); err != nil {
		return errors.Wrap(err, "failed to delete reports")
	}
	if err := s.datasets.Delete(ctx, ds.ID, userID); err != nil {
		return errors.Wrap(err, "failed to delete dataset")
	}
	return nil
}
