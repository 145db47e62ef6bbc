package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"datahealth/models"
)

// Mock implementations for testing
type MockDatasetRepository struct {
	mock.Mock
}

func (m *MockDatasetRepository) Create(ctx context.Context, ds *models.Dataset) error {
	args := m.Called(ctx, ds)
	return args.Error(0)
}

func (m *MockDatasetRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Dataset, error) {
	args := m.Called(ctx, id, userID)
	ds, _ := args.Get(0).(*models.Dataset)
	return ds, args.Error(1)
}

func (m *MockDatasetRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Dataset, error) {
	args := m.Called(ctx, userID, limit)
	list, _ := args.Get(0).([]*models.Dataset)
	return list, args.Error(1)
}

func (m *MockDatasetRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, report *models.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Report, error) {
	args := m.Called(ctx, id, userID)
	rec, _ := args.Get(0).(*models.Report)
	return rec, args.Error(1)
}

func (m *MockReportRepository) DeleteByDataset(ctx context.Context, datasetID uuid.UUID) error {
	args := m.Called(ctx, datasetID)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}
