package processing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ohmlab/ohmlab/pkg/models"
)

// MockSweepRepository implements repository.SweepRepository for testing
type MockSweepRepository struct {
	mock.Mock
}

func (m *MockSweepRepository) Create(ctx context.Context, sweep *models.Sweep) error {
	args := m.Called(ctx, sweep)
	return args.Error(0)
}

func (m *MockSweepRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Sweep, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Sweep), args.Error(1)
}

func (m *MockSweepRepository) GetBySessionID(ctx context.Context, sessionID string) ([]*models.Sweep, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]*models.Sweep), args.Error(1)
}

func (m *MockSweepRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	args := m.Called(ctx, id, status, progress)
	return args.Error(0)
}

func (m *MockSweepRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	args := m.Called(ctx, id, errorMsg)
	return args.Error(0)
}

func (m *MockSweepRepository) StoreResults(ctx context.Context, results *models.SweepResults) error {
	args := m.Called(ctx, results)
	return args.Error(0)
}

func (m *MockSweepRepository) GetResults(ctx context.Context, sweepID uuid.UUID) (*models.SweepResults, error) {
	args := m.Called(ctx, sweepID)
	return args.Get(0).(*models.SweepResults), args.Error(1)
}

// MockS3Service implements storage.S3Service for testing
type MockS3Service struct {
	mock.Mock
}

func (m *MockS3Service) GenerateUploadURL(ctx context.Context, key string, contentType string) (string, error) {
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockS3Service) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockS3Service) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockS3Service) DeleteFile(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func pendingSweep(id uuid.UUID, key string) *models.Sweep {
	return &models.Sweep{
		ID:        id.String(),
		SessionID: "test-session-123",
		DeviceID:  "resistor_47ohm",
		Status:    "pending",
		DataS3Key: &key,
	}
}

func TestProcessSweep_CSVPipeline(t *testing.T) {
	sweepID := uuid.New()
	key := "sweeps/" + sweepID.String() + ".csv"
	csvData := []byte("voltage,current\n" +
		"0.0,0\n0.5,9.33\n1.0,23.0\n1.5,24.66\n2.0,47.66\n" +
		"2.5,60.66\n3.0,71.66\n3.5,85.0\n4.0,95.66\n")

	mockRepo := &MockSweepRepository{}
	mockS3 := &MockS3Service{}

	mockRepo.On("UpdateStatus", mock.Anything, sweepID, "processing", mock.AnythingOfType("int")).Return(nil)
	mockRepo.On("GetByID", mock.Anything, sweepID).Return(pendingSweep(sweepID, key), nil)
	mockS3.On("DownloadFile", mock.Anything, key).Return(csvData, nil)

	var stored *models.SweepResults
	mockRepo.On("StoreResults", mock.Anything, mock.AnythingOfType("*models.SweepResults")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*models.SweepResults)
		}).Return(nil)
	mockRepo.On("UpdateStatus", mock.Anything, sweepID, "completed", 100).Return(nil)

	svc := NewProcessingService(mockS3, mockRepo)
	err := svc.ProcessSweep(context.Background(), sweepID)

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Len(t, stored.Points, 9)
	require.NotNil(t, stored.Slope)
	assert.InDelta(t, 24.76567, *stored.Slope, 1e-5)
	require.NotNil(t, stored.Intercept)
	assert.InDelta(t, -3.128, *stored.Intercept, 1e-5)
	require.NotNil(t, stored.RSquared)
	assert.InDelta(t, 0.98853, *stored.RSquared, 1e-5)
	require.NotNil(t, stored.Resistance)
	assert.InDelta(t, 0.04038, *stored.Resistance, 1e-5)

	mockRepo.AssertExpectations(t)
	mockS3.AssertExpectations(t)
}

func TestProcessSweep_JSONPipeline(t *testing.T) {
	sweepID := uuid.New()
	key := "sweeps/" + sweepID.String() + ".json"
	jsonData := []byte(`{"points":[{"voltage":0,"current":1},{"voltage":1,"current":3},{"voltage":2,"current":5}]}`)

	mockRepo := &MockSweepRepository{}
	mockS3 := &MockS3Service{}

	mockRepo.On("UpdateStatus", mock.Anything, sweepID, "processing", mock.AnythingOfType("int")).Return(nil)
	mockRepo.On("GetByID", mock.Anything, sweepID).Return(pendingSweep(sweepID, key), nil)
	mockS3.On("DownloadFile", mock.Anything, key).Return(jsonData, nil)

	var stored *models.SweepResults
	mockRepo.On("StoreResults", mock.Anything, mock.AnythingOfType("*models.SweepResults")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*models.SweepResults)
		}).Return(nil)
	mockRepo.On("UpdateStatus", mock.Anything, sweepID, "completed", 100).Return(nil)

	svc := NewProcessingService(mockS3, mockRepo)
	err := svc.ProcessSweep(context.Background(), sweepID)

	require.NoError(t, err)
	require.NotNil(t, stored)
	// Exact line: slope 2, intercept 1, perfect fit.
	require.NotNil(t, stored.Slope)
	assert.InDelta(t, 2.0, *stored.Slope, 1e-12)
	assert.InDelta(t, 1.0, *stored.Intercept, 1e-12)
	assert.InDelta(t, 1.0, *stored.RSquared, 1e-12)
}

func TestProcessSweep_InvalidData(t *testing.T) {
	sweepID := uuid.New()
	key := "sweeps/" + sweepID.String() + ".csv"

	mockRepo := &MockSweepRepository{}
	mockS3 := &MockS3Service{}

	mockRepo.On("UpdateStatus", mock.Anything, sweepID, "processing", mock.AnythingOfType("int")).Return(nil)
	mockRepo.On("GetByID", mock.Anything, sweepID).Return(pendingSweep(sweepID, key), nil)
	mockS3.On("DownloadFile", mock.Anything, key).Return([]byte("voltage,current\nnot,numbers\n"), nil)
	mockRepo.On("UpdateError", mock.Anything, sweepID, mock.MatchedBy(func(msg string) bool {
		return len(msg) > 0
	})).Return(nil)

	svc := NewProcessingService(mockS3, mockRepo)
	err := svc.ProcessSweep(context.Background(), sweepID)

	// Bad uploads fail the sweep, they don't bubble up.
	require.NoError(t, err)
	mockRepo.AssertCalled(t, "UpdateError", mock.Anything, sweepID, mock.Anything)
	mockRepo.AssertNotCalled(t, "StoreResults", mock.Anything, mock.Anything)
}

func TestProcessSweep_DownloadFailure(t *testing.T) {
	sweepID := uuid.New()
	key := "sweeps/" + sweepID.String() + ".csv"

	mockRepo := &MockSweepRepository{}
	mockS3 := &MockS3Service{}

	mockRepo.On("UpdateStatus", mock.Anything, sweepID, "processing", mock.AnythingOfType("int")).Return(nil)
	mockRepo.On("GetByID", mock.Anything, sweepID).Return(pendingSweep(sweepID, key), nil)
	mockS3.On("DownloadFile", mock.Anything, key).Return([]byte(nil), assert.AnError)
	mockRepo.On("UpdateError", mock.Anything, sweepID, "Failed to download sweep data").Return(nil)

	svc := NewProcessingService(mockS3, mockRepo)
	err := svc.ProcessSweep(context.Background(), sweepID)

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestProcessSweep_DegenerateSweepStoredWithoutFit(t *testing.T) {
	sweepID := uuid.New()
	key := "sweeps/" + sweepID.String() + ".csv"
	// Two points at the same voltage: OLS denominator is zero.
	csvData := []byte("voltage,current\n1.0,2.0\n1.0,4.0\n")

	mockRepo := &MockSweepRepository{}
	mockS3 := &MockS3Service{}

	mockRepo.On("UpdateStatus", mock.Anything, sweepID, "processing", mock.AnythingOfType("int")).Return(nil)
	mockRepo.On("GetByID", mock.Anything, sweepID).Return(pendingSweep(sweepID, key), nil)
	mockS3.On("DownloadFile", mock.Anything, key).Return(csvData, nil)

	var stored *models.SweepResults
	mockRepo.On("StoreResults", mock.Anything, mock.AnythingOfType("*models.SweepResults")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*models.SweepResults)
		}).Return(nil)
	mockRepo.On("UpdateStatus", mock.Anything, sweepID, "completed", 100).Return(nil)

	svc := NewProcessingService(mockS3, mockRepo)
	err := svc.ProcessSweep(context.Background(), sweepID)

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Len(t, stored.Points, 2)
	assert.Nil(t, stored.Slope)
	assert.Nil(t, stored.RSquared)
	assert.Nil(t, stored.Resistance)
}
