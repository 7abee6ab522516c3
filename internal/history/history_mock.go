package history

import (
	"time"

	"github.com/huangsam/estimation-reporter/internal/contract"
	"github.com/huangsam/estimation-reporter/schema"
	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of HistoryStore for testing.
type MockStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockStore{} // Compile-time check

// BeginRun implements the HistoryStore interface.
func (m *MockStore) BeginRun(project schema.Project, startTime time.Time) (int64, error) {
	args := m.Called(project, startTime)
	return args.Get(0).(int64), args.Error(1)
}

// RecordFile implements the HistoryStore interface.
func (m *MockStore) RecordFile(runID int64, record schema.FileRecord) error {
	args := m.Called(runID, record)
	return args.Error(0)
}

// EndRun implements the HistoryStore interface.
func (m *MockStore) EndRun(runID int64, endTime time.Time, totalFiles, totalLOC int) error {
	args := m.Called(runID, endTime, totalFiles, totalLOC)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetRuns implements the HistoryStore interface.
func (m *MockStore) GetRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetFiles implements the HistoryStore interface.
func (m *MockStore) GetFiles() ([]schema.FileHistoryRecord, error) {
	args := m.Called()
	files, _ := args.Get(0).([]schema.FileHistoryRecord)
	return files, args.Error(1)
}

// Clear implements the HistoryStore interface.
func (m *MockStore) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// Close implements the HistoryStore interface.
func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
