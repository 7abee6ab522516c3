// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/estimation-reporter/schema"
)

// HistoryStore defines the interface for tracking estimation runs.
// This allows the persistence layer to be mocked for testing.
type HistoryStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(project schema.Project, startTime time.Time) (int64, error)

	// RecordFile stores the measurement of a single file
	RecordFile(runID int64, record schema.FileRecord) error

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalFiles, totalLOC int) error

	// GetStatus returns status information about the store
	GetStatus() (schema.HistoryStatus, error)

	// GetRuns returns every stored run ordered by ID
	GetRuns() ([]schema.RunRecord, error)

	// GetFiles returns every stored file measurement ordered by run and path
	GetFiles() ([]schema.FileHistoryRecord, error)

	// Clear removes all stored runs and files
	Clear() error

	// Close closes the underlying connection
	Close() error
}

// ArtifactPublisher uploads generated report files to remote storage.
type ArtifactPublisher interface {
	// Publish uploads the file at localPath under key
	Publish(ctx context.Context, key string, localPath string) error
}
