package schema

import "time"

// HistoryStatus represents the status of the run history store.
type HistoryStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalFiles    int              `json:"total_files"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// RunRecord represents a row from the estimation_runs table.
type RunRecord struct {
	RunID       int64
	ProjectName string
	Repository  string
	CommitRef   string
	StartTime   time.Time
	EndTime     *time.Time
	TotalFiles  int32
	TotalLOC    int32
}

// FileHistoryRecord represents a row from the estimation_files table.
type FileHistoryRecord struct {
	RunID       int64
	FilePath    string
	SHA3        string
	LinesOfCode int32
	Bucket      string
	Language    string
}
