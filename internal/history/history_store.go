package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/huangsam/estimation-reporter/internal/contract"
	"github.com/huangsam/estimation-reporter/schema"
)

// StoreImpl implements the HistoryStore interface.
type StoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &StoreImpl{} // Compile-time check

// disabled reports whether the store is the no-op none backend.
func (s *StoreImpl) disabled() bool {
	return s.backend == schema.NoneBackend || s.db == nil
}

// BeginRun creates a new run and returns its unique ID.
func (s *StoreImpl) BeginRun(project schema.Project, startTime time.Time) (int64, error) {
	if s.disabled() {
		return 0, nil
	}

	quotedTableName := quoteTableName(runsTable, s.backend)
	args := []any{project.Name, project.Repository, project.Commit, formatTime(startTime, s.backend)}

	var runID int64
	switch s.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (project_name, repository, commit_ref, start_time) VALUES ($1, $2, $3, $4) RETURNING run_id`, quotedTableName)
		if err := s.db.QueryRow(query, args...).Scan(&runID); err != nil {
			return 0, fmt.Errorf("failed to insert run: %w", err)
		}
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (project_name, repository, commit_ref, start_time) VALUES (?, ?, ?, ?)`, quotedTableName)
		result, err := s.db.Exec(query, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert run: %w", err)
		}
		if runID, err = result.LastInsertId(); err != nil {
			return 0, fmt.Errorf("failed to read run id: %w", err)
		}
	}
	return runID, nil
}

// RecordFile stores the measurement of a single file.
func (s *StoreImpl) RecordFile(runID int64, record schema.FileRecord) error {
	if s.disabled() {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (run_id, file_path, sha3, loc, bucket, language) VALUES (%s, %s, %s, %s, %s, %s)`,
		quoteTableName(filesTable, s.backend),
		placeholder(1, s.backend), placeholder(2, s.backend), placeholder(3, s.backend),
		placeholder(4, s.backend), placeholder(5, s.backend), placeholder(6, s.backend))

	_, err := s.db.Exec(query, runID, record.Path, record.SHA3, record.LinesOfCode, string(record.Bucket), string(record.Language))
	if err != nil {
		return fmt.Errorf("failed to insert file %s: %w", record.Path, err)
	}
	return nil
}

// EndRun updates the run with completion data.
func (s *StoreImpl) EndRun(runID int64, endTime time.Time, totalFiles, totalLOC int) error {
	if s.disabled() {
		return nil
	}

	query := fmt.Sprintf(`UPDATE %s SET end_time = %s, total_files = %s, total_loc = %s WHERE run_id = %s`,
		quoteTableName(runsTable, s.backend),
		placeholder(1, s.backend), placeholder(2, s.backend), placeholder(3, s.backend), placeholder(4, s.backend))

	result, err := s.db.Exec(query, formatTime(endTime, s.backend), totalFiles, totalLOC, runID)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %d not found", runID)
	}
	return nil
}

// Close closes the underlying connection.
func (s *StoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Clear removes all stored runs and files. The schema is kept.
func (s *StoreImpl) Clear() error {
	if s.disabled() {
		return nil
	}
	for _, table := range []string{filesTable, runsTable} {
		if _, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s", quoteTableName(table, s.backend))); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
}

// GetStatus returns status information about the history store.
func (s *StoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(s.backend),
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64),
	}
	if s.disabled() {
		return status, nil
	}

	quotedRuns := quoteTableName(runsTable, s.backend)
	if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var err error
		row := s.db.QueryRow(fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns))
		if status.LastRunTime, err = s.scanIDAndTime(row, &status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}

		var oldestID int64
		row = s.db.QueryRow(fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns))
		if status.OldestRunTime, err = s.scanIDAndTime(row, &oldestID); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}

		row = s.db.QueryRow(fmt.Sprintf("SELECT COALESCE(SUM(total_files), 0) FROM %s", quotedRuns))
		if err := row.Scan(&status.TotalFiles); err != nil {
			return status, fmt.Errorf("failed to get total files: %w", err)
		}
	}

	for _, table := range []string{runsTable, filesTable} {
		var count int64
		row := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, s.backend)))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}

// scanIDAndTime scans a (run_id, start_time) row for any backend.
func (s *StoreImpl) scanIDAndTime(row *sql.Row, id *int64) (time.Time, error) {
	if s.backend == schema.SQLiteBackend {
		var ts string
		if err := row.Scan(id, &ts); err != nil {
			return time.Time{}, err
		}
		return parseStoredTime(ts)
	}
	var ts time.Time
	if err := row.Scan(id, &ts); err != nil {
		return time.Time{}, err
	}
	return ts, nil
}

// GetRuns returns every stored run ordered by ID.
func (s *StoreImpl) GetRuns() ([]schema.RunRecord, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT run_id, project_name, repository, commit_ref, start_time, end_time, total_files, total_loc FROM %s ORDER BY run_id",
		quoteTableName(runsTable, s.backend))
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		switch s.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &record.ProjectName, &record.Repository, &record.CommitRef,
				&startTimeStr, &endTimeStr, &record.TotalFiles, &record.TotalLOC); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			if record.StartTime, err = parseStoredTime(startTimeStr); err != nil {
				return nil, err
			}
			if endTimeStr != nil {
				endTime, err := parseStoredTime(*endTimeStr)
				if err != nil {
					return nil, err
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL store native datetimes
			if err := rows.Scan(&record.RunID, &record.ProjectName, &record.Repository, &record.CommitRef,
				&record.StartTime, &record.EndTime, &record.TotalFiles, &record.TotalLOC); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetFiles returns every stored file measurement ordered by run and path.
func (s *StoreImpl) GetFiles() ([]schema.FileHistoryRecord, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT run_id, file_path, sha3, loc, bucket, language FROM %s ORDER BY run_id, file_path",
		quoteTableName(filesTable, s.backend))
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.FileHistoryRecord
	for rows.Next() {
		var record schema.FileHistoryRecord
		if err := rows.Scan(&record.RunID, &record.FilePath, &record.SHA3, &record.LinesOfCode, &record.Bucket, &record.Language); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating files: %w", err)
	}
	return results, nil
}
