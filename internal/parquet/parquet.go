// Package parquet provides data structures and functions for exporting
// estimation data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/estimation-reporter/schema"
	"github.com/parquet-go/parquet-go"
)

// PortalItem is one row of the portal import report.
// It mirrors the columns of cyver_portal_data.csv.
type PortalItem struct {
	Title       string `parquet:"title,snappy"`
	Description string `parquet:"description,snappy"`
	Type        string `parquet:"type,snappy,dict"`
	Repository  string `parquet:"repository,snappy,dict"`
	LinesOfCode int32  `parquet:"lines_of_code,snappy"`
	Commit      string `parquet:"commit,snappy,dict"`
	Technology  string `parquet:"technology,snappy"`
}

// EstimationRun represents a single recorded run with metadata.
// This struct maps to the estimation_runs database table.
type EstimationRun struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	ProjectName string `parquet:"project_name,snappy"`
	Repository  string `parquet:"repository,snappy"`
	CommitRef   string `parquet:"commit_ref,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	TotalFiles int32 `parquet:"total_files,snappy"`
	TotalLOC   int32 `parquet:"total_loc,snappy"`
}

// EstimationFile represents the measurement of a single file in a run.
// This struct maps to the estimation_files database table.
type EstimationFile struct {
	RunID       int64  `parquet:"run_id,snappy"`
	FilePath    string `parquet:"file_path,snappy"`
	SHA3        string `parquet:"sha3,snappy"`
	LinesOfCode int32  `parquet:"loc,snappy"`
	Bucket      string `parquet:"bucket,snappy,dict"`
	Language    string `parquet:"language,snappy,dict"`
}

// writeParquet writes rows to outputPath using struct schema inference.
func writeParquet[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// Close flushes the footer, so its error matters.
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WritePortalParquet writes portal rows to a Parquet file.
func WritePortalParquet(data []PortalItem, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRunsParquet writes run metadata to a Parquet file.
func WriteRunsParquet(data []EstimationRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteFilesParquet writes per-file measurements to a Parquet file.
func WriteFilesParquet(data []EstimationFile, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertPortalRows converts schema.PortalRow to PortalItem for Parquet export.
func ConvertPortalRows(rows []schema.PortalRow) []PortalItem {
	result := make([]PortalItem, len(rows))
	for i, row := range rows {
		result[i] = PortalItem{
			Title:       row.Title,
			Description: row.Description,
			Type:        row.Type,
			Repository:  row.Repository,
			LinesOfCode: int32(row.LinesOfCode),
			Commit:      row.Commit,
			Technology:  row.Technology,
		}
	}
	return result
}

// ConvertRunRecords converts schema.RunRecord to EstimationRun for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []EstimationRun {
	result := make([]EstimationRun, len(records))
	for i, record := range records {
		result[i] = EstimationRun{
			RunID:       record.RunID,
			ProjectName: record.ProjectName,
			Repository:  record.Repository,
			CommitRef:   record.CommitRef,
			StartTime:   record.StartTime,
			EndTime:     record.EndTime,
			TotalFiles:  record.TotalFiles,
			TotalLOC:    record.TotalLOC,
		}
	}
	return result
}

// ConvertFileRecords converts schema.FileHistoryRecord to EstimationFile for Parquet export.
func ConvertFileRecords(records []schema.FileHistoryRecord) []EstimationFile {
	result := make([]EstimationFile, len(records))
	for i, record := range records {
		result[i] = EstimationFile{
			RunID:       record.RunID,
			FilePath:    record.FilePath,
			SHA3:        record.SHA3,
			LinesOfCode: record.LinesOfCode,
			Bucket:      record.Bucket,
			Language:    record.Language,
		}
	}
	return result
}
