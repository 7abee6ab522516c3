package history

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/estimation-reporter/internal/contract"
	"github.com/huangsam/estimation-reporter/internal/parquet"
)

// ErrNothingToExport is returned when the store holds no runs.
var ErrNothingToExport = errors.New("no run history found to export")

// ExportParquet writes the stored runs and files to <prefix>.runs.parquet and
// <prefix>.files.parquet, and returns both paths.
func ExportParquet(w io.Writer, store contract.HistoryStore, prefix string) ([]string, error) {
	if prefix == "" {
		return nil, errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return nil, ErrNothingToExport
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)

	runs, err := store.GetRuns()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve runs: %w", err)
	}
	files, err := store.GetFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve files: %w", err)
	}

	runsFile := prefix + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return nil, fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(runs), runsFile)

	filesFile := prefix + ".files.parquet"
	if err := parquet.WriteFilesParquet(parquet.ConvertFileRecords(files), filesFile); err != nil {
		return nil, fmt.Errorf("failed to write files: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d file records to: %s\n", len(files), filesFile)

	return []string{runsFile, filesFile}, nil
}
