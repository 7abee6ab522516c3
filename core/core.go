// Package core has the estimation pipeline: scan the scope, count lines and
// write the audit reports.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/estimation-reporter/internal/contract"
	"github.com/huangsam/estimation-reporter/internal/outwriter"
	"github.com/huangsam/estimation-reporter/internal/parquet"
	"github.com/huangsam/estimation-reporter/internal/publish"
	"github.com/huangsam/estimation-reporter/schema"
)

// Setup errors. None of them produce output and the CLI exits cleanly.
var (
	ErrScopeMissing = errors.New("scope directory does not exist")
	ErrScopeEmpty   = errors.New("scope directory is empty")
	ErrNoRecords    = errors.New("no files to measure in scope directory")
)

// IsSetupError reports whether err means there was nothing to estimate.
func IsSetupError(err error) bool {
	return errors.Is(err, ErrScopeMissing) || errors.Is(err, ErrScopeEmpty) || errors.Is(err, ErrNoRecords)
}

// CheckScope verifies that dir exists, is a directory and has at least one entry.
func CheckScope(dir string) error {
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrScopeMissing, dir)
	}
	if err != nil {
		return fmt.Errorf("cannot access scope directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrScopeMissing, dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("cannot read scope directory %s: %w", dir, err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: %s", ErrScopeEmpty, dir)
	}
	return nil
}

// EstimateScope measures scopeDir without writing anything to disk.
func EstimateScope(scopeDir string, excludes []string, project schema.Project) (schema.Estimate, error) {
	if err := CheckScope(scopeDir); err != nil {
		return schema.Estimate{}, err
	}
	records, err := ScanScope(scopeDir, excludes)
	if err != nil {
		return schema.Estimate{}, err
	}
	if len(records) == 0 {
		return schema.Estimate{}, fmt.Errorf("%w: %s", ErrNoRecords, scopeDir)
	}
	summary := schema.Summarize(project, records)
	summary.Files = records
	return schema.Estimate{
		Summary:    summary,
		PortalRows: outwriter.PortalRows(project, records),
	}, nil
}

// ExecuteEstimate runs a full estimation and writes the reports under cfg.OutputDir.
// It serves as the main entry point for the root command. History and
// publishing are optional; a nil store or publisher skips that step. Their
// failures are reported as warnings since the reports are already on disk.
func ExecuteEstimate(ctx context.Context, cfg *contract.Config, store contract.HistoryStore, publisher contract.ArtifactPublisher) error {
	start := time.Now()

	if err := CheckScope(cfg.ScopeDir); err != nil {
		return err
	}

	contract.LogInfo("🔎 Scanning %s for project %s", cfg.ScopeDir, cfg.Project.Name)
	records, err := ScanScope(cfg.ScopeDir, cfg.Excludes)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("%w: %s", ErrNoRecords, cfg.ScopeDir)
	}

	paths, err := outwriter.WriteReports(cfg.OutputDir, cfg.Project, records)
	if err != nil {
		return fmt.Errorf("failed to write reports: %w", err)
	}
	if cfg.Parquet {
		parquetPath := filepath.Join(cfg.OutputDir, schema.PortalParquetName)
		items := parquet.ConvertPortalRows(outwriter.PortalRows(cfg.Project, records))
		if err := parquet.WritePortalParquet(items, parquetPath); err != nil {
			return fmt.Errorf("failed to write parquet report: %w", err)
		}
		paths.Parquet = parquetPath
	}

	summary := schema.Summarize(cfg.Project, records)
	if cfg.Detail {
		summary.Files = records
	}
	summary.ReportFiles = outwriter.RelativePaths(cfg.BaseDir, paths.All())
	if err := outwriter.WriteSummary(os.Stdout, summary, cfg); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	if store != nil {
		if err := recordHistory(store, cfg.Project, records, summary, start); err != nil {
			contract.LogWarn("Error recording run history", err)
		}
	}
	if publisher != nil {
		published := publish.PublishAll(ctx, publisher, cfg.Project, paths.All())
		contract.LogInfo("Published %d of %d files", len(published), len(paths.All()))
	}

	return outwriter.PrintGeneratedFiles(os.Stderr, cfg.BaseDir, paths.All())
}

// recordHistory stores one run and all of its file measurements.
func recordHistory(store contract.HistoryStore, project schema.Project, records []schema.FileRecord, summary schema.RunSummary, start time.Time) error {
	runID, err := store.BeginRun(project, start)
	if err != nil {
		return err
	}
	for _, r := range records {
		if err := store.RecordFile(runID, r); err != nil {
			return err
		}
	}
	return store.EndRun(runID, time.Now(), summary.TotalFiles, summary.TotalLOC)
}
