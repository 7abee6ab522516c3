// Package main provides a performance benchmarking tool for the estimation-reporter CLI.
// It measures execution times over real audit scopes of different sizes, once
// without run history and once with the SQLite history backend, and writes a
// CSV of the averages for performance analysis and documentation.
//
// Prerequisites:
//   - estimation-reporter binary installed and available in PATH
//   - Source repositories cloned to the specified base directory:
//     openzeppelin-contracts, solana-program-library, curve-contract, v4-core
//
// Usage: go run benchmark/main.go [scope-base-dir]
//
//	scope-base-dir: Directory containing the cloned repositories
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// BenchmarkResult holds the averaged timings for one scope.
type BenchmarkResult struct {
	Scope       string
	Files       string
	NoHistory   string
	WithHistory string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	ScopeBase string
	Timeout   time.Duration
	Runs      int
	Scopes    []string
	Excludes  map[string]string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [scope-base-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		ScopeBase: os.Args[1],
		Timeout:   5 * time.Minute,
		Runs:      4,
		Scopes:    []string{"openzeppelin-contracts", "solana-program-library", "curve-contract", "v4-core"},
		Excludes: map[string]string{
			"openzeppelin-contracts": "test/,node_modules/",
			"solana-program-library": "target/,tests/",
			"v4-core":                "test/,lib/",
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the binary and the scope directories exist.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("estimation-reporter"); err != nil {
		return fmt.Errorf("estimation-reporter binary not found in PATH")
	}
	for _, scope := range config.Scopes {
		scopePath := filepath.Join(config.ScopeBase, scope)
		if _, err := os.Stat(scopePath); os.IsNotExist(err) {
			return fmt.Errorf("scope %s not found at %s", scope, scopePath)
		}
	}
	return nil
}

// runBenchmarks times every configured scope with and without run history.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d scopes, %v timeout, %d runs per phase\n",
		len(config.Scopes), config.Timeout, config.Runs)

	outDir, err := os.MkdirTemp("", "estimation-benchmark-*")
	if err != nil {
		fmt.Printf("Failed to create output directory: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(outDir) }()
	historyDB := filepath.Join(outDir, "history.db")

	for _, scope := range config.Scopes {
		fmt.Printf("Benchmarking %s\n", scope)
		scopePath := filepath.Join(config.ScopeBase, scope)

		base := []string{scope, "https://example.invalid/" + scope, "HEAD",
			"--scope-dir", scopePath, "--base-dir", outDir, "--output", "none"}
		if ex, ok := config.Excludes[scope]; ok {
			base = append(base, "--exclude", ex)
		}

		noHistory := average(runBenchmark(config, slices.Concat(base, []string{"--history-backend", "none"})))
		withHistory := average(runBenchmark(config, slices.Concat(base, []string{"--history-backend", "sqlite", "--history-db-connect", historyDB})))

		results = append(results, BenchmarkResult{
			Scope:       scope,
			Files:       countReportRows(filepath.Join(outDir, scope, "cyver_portal_data.csv")),
			NoHistory:   noHistory,
			WithHistory: withHistory,
		})
		fmt.Printf("  No history: %s, SQLite history: %s\n", noHistory, withHistory)
	}

	return results
}

// runBenchmark executes the CLI config.Runs times and returns the successful durations.
func runBenchmark(config BenchmarkConfig, args []string) []float64 {
	var times []float64
	for range config.Runs {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		output, err := exec.CommandContext(ctx, "estimation-reporter", args...).CombinedOutput()
		elapsed := time.Since(start).Seconds()
		timedOut := errors.Is(ctx.Err(), context.DeadlineExceeded)
		cancel()

		if err == nil && !timedOut && isSuccess(output) {
			times = append(times, elapsed)
		}
	}
	return times
}

// average formats the mean of times, or TIMEOUT when no run succeeded.
func average(times []float64) string {
	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// isSuccess checks that the run listed its generated files.
func isSuccess(output []byte) bool {
	return strings.Contains(string(output), "Generated files:")
}

// countReportRows returns the number of data rows in a portal report.
func countReportRows(path string) string {
	file, err := os.Open(path)
	if err != nil {
		return "?"
	}
	defer func() { _ = file.Close() }()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil || len(rows) == 0 {
		return "?"
	}
	return fmt.Sprintf("%d", len(rows)-1)
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/estimation_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"scope", "files", "no_history_avg", "sqlite_history_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Scope, result.Files, result.NoHistory, result.WithHistory}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-24s (%s files): No history: %s, SQLite history: %s\n",
			result.Scope, result.Files, result.NoHistory, result.WithHistory)
	}
}
