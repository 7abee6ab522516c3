//go:build basic

package integration

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func estimateArgs(scope, base string, extra ...string) []string {
	args := append([]string{}, projectArgs...)
	args = append(args, "--scope-dir", scope, "--base-dir", base)
	return append(args, extra...)
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()
	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestUsageErrorExitsOne(t *testing.T) {
	for _, args := range [][]string{nil, {"acme"}, {"acme", "repo", "commit", "extra"}} {
		res := runCLI(t, nil, args...)
		assert.Equal(t, 1, res.ExitCode, args)
		assert.Contains(t, res.Stderr, "Usage:")
		assert.Contains(t, res.Stderr, "expected 3 arguments")
	}
}

func TestMissingScopeWritesNothing(t *testing.T) {
	base := t.TempDir()
	res := runCLI(t, nil, estimateArgs(filepath.Join(base, "scope"), base)...)
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Stderr, "scope directory does not exist")

	_, err := os.Stat(filepath.Join(base, "acme"))
	assert.True(t, os.IsNotExist(err))
}

func TestEmptyScopeWritesNothing(t *testing.T) {
	base := t.TempDir()
	scope := t.TempDir()
	res := runCLI(t, nil, estimateArgs(scope, base)...)
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Stderr, "scope directory is empty")
}

func TestEstimateWritesReports(t *testing.T) {
	base := t.TempDir()
	res := runCLI(t, nil, estimateArgs(defaultScope(t), base, "--exclude", "test/")...)
	require.Equal(t, 0, res.ExitCode)

	outDir := filepath.Join(base, "acme")
	contracts := readCSV(t, filepath.Join(outDir, "combined_contracts_data.csv"))
	assert.Equal(t, []string{"File Path & SHA3 Hash", "LoC"}, contracts[0])
	assert.True(t, strings.HasPrefix(contracts[1][0], "File: A.sol\nSHA3: "))
	assert.Equal(t, "10", contracts[1][1])
	assert.True(t, strings.HasPrefix(contracts[2][0], "File: B.rs\nSHA3: "))
	assert.Equal(t, "2", contracts[2][1])
	for _, row := range contracts[1:] {
		assert.NotContains(t, strings.ToLower(row[0]), "interface")
		assert.NotContains(t, row[0], "test/")
	}

	interfaces := readCSV(t, filepath.Join(outDir, "combined_interfaces_data.csv"))
	require.Len(t, interfaces, 3)
	assert.True(t, strings.HasPrefix(interfaces[1][0], "File: docs/INTERFACE-NOTES.md\n"))
	assert.True(t, strings.HasPrefix(interfaces[2][0], "File: interfaces/IA.sol\n"))

	portal := readCSV(t, filepath.Join(outDir, "cyver_portal_data.csv"))
	assert.Equal(t, []string{"Title", "Description", "Type", "Repository", "Lines of Code", "Commit", "Technology"}, portal[0])
	require.Len(t, portal, 10)
	for _, row := range portal[1:] {
		assert.Equal(t, "SmartContract", row[2])
		assert.Equal(t, "https://github.com/acme/contracts", row[3])
		assert.Equal(t, "0a1b2c3", row[5])
		assert.Len(t, row[6], 64)
	}

	assert.Contains(t, res.Stdout, "Project: acme @ 0a1b2c3")
	assert.Contains(t, res.Stderr, "Generated files:")
	assert.Contains(t, res.Stderr, "acme/cyver_portal_data.csv")
}

func TestEstimateIsDeterministic(t *testing.T) {
	base := t.TempDir()
	scope := defaultScope(t)
	names := []string{"combined_contracts_data.csv", "combined_interfaces_data.csv", "cyver_portal_data.csv"}

	require.Equal(t, 0, runCLI(t, nil, estimateArgs(scope, base)...).ExitCode)
	first := map[string][]byte{}
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(base, "acme", name))
		require.NoError(t, err)
		first[name] = data
	}

	require.Equal(t, 0, runCLI(t, nil, estimateArgs(scope, base)...).ExitCode)
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(base, "acme", name))
		require.NoError(t, err)
		assert.Equal(t, first[name], data, name)
	}
}

func TestEstimateJSONSummary(t *testing.T) {
	base := t.TempDir()
	res := runCLI(t, nil, estimateArgs(defaultScope(t), base, "--output", "json", "--parquet")...)
	require.Equal(t, 0, res.ExitCode)

	var summary struct {
		TotalFiles  int      `json:"total_files"`
		Skipped     int      `json:"skipped"`
		ReportFiles []string `json:"report_files"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Stdout), &summary))
	assert.Equal(t, 10, summary.TotalFiles)
	assert.Equal(t, 2, summary.Skipped)
	assert.Contains(t, summary.ReportFiles, "acme/cyver_portal_data.parquet")

	info, err := os.Stat(filepath.Join(base, "acme", "cyver_portal_data.parquet"))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestEstimateConfigFromEnv(t *testing.T) {
	base := t.TempDir()
	scope := defaultScope(t)
	env := []string{"ESTIMATION_SCOPE_DIR=" + scope, "ESTIMATION_BASE_DIR=" + base, "ESTIMATION_OUTPUT=none"}
	res := runCLI(t, env, projectArgs...)
	require.Equal(t, 0, res.ExitCode)
	assert.Empty(t, res.Stdout)

	_, err := os.Stat(filepath.Join(base, "acme", "combined_contracts_data.csv"))
	assert.NoError(t, err)
}

func TestInvalidFlagIsFatal(t *testing.T) {
	res := runCLI(t, nil, estimateArgs(defaultScope(t), t.TempDir(), "--output", "xml")...)
	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, res.Stderr, "invalid output format")
}

func TestHistoryWithSQLite(t *testing.T) {
	base := t.TempDir()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	historyFlags := []string{"--history-backend", "sqlite", "--history-db-connect", dbPath}

	res := runCLI(t, nil, estimateArgs(defaultScope(t), base, historyFlags...)...)
	require.Equal(t, 0, res.ExitCode)

	res = runCLI(t, nil, append([]string{"history", "status"}, historyFlags...)...)
	require.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Stdout, "Total Runs: 1")

	prefix := filepath.Join(t.TempDir(), "export")
	res = runCLI(t, nil, append([]string{"history", "export", "--output-file", prefix}, historyFlags...)...)
	require.Equal(t, 0, res.ExitCode)
	for _, suffix := range []string{".runs.parquet", ".files.parquet"} {
		_, err := os.Stat(prefix + suffix)
		assert.NoError(t, err)
	}

	res = runCLI(t, nil, append([]string{"history", "clear"}, historyFlags...)...)
	require.Equal(t, 0, res.ExitCode)
	res = runCLI(t, nil, append([]string{"history", "status"}, historyFlags...)...)
	assert.Contains(t, res.Stdout, "Total Runs: 0")

	res = runCLI(t, nil, append([]string{"history", "migrate", "--target-version", "0"}, historyFlags...)...)
	require.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Stdout, "to version 0")
}

func TestLanguagesAndVersion(t *testing.T) {
	res := runCLI(t, nil, "languages")
	require.Equal(t, 0, res.ExitCode)
	for _, want := range []string{".sol", ".tsol", ".rs", ".py", ".vy", ".scilla", "Scilla"} {
		assert.Contains(t, res.Stdout, want)
	}

	res = runCLI(t, nil, "version")
	require.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Stdout+res.Stderr, "estimation-reporter CLI")
}
