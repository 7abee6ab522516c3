package core

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/estimation-reporter/internal/contract"
	"github.com/huangsam/estimation-reporter/internal/history"
	"github.com/huangsam/estimation-reporter/internal/publish"
	"github.com/huangsam/estimation-reporter/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testProject = schema.Project{
	Name:       "acme",
	Repository: "https://github.com/acme/contracts",
	Commit:     "0a1b2c3",
}

func newTestConfig(t *testing.T, scopeDir string) *contract.Config {
	t.Helper()
	baseDir := t.TempDir()
	return &contract.Config{
		Project:        testProject,
		ScopeDir:       scopeDir,
		BaseDir:        baseDir,
		OutputDir:      filepath.Join(baseDir, testProject.Name),
		Output:         schema.NoneOut,
		HistoryBackend: schema.NoneBackend,
	}
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

func TestCheckScope(t *testing.T) {
	empty := t.TempDir()
	full := writeScope(t, map[string]string{"A.sol": solidityFixture})
	file := filepath.Join(full, "A.sol")

	tests := []struct {
		name string
		dir  string
		want error
	}{
		{"missing", filepath.Join(empty, "nope"), ErrScopeMissing},
		{"not a directory", file, ErrScopeMissing},
		{"empty", empty, ErrScopeEmpty},
		{"ok", full, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckScope(tt.dir)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsSetupError(err))
		})
	}
}

func TestIsSetupError(t *testing.T) {
	assert.True(t, IsSetupError(ErrNoRecords))
	assert.False(t, IsSetupError(errors.New("disk full")))
	assert.False(t, IsSetupError(nil))
}

func TestExecuteEstimate_EndToEnd(t *testing.T) {
	scope := writeScope(t, map[string]string{
		"A.sol":     solidityFixture,
		"B.rs":      rustFixture,
		"README.md": "# Notes\n",
	})
	cfg := newTestConfig(t, scope)

	require.NoError(t, ExecuteEstimate(context.Background(), cfg, nil, nil))

	contracts := readCSV(t, filepath.Join(cfg.OutputDir, schema.ContractsReportName))
	require.Len(t, contracts, 4)
	assert.Equal(t, []string{"File Path & SHA3 Hash", "LoC"}, contracts[0])
	assert.Equal(t, []string{"File: A.sol\nSHA3: " + HashBytes([]byte(solidityFixture)), "10"}, contracts[1])
	assert.Equal(t, []string{"File: B.rs\nSHA3: " + HashBytes([]byte(rustFixture)), "2"}, contracts[2])
	assert.Equal(t, "0", contracts[3][1])

	interfaces := readCSV(t, filepath.Join(cfg.OutputDir, schema.InterfacesReportName))
	assert.Len(t, interfaces, 1)

	portal := readCSV(t, filepath.Join(cfg.OutputDir, schema.PortalReportName))
	require.Len(t, portal, 4)
	assert.Equal(t, []string{"A.sol", "", "SmartContract", testProject.Repository, "10", testProject.Commit, HashBytes([]byte(solidityFixture))}, portal[1])
	assert.Equal(t, "README.md", portal[3][0])
	assert.Equal(t, "0", portal[3][4])
	assert.Equal(t, HashBytes([]byte("# Notes\n")), portal[3][6])

	_, err := os.Stat(filepath.Join(cfg.OutputDir, schema.PortalParquetName))
	assert.True(t, os.IsNotExist(err))
}

func TestExecuteEstimate_Deterministic(t *testing.T) {
	scope := writeScope(t, map[string]string{
		"A.sol":                   solidityFixture,
		"interfaces/IA.sol":       "interface IA {}\n",
		"nested/deeper/Vault.vy":  "# vault\n@external\ndef f():\n    pass\n",
		"nested/deeper/token.py":  "\"\"\"doc\"\"\"\nx = 1\n",
		"nested/deeper/Lib.tsol":  "contract L {}\n",
		"nested/deeper/s.scilla":  "(* c *)\nlibrary S\n",
		"nested/deeper/other.txt": "plain",
	})
	cfg := newTestConfig(t, scope)

	require.NoError(t, ExecuteEstimate(context.Background(), cfg, nil, nil))
	first := map[string][]byte{}
	for _, name := range []string{schema.ContractsReportName, schema.InterfacesReportName, schema.PortalReportName} {
		data, err := os.ReadFile(filepath.Join(cfg.OutputDir, name))
		require.NoError(t, err)
		first[name] = data
	}

	require.NoError(t, ExecuteEstimate(context.Background(), cfg, nil, nil))
	for name, want := range first {
		got, err := os.ReadFile(filepath.Join(cfg.OutputDir, name))
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
}

func TestExecuteEstimate_SetupErrorsWriteNothing(t *testing.T) {
	tests := []struct {
		name  string
		scope func(t *testing.T) string
		want  error
	}{
		{"missing scope", func(t *testing.T) string { return filepath.Join(t.TempDir(), "scope") }, ErrScopeMissing},
		{"empty scope", func(t *testing.T) string { return t.TempDir() }, ErrScopeEmpty},
		{"only housekeeping", func(t *testing.T) string {
			return writeScope(t, map[string]string{".DS_Store": "junk"})
		}, ErrNoRecords},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig(t, tt.scope(t))
			err := ExecuteEstimate(context.Background(), cfg, nil, nil)
			assert.ErrorIs(t, err, tt.want)
			_, statErr := os.Stat(cfg.OutputDir)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestExecuteEstimate_Parquet(t *testing.T) {
	cfg := newTestConfig(t, writeScope(t, map[string]string{"A.sol": solidityFixture}))
	cfg.Parquet = true

	require.NoError(t, ExecuteEstimate(context.Background(), cfg, nil, nil))
	info, err := os.Stat(filepath.Join(cfg.OutputDir, schema.PortalParquetName))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExecuteEstimate_RecordsHistory(t *testing.T) {
	cfg := newTestConfig(t, writeScope(t, map[string]string{
		"A.sol": solidityFixture,
		"B.rs":  rustFixture,
	}))
	store, err := history.NewStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, ExecuteEstimate(context.Background(), cfg, store, nil))

	runs, err := store.GetRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "acme", runs[0].ProjectName)
	assert.Equal(t, int32(2), runs[0].TotalFiles)
	assert.Equal(t, int32(12), runs[0].TotalLOC)
	assert.NotNil(t, runs[0].EndTime)

	files, err := store.GetFiles()
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, HashBytes([]byte(solidityFixture)), files[0].SHA3)
}

func TestExecuteEstimate_HistoryFailureIsWarning(t *testing.T) {
	cfg := newTestConfig(t, writeScope(t, map[string]string{"A.sol": solidityFixture}))
	store := &history.MockStore{}
	store.On("BeginRun", testProject, mock.AnythingOfType("time.Time")).Return(int64(0), errors.New("db down"))

	require.NoError(t, ExecuteEstimate(context.Background(), cfg, store, nil))
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "RecordFile", mock.Anything, mock.Anything)

	_, err := os.Stat(filepath.Join(cfg.OutputDir, schema.ContractsReportName))
	assert.NoError(t, err)
}

func TestExecuteEstimate_Publishes(t *testing.T) {
	cfg := newTestConfig(t, writeScope(t, map[string]string{"A.sol": solidityFixture}))
	publisher := &publish.MockPublisher{}
	publisher.On("Publish", mock.Anything, "acme/0a1b2c3/"+schema.ContractsReportName, filepath.Join(cfg.OutputDir, schema.ContractsReportName)).Return(nil)
	publisher.On("Publish", mock.Anything, "acme/0a1b2c3/"+schema.InterfacesReportName, filepath.Join(cfg.OutputDir, schema.InterfacesReportName)).Return(errors.New("denied"))
	publisher.On("Publish", mock.Anything, "acme/0a1b2c3/"+schema.PortalReportName, filepath.Join(cfg.OutputDir, schema.PortalReportName)).Return(nil)

	require.NoError(t, ExecuteEstimate(context.Background(), cfg, nil, publisher))
	publisher.AssertExpectations(t)
}

func TestEstimateScope(t *testing.T) {
	scope := writeScope(t, map[string]string{
		"A.sol":            solidityFixture,
		"IFace/IToken.sol": "interface IToken {}\n",
	})

	est, err := EstimateScope(scope, nil, testProject)
	require.NoError(t, err)
	assert.Equal(t, 2, est.Summary.TotalFiles)
	assert.Equal(t, 11, est.Summary.TotalLOC)
	assert.Len(t, est.Summary.Files, 2)
	require.Len(t, est.PortalRows, 2)
	assert.Equal(t, "IFace/IToken.sol", est.PortalRows[1].Title)
	assert.Equal(t, schema.InterfacesBucket, est.Summary.Files[1].Bucket)

	_, err = EstimateScope(t.TempDir(), nil, testProject)
	assert.ErrorIs(t, err, ErrScopeEmpty)
}

func TestRecordHistory_StopsOnFileError(t *testing.T) {
	store := &history.MockStore{}
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	records := []schema.FileRecord{{Path: "A.sol"}, {Path: "B.sol"}}
	store.On("BeginRun", testProject, start).Return(int64(7), nil)
	store.On("RecordFile", int64(7), records[0]).Return(errors.New("constraint"))

	err := recordHistory(store, testProject, records, schema.Summarize(testProject, records), start)
	assert.ErrorContains(t, err, "constraint")
	store.AssertNotCalled(t, "EndRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
