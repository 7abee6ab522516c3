package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/estimation-reporter/internal/contract"
	"github.com/huangsam/estimation-reporter/internal/history"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historySetup loads minimal configuration needed for history operations.
// It skips the positional values and scope checks of the root command.
func historySetup() error {
	if err := readConfigFile(); err != nil {
		return err
	}

	backend, err := contract.ParseDatabaseBackend(viper.GetString("history-backend"))
	if err != nil {
		return err
	}
	connStr := viper.GetString("history-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// openHistory opens the configured store, migrating it to the latest schema.
func openHistory() contract.HistoryStore {
	store, err := history.NewStore(cfg.HistoryBackend, cfg.HistoryDBConnect)
	if err != nil {
		contract.LogFatal("Failed to open run history", err)
	}
	return store
}

// historyCmd focused on run history management.
//
// Note: history subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup used by the root command.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the recorded estimation runs",
	Long: `Manage the optional record of estimation runs.

When --history-backend is set, every run stores:
- Run metadata (project, repository, commit, start and end time, totals)
- One row per measured file (path, SHA3, lines of code, bucket, language)

Supported backends: SQLite, MySQL, PostgreSQL, or None (default, disabled)

Subcommands:
  status  - Show history statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all recorded runs
  migrate - Run database schema migrations`,
	Args: cobra.NoArgs,
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show the backend, connection state, number of runs, first and last run
times, total files measured and per-table row counts.

Examples:
  estimation-reporter history status --history-backend sqlite`,
	Args:    cobra.NoArgs,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := openHistory()
		defer func() { _ = store.Close() }()
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		history.PrintStatus(os.Stdout, status)
	},
}

// historyClearCmd clears the run history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded estimation runs",
	Long: `Delete all stored runs and file measurements. The schema is kept.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  estimation-reporter history export --history-backend sqlite --output-file backup
  estimation-reporter history clear --history-backend sqlite`,
	Args:    cobra.NoArgs,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := openHistory()
		defer func() { _ = store.Close() }()
		if err := store.Clear(); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// historyExportCmd exports the run history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export all stored runs and file measurements to two Parquet files:
<prefix>.runs.parquet and <prefix>.files.parquet.

Requires: --output-file parameter

Examples:
  estimation-reporter history export --history-backend sqlite --output-file estimation
  duckdb -c "SELECT * FROM read_parquet('estimation.files.parquet') LIMIT 10"`,
	Args:    cobra.NoArgs,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := openHistory()
		defer func() { _ = store.Close() }()
		if _, err := history.ExportParquet(os.Stdout, store, viper.GetString("output-file")); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  estimation-reporter history migrate --history-backend sqlite

  # Rollback to initial state
  estimation-reporter history migrate --history-backend sqlite --target-version 0`,
	Args:    cobra.NoArgs,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := history.Migrate(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
