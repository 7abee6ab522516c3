// Package cmd defines the command-line interface for estimation-reporter.
package cmd

import (
	"github.com/huangsam/estimation-reporter/internal/contract"
	"github.com/huangsam/estimation-reporter/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("scope-dir", "", "Directory to measure (default <tool dir>/scope)")
	rootCmd.PersistentFlags().String("base-dir", "", "Parent of the project output folder (default <tool dir>)")
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of path prefixes or patterns to ignore")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Console summary format: text or json or yaml or none")
	rootCmd.PersistentFlags().Bool("detail", false, "Print per-file rows in the text summary")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Bool("parquet", false, "Also write the portal rows as "+schema.PortalParquetName)
	rootCmd.PersistentFlags().String("history-backend", string(schema.NoneBackend), "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("publish-endpoint", "", "S3-compatible endpoint (host:port); enables publishing")
	rootCmd.PersistentFlags().String("publish-bucket", "", "Bucket that receives the reports")
	rootCmd.PersistentFlags().String("publish-region", contract.DefaultPublishRegion, "Bucket region")
	rootCmd.PersistentFlags().String("publish-access-key", "", "Access key for publishing (prefer ESTIMATION_PUBLISH_ACCESS_KEY)")
	rootCmd.PersistentFlags().String("publish-secret-key", "", "Secret key for publishing (prefer ESTIMATION_PUBLISH_SECRET_KEY)")
	rootCmd.PersistentFlags().Bool("publish-ssl", true, "Use TLS for the publish endpoint")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of historyExportCmd to Viper
	historyExportCmd.Flags().String("output-file", "", "Prefix for the exported <prefix>.runs.parquet and <prefix>.files.parquet")
	if err := viper.BindPFlags(historyExportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history export flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
