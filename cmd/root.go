package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/estimation-reporter/core"
	"github.com/huangsam/estimation-reporter/internal/contract"
	"github.com/huangsam/estimation-reporter/internal/history"
	"github.com/huangsam/estimation-reporter/internal/publish"
	"github.com/huangsam/estimation-reporter/schema"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// exactProjectArgs prints usage unless the three positional values are present.
func exactProjectArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 3 {
		_ = cmd.Usage()
		return fmt.Errorf("expected 3 arguments (project_name, repository_url, commit), received %d", len(args))
	}
	return nil
}

// rootCmd measures the scope directory and writes the audit reports.
var rootCmd = &cobra.Command{
	Use:   "estimation-reporter <project_name> <repository_url> <commit>",
	Short: "Estimate lines of code for a smart-contract audit scope.",
	Long: `Estimation Reporter walks the scope directory, strips comments and test
blocks per language, counts the remaining non-empty lines and hashes every file
with SHA3-256.

It writes three CSV reports under <base dir>/<project_name>/:
- combined_contracts_data.csv  - every file outside an interface path
- combined_interfaces_data.csv - every file whose path mentions "interface"
- cyver_portal_data.csv        - one portal import row per file

Supported languages: Solidity (.sol, .tsol), Rust (.rs), Python (.py),
Vyper (.vy), Scilla (.scilla). Other files are hashed and counted as 0.

Examples:
  # Measure ./scope next to the binary
  estimation-reporter acme https://github.com/acme/contracts 0a1b2c3

  # Measure another directory and keep tests out
  estimation-reporter acme https://github.com/acme/contracts 0a1b2c3 \
    --scope-dir ./src --exclude "test/,*.t.sol"`,
	Version:            version,
	Args:               exactProjectArgs,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	PreRunE:            sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := history.NewStore(cfg.HistoryBackend, cfg.HistoryDBConnect)
		if err != nil {
			return fmt.Errorf("failed to initialize run history: %w", err)
		}
		defer func() { _ = store.Close() }()

		var publisher contract.ArtifactPublisher
		if cfg.Publish.Enabled() {
			s3, err := publish.NewS3Publisher(cfg.Publish)
			if err != nil {
				return fmt.Errorf("failed to initialize publisher: %w", err)
			}
			publisher = s3
		}

		err = core.ExecuteEstimate(rootCtx, cfg, store, publisher)
		if core.IsSetupError(err) {
			contract.LogInfo("⚠️  %v", err)
			return nil
		}
		return err
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A .env file is optional; real environment variables win.
	_ = godotenv.Load()

	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".estimation") // Name of config file (without extension)
		viper.SetConfigType("yaml")        // We'll use YAML format
		viper.AddConfigPath(".")           // Look in the current directory
		viper.AddConfigPath("$HOME")       // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("ESTIMATION")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("color", "yes")
	viper.SetDefault("history-backend", schema.NoneBackend)
	viper.SetDefault("history-db-connect", "")
	viper.SetDefault("publish-region", contract.DefaultPublishRegion)
	viper.SetDefault("publish-ssl", true)
}

// readConfigFile loads the config file if one is present.
func readConfigFile() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := readConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	if len(args) == 3 {
		input.ProjectName, input.Repository, input.Commit = args[0], args[1], args[2]
	}

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	color.NoColor = !cfg.UseColors
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
