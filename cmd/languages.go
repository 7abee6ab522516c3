package cmd

import (
	"os"

	"github.com/huangsam/estimation-reporter/internal/contract"
	"github.com/huangsam/estimation-reporter/internal/outwriter"
	"github.com/huangsam/estimation-reporter/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// languagesCmd prints the extension table used to classify files.
var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the supported file extensions and languages",
	Long: `Show the fixed extension table used to pick a comment filter.

Matching is case-insensitive. Files with any other extension are still hashed
and listed in the reports, with 0 lines of code.

Examples:
  estimation-reporter languages
  estimation-reporter languages --output json`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := readConfigFile(); err != nil {
			return err
		}
		mode := schema.OutputMode(viper.GetString("output"))
		if _, ok := schema.ValidOutputModes[mode]; !ok {
			mode = schema.TextOut
		}
		if err := outwriter.WriteLanguages(os.Stdout, mode); err != nil {
			contract.LogFatal("Failed to list languages", err)
		}
		return nil
	},
}
