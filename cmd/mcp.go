package cmd

import (
	"github.com/huangsam/estimation-reporter/internal/contract"
	"github.com/huangsam/estimation-reporter/internal/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the estimation MCP server",
	Long:  `Launch an MCP server on stdio that lets AI agents estimate a scope, count a single file or list the supported languages.`,
	Args:  cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		// No positional values here; the tools supply project details per call.
		if err := readConfigFile(); err != nil {
			return err
		}
		if err := viper.Unmarshal(input); err != nil {
			return err
		}
		input.ProjectName = "mcp"
		return contract.ProcessAndValidate(cfg, input)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg)
	},
}
