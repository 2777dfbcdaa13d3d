package main

import (
	"github.com/spf13/cobra"

	"github.com/Aiza-Lee/template-builder/internal/cli"
)

var (
	// Validate command flags
	validateConfigPath string
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a configuration file for problems",
	Long: `Check a configuration file for problems before building.

This command checks for:
- Malformed JSON or YAML
- Keys that are not part of the default configuration
- Invalid build settings (compiler passes, file extensions, port)
- Template files that do not exist

Examples:
  template-builder validate
  template-builder validate --config ./config.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := cli.RunValidate(cli.ValidateOptions{
			ConfigPath: validateConfigPath,
			Verbose:    verbose,
			Out:        cmd.OutOrStdout(),
		})
		return err
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateConfigPath, "config", "c", "", "Configuration file (defaults to the user config)")
}
