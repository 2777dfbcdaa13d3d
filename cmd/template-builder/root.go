package main

import (
	"github.com/spf13/cobra"

	"github.com/Aiza-Lee/template-builder/internal/cli"
)

var (
	// Global flags (available to all commands)
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "template-builder",
	Short: "Compile a directory of source files into a printable PDF code library",
	Long: `template-builder walks a directory of source files and turns it into a
LaTeX document: every folder becomes a section, every file a heading followed
by a syntax highlighted listing. The document is then compiled with xelatex.

Document settings (fonts, layout, title) live under the TEX object of the
configuration file, build settings under PROGRAM. Every flag can also be set
through a TEMPLATE_BUILDER_<FLAG> environment variable.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return cli.BindEnv(cmd)
	},
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	// Add subcommands to root
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}
