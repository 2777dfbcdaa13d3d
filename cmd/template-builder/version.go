package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/Aiza-Lee/template-builder/internal/languages"
)

// Version subcommand
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "template-builder version %s\n", version)

		if verbose {
			fmt.Fprintf(out, "  Build time: %s\n", buildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", gitCommit)
			fmt.Fprintf(out, "  Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "  Language table: v%d\n", languages.Version)
		}
	},
}
