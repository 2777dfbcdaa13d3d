package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aiza-Lee/template-builder/internal/cli"
)

var (
	// Build command flags
	sourceDir        string
	outputPath       string
	buildConfigPath  string
	dryRun           bool
	keepIntermediate bool
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate the LaTeX document and compile it to PDF",
	Long: `Generate the LaTeX document for a source directory and compile it.

Folders become sections (up to five levels deep), files become headings
followed by their listing. Only file types listed in PROGRAM.include_file_types
are included.

Examples:
  template-builder build -s ./library -o ./out/library.pdf
  template-builder build -s ./library -o ./out/library.pdf -c ./config.json
  template-builder build -s ./library -o ./out/library.pdf --dry-run`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if sourceDir == "" {
			return errors.New("please specify the source directory with --source-files-folder")
		}
		if outputPath == "" {
			return errors.New("please specify the output file with --output")
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		_, err := cli.RunBuild(ctx, cli.BuildOptions{
			SourceDir:        sourceDir,
			OutputPath:       outputPath,
			ConfigPath:       buildConfigPath,
			Verbose:          verbose,
			DryRun:           dryRun,
			KeepIntermediate: keepIntermediate,
			Out:              cmd.OutOrStdout(),
		})
		return err
	},
}

func init() {
	// Build command specific flags
	buildCmd.Flags().StringVarP(&sourceDir, "source-files-folder", "s", "", "Directory containing the source files")
	buildCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path of the PDF to produce")
	buildCmd.Flags().StringVarP(&buildConfigPath, "config", "c", "", "Configuration file (defaults to the user config)")
	buildCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Write the LaTeX document without compiling it")
	buildCmd.Flags().BoolVar(&keepIntermediate, "keep-tex", false, "Keep the intermediate LaTeX document after compiling")
}
