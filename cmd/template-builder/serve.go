package main

import (
	"github.com/spf13/cobra"

	"github.com/Aiza-Lee/template-builder/internal/cli"
)

var (
	// Serve command flags
	serveDir        string
	serveBind       string
	servePort       int
	serveConfigPath string
)

// serveCmd represents the preview server command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve generated documents over HTTP",
	Long: `Serve the PDF, LaTeX and log files of an output directory over HTTP.

Bind address and port default to PROGRAM.preview.bind and PROGRAM.preview.port.

Examples:
  template-builder serve --dir ./out
  template-builder serve --dir ./out --bind 0.0.0.0 --port 9000`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunServe(cli.ServeOptions{
			Dir:        serveDir,
			Bind:       serveBind,
			Port:       servePort,
			ConfigPath: serveConfigPath,
			Verbose:    verbose,
			Version:    version,
			BuildTime:  buildTime,
			GitCommit:  gitCommit,
			Out:        cmd.OutOrStdout(),
		})
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveDir, "dir", ".", "Directory containing the generated documents")
	serveCmd.Flags().StringVar(&serveBind, "bind", "", "Address to bind to")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on")
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Configuration file (defaults to the user config)")
}
