package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"

	"github.com/Aiza-Lee/template-builder/internal/config"
	"github.com/Aiza-Lee/template-builder/internal/logging"
	"github.com/Aiza-Lee/template-builder/internal/preview"
)

// ServeOptions holds configuration for the serve command. Bind and Port fall
// back to the PROGRAM preview settings when left empty.
type ServeOptions struct {
	Dir        string
	Bind       string
	Port       int
	ConfigPath string
	Verbose    bool
	Version    string
	BuildTime  string
	GitCommit  string

	Out io.Writer
}

// RunServe starts the preview server and blocks until interrupted
func RunServe(opts ServeOptions) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return Serve(ctx, opts)
}

// Serve runs the preview server until ctx is cancelled
func Serve(ctx context.Context, opts ServeOptions) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	fsys := afero.NewOsFs()
	logger := logging.Default(opts.Verbose)

	if opts.Bind == "" || opts.Port == 0 {
		bind, port, err := previewDefaults(fsys, opts.ConfigPath)
		if err != nil {
			return err
		}
		if opts.Bind == "" {
			opts.Bind = bind
		}
		if opts.Port == 0 {
			opts.Port = port
		}
	}

	server, err := preview.NewServer(preview.ServerConfig{
		Dir:       opts.Dir,
		Bind:      opts.Bind,
		Port:      opts.Port,
		Version:   opts.Version,
		GitCommit: opts.GitCommit,
		BuildTime: opts.BuildTime,
		Fs:        fsys,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	fmt.Fprintf(opts.Out, "Serving %s on http://%s\n", opts.Dir, server.Addr())
	fmt.Fprintf(opts.Out, "\nEndpoints:\n")
	fmt.Fprintf(opts.Out, "  GET  /api/v1/health          - Health check\n")
	fmt.Fprintf(opts.Out, "  GET  /api/v1/version         - Version information\n")
	fmt.Fprintf(opts.Out, "  GET  /api/v1/documents       - List generated documents\n")
	fmt.Fprintf(opts.Out, "  GET  /documents/{name}       - Download a document\n")
	fmt.Fprintf(opts.Out, "\n")

	if err := server.StartWithContext(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	fmt.Fprintln(opts.Out, "Server shutdown complete")
	return nil
}

// previewDefaults reads preview.bind and preview.port from the PROGRAM store.
func previewDefaults(fsys afero.Fs, configPath string) (string, int, error) {
	path := configPath
	if path == "" {
		var err error
		if path, err = config.UserConfigPath(); err != nil {
			return "", 0, err
		}
	}
	if exists, _ := afero.Exists(fsys, path); !exists {
		path = ""
	}

	stores, err := config.Load(fsys, path, logging.Discard())
	if err != nil {
		return "", 0, err
	}
	port, err := stores.Program.Int("preview.port")
	if err != nil {
		return "", 0, err
	}
	return stores.Program.String("preview.bind"), port, nil
}
