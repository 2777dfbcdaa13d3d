package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/Aiza-Lee/template-builder/internal/builder"
	"github.com/Aiza-Lee/template-builder/internal/config"
	"github.com/Aiza-Lee/template-builder/internal/logging"
)

// BuildOptions holds configuration for the build command
type BuildOptions struct {
	SourceDir        string
	OutputPath       string
	ConfigPath       string
	Verbose          bool
	DryRun           bool
	KeepIntermediate bool

	// UserConfigPath overrides the per-user config location; used by tests.
	UserConfigPath string
	Fs             afero.Fs
	Logger         *slog.Logger
	Out            io.Writer
}

func (o *BuildOptions) defaults() {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.Logger == nil {
		o.Logger = logging.Default(o.Verbose)
	}
	if o.Out == nil {
		o.Out = io.Discard
	}
}

// RunBuild resolves the configuration document and runs one build
func RunBuild(ctx context.Context, opts BuildOptions) (*builder.Result, error) {
	opts.defaults()

	configPath, err := resolveConfigPath(opts.Fs, opts.ConfigPath, opts.UserConfigPath, opts.Logger)
	if err != nil {
		return nil, err
	}

	b := builder.New(builder.Options{
		SourceDir:        opts.SourceDir,
		OutputPath:       opts.OutputPath,
		ConfigPath:       configPath,
		Verbose:          opts.Verbose,
		DryRun:           opts.DryRun,
		KeepIntermediate: opts.KeepIntermediate,
		Fs:               opts.Fs,
		Logger:           opts.Logger,
	})

	result, err := b.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("build failed: %w", err)
	}

	if opts.DryRun {
		fmt.Fprintf(opts.Out, "🔍 Dry run - LaTeX written to %s\n", result.IntermediatePath)
	} else {
		fmt.Fprintf(opts.Out, "🎉 Successfully built %s\n", result.OutputPath)
	}
	return result, nil
}

// resolveConfigPath returns the document a build reads. An explicit path that
// does not exist falls back to the per-user document, which is seeded with the
// defaults on first use.
func resolveConfigPath(fsys afero.Fs, explicit, userPath string, logger *slog.Logger) (string, error) {
	if explicit != "" {
		_, err := fsys.Stat(explicit)
		if err == nil {
			return explicit, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to stat config file %s: %w", explicit, err)
		}
		logger.Warn("config file not found, falling back to the user config", "path", explicit)
	}

	if userPath == "" {
		var err error
		if userPath, err = config.UserConfigPath(); err != nil {
			return "", err
		}
	}
	if _, err := config.EnsureUserConfig(fsys, userPath, logger); err != nil {
		return "", err
	}
	return userPath, nil
}
