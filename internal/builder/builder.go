// Package builder runs the whole pipeline: load configuration, render the
// source tree, fill the master template and compile the result to PDF.
package builder

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/Aiza-Lee/template-builder/internal/codeblock"
	"github.com/Aiza-Lee/template-builder/internal/compiler"
	"github.com/Aiza-Lee/template-builder/internal/config"
	"github.com/Aiza-Lee/template-builder/internal/git"
	"github.com/Aiza-Lee/template-builder/internal/logging"
	"github.com/Aiza-Lee/template-builder/internal/templates"
)

// BuildDateLayout formats the ##BUILD_DATE## placeholder.
const BuildDateLayout = "2006-01-02"

// Options holds everything one build needs.
type Options struct {
	SourceDir  string
	OutputPath string
	// ConfigPath is the user document; empty means embedded defaults only.
	ConfigPath       string
	Verbose          bool
	DryRun           bool
	KeepIntermediate bool

	Fs     afero.Fs
	Logger *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
	// Describe resolves the source revision; defaults to git.Describe.
	Describe func(path string, logger *slog.Logger) string
}

// Result summarises a finished build.
type Result struct {
	OutputPath       string
	IntermediatePath string
	Revision         string
	Generated        *codeblock.Result
	Document         *templates.Document
	// Compile is nil for dry runs.
	Compile *compiler.Result
}

// Builder runs builds for one set of options.
type Builder struct {
	opts   Options
	fs     afero.Fs
	logger *slog.Logger
}

// New creates a builder, filling unset collaborators with defaults.
func New(opts Options) *Builder {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default(opts.Verbose)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Describe == nil {
		opts.Describe = git.Describe
	}
	return &Builder{opts: opts, fs: opts.Fs, logger: opts.Logger}
}

// Build runs the pipeline once.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	b.logger.Info("build process started", "source", b.opts.SourceDir, "output", b.opts.OutputPath)

	if b.opts.SourceDir == "" {
		return nil, errors.New("source directory is required")
	}
	outputPath, err := b.prepareOutput(b.opts.OutputPath)
	if err != nil {
		return nil, err
	}
	result := &Result{OutputPath: outputPath}

	stores, err := config.Load(b.fs, b.opts.ConfigPath, b.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	settings, err := config.LoadSettings(stores.Program, stores.Document)
	if err != nil {
		return nil, err
	}

	mainTemplate, err := templates.LoadMain(b.fs, settings.MainTemplatePath)
	if err != nil {
		return nil, err
	}
	codeBlockTemplate, err := templates.LoadCodeBlock(b.fs, settings.CodeBlockTemplatePath)
	if err != nil {
		return nil, err
	}

	generator, err := codeblock.New(b.fs, codeblock.Options{
		SourceDir:         b.opts.SourceDir,
		IncludeFileTypes:  settings.IncludeFileTypes,
		ExcludePatterns:   settings.ExcludePatterns,
		TabSize:           settings.TabSize,
		CodeBlockTemplate: codeBlockTemplate,
	}, b.logger)
	if err != nil {
		return nil, err
	}
	result.Generated, err = generator.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate code blocks: %w", err)
	}
	b.logger.Debug("generated code blocks",
		"entries", len(result.Generated.Outcomes),
		"skipped", result.Generated.Count(codeblock.StatusSkipped),
		"warnings", result.Generated.Count(codeblock.StatusWarning))

	result.Revision = b.opts.Describe(b.opts.SourceDir, b.logger)
	extra := map[string]string{
		templates.SourceRevisionKey: result.Revision,
		templates.BuildDateKey:      b.opts.Now().Format(BuildDateLayout),
	}

	result.Document, err = templates.Assemble(mainTemplate, stores.Document.Entries(), extra, result.Generated.Markup)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble document: %w", err)
	}
	for _, key := range result.Document.Unresolved {
		b.logger.Warn("template placeholder has no value", "placeholder", templates.Placeholder(key))
	}
	b.logger.Debug("assembled document", "summary", result.Document.Describe())

	result.IntermediatePath = filepath.Join(filepath.Dir(outputPath), settings.IntermediateFileName)
	if err := afero.WriteFile(b.fs, result.IntermediatePath, []byte(result.Document.Text), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write intermediate file %s: %w", result.IntermediatePath, err)
	}
	b.logger.Debug("wrote intermediate file", "path", result.IntermediatePath)

	if b.opts.DryRun {
		b.logger.Info("dry run, skipping compilation", "tex", result.IntermediatePath)
		return result, nil
	}

	runner := &compiler.Runner{
		Command:       settings.CompilerCommand,
		Passes:        settings.CompilerPasses,
		Timeout:       settings.CompilerTimeout,
		Cleanup:       settings.CleanupEnabled,
		AuxExtensions: settings.CleanupExtensions,
		Fs:            b.fs,
		Logger:        b.logger,
	}
	result.Compile, err = runner.Compile(ctx, result.IntermediatePath, outputPath)
	if err != nil {
		b.logger.Info("intermediate file kept for inspection", "path", result.IntermediatePath)
		return nil, err
	}

	if !b.opts.KeepIntermediate {
		if err := b.fs.Remove(result.IntermediatePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			b.logger.Warn("failed to delete intermediate file", "path", result.IntermediatePath, "error", err)
		}
	}

	b.logger.Info("build finished", "pdf", outputPath)
	return result, nil
}

// prepareOutput forces a .pdf extension, makes the path absolute and creates
// the output directory when it is missing.
func (b *Builder) prepareOutput(path string) (string, error) {
	if path == "" {
		return "", errors.New("output path is required")
	}

	if ext := filepath.Ext(path); !strings.EqualFold(ext, ".pdf") {
		forced := strings.TrimSuffix(path, ext) + ".pdf"
		b.logger.Warn("output file does not have a .pdf extension", "path", path, "using", forced)
		path = forced
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output path %s: %w", path, err)
	}

	dir := filepath.Dir(abs)
	exists, err := afero.DirExists(b.fs, dir)
	if err != nil {
		return "", fmt.Errorf("failed to check output directory %s: %w", dir, err)
	}
	if !exists {
		if err := b.fs.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
		b.logger.Warn("output directory does not exist, created it", "path", dir)
	}
	return abs, nil
}
