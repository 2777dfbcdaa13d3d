// Package compiler runs the LaTeX engine over an assembled document.
package compiler

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrCompileFailed is returned when the engine exits non-zero and no PDF was produced.
	ErrCompileFailed = errors.New("LaTeX compilation failed")
	// ErrCompilerNotFound is returned when the engine executable cannot be located.
	ErrCompilerNotFound = errors.New("LaTeX compiler not found")
)

// DefaultAuxExtensions are removed next to the PDF after a clean build.
var DefaultAuxExtensions = []string{".aux", ".log", ".toc", ".out", ".nav", ".snm"}

const maxLineSize = 1 << 20

// Runner invokes the engine once per pass.
type Runner struct {
	Command string
	Passes  int
	// Timeout bounds all passes together; zero disables it.
	Timeout       time.Duration
	Cleanup       bool
	AuxExtensions []string

	Fs     afero.Fs
	Logger *slog.Logger
}

// Result describes a finished compilation.
type Result struct {
	PDFPath string
	Passes  int
	// Degraded is set when the engine exited non-zero but still wrote the PDF.
	Degraded bool
	Removed  []string
}

// Args returns the engine arguments for one pass.
func Args(texPath, pdfPath string) []string {
	base := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	return []string{
		"-interaction=nonstopmode",
		"-jobname=" + base,
		"-output-directory", filepath.Dir(pdfPath),
		texPath,
	}
}

func (r *Runner) defaults() {
	if r.Command == "" {
		r.Command = "xelatex"
	}
	if r.Passes < 1 {
		r.Passes = 1
	}
	if r.AuxExtensions == nil {
		r.AuxExtensions = DefaultAuxExtensions
	}
	if r.Fs == nil {
		r.Fs = afero.NewOsFs()
	}
	if r.Logger == nil {
		r.Logger = slog.Default()
	}
}

// Compile runs the configured number of passes over texPath, writing pdfPath.
func (r *Runner) Compile(ctx context.Context, texPath, pdfPath string) (*Result, error) {
	r.defaults()

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	r.Logger.Info("starting LaTeX compilation", "compiler", r.Command, "tex", texPath, "pdf", pdfPath)

	result := &Result{PDFPath: pdfPath}
	for pass := 1; pass <= r.Passes; pass++ {
		r.Logger.Info(fmt.Sprintf("compilation pass #%d", pass))

		exitCode, err := r.run(ctx, Args(texPath, pdfPath))
		if err != nil {
			return nil, err
		}
		result.Passes = pass

		if exitCode == 0 {
			continue
		}

		exists, statErr := afero.Exists(r.Fs, pdfPath)
		if statErr != nil {
			return nil, fmt.Errorf("failed to check output %s: %w", pdfPath, statErr)
		}
		if !exists {
			r.Logger.Error(fmt.Sprintf("%s exited with code %d", r.Command, exitCode), "pass", pass)
			return nil, fmt.Errorf("%w: %s exited with code %d on pass %d", ErrCompileFailed, r.Command, exitCode, pass)
		}
		r.Logger.Warn("compiler returned a non-zero exit code but the PDF was generated; check the compilation log",
			"exit_code", exitCode, "pass", pass)
		result.Degraded = true
	}

	r.Logger.Info("LaTeX compilation completed", "pdf", pdfPath)

	if r.Cleanup && !result.Degraded {
		result.Removed = r.cleanup(pdfPath)
	}
	return result, nil
}

// run executes one pass and returns the exit code. Errors are reserved for
// failures to start or wait for the process.
func (r *Runner) run(ctx context.Context, args []string) (int, error) {
	cmd := exec.CommandContext(ctx, r.Command, args...)
	cmd.Dir = filepath.Dir(args[len(args)-1])

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, fmt.Errorf("failed to attach compiler stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return 0, fmt.Errorf("failed to attach compiler stderr: %w", err)
	}

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s", ErrCompilerNotFound, r.Command)
		}
		return 0, fmt.Errorf("failed to start %s: %w", r.Command, err)
	}

	var g errgroup.Group
	g.Go(func() error { return pump(stdout, func(line string) { r.Logger.Debug(line) }) })
	g.Go(func() error { return pump(stderr, func(line string) { r.Logger.Error(line) }) })
	pumpErr := g.Wait()

	waitErr := cmd.Wait()
	if errors.Is(pumpErr, bufio.ErrTooLong) {
		r.Logger.Warn("compiler output line exceeds the line limit, remaining output was dropped", "limit", maxLineSize)
		pumpErr = nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return 0, fmt.Errorf("failed to compile with %s: %w", r.Command, ctxErr)
	}

	var exitErr *exec.ExitError
	switch {
	case errors.As(waitErr, &exitErr):
		return exitErr.ExitCode(), nil
	case waitErr != nil:
		return 0, fmt.Errorf("failed to wait for %s: %w", r.Command, waitErr)
	case pumpErr != nil:
		return 0, fmt.Errorf("failed to read output of %s: %w", r.Command, pumpErr)
	}
	return 0, nil
}

// pump forwards every line read from rd to emit until EOF. After a read
// error the rest of rd is discarded so the writer never blocks.
func pump(rd io.Reader, emit func(string)) error {
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		emit(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		_, _ = io.Copy(io.Discard, rd)
		return err
	}
	return nil
}

// cleanup removes auxiliary files produced next to pdfPath.
func (r *Runner) cleanup(pdfPath string) []string {
	dir := filepath.Dir(pdfPath)
	base := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))

	var removed []string
	for _, ext := range r.AuxExtensions {
		path := filepath.Join(dir, base+ext)
		exists, err := afero.Exists(r.Fs, path)
		if err != nil || !exists {
			continue
		}
		if err := r.Fs.Remove(path); err != nil {
			r.Logger.Warn("failed to delete auxiliary file", "path", path, "error", err)
			continue
		}
		r.Logger.Debug("deleted auxiliary file", "path", path)
		removed = append(removed, path)
	}
	return removed
}
