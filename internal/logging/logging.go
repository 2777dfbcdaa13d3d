// Package logging configures the structured logger shared by every command.
// Records are written through log/slog and rendered on the console by
// charmbracelet/log.
package logging

import (
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
)

// Options controls how console output is rendered
type Options struct {
	// Verbose enables debug-level records
	Verbose bool
	// Prefix is printed before every record (usually the program name)
	Prefix string
	// Timestamps adds the wall-clock time to every record
	Timestamps bool
}

// New creates a console logger writing to w.
func New(w io.Writer, opts Options) *slog.Logger {
	level := charmlog.InfoLevel
	if opts.Verbose {
		level = charmlog.DebugLevel
	}

	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           level,
		Prefix:          opts.Prefix,
		ReportTimestamp: opts.Timestamps,
		TimeFormat:      "15:04:05",
	})

	return slog.New(handler)
}

// Default creates a stderr console logger for the given verbosity.
func Default(verbose bool) *slog.Logger {
	return New(os.Stderr, Options{Verbose: verbose, Prefix: "template-builder"})
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
