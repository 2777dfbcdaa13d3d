package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Format is the syntax of a user configuration document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatForPath picks the document format from the file extension.
// Anything other than .yaml/.yml is read as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Apply parses content in the given format on top of the store's defaults.
func (s *Store) Apply(content string, format Format) (*ParseResult, error) {
	if format == FormatYAML {
		return s.ParseConfigYAML(content)
	}
	return s.ParseConfigFile(content)
}

// Stores bundles the document-scoped and program-scoped stores of one run.
type Stores struct {
	Document *Store
	Program  *Store
}

// Load builds both stores from the embedded defaults and applies the user
// document at path, if any. Problems inside the document are logged by the
// stores and leave the defaults in effect; only a failure to read the file is
// returned.
func Load(fsys afero.Fs, path string, logger *slog.Logger) (*Stores, error) {
	if logger == nil {
		logger = slog.Default()
	}

	document, err := New(RootDocument, logger)
	if err != nil {
		return nil, err
	}
	program, err := New(RootProgram, logger)
	if err != nil {
		return nil, err
	}
	stores := &Stores{Document: document, Program: program}

	if path == "" {
		logger.Debug("no config file given, using defaults")
		return stores, nil
	}

	raw, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	content, err := DecodeDocument(raw)
	if err != nil {
		logger.Error("failed to decode config file, using defaults", "path", path, "error", err)
		return stores, nil
	}

	format := FormatForPath(path)
	for _, store := range []*Store{document, program} {
		result, err := store.Apply(content, format)
		if err != nil {
			// Already logged by the store; defaults stay in effect.
			continue
		}
		logger.Debug("applied config document",
			"path", path,
			"root", store.Root(),
			"applied", len(result.Applied),
			"rejected", len(result.Rejected))
	}

	return stores, nil
}
