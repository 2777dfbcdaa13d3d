// Package codeblock turns a source directory tree into LaTeX: directories
// become headings, included files become headings followed by a minted code
// block or, for LaTeX sources, their raw content.
package codeblock

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/cases"

	"github.com/Aiza-Lee/template-builder/internal/languages"
	"github.com/Aiza-Lee/template-builder/internal/templates"
)

// MaxDepth is the number of nesting levels that get headings.
const MaxDepth = 5

// HeadingKinds are the sectioning commands used for each nesting depth.
var HeadingKinds = [MaxDepth]string{"section", "subsection", "subsubsection", "paragraph", "subparagraph"}

// inlineHeadingDepth is the first depth whose heading renders inline.
const inlineHeadingDepth = 3

// ErrNotDirectory is returned when the source path exists but is a file.
var ErrNotDirectory = errors.New("source path is not a directory")

// Options configures a Generator.
type Options struct {
	SourceDir        string
	IncludeFileTypes []string
	ExcludePatterns  []string
	TabSize          int
	// CodeBlockTemplate defaults to the embedded minted template.
	CodeBlockTemplate string
	// Languages defaults to languages.Default().
	Languages *languages.Table
}

// Generator walks one source directory. It is not safe for concurrent use.
type Generator struct {
	fs       afero.Fs
	opts     Options
	logger   *slog.Logger
	include  map[string]bool
	excluder *excluder
	// warned holds extensions already reported as unmapped.
	warned map[string]bool
}

// New creates a generator reading from fsys.
func New(fsys afero.Fs, opts Options, logger *slog.Logger) (*Generator, error) {
	if opts.SourceDir == "" {
		return nil, errors.New("source directory is required")
	}
	if opts.CodeBlockTemplate == "" {
		opts.CodeBlockTemplate = templates.DefaultCodeBlock()
	}
	if opts.Languages == nil {
		opts.Languages = languages.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	ex, err := newExcluder(opts.ExcludePatterns)
	if err != nil {
		return nil, err
	}

	include := make(map[string]bool, len(opts.IncludeFileTypes))
	for _, ext := range opts.IncludeFileTypes {
		include[strings.ToLower(strings.TrimSpace(ext))] = true
	}

	return &Generator{
		fs:       fsys,
		opts:     opts,
		logger:   logger,
		include:  include,
		excluder: ex,
		warned:   make(map[string]bool),
	}, nil
}

// Generate renders the source tree. A missing source directory is created and
// yields empty markup.
func (g *Generator) Generate() (*Result, error) {
	root := g.opts.SourceDir
	result := &Result{}

	info, err := g.fs.Stat(root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := g.fs.MkdirAll(root, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create source directory %s: %w", root, err)
		}
		g.logger.Warn("source directory does not exist, created it; add source files and rebuild", "path", root)
		result.Outcomes = append(result.Outcomes, Outcome{Path: root, Status: StatusWarning, Reason: ReasonSourceCreated})
		return result, nil
	case err != nil:
		return nil, fmt.Errorf("failed to stat source directory %s: %w", root, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	w := &walker{Generator: g, folder: cases.Fold(), result: result}
	fragments, err := w.directory(root, 0)
	if err != nil {
		return nil, err
	}
	result.Markup = strings.Join(fragments, "")
	return result, nil
}

// walker carries the state of one Generate call.
type walker struct {
	*Generator
	folder cases.Caser
	result *Result
}

func (w *walker) record(path string, status Status, reason string) {
	w.result.Outcomes = append(w.result.Outcomes, Outcome{Path: path, Status: status, Reason: reason})
}

// directory returns the fragments for everything below dir.
func (w *walker) directory(dir string, depth int) ([]string, error) {
	if depth >= MaxDepth {
		w.logger.Warn("directory nesting exceeds supported depth, skipping deeper levels", "path", dir, "depth", depth)
		w.record(dir, StatusWarning, ReasonDepthExceeded)
		return nil, nil
	}

	dirs, files, err := w.list(dir)
	if err != nil {
		return nil, err
	}

	var fragments []string
	for _, sub := range dirs {
		path := filepath.Join(dir, sub.Name())
		fragments = append(fragments, heading(sub.Name(), depth))
		w.record(path, StatusOK, "")

		children, err := w.directory(path, depth+1)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, children...)
	}

	for _, file := range files {
		fragment, err := w.file(filepath.Join(dir, file.Name()), file.Name(), depth)
		if err != nil {
			return nil, err
		}
		if fragment != "" {
			fragments = append(fragments, fragment)
		}
	}
	return fragments, nil
}

// list reads dir and returns its subdirectories and files, each sorted by
// case-folded name, excluded entries removed.
func (w *walker) list(dir string) ([]os.FileInfo, []os.FileInfo, error) {
	entries, err := afero.ReadDir(w.fs, dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var dirs, files []os.FileInfo
	for _, entry := range entries {
		if pattern, ok := w.excluder.match(entry.Name()); ok {
			path := filepath.Join(dir, entry.Name())
			w.logger.Debug("entry matches exclude pattern, skipping", "path", path, "pattern", pattern)
			w.record(path, StatusSkipped, ReasonExcluded)
			continue
		}
		if entry.IsDir() {
			dirs = append(dirs, entry)
		} else {
			files = append(files, entry)
		}
	}

	w.sortByName(dirs)
	w.sortByName(files)
	return dirs, files, nil
}

func (w *walker) sortByName(entries []os.FileInfo) {
	keys := make(map[string]string, len(entries))
	for _, e := range entries {
		keys[e.Name()] = w.folder.String(e.Name())
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Name(), entries[j].Name()
		if keys[a] != keys[b] {
			return keys[a] < keys[b]
		}
		return a < b
	})
}

// file returns the heading and block for one file, or "" when it is skipped.
func (w *walker) file(path, name string, depth int) (string, error) {
	ext := languages.Normalize(filepath.Ext(name))
	if !w.include["."+ext] {
		w.logger.Warn("file type is not in the include list, skipping", "extension", ext, "path", path)
		w.record(path, StatusSkipped, ReasonNotIncluded)
		return "", nil
	}

	raw, err := afero.ReadFile(w.fs, path)
	if err != nil {
		return "", fmt.Errorf("failed to read source file %s: %w", path, err)
	}
	content, err := decodeText(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode source file %s: %w", path, err)
	}

	lang, known := w.opts.Languages.Lookup(ext)
	status, reason := StatusOK, ""
	if !known {
		if !w.warned[ext] {
			w.warned[ext] = true
			w.logger.Warn("no language mapping for file type, using plain text", "extension", ext, "path", path, "language", lang.Lexer)
		}
		status, reason = StatusWarning, ReasonUnknownLanguage
	}
	w.record(path, status, reason)

	var block string
	if lang.Kind == languages.KindMarkup {
		// Markup is inserted as written, tabs included.
		block = content
	} else {
		code := strings.TrimRight(ExpandTabs(content, w.opts.TabSize), "\r\n")
		block = templates.CodeBlock(w.opts.CodeBlockTemplate, lang.Lexer, code)
	}

	return heading(name, depth) + block + "\n", nil
}

// heading renders the sectioning command for depth. Inline headings are
// followed by an empty bold line so the content starts on its own line.
func heading(text string, depth int) string {
	line := fmt.Sprintf("\\%s{%s}\n", HeadingKinds[depth], EscapeHeading(text))
	if depth >= inlineHeadingDepth {
		line += "\\textbf{ } \\\\\n"
	}
	return line
}
