package codeblock

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aiza-Lee/template-builder/internal/logging"
)

// writeTree creates files (and their parent directories) in a fresh in-memory fs.
func writeTree(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		if strings.HasSuffix(path, "/") {
			require.NoError(t, fs.MkdirAll(path, 0o755))
			continue
		}
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return fs
}

func generate(t *testing.T, fs afero.Fs, opts Options) (*Result, *logging.Recorder) {
	t.Helper()
	rec := logging.NewRecorder()
	if opts.SourceDir == "" {
		opts.SourceDir = "/src"
	}
	if opts.TabSize == 0 {
		opts.TabSize = 4
	}
	g, err := New(fs, opts, rec.Logger())
	require.NoError(t, err)
	result, err := g.Generate()
	require.NoError(t, err)
	return result, rec
}

func TestGenerate_OrderingAndFiltering(t *testing.T) {
	fs := writeTree(t, map[string]string{
		"/src/Alpha_Folder/a_file.txt": "a",
		"/src/Alpha_Folder/z_file.txt": "z",
		"/src/zeta-folder/":            "",
		"/src/Alpha.txt":               "alpha",
		"/src/zeta.txt":                "zeta",
		"/src/notes.md":                "notes",
	})

	result, rec := generate(t, fs, Options{IncludeFileTypes: []string{".txt"}})
	out := result.Markup

	for _, want := range []string{
		`\section{Alpha\_Folder}`,
		`\section{zeta-folder}`,
		`\section{Alpha.txt}`,
		`\section{zeta.txt}`,
		`\subsection{a\_file.txt}`,
		`\subsection{z\_file.txt}`,
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "notes")

	alphaDir := strings.Index(out, `\section{Alpha\_Folder}`)
	zetaDir := strings.Index(out, `\section{zeta-folder}`)
	alphaFile := strings.Index(out, `\section{Alpha.txt}`)
	zetaFile := strings.Index(out, `\section{zeta.txt}`)
	assert.Less(t, alphaDir, zetaDir, "directories sort case-insensitively")
	assert.Less(t, alphaFile, zetaFile, "files sort case-insensitively")
	assert.Less(t, zetaDir, alphaFile, "directories come before files")

	assert.Equal(t, 1, rec.Count(slog.LevelWarn, "/src/notes.md"))
	assert.Equal(t, 1, result.Count(StatusSkipped))
}

func TestGenerate_SingleFileMarkup(t *testing.T) {
	fs := writeTree(t, map[string]string{
		"/src/main.go": "package main\n\tfunc main() {}\n",
	})

	result, rec := generate(t, fs, Options{IncludeFileTypes: []string{".go"}})

	expected := "\\section{main.go}\n" +
		"\\begin{minted}{go}\n" +
		"package main\n" +
		"    func main() {}\n" +
		"\\end{minted}\n"
	assert.Equal(t, expected, result.Markup)
	assert.Zero(t, rec.Count(slog.LevelWarn, ""))
	require.Len(t, result.Outcomes, 1)
	assert.Equal(t, Outcome{Path: "/src/main.go", Status: StatusOK}, result.Outcomes[0])
}

func TestGenerate_MarkupInsertedVerbatim(t *testing.T) {
	fs := writeTree(t, map[string]string{
		"/src/intro.tex": "\\textit{hand\twritten}",
	})

	result, _ := generate(t, fs, Options{IncludeFileTypes: []string{".tex"}})
	assert.Equal(t, "\\section{intro.tex}\n\\textit{hand\twritten}\n", result.Markup)
	assert.NotContains(t, result.Markup, "minted")
}

func TestGenerate_MissingSourceDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()

	result, rec := generate(t, fs, Options{SourceDir: "/does/not/exist", IncludeFileTypes: []string{".go"}})
	assert.Equal(t, "", result.Markup)

	exists, err := afero.DirExists(fs, "/does/not/exist")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, 1, rec.Count(slog.LevelWarn, "/does/not/exist"))
	require.Len(t, result.Outcomes, 1)
	assert.Equal(t, ReasonSourceCreated, result.Outcomes[0].Reason)
}

func TestGenerate_SourceIsFile(t *testing.T) {
	fs := writeTree(t, map[string]string{"/src": "not a dir"})

	g, err := New(fs, Options{SourceDir: "/src"}, logging.Discard())
	require.NoError(t, err)
	_, err = g.Generate()
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestGenerate_UnknownExtensionWarnedOnce(t *testing.T) {
	fs := writeTree(t, map[string]string{
		"/src/a.xyz":     "1",
		"/src/b.xyz":     "2",
		"/src/sub/c.xyz": "3",
	})

	result, rec := generate(t, fs, Options{IncludeFileTypes: []string{".xyz"}})

	assert.Equal(t, 3, strings.Count(result.Markup, `\begin{minted}{text}`))
	assert.Equal(t, 1, rec.Count(slog.LevelWarn, "xyz"))
	assert.Equal(t, 3, result.Count(StatusWarning))
}

func TestGenerate_DepthCap(t *testing.T) {
	fs := writeTree(t, map[string]string{
		"/src/l1/l2/l3/l4/l5/deep.txt": "deep",
		"/src/l1/l2/l3/l4/shallow.txt": "shallow",
	})

	result, rec := generate(t, fs, Options{IncludeFileTypes: []string{".txt"}})
	out := result.Markup

	assert.Contains(t, out, "\\section{l1}\n")
	assert.Contains(t, out, "\\subsection{l2}\n")
	assert.Contains(t, out, "\\subsubsection{l3}\n\\paragraph{l4}")
	assert.Contains(t, out, "\\paragraph{l4}\n\\textbf{ } \\\\\n")
	assert.Contains(t, out, "\\subparagraph{l5}\n\\textbf{ } \\\\\n")
	assert.Contains(t, out, "\\subparagraph{shallow.txt}\n\\textbf{ } \\\\\n")
	assert.NotContains(t, out, "deep")

	warnings := rec.Filter(slog.LevelWarn, "nesting")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].String(), "/src/l1/l2/l3/l4/l5")
}

func TestGenerate_ExcludePatterns(t *testing.T) {
	fs := writeTree(t, map[string]string{
		"/src/.git/config.txt": "x",
		"/src/app.min.js":      "x",
		"/src/app.js":          "y",
	})

	result, rec := generate(t, fs, Options{
		IncludeFileTypes: []string{".js", ".txt"},
		ExcludePatterns:  []string{".git", "*.min.js"},
	})

	assert.NotContains(t, result.Markup, ".git")
	assert.NotContains(t, result.Markup, "app.min.js")
	assert.Contains(t, result.Markup, `\section{app.js}`)
	assert.Equal(t, 2, result.Count(StatusSkipped))
	assert.Zero(t, rec.Count(slog.LevelWarn, ""))
}

func TestGenerate_InvalidExcludePattern(t *testing.T) {
	_, err := New(afero.NewMemMapFs(), Options{SourceDir: "/src", ExcludePatterns: []string{"[x"}}, logging.Discard())
	assert.Error(t, err)
}

func TestGenerate_CaseFoldedSortWithTieBreak(t *testing.T) {
	fs := writeTree(t, map[string]string{
		"/src/b.txt": "",
		"/src/a.txt": "",
		"/src/A.txt": "",
		"/src/C.txt": "",
	})

	result, _ := generate(t, fs, Options{IncludeFileTypes: []string{".txt"}})

	var order []string
	for _, o := range result.Outcomes {
		order = append(order, o.Path)
	}
	assert.Equal(t, []string{"/src/A.txt", "/src/a.txt", "/src/b.txt", "/src/C.txt"}, order)
}

func TestGenerate_IncludeListIsCaseInsensitive(t *testing.T) {
	fs := writeTree(t, map[string]string{"/src/Main.CPP": "int main() {}"})

	result, _ := generate(t, fs, Options{IncludeFileTypes: []string{".cpp"}})
	assert.Contains(t, result.Markup, `\begin{minted}{cpp}`)
}

func TestGenerate_Encodings(t *testing.T) {
	t.Run("utf8 bom stripped", func(t *testing.T) {
		fs := writeTree(t, map[string]string{"/src/a.py": "\xef\xbb\xbfprint(1)"})
		result, _ := generate(t, fs, Options{IncludeFileTypes: []string{".py"}})
		assert.Contains(t, result.Markup, "{python}\nprint(1)\n")
	})

	t.Run("utf16 with bom decoded", func(t *testing.T) {
		// "hi" in UTF-16LE with BOM
		fs := writeTree(t, map[string]string{"/src/a.py": "\xff\xfeh\x00i\x00"})
		result, _ := generate(t, fs, Options{IncludeFileTypes: []string{".py"}})
		assert.Contains(t, result.Markup, "{python}\nhi\n")
	})

	t.Run("invalid utf8 is fatal", func(t *testing.T) {
		fs := writeTree(t, map[string]string{"/src/a.py": "bad \xff\xfe\xfd bytes"})
		g, err := New(fs, Options{SourceDir: "/src", IncludeFileTypes: []string{".py"}}, logging.Discard())
		require.NoError(t, err)
		_, err = g.Generate()
		assert.ErrorIs(t, err, ErrInvalidEncoding)
		assert.Contains(t, err.Error(), "/src/a.py")
	})
}

func TestGenerate_CustomCodeBlockTemplate(t *testing.T) {
	fs := writeTree(t, map[string]string{"/src/x.json": `{"k": 1}`})

	result, _ := generate(t, fs, Options{
		IncludeFileTypes:  []string{".json"},
		CodeBlockTemplate: "<<##LANGUAGE##>>##CODE##<</>>",
	})
	assert.Equal(t, "\\section{x.json}\n<<json>>{\"k\": 1}<</>>\n", result.Markup)
}
