package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aiza-Lee/template-builder/internal/logging"
)

const testDefaults = `{
  "TEX": {
    "author": "Aiza",
    "global": {"main_font": "Times New Roman"},
    "code": {"tab_size": 4, "font_family": "DejaVu Sans Mono", "auto_break_lines": true},
    "title": {"content": "Template Library"}
  },
  "PROGRAM": {
    "include_file_types": [".cpp", ".py", ".json"]
  }
}`

func newTestStore(t *testing.T, root string) (*Store, *logging.Recorder) {
	t.Helper()
	rec := logging.NewRecorder()
	store, err := NewStore(root, []byte(testDefaults), rec.Logger())
	require.NoError(t, err)
	return store, rec
}

func TestNewStore_RegistersDefaults(t *testing.T) {
	store, _ := newTestStore(t, RootDocument)

	assert.Equal(t, "Aiza", store.String("AUTHOR"))
	assert.Equal(t, "Times New Roman", store.String("GLOBAL_MAIN_FONT"))
	assert.Equal(t, "4", store.String("CODE_TAB_SIZE"))
	assert.Equal(t, "DejaVu Sans Mono", store.String("CODE_FONT_FAMILY"))
	assert.Equal(t, "true", store.String("CODE_AUTO_BREAK_LINES"))
	assert.Equal(t, "Template Library", store.String("TITLE_CONTENT"))

	assert.Equal(t, []string{
		"AUTHOR",
		"GLOBAL_MAIN_FONT",
		"CODE_TAB_SIZE",
		"CODE_FONT_FAMILY",
		"CODE_AUTO_BREAK_LINES",
		"TITLE_CONTENT",
	}, store.Keys())
}

func TestNewStore_RootMismatchInDefaults(t *testing.T) {
	_, err := NewStore("MISSING", []byte(testDefaults), logging.Discard())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRootNotFound)
}

func TestNew_EmbeddedDefaults(t *testing.T) {
	document, err := New(RootDocument, logging.Discard())
	require.NoError(t, err)
	program, err := New(RootProgram, logging.Discard())
	require.NoError(t, err)

	assert.Equal(t, "Aiza", document.String("author"))
	n, err := document.Int("code.tab_size")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	assert.Contains(t, program.Strings("include_file_types"), ".py")
	assert.Equal(t, "mid-output.tex", program.String("intermediate_file_name"))
	assert.Equal(t, "xelatex", program.String("compiler.command"))
}

func TestCanonicalKey(t *testing.T) {
	cases := map[string]string{
		"code.tab_size":   "CODE_TAB_SIZE",
		"CODE_TAB_SIZE":   "CODE_TAB_SIZE",
		" Code.Tab_Size ": "CODE_TAB_SIZE",
		"author":          "AUTHOR",
	}
	for in, want := range cases {
		assert.Equal(t, want, CanonicalKey(in), in)
	}
}

func TestParseConfigFile_OverridesOnlyGivenKeys(t *testing.T) {
	store, rec := newTestStore(t, RootDocument)

	result, err := store.ParseConfigFile(`{"TEX": {"code": {"auto_break_lines": false}}}`)
	require.NoError(t, err)

	assert.Equal(t, []string{"CODE_AUTO_BREAK_LINES"}, result.Applied)
	assert.Empty(t, result.Rejected)
	assert.Equal(t, "false", store.String("CODE_AUTO_BREAK_LINES"))
	assert.Equal(t, "4", store.String("CODE_TAB_SIZE"))
	assert.Equal(t, "Aiza", store.String("AUTHOR"))
	assert.Zero(t, rec.Count(slog.LevelError, ""))
	assert.Zero(t, rec.Count(slog.LevelWarn, ""))
}

func TestParseConfigFile_RootMismatch(t *testing.T) {
	store, rec := newTestStore(t, RootDocument)

	_, err := store.ParseConfigFile(`{"PROGRAM": {"include_file_types": [".go"]}}`)
	require.ErrorIs(t, err, ErrRootNotFound)

	errs := rec.Filter(slog.LevelError, "")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "TEX")
	assert.Equal(t, "Aiza", store.String("AUTHOR"))
}

func TestParseConfigFile_EmptyDocument(t *testing.T) {
	for _, content := range []string{"", "   \n\t"} {
		store, rec := newTestStore(t, RootDocument)

		result, err := store.ParseConfigFile(content)
		require.ErrorIs(t, err, ErrEmptyDocument)
		assert.Empty(t, result.Applied)
		assert.Equal(t, 1, rec.Count(slog.LevelError, "empty"))
		assert.Equal(t, "4", store.String("CODE_TAB_SIZE"))
	}
}

func TestParseConfigFile_Malformed(t *testing.T) {
	store, rec := newTestStore(t, RootDocument)

	_, err := store.ParseConfigFile(`{"TEX": {"author": }`)
	require.ErrorIs(t, err, ErrMalformedDocument)
	assert.Equal(t, 1, rec.Count(slog.LevelError, ""))

	_, err = store.ParseConfigFile(`{"TEX": "not an object"}`)
	require.ErrorIs(t, err, ErrMalformedDocument)
}

func TestParseConfigFile_UnregisteredKeyRejected(t *testing.T) {
	store, rec := newTestStore(t, RootDocument)

	result, err := store.ParseConfigFile(`{"TEX": {"author": "Someone", "nonexistent": {"key": 1}}}`)
	require.NoError(t, err)

	assert.Equal(t, []string{"AUTHOR"}, result.Applied)
	assert.Equal(t, []string{"NONEXISTENT_KEY"}, result.Rejected)
	assert.Equal(t, 1, rec.Count(slog.LevelWarn, "NONEXISTENT_KEY"))
	assert.False(t, store.Has("nonexistent.key"))
	assert.Equal(t, "Someone", store.String("author"))
}

func TestParseConfigYAML_OverridesLikeJSON(t *testing.T) {
	store, rec := newTestStore(t, RootDocument)

	result, err := store.ParseConfigYAML(`
TEX:
  author: Someone Else
  code:
    tab_size: 8
    auto_break_lines: false
`)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"AUTHOR", "CODE_TAB_SIZE", "CODE_AUTO_BREAK_LINES"}, result.Applied)

	n, err := store.Int("code.tab_size")
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	b, err := store.Bool("code.auto_break_lines")
	require.NoError(t, err)
	assert.False(t, b)

	assert.Equal(t, "Someone Else", store.String("AUTHOR"))
	assert.Zero(t, rec.Count(slog.LevelError, ""))
}

func TestParseConfigYAML_Arrays(t *testing.T) {
	store, _ := newTestStore(t, RootProgram)

	_, err := store.ParseConfigYAML("PROGRAM:\n  include_file_types: [.go, .rs]\n")
	require.NoError(t, err)
	assert.Equal(t, []string{".go", ".rs"}, store.Strings("include_file_types"))
	assert.Equal(t, `[".go",".rs"]`, store.String("include_file_types"))
}

func TestParseConfigYAML_RootMismatch(t *testing.T) {
	store, rec := newTestStore(t, RootProgram)

	_, err := store.ParseConfigYAML("TEX:\n  author: x\n")
	require.ErrorIs(t, err, ErrRootNotFound)
	assert.Equal(t, 1, rec.Count(slog.LevelError, "PROGRAM"))
}

func TestGet_UnregisteredKey(t *testing.T) {
	store, rec := newTestStore(t, RootDocument)

	v := store.Get("does.not.exist")
	assert.True(t, v.IsZero())
	assert.Equal(t, "", v.String())
	assert.Empty(t, v.Strings())
	assert.Equal(t, 1, rec.Count(slog.LevelError, "DOES_NOT_EXIST"))

	_, err := store.Int("does.not.exist")
	assert.ErrorIs(t, err, ErrCoercion)
}

func TestStore_ArrayValues(t *testing.T) {
	store, _ := newTestStore(t, RootProgram)

	assert.Equal(t, []string{".cpp", ".py", ".json"}, store.Strings("include_file_types"))
	assert.Equal(t, `[".cpp",".py",".json"]`, store.String("include_file_types"))
	assert.Equal(t, KindArray, store.Get("include_file_types").Kind())
}

func TestStore_PathAndDefault(t *testing.T) {
	store, _ := newTestStore(t, RootDocument)

	path, ok := store.Path("CODE_TAB_SIZE")
	require.True(t, ok)
	assert.Equal(t, "code.tab_size", path)

	_, ok = store.Path("missing")
	assert.False(t, ok)

	_, err := store.ParseConfigFile(`{"TEX": {"author": "Other"}}`)
	require.NoError(t, err)
	assert.Equal(t, "Aiza", store.Default("author").String())
	assert.Equal(t, "Other", store.String("author"))
}

func TestStore_DuplicateRegistrationFirstWins(t *testing.T) {
	rec := logging.NewRecorder()
	store, err := NewStore(RootDocument, []byte(`{"TEX": {"code": {"size": "a"}, "code_size": "b"}}`), rec.Logger())
	require.NoError(t, err)

	assert.Equal(t, "a", store.String("CODE_SIZE"))
	assert.Equal(t, 1, rec.Count(slog.LevelWarn, "already registered"))
	assert.Equal(t, []string{"CODE_SIZE"}, store.Keys())
}

func TestStore_EntriesInRegistrationOrder(t *testing.T) {
	store, _ := newTestStore(t, RootDocument)
	_, err := store.ParseConfigFile(`{"TEX": {"global": {"main_font": "Noto Serif"}}}`)
	require.NoError(t, err)

	entries := store.Entries()
	require.Len(t, entries, 6)
	assert.Equal(t, Entry{Key: "AUTHOR", Value: "Aiza"}, entries[0])
	assert.Equal(t, Entry{Key: "GLOBAL_MAIN_FONT", Value: "Noto Serif"}, entries[1])
	assert.Equal(t, Entry{Key: "TITLE_CONTENT", Value: "Template Library"}, entries[5])
}

func TestParseConfigFile_ByteOrderMark(t *testing.T) {
	store, rec := newTestStore(t, RootDocument)

	result, err := store.ParseConfigFile("\ufeff" + `{"TEX": {"author": "Someone"}}`)
	require.NoError(t, err)

	assert.Equal(t, []string{"AUTHOR"}, result.Applied)
	assert.Equal(t, "Someone", store.String("author"))
	assert.Zero(t, rec.Count(slog.LevelError, ""))
}

func TestParseConfigYAML_ByteOrderMark(t *testing.T) {
	store, rec := newTestStore(t, RootDocument)

	_, err := store.ParseConfigYAML("\ufeffTEX:\n  author: Someone\n")
	require.NoError(t, err)
	assert.Equal(t, "Someone", store.String("author"))
	assert.Zero(t, rec.Count(slog.LevelError, ""))
}
