package languages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	table := Default()

	cases := []struct {
		ext   string
		lexer string
		kind  Kind
		known bool
	}{
		{"cpp", "cpp", KindCode, true},
		{".CPP", "cpp", KindCode, true},
		{"hpp", "cpp", KindCode, true},
		{"h", "c", KindCode, true},
		{"cs", "csharp", KindCode, true},
		{"py", "python", KindCode, true},
		{"rs", "rust", KindCode, true},
		{"sh", "bash", KindCode, true},
		{"json", "json", KindCode, true},
		{"yml", "yaml", KindCode, true},
		{"txt", Unknown, KindCode, true},
		{"tex", "latex", KindMarkup, true},
		{".LaTeX", "latex", KindMarkup, true},
		{"md", Unknown, KindCode, false},
		{"", Unknown, KindCode, false},
	}
	for _, tc := range cases {
		t.Run(tc.ext, func(t *testing.T) {
			lang, ok := table.Lookup(tc.ext)
			assert.Equal(t, tc.known, ok)
			assert.Equal(t, tc.lexer, lang.Lexer)
			assert.Equal(t, tc.kind, lang.Kind)
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "cpp", Normalize(".CPP"))
	assert.Equal(t, "go", Normalize("go"))
	assert.Equal(t, "", Normalize("."))
}

func TestExtensions_SortedAndIsolated(t *testing.T) {
	table := Default()
	exts := table.Extensions()
	assert.IsIncreasing(t, exts)
	assert.Contains(t, exts, "go")

	other := Default()
	other.entries["zz"] = Language{Lexer: "zz"}
	_, ok := table.Lookup("zz")
	assert.False(t, ok)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "code", KindCode.String())
	assert.Equal(t, "markup", KindMarkup.String())
}
