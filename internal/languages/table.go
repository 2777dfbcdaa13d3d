// Package languages maps source file extensions to minted lexer names.
package languages

import (
	"sort"
	"strings"
)

// Version identifies the revision of the built-in mapping. Bump it whenever an
// entry is added, removed or changed.
const Version = 2

// Unknown is the lexer used for extensions without a mapping.
const Unknown = "text"

// Kind says how a file's content is placed in the document.
type Kind int

const (
	// KindCode content is wrapped in a code block.
	KindCode Kind = iota
	// KindMarkup content is already LaTeX and is inserted verbatim.
	KindMarkup
)

func (k Kind) String() string {
	if k == KindMarkup {
		return "markup"
	}
	return "code"
}

// Language is one row of the table.
type Language struct {
	Lexer string
	Kind  Kind
}

// Table resolves extensions (without the leading dot, lower-case) to languages.
type Table struct {
	entries map[string]Language
}

var builtin = map[string]Language{
	"c":     {Lexer: "c"},
	"h":     {Lexer: "c"},
	"cpp":   {Lexer: "cpp"},
	"cc":    {Lexer: "cpp"},
	"hpp":   {Lexer: "cpp"},
	"cs":    {Lexer: "csharp"},
	"java":  {Lexer: "java"},
	"py":    {Lexer: "python"},
	"rb":    {Lexer: "ruby"},
	"go":    {Lexer: "go"},
	"rs":    {Lexer: "rust"},
	"js":    {Lexer: "javascript"},
	"ts":    {Lexer: "typescript"},
	"php":   {Lexer: "php"},
	"swift": {Lexer: "swift"},
	"kt":    {Lexer: "kotlin"},
	"m":     {Lexer: "objective-c"},
	"html":  {Lexer: "html"},
	"css":   {Lexer: "css"},
	"xml":   {Lexer: "xml"},
	"json":  {Lexer: "json"},
	"yaml":  {Lexer: "yaml"},
	"yml":   {Lexer: "yaml"},
	"sql":   {Lexer: "sql"},
	"sh":    {Lexer: "bash"},
	"bat":   {Lexer: "batch"},
	"ps1":   {Lexer: "powershell"},
	"txt":   {Lexer: Unknown},
	"tex":   {Lexer: "latex", Kind: KindMarkup},
	"ltx":   {Lexer: "latex", Kind: KindMarkup},
	"latex": {Lexer: "latex", Kind: KindMarkup},
}

// Default returns a table holding the built-in mapping.
func Default() *Table {
	entries := make(map[string]Language, len(builtin))
	for ext, lang := range builtin {
		entries[ext] = lang
	}
	return &Table{entries: entries}
}

// Normalize lower-cases ext and strips one leading dot: ".CPP" -> "cpp".
func Normalize(ext string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
}

// Lookup returns the language for ext. The boolean is false for unmapped
// extensions, in which case the result is a code block with the Unknown lexer.
func (t *Table) Lookup(ext string) (Language, bool) {
	lang, ok := t.entries[Normalize(ext)]
	if !ok {
		return Language{Lexer: Unknown, Kind: KindCode}, false
	}
	return lang, true
}

// Extensions returns every mapped extension in sorted order.
func (t *Table) Extensions() []string {
	out := make([]string, 0, len(t.entries))
	for ext := range t.entries {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
