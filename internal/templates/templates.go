// Package templates holds the LaTeX master and code-block templates and
// fills their ##KEY## placeholders.
package templates

import (
	"embed"
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// Embed the default templates at compile time
//
//go:embed *.tex
var embedded embed.FS

// Placeholders understood by the templates.
const (
	ContentKey        = "CONTENT"
	SourceRevisionKey = "SOURCE_REVISION"
	BuildDateKey      = "BUILD_DATE"
	LanguageKey       = "LANGUAGE"
	CodeKey           = "CODE"
)

const (
	mainTemplateName      = "main.tex"
	codeBlockTemplateName = "code_block.tex"
)

func mustRead(name string) string {
	content, err := embedded.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("embedded template %s is missing: %v", name, err))
	}
	return string(content)
}

// DefaultMain returns the embedded master template.
func DefaultMain() string {
	return mustRead(mainTemplateName)
}

// DefaultCodeBlock returns the embedded code-block template without its
// trailing newline.
func DefaultCodeBlock() string {
	return strings.TrimRight(mustRead(codeBlockTemplateName), "\r\n")
}

// LoadMain reads the master template from path, or returns the embedded one
// when path is empty.
func LoadMain(fs afero.Fs, path string) (string, error) {
	if path == "" {
		return DefaultMain(), nil
	}
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", fmt.Errorf("failed to read main template %s: %w", path, err)
	}
	return string(content), nil
}

// LoadCodeBlock reads the code-block template from path, or returns the
// embedded one when path is empty.
func LoadCodeBlock(fs afero.Fs, path string) (string, error) {
	if path == "" {
		return DefaultCodeBlock(), nil
	}
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", fmt.Errorf("failed to read code block template %s: %w", path, err)
	}
	return strings.TrimRight(string(content), "\r\n"), nil
}
