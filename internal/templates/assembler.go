package templates

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Aiza-Lee/template-builder/internal/config"
)

// ErrMissingContent is returned when a master template has no ##CONTENT## placeholder.
var ErrMissingContent = errors.New("main template has no ##CONTENT## placeholder")

var placeholderPattern = regexp.MustCompile(`##[A-Z0-9_]+##`)

// Placeholder formats key as it appears in a template: "AUTHOR" -> "##AUTHOR##".
func Placeholder(key string) string {
	return "##" + key + "##"
}

// Unresolved returns the distinct placeholders left in text, in order of first appearance.
func Unresolved(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, match := range placeholderPattern.FindAllString(text, -1) {
		key := strings.Trim(match, "#")
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	return out
}

// Document is an assembled master template.
type Document struct {
	Text string
	// Unresolved lists placeholders of the template that no entry filled.
	// Placeholders inside the generated content are not reported.
	Unresolved []string
}

// Assemble fills main with the document entries, then the extra values, then
// the generated content. Content goes in last so that text inside source
// files is never substituted.
func Assemble(main string, entries []config.Entry, extra map[string]string, content string) (*Document, error) {
	contentPlaceholder := Placeholder(ContentKey)
	if !strings.Contains(main, contentPlaceholder) {
		return nil, ErrMissingContent
	}

	text := main
	for _, entry := range entries {
		text = strings.ReplaceAll(text, Placeholder(entry.Key), entry.Value)
	}

	keys := make([]string, 0, len(extra))
	for key := range extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		text = strings.ReplaceAll(text, Placeholder(key), extra[key])
	}

	var unresolved []string
	for _, key := range Unresolved(text) {
		if key != ContentKey {
			unresolved = append(unresolved, key)
		}
	}

	return &Document{
		Text:       strings.ReplaceAll(text, contentPlaceholder, content),
		Unresolved: unresolved,
	}, nil
}

// CodeBlock fills a code-block template in a single pass.
func CodeBlock(template, language, code string) string {
	return strings.NewReplacer(
		Placeholder(LanguageKey), language,
		Placeholder(CodeKey), code,
	).Replace(template)
}

// Describe renders a short summary of a document for logs.
func (d *Document) Describe() string {
	return fmt.Sprintf("%d bytes, %d unresolved placeholders", len(d.Text), len(d.Unresolved))
}
