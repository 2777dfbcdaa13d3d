package codeblock

import "strings"

// DefaultTabSize is used when a non-positive tab width is given.
const DefaultTabSize = 4

// ExpandTabs replaces each tab with the spaces needed to reach the next
// multiple of width. The column resets on '\n' and '\r'; a tab always
// produces at least one space.
func ExpandTabs(text string, width int) string {
	if width < 1 {
		width = DefaultTabSize
	}
	if !strings.ContainsRune(text, '\t') {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	column := 0
	for _, r := range text {
		switch r {
		case '\t':
			spaces := width - column%width
			b.WriteString(strings.Repeat(" ", spaces))
			column += spaces
		case '\n', '\r':
			b.WriteRune(r)
			column = 0
		default:
			b.WriteRune(r)
			column++
		}
	}
	return b.String()
}
