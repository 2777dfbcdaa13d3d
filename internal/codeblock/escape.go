package codeblock

import (
	"strings"
	"unicode"
)

var headingEscapes = map[rune]string{
	'\\': `\textbackslash{}`,
	'{':  `\{`,
	'}':  `\}`,
	'#':  `\#`,
	'$':  `\$`,
	'%':  `\%`,
	'&':  `\&`,
	'_':  `\_`,
	'^':  `\textasciicircum{}`,
	'~':  `\textasciitilde{}`,
}

// EscapeHeading escapes LaTeX-reserved characters in a heading and drops
// control characters. Each input rune is looked at exactly once, so escape
// sequences are never escaped again.
func EscapeHeading(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsControl(r) {
			continue
		}
		if esc, ok := headingEscapes[r]; ok {
			b.WriteString(esc)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
