package codeblock

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrInvalidEncoding is returned for source files that are not valid UTF-8
// (or UTF-16 with a byte order mark).
var ErrInvalidEncoding = errors.New("file is not valid UTF-8 text")

// decodeText strips a UTF-8 byte order mark, decodes UTF-16 content that
// starts with one and rejects anything else that is not valid UTF-8.
func decodeText(raw []byte) (string, error) {
	decoded, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	if !utf8.Valid(decoded) {
		return "", ErrInvalidEncoding
	}
	return string(decoded), nil
}
