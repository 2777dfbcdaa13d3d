package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const byteOrderMark = "\ufeff"

// DecodeDocument returns the text of a configuration file. A UTF-8 byte order
// mark is stripped and UTF-16 with a byte order mark is decoded to UTF-8.
func DecodeDocument(raw []byte) (string, error) {
	decoded, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return string(decoded), nil
}

// trimBOM drops a leading UTF-8 byte order mark from text handed to the
// parsers directly.
func trimBOM(content string) string {
	return strings.TrimPrefix(content, byteOrderMark)
}
