package config

import (
	_ "embed"
)

// defaultDocument declares every recognised key for both roots
//
//go:embed default_config.json
var defaultDocument []byte

// DefaultDocument returns a copy of the embedded default configuration.
func DefaultDocument() []byte {
	out := make([]byte, len(defaultDocument))
	copy(out, defaultDocument)
	return out
}
