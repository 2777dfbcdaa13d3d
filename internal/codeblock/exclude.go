package codeblock

import (
	"fmt"

	"github.com/gobwas/glob"
)

// excluder matches directory entry names against glob patterns.
type excluder struct {
	patterns []string
	globs    []glob.Glob
}

func newExcluder(patterns []string) (*excluder, error) {
	e := &excluder{}
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to compile exclude pattern %q: %w", pattern, err)
		}
		e.patterns = append(e.patterns, pattern)
		e.globs = append(e.globs, g)
	}
	return e, nil
}

// match returns the first pattern matching name.
func (e *excluder) match(name string) (string, bool) {
	for i, g := range e.globs {
		if g.Match(name) {
			return e.patterns[i], true
		}
	}
	return "", false
}
