package config

import (
	"errors"
	"fmt"
	"time"
)

// Settings is the typed view of the program-scoped store plus the few
// document-scoped values the tool itself consumes.
type Settings struct {
	IncludeFileTypes     []string `validate:"required,dive,file_ext"`
	ExcludePatterns      []string `validate:"dive,glob_pattern"`
	IntermediateFileName string   `validate:"required,file_name"`

	MainTemplatePath      string
	CodeBlockTemplatePath string

	CompilerCommand string `validate:"required"`
	CompilerPasses  int    `validate:"min=1,max=5"`
	CompilerTimeout time.Duration

	CleanupEnabled    bool
	CleanupExtensions []string `validate:"dive,file_ext"`

	PreviewBind string `validate:"required"`
	PreviewPort int    `validate:"min=1,max=65535"`

	TabSize int `validate:"min=1,max=16"`
}

// LoadSettings reads and validates Settings from the two stores.
func LoadSettings(program, document *Store) (*Settings, error) {
	var errs []error
	intOf := func(s *Store, key string) int {
		n, err := s.Int(key)
		if err != nil {
			errs = append(errs, err)
		}
		return n
	}
	boolOf := func(s *Store, key string) bool {
		b, err := s.Bool(key)
		if err != nil {
			errs = append(errs, err)
		}
		return b
	}

	settings := &Settings{
		IncludeFileTypes:      program.Strings("include_file_types"),
		ExcludePatterns:       program.Strings("exclude_patterns"),
		IntermediateFileName:  program.String("intermediate_file_name"),
		MainTemplatePath:      program.String("templates.main"),
		CodeBlockTemplatePath: program.String("templates.code_block"),
		CompilerCommand:       program.String("compiler.command"),
		CompilerPasses:        intOf(program, "compiler.passes"),
		CompilerTimeout:       time.Duration(intOf(program, "compiler.timeout_seconds")) * time.Second,
		CleanupEnabled:        boolOf(program, "cleanup.enabled"),
		CleanupExtensions:     program.Strings("cleanup.extensions"),
		PreviewBind:           program.String("preview.bind"),
		PreviewPort:           intOf(program, "preview.port"),
		TabSize:               intOf(document, "code.tab_size"),
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}
