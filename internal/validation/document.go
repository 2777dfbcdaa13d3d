// Package validation checks a configuration document ahead of a build and
// reports every problem at once instead of logging them as they occur.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/Aiza-Lee/template-builder/internal/config"
	"github.com/Aiza-Lee/template-builder/internal/languages"
	"github.com/Aiza-Lee/template-builder/internal/logging"
)

// Error and warning categories.
const (
	TypeInvalid       = "invalid"
	TypeSettings      = "settings"
	TypeTemplate      = "template"
	TypeMissingRoot   = "missing_root"
	TypeUnknownKey    = "unknown_key"
	TypeUnmappedType  = "unmapped_extension"
	TypeEmptyDocument = "empty_document"
)

// ValidationResult contains all validation results
type ValidationResult struct {
	// Errors is a list of problems that make a build fail
	Errors []ValidationError
	// Warnings is a list of problems a build recovers from
	Warnings []ValidationWarning
	// IsValid indicates if the validation passed (no errors)
	IsValid bool
}

// ValidationError represents a validation failure
type ValidationError struct {
	// Type is the category of error
	Type string
	// Key is the configuration key involved, if any
	Key string
	// Message is a human-readable error description
	Message string
	// FilePath is the path to the file causing the error
	FilePath string
}

// ValidationWarning represents a non-fatal validation issue
type ValidationWarning struct {
	// Type is the category of warning
	Type string
	// Key is the configuration key involved, if any
	Key string
	// Message is a human-readable warning description
	Message string
	// FilePath is the path to the file causing the warning
	FilePath string
}

func (r *ValidationResult) addError(e ValidationError) {
	r.Errors = append(r.Errors, e)
	r.IsValid = false
}

func (r *ValidationResult) addWarning(w ValidationWarning) {
	r.Warnings = append(r.Warnings, w)
}

// DocumentValidator validates one user configuration document
type DocumentValidator struct {
	fs        afero.Fs
	path      string
	languages *languages.Table
}

// NewDocumentValidator creates a validator for the document at path
func NewDocumentValidator(fsys afero.Fs, path string) *DocumentValidator {
	return &DocumentValidator{fs: fsys, path: path, languages: languages.Default()}
}

// Validate parses the document into fresh stores and checks the resulting
// settings. The returned error is reserved for failures to read the document.
func (v *DocumentValidator) Validate() (*ValidationResult, error) {
	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationWarning{},
		IsValid:  true,
	}

	raw, err := afero.ReadFile(v.fs, v.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", v.path, err)
	}
	content, err := config.DecodeDocument(raw)
	if err != nil {
		result.addError(ValidationError{
			Type:     TypeInvalid,
			Message:  fmt.Sprintf("Failed to decode config document: %v", err),
			FilePath: v.path,
		})
		return result, nil
	}

	document, err := config.New(config.RootDocument, logging.Discard())
	if err != nil {
		return nil, err
	}
	program, err := config.New(config.RootProgram, logging.Discard())
	if err != nil {
		return nil, err
	}

	format := config.FormatForPath(v.path)
	for _, store := range []*config.Store{document, program} {
		parsed, err := store.Apply(content, format)
		switch {
		case errors.Is(err, config.ErrEmptyDocument):
			result.addWarning(ValidationWarning{
				Type:     TypeEmptyDocument,
				Message:  "Config document is empty, defaults will be used",
				FilePath: v.path,
			})
			// Both stores report the same thing
			return v.checkSettings(result, document, program), nil
		case errors.Is(err, config.ErrRootNotFound):
			result.addWarning(ValidationWarning{
				Type:     TypeMissingRoot,
				Key:      store.Root(),
				Message:  fmt.Sprintf("Config document has no '%s' object, defaults will be used", store.Root()),
				FilePath: v.path,
			})
		case err != nil:
			result.addError(ValidationError{
				Type:     TypeInvalid,
				Message:  fmt.Sprintf("Failed to parse config document: %v", err),
				FilePath: v.path,
			})
			return result, nil
		}

		if parsed == nil {
			continue
		}
		for _, key := range parsed.Rejected {
			result.addWarning(ValidationWarning{
				Type:     TypeUnknownKey,
				Key:      store.Root() + "." + key,
				Message:  fmt.Sprintf("Unknown key %s.%s is ignored", store.Root(), key),
				FilePath: v.path,
			})
		}
	}

	return v.checkSettings(result, document, program), nil
}

func (v *DocumentValidator) checkSettings(result *ValidationResult, document, program *config.Store) *ValidationResult {
	settings, err := config.LoadSettings(program, document)
	if err != nil {
		result.addError(ValidationError{
			Type:     TypeSettings,
			Message:  err.Error(),
			FilePath: v.path,
		})
		return result
	}

	templates := []struct{ key, path string }{
		{"templates.main", settings.MainTemplatePath},
		{"templates.code_block", settings.CodeBlockTemplatePath},
	}
	for _, tmpl := range templates {
		if tmpl.path == "" {
			continue
		}
		if exists, _ := afero.Exists(v.fs, tmpl.path); !exists {
			result.addError(ValidationError{
				Type:     TypeTemplate,
				Key:      config.RootProgram + "." + config.CanonicalKey(tmpl.key),
				Message:  fmt.Sprintf("Template file %s does not exist", tmpl.path),
				FilePath: tmpl.path,
			})
		}
	}

	for _, ext := range settings.IncludeFileTypes {
		if _, known := v.languages.Lookup(ext); !known {
			result.addWarning(ValidationWarning{
				Type:    TypeUnmappedType,
				Key:     strings.ToLower(ext),
				Message: fmt.Sprintf("Included file type %s has no language mapping and will be rendered as plain text", ext),
			})
		}
	}

	return result
}
