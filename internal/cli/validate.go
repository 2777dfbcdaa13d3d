package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/Aiza-Lee/template-builder/internal/validation"
)

// ErrInvalidConfig is returned when validation reports at least one error.
var ErrInvalidConfig = errors.New("configuration is invalid")

// ValidateOptions holds configuration for the validate command
type ValidateOptions struct {
	ConfigPath string
	Verbose    bool

	Fs  afero.Fs
	Out io.Writer
}

// RunValidate checks a configuration document and prints every problem found
func RunValidate(opts ValidateOptions) (*validation.ValidationResult, error) {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}

	cfg := ConfigOptions{Path: opts.ConfigPath, Fs: opts.Fs}
	if err := cfg.defaults(); err != nil {
		return nil, err
	}

	fmt.Fprintf(opts.Out, "🔍 Validating configuration %s...\n", cfg.Path)

	result, err := validation.NewDocumentValidator(opts.Fs, cfg.Path).Validate()
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	printValidationResult(opts.Out, result, opts.Verbose)
	if !result.IsValid {
		return result, ErrInvalidConfig
	}
	return result, nil
}

// printValidationResult prints the validation results in a user-friendly format
func printValidationResult(w io.Writer, result *validation.ValidationResult, verbose bool) {
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "⚠️  Warning: %s\n", warning.Message)
		if verbose && warning.Key != "" {
			fmt.Fprintf(w, "   Key: %s\n", warning.Key)
		}
	}

	for _, err := range result.Errors {
		switch err.Type {
		case validation.TypeSettings:
			fmt.Fprintf(w, "❌ Settings Error: %s\n", err.Message)
		case validation.TypeTemplate:
			fmt.Fprintf(w, "❌ Template Error: %s\n", err.Message)
		case validation.TypeInvalid:
			fmt.Fprintf(w, "❌ Configuration Error: %s\n", err.Message)
		default:
			fmt.Fprintf(w, "❌ Error: %s\n", err.Message)
		}
		if verbose && err.FilePath != "" {
			fmt.Fprintf(w, "   File: %s\n", err.FilePath)
		}
	}

	if len(result.Errors) == 0 && len(result.Warnings) == 0 {
		fmt.Fprintln(w, "✅ Configuration is valid!")
		return
	}
	if result.IsValid {
		fmt.Fprintf(w, "✅ Configuration is valid (%d warnings)\n", len(result.Warnings))
		return
	}

	fmt.Fprintf(w, "❌ Validation failed with %d errors and %d warnings\n", len(result.Errors), len(result.Warnings))
	fmt.Fprintln(w, "\n💡 Suggestions:")
	fmt.Fprintln(w, "   • Run 'template-builder config show' to see the effective values")
	fmt.Fprintln(w, "   • Run 'template-builder config init --force' to restore the defaults")
}
