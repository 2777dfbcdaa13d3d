package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gobwas/glob"
)

// Package-level validator used by ValidateSettings.
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	if err := validate.RegisterValidation("file_ext", validateFileExtension); err != nil {
		panic(fmt.Errorf("register validator file_ext: %w", err))
	}
	if err := validate.RegisterValidation("file_name", validateFileName); err != nil {
		panic(fmt.Errorf("register validator file_name: %w", err))
	}
	if err := validate.RegisterValidation("glob_pattern", validateGlobPattern); err != nil {
		panic(fmt.Errorf("register validator glob_pattern: %w", err))
	}
}

// validateFileExtension implements the "file_ext" tag: a leading dot followed
// by at least one character, no separators and no further dots (".py", ".tex").
func validateFileExtension(fl validator.FieldLevel) bool {
	ext := fl.Field().String()
	if len(ext) < 2 || ext[0] != '.' {
		return false
	}
	return !strings.ContainsAny(ext[1:], `./\ `)
}

// validateFileName implements the "file_name" tag: a bare file name.
func validateFileName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" || name == "." || name == ".." {
		return false
	}
	return filepath.Base(name) == name && !strings.ContainsAny(name, `/\`)
}

// validateGlobPattern implements the "glob_pattern" tag.
func validateGlobPattern(fl validator.FieldLevel) bool {
	_, err := glob.Compile(fl.Field().String())
	return err == nil
}

// ValidateSettings runs tag-based validation on the typed settings.
func ValidateSettings(settings *Settings) error {
	if err := validate.Struct(settings); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError renders go-playground/validator errors as concise, user-facing text.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	var errorMessages []string
	for _, fieldError := range validationErrors {
		errorMessages = append(errorMessages, formatFieldError(fieldError))
	}

	return fmt.Errorf("configuration validation failed:\n  - %s",
		strings.Join(errorMessages, "\n  - "))
}

// formatFieldError creates user-friendly error messages for field validation failures
func formatFieldError(fieldError validator.FieldError) string {
	fieldName := fieldError.Namespace()
	tag := fieldError.Tag()
	param := fieldError.Param()
	value := fieldError.Value()

	switch tag {
	case "required":
		return fmt.Sprintf("'%s' is required", fieldName)
	case "min":
		return fmt.Sprintf("'%s' must be at least %s, got '%v'", fieldName, param, value)
	case "max":
		return fmt.Sprintf("'%s' must be at most %s, got '%v'", fieldName, param, value)

	case "file_ext":
		return fmt.Sprintf("'%s' must be a file extension with a leading dot (e.g., '.py'), got '%v'", fieldName, value)
	case "file_name":
		return fmt.Sprintf("'%s' must be a bare file name without directories, got '%v'", fieldName, value)
	case "glob_pattern":
		return fmt.Sprintf("'%s' must be a valid glob pattern, got '%v'", fieldName, value)

	default:
		return fmt.Sprintf("'%s' failed validation '%s', got '%v'", fieldName, tag, value)
	}
}
