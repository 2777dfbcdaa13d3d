package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Location of the per-user configuration document under os.UserConfigDir.
const (
	VendorDirName  = "NightingaleStudio"
	AppDirName     = "TemplateBuilder"
	ConfigFileName = "config.json"
)

// ErrConfigExists is returned by WriteDefault when the target exists and
// overwriting was not requested.
var ErrConfigExists = errors.New("config file already exists")

// UserConfigPath returns the per-user configuration document path,
// e.g. ~/.config/NightingaleStudio/TemplateBuilder/config.json on Linux.
func UserConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config directory: %w", err)
	}
	return filepath.Join(dir, VendorDirName, AppDirName, ConfigFileName), nil
}

// WriteDefault writes the embedded default document to path, creating parent
// directories as needed.
func WriteDefault(fsys afero.Fs, path string, force bool) error {
	if !force {
		exists, err := afero.Exists(fsys, path)
		if err != nil {
			return fmt.Errorf("failed to check config file %s: %w", path, err)
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory for %s: %w", path, err)
	}
	if err := afero.WriteFile(fsys, path, DefaultDocument(), 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// EnsureUserConfig seeds path with the default document when it does not
// exist yet. It reports whether a file was created.
func EnsureUserConfig(fsys afero.Fs, path string, logger *slog.Logger) (bool, error) {
	_, err := fsys.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed to stat config file %s: %w", path, err)
	}

	if err := WriteDefault(fsys, path, true); err != nil {
		return false, err
	}
	if logger != nil {
		logger.Info("created default config file", "path", path)
	}
	return true, nil
}
