package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/afero"

	"github.com/Aiza-Lee/template-builder/internal/config"
	"github.com/Aiza-Lee/template-builder/internal/logging"
)

// Scopes accepted by the config subcommands.
const (
	ScopeTex     = "tex"
	ScopeProgram = "program"
	ScopeAll     = "all"
)

// ErrUnknownScope is returned for a --scope value other than tex, program or all.
var ErrUnknownScope = errors.New("unknown scope")

// ConfigOptions holds configuration for the config subcommands
type ConfigOptions struct {
	// Path is the document to operate on; empty means the per-user document.
	Path  string
	Scope string
	Force bool

	Fs  afero.Fs
	Out io.Writer
}

func (o *ConfigOptions) defaults() error {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.Out == nil {
		o.Out = io.Discard
	}
	if o.Path == "" {
		path, err := config.UserConfigPath()
		if err != nil {
			return err
		}
		o.Path = path
	}
	return nil
}

// RunConfigPath prints the document location
func RunConfigPath(opts ConfigOptions) error {
	if err := opts.defaults(); err != nil {
		return err
	}
	fmt.Fprintln(opts.Out, opts.Path)
	return nil
}

// RunConfigInit writes the default document
func RunConfigInit(opts ConfigOptions) error {
	if err := opts.defaults(); err != nil {
		return err
	}
	if err := config.WriteDefault(opts.Fs, opts.Path, opts.Force); err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			return fmt.Errorf("%w (use --force to overwrite)", err)
		}
		return err
	}
	fmt.Fprintf(opts.Out, "✅ Wrote default configuration to %s\n", opts.Path)
	return nil
}

// RunConfigShow prints the effective values of the selected stores
func RunConfigShow(opts ConfigOptions) error {
	if err := opts.defaults(); err != nil {
		return err
	}
	roots, err := scopeRoots(opts.Scope, true)
	if err != nil {
		return err
	}

	path := opts.Path
	if exists, _ := afero.Exists(opts.Fs, path); !exists {
		path = ""
	}
	stores, err := config.Load(opts.Fs, path, logging.Discard())
	if err != nil {
		return err
	}

	rows := [][]string{}
	for _, root := range roots {
		store := stores.Document
		if root == config.RootProgram {
			store = stores.Program
		}
		for _, entry := range store.Entries() {
			marker := ""
			if store.Get(entry.Key).String() != store.Default(entry.Key).String() {
				marker = "*"
			}
			rows = append(rows, []string{root, entry.Key, entry.Value, marker})
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ROOT", "KEY", "VALUE", "SET").
		Rows(rows...)
	fmt.Fprintln(opts.Out, t.Render())
	if path == "" {
		fmt.Fprintf(opts.Out, "(no config file at %s, showing defaults)\n", opts.Path)
	}
	return nil
}

// RunConfigSet rewrites one key of the document
func RunConfigSet(opts ConfigOptions, key, value string) error {
	if err := opts.defaults(); err != nil {
		return err
	}
	roots, err := scopeRoots(opts.Scope, false)
	if err != nil {
		return err
	}

	if _, err := config.EnsureUserConfig(opts.Fs, opts.Path, nil); err != nil {
		return err
	}
	store, err := config.New(roots[0], logging.Discard())
	if err != nil {
		return err
	}
	if err := config.SetValue(opts.Fs, opts.Path, store, key, value); err != nil {
		return err
	}
	fmt.Fprintf(opts.Out, "✅ Set %s.%s = %s\n", roots[0], config.CanonicalKey(key), value)
	return nil
}

// scopeRoots maps a --scope value to store roots. Editing needs exactly one.
func scopeRoots(scope string, allowAll bool) ([]string, error) {
	switch strings.ToLower(scope) {
	case "", ScopeTex:
		if scope == "" && allowAll {
			return []string{config.RootDocument, config.RootProgram}, nil
		}
		return []string{config.RootDocument}, nil
	case ScopeProgram:
		return []string{config.RootProgram}, nil
	case ScopeAll:
		if allowAll {
			return []string{config.RootDocument, config.RootProgram}, nil
		}
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownScope, scope)
}
