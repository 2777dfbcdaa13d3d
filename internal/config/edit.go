package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

var (
	// ErrUnknownKey is returned when editing a key the store does not register.
	ErrUnknownKey = errors.New("config key is not registered")
	// ErrUnsupportedFormat is returned when editing a non-JSON document.
	ErrUnsupportedFormat = errors.New("only JSON config documents can be edited")
)

// SetValue rewrites one leaf of the JSON document at path in place. The key
// must be registered in store; raw is stored as a JSON literal when it parses
// as one ("4", "true", `[".go"]`) and as a string otherwise.
func SetValue(fsys afero.Fs, path string, store *Store, key, raw string) error {
	if FormatForPath(path) != FormatJSON {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	leafPath, ok := store.Path(key)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownKey, store.Root(), CanonicalKey(key))
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	text, err := DecodeDocument(data)
	if err != nil {
		return fmt.Errorf("failed to edit config file %s: %w", path, err)
	}
	if strings.TrimSpace(text) == "" {
		text = "{}"
	}
	if !gjson.Valid(text) {
		return fmt.Errorf("failed to edit config file %s: %w", path, ErrMalformedDocument)
	}
	content := []byte(text)

	segments := existingPath(gjson.Get(text, store.Root()), strings.Split(leafPath, "."))
	target := store.Root() + "." + strings.Join(segments, ".")
	var updated []byte
	if literal := strings.TrimSpace(raw); literal != "" && gjson.Valid(literal) {
		updated, err = sjson.SetRawBytes(content, target, []byte(literal))
	} else {
		updated, err = sjson.SetBytes(content, target, raw)
	}
	if err != nil {
		return fmt.Errorf("failed to set %s in %s: %w", target, path, err)
	}

	if err := afero.WriteFile(fsys, path, pretty.Pretty(updated), 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// existingPath respells segments as node already writes them, matching keys
// case-insensitively like the stores do. Segments node lacks keep the
// default spelling.
func existingPath(node gjson.Result, segments []string) []string {
	out := append([]string(nil), segments...)
	for i, segment := range segments {
		if !node.IsObject() {
			break
		}
		var next gjson.Result
		found := false
		node.ForEach(func(key, value gjson.Result) bool {
			if strings.EqualFold(key.Str, segment) {
				out[i], next, found = key.Str, value, true
				return false
			}
			return true
		})
		if !found {
			break
		}
		node = next
	}
	return out
}
