package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"gopkg.in/yaml.v3"
)

// ErrCoercion is returned when a value cannot be converted to the requested type.
var ErrCoercion = errors.New("config value cannot be converted")

// Kind identifies the literal type a configuration leaf was written with
type Kind uint8

const (
	// KindInvalid marks the zero Value returned for unregistered keys.
	KindInvalid Kind = iota
	KindString
	KindNumber
	KindBool
	KindNull
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	case KindArray:
		return "array"
	default:
		return "invalid"
	}
}

// Value is a single configuration leaf. It keeps the literal text it was
// parsed from so that every kind can be rendered as a string.
type Value struct {
	kind  Kind
	text  string
	items []string
}

// StringValue creates a string leaf.
func StringValue(s string) Value {
	return Value{kind: KindString, text: s}
}

// IntValue creates a numeric leaf.
func IntValue(n int) Value {
	return Value{kind: KindNumber, text: strconv.Itoa(n)}
}

// BoolValue creates a boolean leaf.
func BoolValue(b bool) Value {
	return Value{kind: KindBool, text: strconv.FormatBool(b)}
}

// ArrayValue creates a string-array leaf.
func ArrayValue(items ...string) Value {
	raw, _ := json.Marshal(items)
	return Value{kind: KindArray, text: string(raw), items: append([]string{}, items...)}
}

// Kind reports the literal type of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsZero reports whether v is the fallback returned for unknown keys.
func (v Value) IsZero() bool {
	return v.kind == KindInvalid
}

// String renders the value. Strings are returned unquoted, every other kind
// uses its literal form ("8", "true", "null", `[".py",".go"]`).
func (v Value) String() string {
	return v.text
}

// Strings returns array elements, or the scalar wrapped as a single element.
func (v Value) Strings() []string {
	switch v.kind {
	case KindInvalid:
		return []string{}
	case KindArray:
		out := make([]string, len(v.items))
		copy(out, v.items)
		return out
	default:
		return []string{v.text}
	}
}

// Int converts numbers and decimal strings to int.
func (v Value) Int() (int, error) {
	switch v.kind {
	case KindNumber, KindString:
		if n, err := strconv.Atoi(strings.TrimSpace(v.text)); err == nil {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (%s) to int", ErrCoercion, v.text, v.kind)
}

// Bool converts booleans and "true"/"false" strings (any case) to bool.
func (v Value) Bool() (bool, error) {
	switch v.kind {
	case KindBool:
		return v.text == "true", nil
	case KindString:
		s := strings.TrimSpace(v.text)
		if strings.EqualFold(s, "true") {
			return true, nil
		}
		if strings.EqualFold(s, "false") {
			return false, nil
		}
	}
	return false, fmt.Errorf("%w: %q (%s) to bool", ErrCoercion, v.text, v.kind)
}

// valueFromJSON converts a gjson leaf. Objects never reach this function.
func valueFromJSON(r gjson.Result) Value {
	switch r.Type {
	case gjson.String:
		return Value{kind: KindString, text: r.Str}
	case gjson.Number:
		return Value{kind: KindNumber, text: r.Raw}
	case gjson.True:
		return Value{kind: KindBool, text: "true"}
	case gjson.False:
		return Value{kind: KindBool, text: "false"}
	case gjson.Null:
		return Value{kind: KindNull, text: "null"}
	}

	items := []string{}
	r.ForEach(func(_, elem gjson.Result) bool {
		if elem.Type == gjson.String {
			items = append(items, elem.Str)
		} else {
			items = append(items, string(pretty.Ugly([]byte(elem.Raw))))
		}
		return true
	})
	return Value{kind: KindArray, text: string(pretty.Ugly([]byte(r.Raw))), items: items}
}

// valueFromYAML converts a scalar or sequence node.
func valueFromYAML(n *yaml.Node) (Value, error) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		return valueFromYAML(n.Alias)
	}

	if n.Kind == yaml.SequenceNode {
		items := make([]string, 0, len(n.Content))
		for _, elem := range n.Content {
			if elem.Kind == yaml.ScalarNode {
				items = append(items, elem.Value)
				continue
			}
			var decoded any
			if err := elem.Decode(&decoded); err != nil {
				return Value{}, fmt.Errorf("failed to decode sequence element at line %d: %w", elem.Line, err)
			}
			raw, err := json.Marshal(decoded)
			if err != nil {
				return Value{}, fmt.Errorf("failed to encode sequence element at line %d: %w", elem.Line, err)
			}
			items = append(items, string(raw))
		}
		return ArrayValue(items...), nil
	}

	switch n.ShortTag() {
	case "!!int", "!!float":
		return Value{kind: KindNumber, text: n.Value}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, fmt.Errorf("failed to decode boolean at line %d: %w", n.Line, err)
		}
		return BoolValue(b), nil
	case "!!null":
		return Value{kind: KindNull, text: "null"}, nil
	default:
		return StringValue(n.Value), nil
	}
}
