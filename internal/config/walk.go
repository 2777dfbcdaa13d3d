package config

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// leafFunc receives every leaf found while walking a root object: its
// canonical key, the path segments as written and the value.
type leafFunc func(key string, path []string, v Value)

func joinPath(path []string) string {
	return strings.ToUpper(strings.Join(path, "_"))
}

// walkJSON descends into nested objects, each object key becoming a path
// segment. Arrays and scalars are leaves. It returns the number of leaves.
func walkJSON(r gjson.Result, path []string, fn leafFunc) int {
	if !r.IsObject() {
		fn(joinPath(path), path, valueFromJSON(r))
		return 1
	}

	count := 0
	r.ForEach(func(key, value gjson.Result) bool {
		next := append(path[:len(path):len(path)], key.Str)
		count += walkJSON(value, next, fn)
		return true
	})
	return count
}

// walkYAML is the YAML counterpart of walkJSON; mapping nodes compose keys.
func walkYAML(n *yaml.Node, path []string, fn leafFunc) error {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		return walkYAML(n.Alias, path, fn)
	}

	if n.Kind != yaml.MappingNode {
		v, err := valueFromYAML(n)
		if err != nil {
			return fmt.Errorf("key %s: %w", joinPath(path), err)
		}
		fn(joinPath(path), path, v)
		return nil
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		next := append(path[:len(path):len(path)], key.Value)
		if err := walkYAML(value, next, fn); err != nil {
			return err
		}
	}
	return nil
}

// findYAMLRoot returns the value of the top-level mapping key named root.
func findYAMLRoot(doc *yaml.Node, root string) *yaml.Node {
	n := doc
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil
		}
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == root {
			return n.Content[i+1]
		}
	}
	return nil
}
