package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Root object names of the two stores every build uses.
const (
	RootDocument = "TEX"
	RootProgram  = "PROGRAM"
)

var (
	// ErrEmptyDocument is returned for empty or whitespace-only documents.
	ErrEmptyDocument = errors.New("config document is empty")
	// ErrMalformedDocument is returned when a document cannot be parsed.
	ErrMalformedDocument = errors.New("config document is malformed")
	// ErrRootNotFound is returned when a document lacks the store's root object.
	ErrRootNotFound = errors.New("config document does not contain the root object")
)

// Entry is a key with its effective value rendered as a string
type Entry struct {
	Key   string
	Value string
}

// ParseResult describes what a user document changed
type ParseResult struct {
	// Applied lists registered keys whose current value was replaced
	Applied []string
	// Rejected lists keys that are not registered and were ignored
	Rejected []string
}

type entry struct {
	path    string
	def     Value
	current *Value
}

func (e *entry) value() Value {
	if e.current != nil {
		return *e.current
	}
	return e.def
}

// Store holds every leaf of one root object, keyed by canonical key.
//
// The set of recognised keys is fixed by the default document: user documents
// may only override values, never introduce keys.
type Store struct {
	mu      sync.RWMutex
	root    string
	logger  *slog.Logger
	order   []string
	entries map[string]*entry
}

// New creates a store for root seeded from the embedded default document.
func New(root string, logger *slog.Logger) (*Store, error) {
	return NewStore(root, DefaultDocument(), logger)
}

// NewStore creates a store for root and registers every leaf of defaults.
func NewStore(root string, defaults []byte, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		root:    root,
		logger:  logger.With("root", root),
		entries: make(map[string]*entry),
	}

	if _, err := s.parseJSON(string(defaults), s.register); err != nil {
		return nil, fmt.Errorf("failed to parse default config for %s: %w", root, err)
	}

	return s, nil
}

// CanonicalKey normalises a dotted or underscored key to its stored form,
// e.g. "code.tab_size" -> "CODE_TAB_SIZE".
func CanonicalKey(key string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(key), ".", "_"))
}

// Root returns the name of the root object this store reads.
func (s *Store) Root() string {
	return s.root
}

// ParseConfigFile applies a JSON user document on top of the defaults.
func (s *Store) ParseConfigFile(content string) (*ParseResult, error) {
	content = trimBOM(content)
	result := &ParseResult{}
	if strings.TrimSpace(content) == "" {
		s.logger.Error("config document is empty")
		return result, ErrEmptyDocument
	}

	_, err := s.parseJSON(content, func(key string, _ []string, v Value) {
		s.set(result, key, v)
	})
	return result, err
}

// ParseConfigYAML applies a YAML user document on top of the defaults.
func (s *Store) ParseConfigYAML(content string) (*ParseResult, error) {
	content = trimBOM(content)
	result := &ParseResult{}
	if strings.TrimSpace(content) == "" {
		s.logger.Error("config document is empty")
		return result, ErrEmptyDocument
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		s.logger.Error("failed to parse YAML config document", "error", err)
		return result, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	rootNode := findYAMLRoot(&doc, s.root)
	if rootNode == nil {
		s.logger.Error(fmt.Sprintf("config document does not contain '%s' root object", s.root))
		return result, fmt.Errorf("%w: %s", ErrRootNotFound, s.root)
	}

	if rootNode.Kind != yaml.MappingNode {
		s.logger.Error(fmt.Sprintf("config root '%s' is not an object", s.root))
		return result, fmt.Errorf("%w: root %s is not a mapping", ErrMalformedDocument, s.root)
	}

	err := walkYAML(rootNode, nil, func(key string, _ []string, v Value) {
		s.set(result, key, v)
	})
	if err != nil {
		s.logger.Error("failed to walk YAML config document", "error", err)
		return result, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return result, nil
}

// parseJSON locates the root object in content and walks it with fn.
func (s *Store) parseJSON(content string, fn leafFunc) (int, error) {
	if !gjson.Valid(content) {
		s.logger.Error("failed to parse JSON config document: invalid JSON")
		return 0, ErrMalformedDocument
	}

	doc := gjson.Parse(content)
	var rootValue gjson.Result
	found := false
	if doc.IsObject() {
		doc.ForEach(func(key, value gjson.Result) bool {
			if key.Str == s.root {
				rootValue = value
				found = true
				return false
			}
			return true
		})
	}
	if !found {
		s.logger.Error(fmt.Sprintf("config document does not contain '%s' root object", s.root))
		return 0, fmt.Errorf("%w: %s", ErrRootNotFound, s.root)
	}

	if !rootValue.IsObject() {
		s.logger.Error(fmt.Sprintf("config root '%s' is not an object", s.root))
		return 0, fmt.Errorf("%w: root %s is %s", ErrMalformedDocument, s.root, rootValue.Type)
	}

	return walkJSON(rootValue, nil, fn), nil
}

func (s *Store) register(key string, path []string, v Value) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; exists {
		s.logger.Warn("config key is already registered, skipping", "key", key)
		return
	}
	s.logger.Debug("registering config key", "key", key, "default", v.String())
	s.entries[key] = &entry{path: strings.Join(path, "."), def: v}
	s.order = append(s.order, key)
}

func (s *Store) set(result *ParseResult, key string, v Value) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.entries[key]
	if !exists {
		s.logger.Warn("config key is not registered, skipping", "key", key)
		result.Rejected = append(result.Rejected, key)
		return
	}
	s.logger.Debug("setting config key", "key", key, "value", v.String())
	value := v
	e.current = &value
	result.Applied = append(result.Applied, key)
}

// Has reports whether key is registered.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[CanonicalKey(key)]
	return ok
}

// Get returns the effective value of key. Unregistered keys are logged and
// yield the zero Value.
func (s *Store) Get(key string) Value {
	canonical := CanonicalKey(key)

	s.mu.RLock()
	e, ok := s.entries[canonical]
	s.mu.RUnlock()

	if !ok {
		s.logger.Error("config key is not registered, returning empty value", "key", canonical)
		return Value{}
	}
	return e.value()
}

// Path returns the dotted path of key as written in the default document,
// e.g. "CODE_TAB_SIZE" -> "code.tab_size".
func (s *Store) Path(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[CanonicalKey(key)]
	if !ok {
		return "", false
	}
	return e.path, true
}

// Default returns the registered default of key, or the zero Value.
func (s *Store) Default(key string) Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.entries[CanonicalKey(key)]; ok {
		return e.def
	}
	return Value{}
}

// String is shorthand for Get(key).String().
func (s *Store) String(key string) string {
	return s.Get(key).String()
}

// Strings is shorthand for Get(key).Strings().
func (s *Store) Strings(key string) []string {
	return s.Get(key).Strings()
}

// Int is shorthand for Get(key).Int() with the key added to the error.
func (s *Store) Int(key string) (int, error) {
	n, err := s.Get(key).Int()
	if err != nil {
		return 0, fmt.Errorf("config key %s: %w", CanonicalKey(key), err)
	}
	return n, nil
}

// Bool is shorthand for Get(key).Bool() with the key added to the error.
func (s *Store) Bool(key string) (bool, error) {
	b, err := s.Get(key).Bool()
	if err != nil {
		return false, fmt.Errorf("config key %s: %w", CanonicalKey(key), err)
	}
	return b, nil
}

// Keys returns every registered key in registration order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Entries returns every registered key with its effective value as a string,
// in registration order.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, Entry{Key: key, Value: s.entries[key].value().String()})
	}
	return out
}
