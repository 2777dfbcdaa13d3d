// Package config provides the hierarchical key/value stores that drive a
// build. Every run uses two stores read from the same documents: the TEX root
// holds document-scoped values substituted into the master template, the
// PROGRAM root holds values the tool itself consumes.
//
// # Keys
//
// The set of recognised keys is fixed by the embedded default document. Nested
// object keys are joined with '_' and upper-cased, so the leaf
//
//	{"TEX": {"code": {"tab_size": 4}}}
//
// is registered as CODE_TAB_SIZE. Queries are canonicalised the same way, so
// "code.tab_size" and "CODE_TAB_SIZE" name the same key.
//
// # Basic Usage
//
//	stores, err := config.Load(afero.NewOsFs(), "./config.json", logger)
//	if err != nil {
//	    return err
//	}
//	tabSize, err := stores.Document.Int("code.tab_size")
//
// User documents (JSON, or YAML for .yaml/.yml files) only override values.
// Unknown keys are logged and reported in [ParseResult.Rejected]; an empty
// document or a document without the store's root object is logged and leaves
// the defaults in effect.
//
// # Validation
//
// [LoadSettings] converts the PROGRAM store into typed [Settings] and
// validates them with go-playground/validator, including the custom tags
// file_ext, file_name and glob_pattern.
package config
