// Package source loads documents from JSON or YAML and keeps a store in sync
// with a file on disk.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reoring/typedmodel/codec"
)

// ErrUnknownFormat is returned for files whose extension is neither JSON nor YAML.
var ErrUnknownFormat = errors.New("source: unknown document format")

// ParseJSON decodes a JSON document into a tree.
func ParseJSON(data []byte) (any, error) {
	var v any
	if err := codec.Current().Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("source: parse json: %w", err)
	}
	return v, nil
}

// ParseYAML decodes the first YAML document into a tree. Mappings become
// map[string]any and numbers become float64, matching what JSON yields.
func ParseYAML(data []byte) (any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var node any
	if err := dec.Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("source: parse yaml: %w", err)
	}
	tree, err := codec.Normalize(yamlNormalizeValue(node))
	if err != nil {
		return nil, fmt.Errorf("source: parse yaml: %w", err)
	}
	return tree, nil
}

// LoadFile reads a document, choosing the parser by extension
// (.json, .yaml, .yml).
func LoadFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseJSON(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// yamlNormalizeValue converts YAML-decoded values (which may contain
// map[any]any) into JSON-like values recursively. Non-string keys are
// rendered with fmt.
func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				ks = fmt.Sprint(k)
			}
			out[ks] = yamlNormalizeValue(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}
