package codec

import (
	"fmt"
)

// Normalize converts v into a JSON-shaped tree using the current driver.
func Normalize(v any) (any, error) { return NormalizeWith(Current(), v) }

// NormalizeWith converts v into a JSON-shaped tree. Values that already are
// trees are deep-copied without a round trip through the driver.
func NormalizeWith(d Driver, v any) (any, error) {
	if IsTree(v) {
		return Clone(v), nil
	}
	b, err := d.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: normalize %T: %w", v, err)
	}
	var out any
	if err := d.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("codec: normalize %T: %w", v, err)
	}
	return out, nil
}

// Decode converts a tree into T using the current driver.
func Decode[T any](tree any) (T, error) { return DecodeWith[T](Current(), tree) }

// DecodeWith converts a tree into T. A nil tree yields the zero T.
func DecodeWith[T any](d Driver, tree any) (T, error) {
	var out T
	if tree == nil {
		return out, nil
	}
	if v, ok := tree.(T); ok {
		return v, nil
	}
	b, err := d.Marshal(tree)
	if err != nil {
		return out, fmt.Errorf("codec: decode into %T: %w", out, err)
	}
	if err := d.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("codec: decode into %T: %w", out, err)
	}
	return out, nil
}

// IsTree reports whether v consists only of JSON-shaped values.
func IsTree(v any) bool {
	switch t := v.(type) {
	case nil, string, float64, bool:
		return true
	case map[string]any:
		for _, vv := range t {
			if !IsTree(vv) {
				return false
			}
		}
		return true
	case []any:
		for _, vv := range t {
			if !IsTree(vv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Clone deep-copies the containers of a tree. Scalars are shared.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = Clone(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = Clone(t[i])
		}
		return out
	default:
		return v
	}
}
