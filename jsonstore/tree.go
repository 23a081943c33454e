package jsonstore

import (
	"github.com/reoring/typedmodel/codec"
	"github.com/reoring/typedmodel/internal/pointer"
	"github.com/reoring/typedmodel/store"
)

// MaxPadding bounds how many null entries a single write may add in front of
// the written index. Writes further past the end of an array fail with
// store.ErrUnresolvable.
const MaxPadding = 1 << 16

func lookup(node any, segs []string) (any, bool) {
	for _, seg := range segs {
		switch t := node.(type) {
		case map[string]any:
			v, ok := t[seg]
			if !ok {
				return nil, false
			}
			node = v
		case []any:
			i, ok := pointer.Index(seg)
			if !ok || i >= len(t) {
				return nil, false
			}
			node = t[i]
		default:
			return nil, false
		}
	}
	return node, true
}

// setIn returns node with v written at segs. Containers are updated in place
// except for arrays that have to grow.
func setIn(node any, segs []string, v any) (any, error) {
	if len(segs) == 0 {
		return v, nil
	}
	seg, rest := segs[0], segs[1:]
	switch t := node.(type) {
	case map[string]any:
		if len(rest) == 0 {
			t[seg] = v
			return t, nil
		}
		child, ok := t[seg]
		if !ok {
			return node, store.ErrUnresolvable
		}
		nc, err := setIn(child, rest, v)
		if err != nil {
			return node, err
		}
		t[seg] = nc
		return t, nil
	case []any:
		i, ok := pointer.Index(seg)
		if !ok {
			return node, store.ErrUnresolvable
		}
		if len(rest) == 0 {
			if i >= len(t) {
				if i-len(t) > MaxPadding {
					return node, store.ErrUnresolvable
				}
				t = append(t, make([]any, i+1-len(t))...)
			}
			t[i] = v
			return t, nil
		}
		if i >= len(t) {
			return node, store.ErrUnresolvable
		}
		nc, err := setIn(t[i], rest, v)
		if err != nil {
			return node, err
		}
		t[i] = nc
		return t, nil
	default:
		return node, store.ErrUnresolvable
	}
}

// mergeTree deep-merges src into dst. Mismatched kinds are replaced by src.
func mergeTree(dst, src any) any {
	switch s := src.(type) {
	case map[string]any:
		d, ok := dst.(map[string]any)
		if !ok {
			return codec.Clone(s)
		}
		for k, v := range s {
			if cur, ok := d[k]; ok {
				d[k] = mergeTree(cur, v)
			} else {
				d[k] = codec.Clone(v)
			}
		}
		return d
	case []any:
		d, ok := dst.([]any)
		if !ok {
			return codec.Clone(s)
		}
		for i, v := range s {
			if i < len(d) {
				d[i] = mergeTree(d[i], v)
			} else {
				d = append(d, codec.Clone(v))
			}
		}
		return d
	default:
		return src
	}
}
