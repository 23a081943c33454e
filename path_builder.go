package typedmodel

import "strconv"

// Builder accumulates a slash path one segment at a time. It is an immutable
// value: every step returns a new Builder and leaves the receiver untouched.
type Builder struct {
	path string
	root bool
}

// NewPathBuilder returns a Builder for the location at initial. When root is
// set, the first segment is appended without a separator, because initial
// either already ends in "/" (absolute root) or is empty (relative root).
func NewPathBuilder(initial string, root bool) Builder {
	return Builder{path: initial, root: root}
}

// Field returns the child location for a named property.
func (b Builder) Field(name string) Builder {
	if b.root {
		return Builder{path: b.path + name}
	}
	return Builder{path: b.path + "/" + name}
}

// Index returns the child location for an array index. Indices are not
// bounds-checked; existence is the store's concern.
func (b Builder) Index(i int) Builder { return b.Field(strconv.Itoa(i)) }

// GetPath returns the path accumulated by b. It is the only way out of a
// builder chain.
func GetPath(b Builder) string { return b.path }

var (
	absoluteRoot = NewPathBuilder("/", true)
	relativeRoot = NewPathBuilder("", true)
)
