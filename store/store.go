// Package store defines the contract of a dynamic, path-addressed document
// store: read and write by slash path, binding contexts for relative paths,
// whole-document replacement and change notification.
//
// Paths starting with "/" are absolute. Other paths are relative and are
// resolved against a Context; the empty relative path addresses the context
// location itself.
package store

// Store is a mutable JSON-shaped document addressed by slash paths.
type Store interface {
	// Property returns the value at path, or false when nothing is there.
	Property(path string, ctx *Context) (any, bool)
	// SetProperty writes value at path. When async is set, change
	// notification may be deferred by the implementation.
	SetProperty(path string, value any, ctx *Context, async bool) error
	// CreateContext returns a handle to the location at path, resolved
	// against base when path is relative.
	CreateContext(path string, base *Context) (*Context, error)
	// Data returns the whole document.
	Data() any
	// SetData replaces the document, or deep-merges into it when merge is set.
	SetData(data any, merge bool) error
	// Subscribe registers fn for change events until cancel is called.
	Subscribe(fn Listener) (cancel func())
}

// Listener receives change events.
type Listener func(ChangeEvent)

// ChangeEvent describes a change at an absolute path. A change at "/"
// affects every binding.
type ChangeEvent struct {
	Path  string
	Async bool
}

// Context is a handle to an absolute location within one store.
type Context struct {
	store Store
	path  string
}

// NewContext is used by Store implementations to mint contexts.
func NewContext(s Store, absPath string) *Context {
	return &Context{store: s, path: absPath}
}

// Path returns the absolute path the context points at.
func (c *Context) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

// Store returns the store that created the context.
func (c *Context) Store() Store {
	if c == nil {
		return nil
	}
	return c.store
}

// String implements fmt.Stringer.
func (c *Context) String() string { return c.Path() }
