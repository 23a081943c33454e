package typedmodel

import (
	"github.com/google/uuid"

	"github.com/reoring/typedmodel/codec"
	"github.com/reoring/typedmodel/internal/pointer"
	"github.com/reoring/typedmodel/store"
)

// Formatter turns the raw values of a binding's sources into the bound value.
// A single-source binding receives one value; a composite binding receives
// one value per source, in order.
type Formatter func(values ...any) (any, error)

// Info is the untyped description of a property binding handed to a binding
// layer: which store and path to observe and how to format what it finds
// there. Composite bindings list their sources in Parts and leave Store and
// Path empty.
type Info struct {
	ID        string
	Store     store.Store
	Model     string
	Path      string
	Context   *store.Context
	Parts     []Info
	Formatter Formatter
	Mode      Mode
	Params    map[string]any
}

func (i Info) clone() Info {
	out := i
	if i.Parts != nil {
		out.Parts = make([]Info, len(i.Parts))
		for k, p := range i.Parts {
			out.Parts[k] = p.clone()
		}
	}
	out.Params = copyParams(i.Params)
	return out
}

// leaves returns the single-path sources of i, flattening nested parts.
func (i Info) leaves() []Info {
	if len(i.Parts) == 0 {
		return []Info{i}
	}
	var out []Info
	for _, p := range i.Parts {
		out = append(out, p.leaves()...)
	}
	return out
}

// format applies the formatter of i to raw source values.
func (i Info) format(values []any) (any, error) {
	if i.Formatter != nil {
		return i.Formatter(values...)
	}
	if len(values) != 1 {
		return nil, ErrPartCount
	}
	return values[0], nil
}

// Part is a source of a composite binding.
type Part interface {
	Info() Info
}

// PropertyBinding describes a binding to one value of type U.
type PropertyBinding[U any] struct {
	info   Info
	driver codec.Driver
}

// Bind describes a property binding to the value at f.
func Bind[T, C, U any](m *Model[T, C], f Accessor[T, C, U], opts ...BindingOption) *PropertyBinding[U] {
	cfg := newBindingConfig(m.name, opts)
	return &PropertyBinding[U]{
		info: Info{
			ID:      uuid.NewString(),
			Store:   m.store,
			Model:   cfg.modelName,
			Path:    resolvePath(f),
			Context: m.ctx,
			Mode:    cfg.mode,
			Params:  cfg.params,
		},
		driver: m.driver,
	}
}

// Info returns a copy of the untyped description.
func (b *PropertyBinding[U]) Info() Info { return b.info.clone() }

// Path returns the bound path; empty for composite bindings.
func (b *PropertyBinding[U]) Path() string { return b.info.Path }

// Stores returns the stores the binding reads from, deduplicated by identity
// in first-seen order.
func (b *PropertyBinding[U]) Stores() []store.Store {
	var out []store.Store
	for _, l := range b.info.leaves() {
		seen := false
		for _, s := range out {
			if s == l.Store {
				seen = true
				break
			}
		}
		if !seen && l.Store != nil {
			out = append(out, l.Store)
		}
	}
	return out
}

// Format applies the binding's formatter chain to raw source values.
func (b *PropertyBinding[U]) Format(values ...any) (U, error) {
	v, err := b.info.format(values)
	if err != nil {
		var zero U
		return zero, err
	}
	return decodeValue[U](b.driver, v)
}

// Value reads the sources from their stores and formats them.
func (b *PropertyBinding[U]) Value() (U, error) {
	leaves := b.info.leaves()
	values := make([]any, len(leaves))
	for i, l := range leaves {
		values[i], _ = l.Store.Property(l.Path, l.Context)
	}
	return b.Format(values...)
}

// Observe calls fn with the new value whenever a store reports a change that
// touches one of the binding's sources. One-time bindings are never
// re-evaluated.
func (b *PropertyBinding[U]) Observe(fn func(U, error)) (cancel func()) {
	if b.info.Mode == ModeOneTime {
		return func() {}
	}
	leaves := b.info.leaves()
	return subscribeAll(b.Stores(), func(s store.Store, ev store.ChangeEvent) {
		for _, l := range leaves {
			if l.Store == s && touches(l.Path, l.Context, ev) {
				fn(b.Value())
				return
			}
		}
	})
}

// Map returns a new binding whose value is f applied to b's value. b is left
// unchanged. Chained maps apply in call order: Map(Map(b, f), g) yields
// g(f(x)).
func Map[U, V any](b *PropertyBinding[U], f func(U) V) *PropertyBinding[V] {
	info := b.info.clone()
	info.ID = uuid.NewString()
	prev := b.info
	driver := b.driver
	info.Formatter = func(values ...any) (any, error) {
		in, err := prev.format(values)
		if err != nil {
			return nil, err
		}
		u, err := decodeValue[U](driver, in)
		if err != nil {
			return nil, err
		}
		return f(u), nil
	}
	return &PropertyBinding[V]{info: info, driver: driver}
}

func touches(path string, ctx *store.Context, ev store.ChangeEvent) bool {
	abs, ok := pointer.Resolve(path, ctx.Path(), ctx != nil)
	return ok && pointer.Overlaps(abs, ev.Path)
}

func subscribeAll(stores []store.Store, fn func(store.Store, store.ChangeEvent)) func() {
	cancels := make([]func(), 0, len(stores))
	for _, s := range stores {
		s := s
		cancels = append(cancels, s.Subscribe(func(ev store.ChangeEvent) { fn(s, ev) }))
	}
	return func() {
		for _, c := range cancels {
			c()
		}
	}
}
