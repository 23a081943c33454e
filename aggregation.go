package typedmodel

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/reoring/typedmodel/store"
)

// AggregationInfo is the untyped description of an aggregation binding: the
// array to observe and the factory producing one element per entry.
type AggregationInfo struct {
	ID         string
	Store      store.Store
	Model      string
	Path       string
	Context    *store.Context
	Factory    func(id string, ctx *store.Context) any
	StartIndex int
	Length     int
	Params     map[string]any
}

// AggregationBinding describes a binding of an array to a list of elements E.
type AggregationBinding[E any] struct {
	info    AggregationInfo
	factory func(id string, ctx *store.Context) E
}

// BindAggregation describes an aggregation over the array at f. For each
// entry the binding layer supplies an id and a context; factory receives a
// child model sharing m's store whose context is that entry.
func BindAggregation[T, C, U, E any](m *Model[T, C], f Accessor[T, C, []U], factory func(id string, child *Model[T, U]) E, opts ...BindingOption) *AggregationBinding[E] {
	cfg := newBindingConfig(m.name, opts)
	fac := func(id string, ctx *store.Context) E {
		return factory(id, derive[T, C, U](m, ctx))
	}
	return &AggregationBinding[E]{
		info: AggregationInfo{
			ID:         uuid.NewString(),
			Store:      m.store,
			Model:      cfg.modelName,
			Path:       resolvePath(f),
			Context:    m.ctx,
			Factory:    func(id string, ctx *store.Context) any { return fac(id, ctx) },
			StartIndex: cfg.startIndex,
			Length:     cfg.length,
			Params:     cfg.params,
		},
		factory: fac,
	}
}

// Info returns a copy of the untyped description.
func (b *AggregationBinding[E]) Info() AggregationInfo {
	out := b.info
	out.Params = copyParams(b.info.Params)
	return out
}

// Path returns the bound array path.
func (b *AggregationBinding[E]) Path() string { return b.info.Path }

// Factory returns the typed element factory.
func (b *AggregationBinding[E]) Factory() func(id string, ctx *store.Context) E { return b.factory }

// Build creates one element per array entry within the configured range.
// Element ids are "<binding id>-<index>". An absent array builds nothing.
func (b *AggregationBinding[E]) Build() ([]E, error) {
	raw, ok := b.info.Store.Property(b.info.Path, b.info.Context)
	if !ok || raw == nil {
		return nil, nil
	}
	arr, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotArray, b.info.Path)
	}
	base, err := b.info.Store.CreateContext(b.info.Path, b.info.Context)
	if err != nil {
		return nil, err
	}
	start, end := b.window(len(arr))
	out := make([]E, 0, end-start)
	for i := start; i < end; i++ {
		ctx, err := b.info.Store.CreateContext(strconv.Itoa(i), base)
		if err != nil {
			return out, err
		}
		out = append(out, b.factory(b.info.ID+"-"+strconv.Itoa(i), ctx))
	}
	return out, nil
}

func (b *AggregationBinding[E]) window(n int) (int, int) {
	start := b.info.StartIndex
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	end := n
	if b.info.Length > 0 && b.info.Length < n-start {
		end = start + b.info.Length
	}
	return start, end
}

// Observe rebuilds the elements whenever the store reports a change touching
// the array and calls fn with the result.
func (b *AggregationBinding[E]) Observe(fn func([]E, error)) (cancel func()) {
	return subscribeAll([]store.Store{b.info.Store}, func(_ store.Store, ev store.ChangeEvent) {
		if touches(b.info.Path, b.info.Context, ev) {
			fn(b.Build())
		}
	})
}
