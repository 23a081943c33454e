package typedmodel

import (
	"github.com/rs/zerolog"

	"github.com/reoring/typedmodel/codec"
	"github.com/reoring/typedmodel/jsonstore"
	"github.com/reoring/typedmodel/store"
)

// NoContext is the context type of a model that has no binding context.
type NoContext struct{}

// Model is a typed view of a store. T is the shape of the whole document and
// C the shape of the value at the model's context. Models derived from one
// another share the same store, so writes through any of them are visible
// through all.
type Model[T, C any] struct {
	store  store.Store
	ctx    *store.Context
	name   string
	driver codec.Driver
	logger zerolog.Logger
}

// New allocates a fresh store seeded with data.
func New[T any](data T, opts ...ModelOption) (*Model[T, NoContext], error) {
	cfg := newModelConfig(opts)
	sopts := []jsonstore.Option{jsonstore.WithLogger(cfg.logger)}
	if cfg.driver != nil {
		sopts = append(sopts, jsonstore.WithDriver(cfg.driver))
	}
	s, err := jsonstore.New(data, sopts...)
	if err != nil {
		return nil, err
	}
	return &Model[T, NoContext]{store: s, name: cfg.name, driver: cfg.driver, logger: cfg.logger}, nil
}

// FromStore wraps an existing store. ctx may be nil.
func FromStore[T, C any](s store.Store, ctx *store.Context, opts ...ModelOption) *Model[T, C] {
	cfg := newModelConfig(opts)
	return &Model[T, C]{store: s, ctx: ctx, name: cfg.name, driver: cfg.driver, logger: cfg.logger}
}

func derive[T, C, U any](m *Model[T, C], ctx *store.Context) *Model[T, U] {
	return &Model[T, U]{store: m.store, ctx: ctx, name: m.name, driver: m.driver, logger: m.logger}
}

// Store returns the underlying store.
func (m *Model[T, C]) Store() store.Store { return m.store }

// Context returns the binding context, or nil.
func (m *Model[T, C]) Context() *store.Context { return m.ctx }

// Name returns the model name.
func (m *Model[T, C]) Name() string { return m.name }

// Data decodes the whole document into T.
func (m *Model[T, C]) Data() (T, error) {
	return decodeValue[T](m.driver, m.store.Data())
}

// SetData replaces the document, or deep-merges data into it.
func (m *Model[T, C]) SetData(data T, merge bool) error {
	return m.store.SetData(data, merge)
}

// Property reads an untyped value by path, relative paths resolving against
// the model's context.
func (m *Model[T, C]) Property(path string) (any, bool) {
	return m.store.Property(path, m.ctx)
}

// SetProperty writes an untyped value by path without any shape check.
func (m *Model[T, C]) SetProperty(path string, value any, opts ...SetOption) error {
	cfg := newSetConfig(opts)
	return m.store.SetProperty(path, value, m.ctx, cfg.async)
}

// Host is anything a model can be registered on.
type Host interface {
	SetModel(s store.Store, name string)
}

// SetOn registers the model's store on h under the model name.
func (m *Model[T, C]) SetOn(h Host) *Model[T, C] {
	h.SetModel(m.store, m.name)
	return m
}

func decodeValue[U any](d codec.Driver, v any) (U, error) {
	if d == nil {
		return codec.Decode[U](v)
	}
	return codec.DecodeWith[U](d, v)
}
