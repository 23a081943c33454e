// Package jsonstore is an in-memory JSON document store implementing
// store.Store.
//
// Values are kept as JSON-shaped trees. Typed values passed in are normalized
// through the codec driver; reads hand out deep copies so callers never alias
// the document.
package jsonstore

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/reoring/typedmodel/codec"
	"github.com/reoring/typedmodel/internal/pointer"
	"github.com/reoring/typedmodel/store"
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for debug events.
func WithLogger(l zerolog.Logger) Option { return func(s *Store) { s.logger = l } }

// WithDriver pins the codec driver used to normalize written values. By
// default the process-wide codec driver is used.
func WithDriver(d codec.Driver) Option { return func(s *Store) { s.driver = d } }

// Store holds one document. It is safe for concurrent use; listeners are
// invoked outside of the document lock.
type Store struct {
	mu     sync.RWMutex
	data   any
	driver codec.Driver
	logger zerolog.Logger

	lmu       sync.Mutex
	listeners map[uint64]store.Listener
	nextID    uint64
	pending   []store.ChangeEvent
}

var _ store.Store = (*Store)(nil)

// New creates a store seeded with data.
func New(data any, opts ...Option) (*Store, error) {
	s := &Store{
		logger:    zerolog.Nop(),
		listeners: map[uint64]store.Listener{},
	}
	for _, o := range opts {
		o(s)
	}
	tree, err := s.normalize(data)
	if err != nil {
		return nil, err
	}
	s.data = tree
	return s, nil
}

func (s *Store) codecDriver() codec.Driver {
	if s.driver != nil {
		return s.driver
	}
	return codec.Current()
}

func (s *Store) normalize(v any) (any, error) {
	return codec.NormalizeWith(s.codecDriver(), v)
}

func (s *Store) resolve(path string, ctx *store.Context) (string, error) {
	if ctx != nil && ctx.Store() != store.Store(s) {
		return "", store.ErrForeignContext
	}
	abs, ok := pointer.Resolve(path, ctx.Path(), ctx != nil)
	if !ok {
		return "", store.ErrNoContext
	}
	return abs, nil
}

// Property returns a copy of the value at path.
func (s *Store) Property(path string, ctx *store.Context) (any, bool) {
	abs, err := s.resolve(path, ctx)
	if err != nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := lookup(s.data, pointer.Split(abs))
	if !ok {
		return nil, false
	}
	return codec.Clone(v), true
}

// SetProperty writes value at path. The parent container must exist. Writing
// to an array index at or past its length grows the array, padding with null
// up to MaxPadding entries.
// Async writes queue their change event until Flush.
func (s *Store) SetProperty(path string, value any, ctx *store.Context, async bool) error {
	abs, err := s.resolve(path, ctx)
	if err != nil {
		return &store.PathError{Op: "set", Path: path, Err: err}
	}
	tree, err := s.normalize(value)
	if err != nil {
		return &store.PathError{Op: "set", Path: abs, Err: err}
	}

	s.mu.Lock()
	next, err := setIn(s.data, pointer.Split(abs), tree)
	if err == nil {
		s.data = next
	}
	s.mu.Unlock()
	if err != nil {
		s.logger.Debug().Str("path", abs).Err(err).Msg("property not set")
		return &store.PathError{Op: "set", Path: abs, Err: err}
	}

	s.logger.Debug().Str("path", abs).Bool("async", async).Msg("property set")
	s.emit(store.ChangeEvent{Path: abs, Async: async})
	return nil
}

// CreateContext binds a context to an existing location.
func (s *Store) CreateContext(path string, base *store.Context) (*store.Context, error) {
	abs, err := s.resolve(path, base)
	if err != nil {
		return nil, &store.PathError{Op: "context", Path: path, Err: err}
	}
	s.mu.RLock()
	_, ok := lookup(s.data, pointer.Split(abs))
	s.mu.RUnlock()
	if ok {
		return store.NewContext(s, abs), nil
	}
	s.logger.Debug().Str("path", abs).Msg("context not created")
	return nil, &store.PathError{Op: "context", Path: abs, Err: store.ErrUnresolvable}
}

// Data returns a copy of the whole document.
func (s *Store) Data() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return codec.Clone(s.data)
}

// SetData replaces the document, or deep-merges data into it when merge is
// set: objects merge key by key and arrays merge index by index.
func (s *Store) SetData(data any, merge bool) error {
	tree, err := s.normalize(data)
	if err != nil {
		return &store.PathError{Op: "setdata", Path: pointer.Root, Err: err}
	}
	s.mu.Lock()
	if merge {
		s.data = mergeTree(s.data, tree)
	} else {
		s.data = tree
	}
	s.mu.Unlock()

	s.logger.Debug().Bool("merge", merge).Msg("data set")
	s.emit(store.ChangeEvent{Path: pointer.Root})
	return nil
}

// Subscribe registers fn for change events.
func (s *Store) Subscribe(fn store.Listener) (cancel func()) {
	s.lmu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.lmu.Unlock()
	return func() {
		s.lmu.Lock()
		delete(s.listeners, id)
		s.lmu.Unlock()
	}
}

// Flush delivers the change events queued by async writes.
func (s *Store) Flush() {
	s.lmu.Lock()
	events := s.pending
	s.pending = nil
	s.lmu.Unlock()
	for _, ev := range events {
		s.notify(ev)
	}
}

// Pending returns the number of queued change events.
func (s *Store) Pending() int {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	return len(s.pending)
}

func (s *Store) emit(ev store.ChangeEvent) {
	if ev.Async {
		s.lmu.Lock()
		s.pending = append(s.pending, ev)
		s.lmu.Unlock()
		return
	}
	s.notify(ev)
}

func (s *Store) notify(ev store.ChangeEvent) {
	s.lmu.Lock()
	ids := make([]uint64, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]store.Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.listeners[id])
	}
	s.lmu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
