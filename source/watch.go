package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/reoring/typedmodel/store"
)

var (
	// ErrWatching is returned by Watch when the file is already watched.
	ErrWatching = errors.New("source: already watching")
	// ErrStopped is returned by Watch after Stop.
	ErrStopped = errors.New("source: watcher stopped")
)

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// Merge makes reloads deep-merge the file into the store instead of
// replacing the document.
func Merge(merge bool) WatchOption { return func(w *Watcher) { w.merge = merge } }

// Watcher keeps a store in sync with a document file.
type Watcher struct {
	mu       sync.Mutex
	path     string
	store    store.Store
	logger   zerolog.Logger
	merge    bool
	watcher  *fsnotify.Watcher
	onReload []func(any)
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewWatcher loads path into s and returns a Watcher for it. Call Watch to
// follow changes on disk.
func NewWatcher(path string, s store.Store, logger zerolog.Logger, opts ...WatchOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	w := &Watcher{
		path:   absPath,
		store:  s,
		logger: logger,
		stopCh: make(chan struct{}),
	}
	for _, o := range opts {
		o(w)
	}
	if err := w.load(); err != nil {
		return nil, err
	}
	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string { return w.path }

// OnReload registers a callback receiving the freshly loaded document.
func (w *Watcher) OnReload(fn func(any)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = append(w.onReload, fn)
}

func (w *Watcher) load() error {
	doc, err := LoadFile(w.path)
	if err != nil {
		return err
	}
	if err := w.store.SetData(doc, w.merge); err != nil {
		return fmt.Errorf("source: apply %s: %w", w.path, err)
	}
	w.mu.Lock()
	fns := append([]func(any){}, w.onReload...)
	w.mu.Unlock()
	for _, fn := range fns {
		fn(doc)
	}
	return nil
}

// Reload reads the file again and applies it to the store. On failure the
// store keeps its current document.
func (w *Watcher) Reload() error {
	w.logger.Info().Str("path", w.path).Bool("merge", w.merge).Msg("reloading document")
	if err := w.load(); err != nil {
		w.logger.Error().Err(err).Msg("document reload failed, keeping current data")
		return fmt.Errorf("reload document: %w", err)
	}
	w.logger.Info().Msg("document reloaded")
	return nil
}

// Watch starts following the file. The directory is watched so that atomic
// saves (write to temp, rename) are seen. A Watcher follows its file at most
// once and cannot be restarted after Stop.
func (w *Watcher) Watch() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return fmt.Errorf("watch directory: %w", err)
	}
	w.mu.Lock()
	select {
	case <-w.stopCh:
		w.mu.Unlock()
		fw.Close()
		return ErrStopped
	default:
	}
	if w.watcher != nil {
		w.mu.Unlock()
		fw.Close()
		return ErrWatching
	}
	w.watcher = fw
	w.mu.Unlock()

	go w.watchLoop(fw)

	w.logger.Info().Str("path", w.path).Msg("watching document for changes")
	return nil
}

// Stop ends watching. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.mu.Lock()
		if w.watcher != nil {
			w.watcher.Close()
		}
		w.mu.Unlock()
	})
}

func (w *Watcher) watchLoop(fw *fsnotify.Watcher) {
	filename := filepath.Base(w.path)
	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.logger.Debug().
					Str("event", event.Op.String()).
					Str("file", event.Name).
					Msg("document changed")
				_ = w.Reload()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("file watcher error")
		case <-w.stopCh:
			return
		}
	}
}
