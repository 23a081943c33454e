package store

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolvable is returned when a path does not lead to a location
	// that can be read, written or bound.
	ErrUnresolvable = errors.New("path cannot be resolved")
	// ErrNoContext is returned for relative paths used without a context.
	ErrNoContext = errors.New("relative path without context")
	// ErrForeignContext is returned when a context minted by another store
	// is passed in.
	ErrForeignContext = errors.New("context belongs to another store")
)

// PathError records the operation and path that failed.
type PathError struct {
	Op   string // "set", "context", "merge", ...
	Path string
	Err  error
}

func (e *PathError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }
