package typedmodel

import (
	"errors"

	"github.com/reoring/typedmodel/store"
)

var (
	// ErrNoParts is returned when a composite binding is built without parts.
	ErrNoParts = errors.New("typedmodel: composite binding needs at least one part")
	// ErrNotArray is returned when an aggregation path does not hold an array.
	ErrNotArray = errors.New("typedmodel: aggregation path does not hold an array")
	// ErrPartCount is returned when a formatter receives fewer values than
	// the binding has sources.
	ErrPartCount = errors.New("typedmodel: wrong number of part values")
)

// Store errors, re-exported so callers need only this package for errors.Is.
var (
	ErrUnresolvable = store.ErrUnresolvable
	ErrNoContext    = store.ErrNoContext
)
