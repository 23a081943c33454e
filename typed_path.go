package typedmodel

import (
	"fmt"
	"reflect"
	"sync"
)

// Path is a location in a document whose value has static type T. Paths are
// built from RootPath or RelativePath with the step functions At, Elem, Key
// and Deref, so a misspelled field or a wrong element type fails to compile.
type Path[T any] struct {
	b Builder
}

// RootPath returns the absolute root "/" typed as T.
func RootPath[T any]() Path[T] { return Path[T]{b: absoluteRoot} }

// RelativePath returns the relative root "" typed as T. It addresses the
// location of the context the path is resolved against.
func RelativePath[T any]() Path[T] { return Path[T]{b: relativeRoot} }

// Builder returns the untyped builder behind p.
func (p Path[T]) Builder() Builder { return p.b }

// String returns the accumulated path.
func (p Path[T]) String() string { return GetPath(p.b) }

// PathString returns the accumulated path of p.
func PathString[T any](p Path[T]) string { return GetPath(p.b) }

// At steps into a struct field of T chosen by a selector returning the
// field's address. The selector may go through several nested struct fields
// at once:
//
//	At(d, func(x *Data) *string { return &x.Nested.Msg })
//
// Pointer fields cannot be crossed inside one selector; select the pointer
// field and continue with Deref. At panics when the selector does not return
// the address of a field of T, which is a programming error. Zero-size fields
// of the same type share an address; such a selector resolves to the first.
func At[T, U any](p Path[T], sel func(*T) *U) Path[U] {
	if sel == nil {
		panic("typedmodel.At: selector must not be nil")
	}
	b := p.b
	for _, k := range fieldKeys(sel) {
		b = b.Field(k)
	}
	return Path[U]{b: b}
}

// Elem steps into element i of an array. Any index is accepted.
func Elem[E any](p Path[[]E], i int) Path[E] { return Path[E]{b: p.b.Index(i)} }

// Key steps into entry k of a string-keyed map.
func Key[V any](p Path[map[string]V], k string) Path[V] { return Path[V]{b: p.b.Field(k)} }

// Deref steps through an optional value. The path is unchanged.
func Deref[T any](p Path[*T]) Path[T] { return Path[T]{b: p.b} }

// Field steps into a property by name without any compile-time check.
func Field[U, T any](p Path[T], name string) Path[U] { return Path[U]{b: p.b.Field(name)} }

type fieldCacheKey struct {
	owner  reflect.Type
	offset uintptr
	field  reflect.Type
}

var fieldCache sync.Map // fieldCacheKey -> []string

func fieldKeys[T, U any](sel func(*T) *U) []string {
	var zero T
	rv := reflect.ValueOf(&zero).Elem()
	if rv.Kind() != reflect.Struct {
		panic(fmt.Sprintf("typedmodel.At: %s is not a struct", rv.Type()))
	}
	target := sel(&zero)
	if target == nil {
		panic("typedmodel.At: selector returned nil")
	}
	base := rv.Addr().Pointer()
	fp := reflect.ValueOf(target).Pointer()
	ft := reflect.TypeOf(target).Elem()
	if fp < base || fp >= base+rv.Type().Size() {
		panic("typedmodel.At: selector must return the address of a field of " + rv.Type().String())
	}

	key := fieldCacheKey{owner: rv.Type(), offset: fp - base, field: ft}
	if keys, ok := fieldCache.Load(key); ok {
		return keys.([]string)
	}
	keys, ok := findPathKeys(rv, fp, ft, 0)
	if !ok {
		panic("typedmodel.At: selector must return the address of a struct field (pointer fields need Deref)")
	}
	fieldCache.Store(key, keys)
	return keys
}

const _maxPathDepth = 32

// findPathKeys looks for the field at address target with type ft. Nested
// structs share their address with their first field, so the type decides.
func findPathKeys(v reflect.Value, target uintptr, ft reflect.Type, depth int) ([]string, bool) {
	if depth > _maxPathDepth {
		return nil, false
	}
	t := v.Type()
	if t.Kind() != reflect.Struct {
		return nil, false
	}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() && !flattened(sf) {
			continue
		}
		fv := v.Field(i)
		if !fv.CanAddr() {
			continue
		}
		name, named := jsonKey(sf)
		if fv.Addr().Pointer() == target && sf.Type == ft {
			if !named {
				return nil, false
			}
			return []string{name}, true
		}
		if fv.Kind() == reflect.Struct {
			if rest, ok := findPathKeys(fv, target, ft, depth+1); ok {
				if flattened(sf) {
					return rest, true
				}
				if !named {
					return nil, false
				}
				return append([]string{name}, rest...), true
			}
		}
	}
	return nil, false
}
