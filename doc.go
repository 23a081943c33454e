// Package typedmodel provides typed access to a dynamic, path-addressed
// document store.
//
// Instead of writing string paths such as "/nested/arr/0/msg", callers build
// paths with typed steps that the compiler checks against the document shape:
//
//	type Row struct {
//		Row int    `json:"row"`
//		Msg string `json:"msg"`
//	}
//	type Data struct {
//		Arr []Row `json:"arr"`
//	}
//
//	m, _ := typedmodel.New(Data{Arr: []Row{{0, "hello"}}})
//	msg := func(d typedmodel.Path[Data], _ typedmodel.Path[typedmodel.NoContext]) typedmodel.Path[string] {
//		arr := typedmodel.At(d, func(x *Data) *[]Row { return &x.Arr })
//		return typedmodel.At(typedmodel.Elem(arr, 0), func(r *Row) *string { return &r.Msg })
//	}
//	typedmodel.PathOf(m, msg) // "/arr/0/msg"
//	typedmodel.Get(m, msg)    // "hello", nil
//
// Reading, writing, contexts and change notification are delegated to a
// store.Store; New allocates a jsonstore.Store. Type safety is compile-time
// only: out-of-range indices produce valid paths and read as absent.
//
// Layout:
//   - Path builders and typed path steps live in this package.
//   - The store contract lives in store/, the in-memory store in jsonstore/.
//   - Value conversion lives in codec/, file loading and hot reload in source/.
package typedmodel
