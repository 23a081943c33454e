package typedmodel

// Accessor names a location through typed path steps. data is rooted at the
// document root, ctx at the model's context:
//
//	func(d Path[Data], _ Path[NoContext]) Path[string] {
//		return At(Elem(At(d, func(x *Data) *[]Row { return &x.Arr }), 0), func(r *Row) *string { return &r.Msg })
//	}
//
// resolves to "/arr/0/msg", and
//
//	func(_ Path[Data], ctx Path[Row]) Path[string] { return At(ctx, func(r *Row) *string { return &r.Msg }) }
//
// to the relative path "msg".
type Accessor[T, C, U any] func(data Path[T], ctx Path[C]) Path[U]

// PathOf resolves f to its path string.
func PathOf[T, C, U any](m *Model[T, C], f Accessor[T, C, U]) string {
	return resolvePath(f)
}

func resolvePath[T, C, U any](f Accessor[T, C, U]) string {
	return PathString(f(RootPath[T](), RelativePath[C]()))
}

// Get reads the value at f. An absent value yields the zero U and no error;
// use Lookup to tell the two apart.
func Get[T, C, U any](m *Model[T, C], f Accessor[T, C, U]) (U, error) {
	v, _, err := Lookup(m, f)
	return v, err
}

// Lookup reads the value at f and reports whether it was present. The error
// is non-nil only when the stored value does not decode into U.
func Lookup[T, C, U any](m *Model[T, C], f Accessor[T, C, U]) (U, bool, error) {
	raw, ok := m.store.Property(resolvePath(f), m.ctx)
	if !ok {
		var zero U
		return zero, false, nil
	}
	v, err := decodeValue[U](m.driver, raw)
	return v, true, err
}

// Set writes v at f. The value is not checked against the document shape.
func Set[T, C, U any](m *Model[T, C], f Accessor[T, C, U], v U, opts ...SetOption) error {
	cfg := newSetConfig(opts)
	return m.store.SetProperty(resolvePath(f), v, m.ctx, cfg.async)
}

// ContextModel derives a model sharing m's store whose context points at f.
// Relative paths of the new model resolve against that location.
func ContextModel[T, C, U any](m *Model[T, C], f Accessor[T, C, U]) (*Model[T, U], error) {
	path := resolvePath(f)
	ctx, err := m.store.CreateContext(path, m.ctx)
	if err != nil {
		m.logger.Debug().Str("path", path).Str("base", m.ctx.Path()).Err(err).Msg("context model not created")
		return nil, err
	}
	return derive[T, C, U](m, ctx), nil
}
