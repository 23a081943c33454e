package typedmodel

import (
	"github.com/google/uuid"
)

// Expression combines several sources into one binding. Each part is
// formatted with its own formatter first; f then receives one value per part,
// in order. At least one part is required.
func Expression[R any](parts []Part, f func(values ...any) (R, error), opts ...BindingOption) (*PropertyBinding[R], error) {
	if len(parts) == 0 {
		return nil, ErrNoParts
	}
	infos := make([]Info, len(parts))
	counts := make([]int, len(parts))
	total := 0
	for i, p := range parts {
		infos[i] = p.Info()
		counts[i] = len(infos[i].leaves())
		total += counts[i]
	}
	cfg := newBindingConfig("", opts)
	combine := func(values ...any) (any, error) {
		if len(values) != total {
			return nil, ErrPartCount
		}
		in := make([]any, len(infos))
		off := 0
		for i, p := range infos {
			v, err := p.format(values[off : off+counts[i]])
			if err != nil {
				return nil, err
			}
			in[i] = v
			off += counts[i]
		}
		return f(in...)
	}
	return &PropertyBinding[R]{info: Info{
		ID:        uuid.NewString(),
		Model:     cfg.modelName,
		Parts:     infos,
		Formatter: combine,
		Mode:      cfg.mode,
		Params:    cfg.params,
	}}, nil
}

// Expression1 formats a single source with f.
func Expression1[A, R any](a *PropertyBinding[A], f func(A) R, opts ...BindingOption) *PropertyBinding[R] {
	b, _ := Expression([]Part{a}, func(v ...any) (R, error) {
		var zero R
		x, err := decodeValue[A](a.driver, v[0])
		if err != nil {
			return zero, err
		}
		return f(x), nil
	}, opts...)
	return b
}

// Expression2 combines two sources with f.
func Expression2[A, B, R any](a *PropertyBinding[A], b *PropertyBinding[B], f func(A, B) R, opts ...BindingOption) *PropertyBinding[R] {
	out, _ := Expression([]Part{a, b}, func(v ...any) (R, error) {
		var zero R
		x, err := decodeValue[A](a.driver, v[0])
		if err != nil {
			return zero, err
		}
		y, err := decodeValue[B](b.driver, v[1])
		if err != nil {
			return zero, err
		}
		return f(x, y), nil
	}, opts...)
	return out
}

// Expression3 combines three sources with f.
func Expression3[A, B, C, R any](a *PropertyBinding[A], b *PropertyBinding[B], c *PropertyBinding[C], f func(A, B, C) R, opts ...BindingOption) *PropertyBinding[R] {
	out, _ := Expression([]Part{a, b, c}, func(v ...any) (R, error) {
		var zero R
		x, err := decodeValue[A](a.driver, v[0])
		if err != nil {
			return zero, err
		}
		y, err := decodeValue[B](b.driver, v[1])
		if err != nil {
			return zero, err
		}
		z, err := decodeValue[C](c.driver, v[2])
		if err != nil {
			return zero, err
		}
		return f(x, y, z), nil
	}, opts...)
	return out
}

// Expression4 combines four sources with f.
func Expression4[A, B, C, D, R any](a *PropertyBinding[A], b *PropertyBinding[B], c *PropertyBinding[C], d *PropertyBinding[D], f func(A, B, C, D) R, opts ...BindingOption) *PropertyBinding[R] {
	out, _ := Expression([]Part{a, b, c, d}, func(v ...any) (R, error) {
		var zero R
		w, err := decodeValue[A](a.driver, v[0])
		if err != nil {
			return zero, err
		}
		x, err := decodeValue[B](b.driver, v[1])
		if err != nil {
			return zero, err
		}
		y, err := decodeValue[C](c.driver, v[2])
		if err != nil {
			return zero, err
		}
		z, err := decodeValue[D](d.driver, v[3])
		if err != nil {
			return zero, err
		}
		return f(w, x, y, z), nil
	}, opts...)
	return out
}
