package typedmodel_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	tm "github.com/reoring/typedmodel"
	"github.com/reoring/typedmodel/jsonstore"
	"github.com/reoring/typedmodel/store"
)

type Pair struct {
	A int    `json:"a"`
	B int    `json:"b"`
	S string `json:"s"`
}

func pairModel(t *testing.T) *tm.Model[Pair, NC] {
	t.Helper()
	m, err := tm.New(Pair{A: 2, B: 3, S: "x"}, tm.WithName("pair"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func fieldA(d tm.Path[Pair], _ tm.Path[NC]) tm.Path[int] {
	return tm.At(d, func(p *Pair) *int { return &p.A })
}

func fieldB(d tm.Path[Pair], _ tm.Path[NC]) tm.Path[int] {
	return tm.At(d, func(p *Pair) *int { return &p.B })
}

func fieldS(d tm.Path[Pair], _ tm.Path[NC]) tm.Path[string] {
	return tm.At(d, func(p *Pair) *string { return &p.S })
}

func TestBind_Info(t *testing.T) {
	m := pairModel(t)
	b := tm.Bind(m, fieldA, tm.WithMode(tm.ModeTwoWay), tm.WithParam("suspended", true))
	info := b.Info()
	if info.Path != "/a" || b.Path() != "/a" {
		t.Fatalf("path = %q", info.Path)
	}
	if info.Store != m.Store() || info.Model != "pair" || info.Context != nil {
		t.Fatalf("unexpected info %+v", info)
	}
	if info.Mode != tm.ModeTwoWay || info.Mode.String() != "TwoWay" {
		t.Fatalf("mode = %v", info.Mode)
	}
	if info.Params["suspended"] != true || info.ID == "" || info.Formatter != nil {
		t.Fatalf("unexpected info %+v", info)
	}
	info.Params["suspended"] = false
	if b.Info().Params["suspended"] != true {
		t.Fatalf("Info must return a copy")
	}
	if named := tm.Bind(m, fieldA, tm.WithModelName("other")); named.Info().Model != "other" {
		t.Fatalf("model name override ignored")
	}
}

func TestBind_Value(t *testing.T) {
	m := pairModel(t)
	b := tm.Bind(m, fieldA)
	if v, err := b.Value(); err != nil || v != 2 {
		t.Fatalf("value = %d, %v", v, err)
	}
	_ = tm.Set(m, fieldA, 7)
	if v, _ := b.Value(); v != 7 {
		t.Fatalf("value after set = %d", v)
	}
}

func TestMap_Composition(t *testing.T) {
	m := pairModel(t)
	b := tm.Bind(m, fieldA)
	f := func(x int) int { return x + 1 }
	g := func(x int) string { return fmt.Sprintf("<%d>", x*10) }

	mapped := tm.Map(tm.Map(b, f), g)
	got, err := mapped.Format(4)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if got != "<50>" {
		t.Fatalf("Map(Map(b,f),g)(4) = %q, want g(f(4)) = <50>", got)
	}
	if v, _ := mapped.Value(); v != "<30>" {
		t.Fatalf("mapped value = %q", v)
	}

	if b.Info().Formatter != nil {
		t.Fatalf("Map must not mutate the source binding")
	}
	if mapped.Info().ID == b.Info().ID || mapped.Path() != "/a" {
		t.Fatalf("mapped binding should be a new descriptor over the same path")
	}

	// Branching off one binding yields independent chains.
	left := tm.Map(b, func(x int) int { return x * 2 })
	right := tm.Map(b, func(x int) int { return x * 3 })
	l, _ := left.Format(5)
	r, _ := right.Format(5)
	if l != 10 || r != 15 {
		t.Fatalf("branches interfere: %d %d", l, r)
	}
}

func TestExpression_Typed(t *testing.T) {
	m := pairModel(t)
	sum := tm.Expression2(tm.Bind(m, fieldA), tm.Bind(m, fieldB), func(a, b int) int { return a*10 + b })

	if got, err := sum.Format(1, 2); err != nil || got != 12 {
		t.Fatalf("Format(1,2) = %d, %v", got, err)
	}
	if got, _ := sum.Value(); got != 23 {
		t.Fatalf("value = %d", got)
	}
	if _, err := sum.Format(1); !errors.Is(err, tm.ErrPartCount) {
		t.Fatalf("expected ErrPartCount, got %v", err)
	}

	info := sum.Info()
	if len(info.Parts) != 2 || info.Parts[0].Path != "/a" || info.Parts[1].Path != "/b" || info.Path != "" {
		t.Fatalf("unexpected parts %+v", info.Parts)
	}
}

func TestExpression_PartFormatters(t *testing.T) {
	m := pairModel(t)
	label := tm.Map(tm.Bind(m, fieldS), strings.ToUpper)
	out := tm.Expression3(label, tm.Bind(m, fieldA), tm.Bind(m, fieldB), func(s string, a, b int) string {
		return fmt.Sprintf("%s:%d", s, a+b)
	})
	if v, err := out.Value(); err != nil || v != "X:5" {
		t.Fatalf("value = %q, %v", v, err)
	}
	one := tm.Expression1(tm.Bind(m, fieldA), func(a int) bool { return a > 1 })
	if v, _ := one.Value(); !v {
		t.Fatalf("Expression1 value = %v", v)
	}
	four := tm.Expression4(tm.Bind(m, fieldA), tm.Bind(m, fieldB), tm.Bind(m, fieldA), tm.Bind(m, fieldS),
		func(a, b, c int, s string) string { return fmt.Sprint(a, b, c, s) })
	if v, _ := four.Value(); v != "2 3 2x" {
		t.Fatalf("Expression4 value = %q", v)
	}

	// composite of composites is flattened into its leaf sources
	nested := tm.Expression2(out, one, func(s string, ok bool) string { return fmt.Sprint(s, ok) })
	if v, err := nested.Value(); err != nil || v != "X:5true" {
		t.Fatalf("nested value = %q, %v", v, err)
	}

	// Map over a composite applies after the combiner.
	doubled := tm.Map(tm.Expression2(tm.Bind(m, fieldA), tm.Bind(m, fieldB), func(a, b int) int { return a + b }), func(x int) int { return x * 2 })
	if v, _ := doubled.Format(1, 1); v != 4 {
		t.Fatalf("mapped composite = %d", v)
	}
}

func TestExpression_Untyped(t *testing.T) {
	m := pairModel(t)
	if _, err := tm.Expression[int](nil, func(...any) (int, error) { return 0, nil }); !errors.Is(err, tm.ErrNoParts) {
		t.Fatalf("expected ErrNoParts, got %v", err)
	}
	b, err := tm.Expression([]tm.Part{tm.Bind(m, fieldA), tm.Bind(m, fieldS)}, func(v ...any) (string, error) {
		return fmt.Sprint(v...), nil
	}, tm.WithMode(tm.ModeOneWay))
	if err != nil {
		t.Fatalf("Expression: %v", err)
	}
	if v, _ := b.Value(); v != "2x" {
		t.Fatalf("value = %q", v)
	}
	if b.Info().Mode != tm.ModeOneWay {
		t.Fatalf("mode not applied")
	}
}

func TestStores_Deduplicated(t *testing.T) {
	m1 := pairModel(t)
	m2 := pairModel(t)
	c := tm.Expression3(tm.Bind(m1, fieldA), tm.Bind(m2, fieldB), tm.Bind(m1, fieldB), func(a, b, c int) int { return a + b + c })
	got := c.Stores()
	want := []store.Store{m1.Store(), m2.Store()}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("stores = %v, want %v", got, want)
	}
	if v, _ := c.Value(); v != 2+3+3 {
		t.Fatalf("cross-store value = %d", v)
	}
}

func TestObserve(t *testing.T) {
	m := pairModel(t)
	b := tm.Map(tm.Bind(m, fieldA), func(x int) int { return x * 100 })
	var seen []int
	cancel := b.Observe(func(v int, err error) {
		if err != nil {
			t.Errorf("observe: %v", err)
		}
		seen = append(seen, v)
	})

	_ = tm.Set(m, fieldB, 9) // unrelated path
	_ = tm.Set(m, fieldA, 4)
	_ = m.SetData(Pair{A: 1}, false) // root change
	cancel()
	_ = tm.Set(m, fieldA, 5)

	if diff := cmp.Diff([]int{400, 100}, seen); diff != "" {
		t.Fatalf("observed values mismatch (-want +got):\n%s", diff)
	}

	once := tm.Bind(m, fieldA, tm.WithMode(tm.ModeOneTime))
	calls := 0
	once.Observe(func(int, error) { calls++ })
	_ = tm.Set(m, fieldA, 6)
	if calls != 0 {
		t.Fatalf("one-time binding must not be re-evaluated")
	}
}

func TestObserve_AsyncFlush(t *testing.T) {
	m := pairModel(t)
	b := tm.Bind(m, fieldA)
	var seen []int
	b.Observe(func(v int, _ error) { seen = append(seen, v) })
	_ = tm.Set(m, fieldA, 11, tm.Async())
	if len(seen) != 0 {
		t.Fatalf("async write observed before flush")
	}
	m.Store().(*jsonstore.Store).Flush()
	if diff := cmp.Diff([]int{11}, seen); diff != "" {
		t.Fatalf("observed mismatch (-want +got):\n%s", diff)
	}
}
