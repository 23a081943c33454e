package source_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/reoring/typedmodel/jsonstore"
	"github.com/reoring/typedmodel/source"
)

func TestParseYAML(t *testing.T) {
	got, err := source.ParseYAML([]byte(`
hello: world
count: 3
nested:
  arr:
    - row: 0
      msg: hello
    - row: 1
      msg: world
`))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	want := map[string]any{
		"hello": "world",
		"count": float64(3),
		"nested": map[string]any{"arr": []any{
			map[string]any{"row": float64(0), "msg": "hello"},
			map[string]any{"row": float64(1), "msg": "world"},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}

	empty, err := source.ParseYAML(nil)
	if err != nil || empty != nil {
		t.Fatalf("empty YAML = %v, %v", empty, err)
	}
	if _, err := source.ParseYAML([]byte("a: [")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestParseJSON(t *testing.T) {
	got, err := source.ParseJSON([]byte(`{"a":[1,true,null]}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"a": []any{float64(1), true, nil}}, got); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
	if _, err := source.ParseJSON([]byte(`{`)); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	y := filepath.Join(dir, "data.yml")
	j := filepath.Join(dir, "data.json")
	x := filepath.Join(dir, "data.txt")
	for p, body := range map[string]string{y: "k: v\n", j: `{"k":"v"}`, x: "k"} {
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	for _, p := range []string{y, j} {
		got, err := source.LoadFile(p)
		if err != nil {
			t.Fatalf("LoadFile(%s): %v", p, err)
		}
		if diff := cmp.Diff(map[string]any{"k": "v"}, got); diff != "" {
			t.Fatalf("%s mismatch (-want +got):\n%s", p, diff)
		}
	}
	if _, err := source.LoadFile(x); !errors.Is(err, source.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	if _, err := source.LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestWatcher_Reload(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "model.json")
	if err := os.WriteFile(p, []byte(`{"count":1,"keep":"me"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, _ := jsonstore.New(nil)
	w, err := source.NewWatcher(p, s, zerolog.Nop(), source.Merge(true))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if v, _ := s.Property("/count", nil); v != float64(1) {
		t.Fatalf("initial load = %v", v)
	}

	var reloaded []any
	w.OnReload(func(doc any) { reloaded = append(reloaded, doc) })

	if err := os.WriteFile(p, []byte(`{"count":2}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if v, _ := s.Property("/count", nil); v != float64(2) {
		t.Fatalf("reloaded count = %v", v)
	}
	if v, _ := s.Property("/keep", nil); v != "me" {
		t.Fatalf("merge reload dropped key, got %v", v)
	}
	if len(reloaded) != 1 {
		t.Fatalf("OnReload calls = %d", len(reloaded))
	}

	if err := os.WriteFile(p, []byte(`{`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Reload(); err == nil {
		t.Fatalf("expected reload error")
	}
	if v, _ := s.Property("/count", nil); v != float64(2) {
		t.Fatalf("failed reload must keep data, got %v", v)
	}
}

func TestWatcher_Watch(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "model.yaml")
	if err := os.WriteFile(p, []byte("count: 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, _ := jsonstore.New(nil)
	w, err := source.NewWatcher(p, s, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	done := make(chan struct{}, 8)
	w.OnReload(func(any) { done <- struct{}{} })
	if err := w.Watch(); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(p, []byte("count: 5\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	deadline := time.After(5 * time.Second)
	for {
		if v, _ := s.Property("/count", nil); v == float64(5) {
			break
		}
		select {
		case <-done:
		case <-deadline:
			t.Fatalf("store not updated after file change")
		}
	}
	w.Stop()
	w.Stop()
}

func TestWatcher_WatchOnce(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "model.json")
	if err := os.WriteFile(p, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, _ := jsonstore.New(nil)
	w, err := source.NewWatcher(p, s, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Watch(); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if err := w.Watch(); !errors.Is(err, source.ErrWatching) {
		t.Fatalf("second Watch = %v, want ErrWatching", err)
	}
	w.Stop()
	if err := w.Watch(); !errors.Is(err, source.ErrStopped) {
		t.Fatalf("Watch after Stop = %v, want ErrStopped", err)
	}

	idle, err := source.NewWatcher(p, s, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	idle.Stop()
	if err := idle.Watch(); !errors.Is(err, source.ErrStopped) {
		t.Fatalf("Watch on stopped watcher = %v, want ErrStopped", err)
	}
}
