package modules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tylua/tylua/internal/diagnostics"
	"github.com/tylua/tylua/internal/span"
	"github.com/tylua/tylua/internal/typesystem"
)

func writeModule(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+SourceSuffix), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveFindsFirstMatchingSearchDir(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "greet", "return 1")

	l := NewLoader(dir)
	path, ok := l.Resolve("greet")
	if !ok {
		t.Fatal("expected greet to resolve")
	}
	if filepath.Base(path) != "greet.lua" {
		t.Fatalf("unexpected resolved path: %s", path)
	}
}

func TestResolveMissingModule(t *testing.T) {
	l := NewLoader(t.TempDir())
	if _, ok := l.Resolve("nope"); ok {
		t.Fatal("expected resolution to fail")
	}
}

func TestRequireMissingModuleEmitsModuleNotFound(t *testing.T) {
	l := NewLoader(t.TempDir())
	sink := diagnostics.NewSink()
	result := l.Require("nope", span.Zero, sink)

	if !sink.HasErrors() {
		t.Fatal("expected a ModuleNotFound diagnostic")
	}
	if !typesystem.IsNil(result) {
		t.Fatalf("expected Nil fallback, got %s", result.String())
	}
}

func TestRequireCachesResultAcrossCalls(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "once", "return 1")

	calls := 0
	l := NewLoader(dir)
	l.Check = func(source, path string, loader *Loader) (typesystem.Type, *diagnostics.Sink) {
		calls++
		return typesystem.Number{}, diagnostics.NewSink()
	}

	sink := diagnostics.NewSink()
	l.Require("once", span.Zero, sink)
	l.Require("once", span.Zero, sink)

	if calls != 1 {
		t.Fatalf("expected the nested checker to run once, ran %d times", calls)
	}
}

func TestRequireBreaksCyclesWithUnknown(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "cyclic", "return require(\"cyclic\")")

	l := NewLoader(dir)
	var seenDuringRecursion typesystem.Type
	l.Check = func(source, path string, loader *Loader) (typesystem.Type, *diagnostics.Sink) {
		nested := diagnostics.NewSink()
		seenDuringRecursion = loader.Require("cyclic", span.Zero, nested)
		return seenDuringRecursion, nested
	}

	sink := diagnostics.NewSink()
	l.Require("cyclic", span.Zero, sink)

	if _, ok := seenDuringRecursion.(typesystem.Unknown); !ok {
		t.Fatalf("expected Unknown placeholder during cyclic re-entry, got %T", seenDuringRecursion)
	}
}
