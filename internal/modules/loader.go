package modules

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tylua/tylua/internal/diagnostics"
	"github.com/tylua/tylua/internal/span"
	"github.com/tylua/tylua/internal/typesystem"
)

// SourceSuffix is appended to a require(d) name to form a candidate
// file path.
const SourceSuffix = ".lua"

// CheckFunc runs a fresh check of a module's source and returns its
// inferred top-level return type plus the diagnostics produced. It is
// supplied by the checker package at wiring time: modules cannot
// import checker directly without an import cycle (checker imports
// modules to resolve `require`).
type CheckFunc func(source, path string, loader *Loader) (typesystem.Type, *diagnostics.Sink)

// Loader resolves `require("name")` targets against an ordered list of
// search directories and caches both source text and inferred return
// type by canonical path.
type Loader struct {
	SearchDirs []string
	Cache      map[string]*Module
	Check      CheckFunc
	Disk       *DiskCache // optional persistent build cache, may be nil
}

// NewLoader creates a loader seeded with the importing file's
// directory as the first search directory.
func NewLoader(importerDir string) *Loader {
	return &Loader{
		SearchDirs: []string{importerDir},
		Cache:      make(map[string]*Module),
	}
}

// AddSearchDir registers an additional directory to search, after the
// directories already registered.
func (l *Loader) AddSearchDir(dir string) {
	l.SearchDirs = append(l.SearchDirs, dir)
}

// Resolve finds the canonical path for name by trying each search
// directory in order; first match wins.
func (l *Loader) Resolve(name string) (string, bool) {
	for _, dir := range l.SearchDirs {
		candidate := filepath.Join(dir, name+SourceSuffix)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				continue
			}
			return abs, true
		}
	}
	return "", false
}

// Require resolves, loads, and checks name, returning its inferred
// top-level return type. Diagnostics from the nested check are merged
// into sink. A missing file emits ModuleNotFound and returns Nil so
// the caller's check can continue instead of aborting.
func (l *Loader) Require(name string, rng span.Range, sink *diagnostics.Sink) typesystem.Type {
	path, ok := l.Resolve(name)
	if !ok {
		sink.Error(diagnostics.ModuleNotFound, rng, name)
		return typesystem.Nil{}
	}

	if mod, cached := l.Cache[path]; cached {
		if mod.InProgress {
			return typesystem.Unknown{}
		}
		return mod.ReturnType
	}

	source, err := l.readSource(path)
	if err != nil {
		sink.Error(diagnostics.ModuleNotFound, rng, name)
		return typesystem.Nil{}
	}

	mod := &Module{Path: path, Source: source, InProgress: true, ReturnType: typesystem.Unknown{}}
	l.Cache[path] = mod

	retType, nested := l.Check(source, path, l)
	mod.InProgress = false
	mod.ReturnType = retType
	// ModuleNotExported (absence of a top-level return) is emitted by
	// the nested checker itself, which is the only place that knows
	// whether a Return statement was ever seen.
	sink.Merge(nested)

	return retType
}

func (l *Loader) readSource(path string) (string, error) {
	if l.Disk != nil {
		if cached, ok := l.Disk.Lookup(path); ok {
			return cached, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading module %s: %w", path, err)
	}
	source := string(data)

	if l.Disk != nil {
		_ = l.Disk.Store(path, source)
	}

	return source, nil
}
