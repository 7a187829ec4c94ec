// Package symbols implements the checker's scope stack: nested frames
// mapping identifiers to (type, definition range, usage flag, locality
// flag), plus a separate per-frame type-alias/generic environment.
package symbols

import (
	"sort"

	"github.com/tylua/tylua/internal/span"
	"github.com/tylua/tylua/internal/typesystem"
)

// Unused is a declared-but-never-read binding surfaced when its frame
// is torn down.
type Unused struct {
	Name string
	Rng  span.Range
}

// Frame is one level of the scope stack: a flat set of maps keyed by
// variable name, tracking its type, declaration range, usage, and
// whether it was declared local.
type Frame struct {
	Variables      map[string]typesystem.Type
	Ranges         map[string]span.Range
	Unused         map[string]bool
	Locals         map[string]bool
	Types          map[string]typesystem.Type
	ExpectedReturn typesystem.Type // nil if not set
}

func newFrame() *Frame {
	return &Frame{
		Variables: make(map[string]typesystem.Type),
		Ranges:    make(map[string]span.Range),
		Unused:    make(map[string]bool),
		Locals:    make(map[string]bool),
		Types:     make(map[string]typesystem.Type),
	}
}

// Scope is the stack of frames. The bottom frame is the global frame.
type Scope struct {
	frames []*Frame
}

// New creates a Scope with a single global frame.
func New() *Scope {
	return &Scope{frames: []*Frame{newFrame()}}
}

// EnterFrame pushes a fresh frame (function entry, block entry for
// if/while/for branches).
func (s *Scope) EnterFrame() {
	s.frames = append(s.frames, newFrame())
}

// LeaveFrame pops the innermost frame and returns the names that were
// declared in it but never read, ordered by definition position (then
// name), for the caller to turn into UnusedVariable warnings with their
// definition ranges.
func (s *Scope) LeaveFrame() []Unused {
	if len(s.frames) <= 1 {
		// The global frame is never torn down mid-check; guard against
		// misuse rather than panicking on an empty stack.
		return nil
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]

	var unused []Unused
	for name := range top.Unused {
		unused = append(unused, Unused{Name: name, Rng: top.Ranges[name]})
	}
	sort.Slice(unused, func(i, j int) bool {
		a, b := unused[i].Rng.Start, unused[j].Rng.Start
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return unused[i].Name < unused[j].Name
	})
	return unused
}

// Depth returns the number of live frames (1 means only the global
// frame remains — the scope-soundness invariant post-check).
func (s *Scope) Depth() int { return len(s.frames) }

// Current returns the innermost frame.
func (s *Scope) Current() *Frame { return s.frames[len(s.frames)-1] }

// Global returns the bottom frame, pre-populated with the standard
// prelude before the first statement is checked.
func (s *Scope) Global() *Frame { return s.frames[0] }

// LookupLocal reports whether name is bound in the current frame only.
func (s *Scope) LookupLocal(name string) (typesystem.Type, bool) {
	t, ok := s.Current().Variables[name]
	return t, ok
}

// IsLocalInCurrent reports whether name was declared as a local in the
// current frame (as opposed to an inherited global).
func (s *Scope) IsLocalInCurrent(name string) bool {
	return s.Current().Locals[name]
}

// Lookup searches from the innermost frame outward and marks the
// binding used if found.
func (s *Scope) Lookup(name string) (typesystem.Type, span.Range, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		if t, ok := f.Variables[name]; ok {
			delete(f.Unused, name)
			return t, f.Ranges[name], true
		}
	}
	return nil, span.Zero, false
}

// LookupOuter reports whether name is bound in any frame other than
// the current one (used for the ShadowedVariable check).
func (s *Scope) LookupOuter(name string) bool {
	for i := len(s.frames) - 2; i >= 0; i-- {
		if _, ok := s.frames[i].Variables[name]; ok {
			return true
		}
	}
	return false
}

// Declare binds name in the given frame, recording its range, marking
// it unused and local as requested. Callers perform shadowing,
// redundancy, and consistency checks before calling this; Declare only
// performs the final "write" step.
func (s *Scope) Declare(f *Frame, name string, ty typesystem.Type, rng span.Range, local bool) {
	f.Variables[name] = ty
	f.Ranges[name] = rng
	f.Unused[name] = true
	if local {
		f.Locals[name] = true
	}
}

// Update rewrites an existing binding's type in place, in whichever
// frame it already lives (used for plain assignment to an existing
// name rather than a fresh local declaration).
func (s *Scope) Update(name string, ty typesystem.Type) bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		if _, ok := f.Variables[name]; ok {
			f.Variables[name] = ty
			return true
		}
	}
	return false
}

// MarkUsed clears the unused flag for name in whichever frame holds it.
func (s *Scope) MarkUsed(name string) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		if _, ok := f.Variables[name]; ok {
			delete(f.Unused, name)
			return
		}
	}
}

// LookupType resolves a type alias/generic name by searching the type
// environment from the innermost frame outward.
func (s *Scope) LookupType(name string) (typesystem.Type, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if t, ok := s.frames[i].Types[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// DeclareType binds a type alias/generic in the current frame's type
// environment.
func (s *Scope) DeclareType(name string, ty typesystem.Type) {
	s.Current().Types[name] = ty
}

// SetExpectedReturn sets the current frame's expected_return, used by
// `return` checking inside the function that owns this frame.
func (s *Scope) SetExpectedReturn(ty typesystem.Type) {
	s.Current().ExpectedReturn = ty
}

// ExpectedReturn searches outward for the nearest frame carrying an
// expected_return (set on function entry).
func (s *Scope) ExpectedReturn() (typesystem.Type, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].ExpectedReturn != nil {
			return s.frames[i].ExpectedReturn, true
		}
	}
	return nil, false
}
