// Package diagnostics is the checker's diagnostic sink: an ordered,
// deduplicated collection of errors and warnings tagged with ranges
// and kinds, each formatted from a message template keyed by kind.
package diagnostics

import (
	"fmt"

	"github.com/tylua/tylua/internal/span"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

type Kind string

const (
	MismatchedTypes          Kind = "MismatchedTypes"
	TypeMismatchAssignment   Kind = "TypeMismatchAssignment"
	UndeclaredVariable       Kind = "UndeclaredVariable"
	UndeclaredType           Kind = "UndeclaredType"
	RedeclaredInSameScope    Kind = "RedeclaredInSameScope"
	FunctionArityMismatch    Kind = "FunctionArityMismatch"
	GenericCallArityMismatch Kind = "GenericCallArityMismatch"
	OptionCallArityMismatch  Kind = "OptionCallArityMismatch"
	ExpectedFunction         Kind = "ExpectedFunction"
	ExpectedTable            Kind = "ExpectedTable"
	ExpectedVariadic         Kind = "ExpectedVariadic"
	KeyNotFoundInTable       Kind = "KeyNotFoundInTable"
	MismatchedAccessorType   Kind = "MismatchedAccessorType"
	MismatchedKeyType        Kind = "MismatchedKeyType"
	UnsupportedOperator      Kind = "UnsupportedOperator"
	ModuleNotFound           Kind = "ModuleNotFound"
	ModuleNotExported        Kind = "ModuleNotExported"

	UnusedVariable   Kind = "UnusedVariable"
	ShadowedVariable Kind = "ShadowedVariable"
	RedundantType    Kind = "RedundantType"
)

var messageTemplates = map[Kind]string{
	MismatchedTypes:          "mismatched types: expected %s, found %s",
	TypeMismatchAssignment:   "type mismatch in assignment: declared %s, assigned %s",
	UndeclaredVariable:       "undeclared variable: '%s'",
	UndeclaredType:           "undeclared type: '%s'",
	RedeclaredInSameScope:    "'%s' is already declared in this scope",
	FunctionArityMismatch:    "function expects %s arguments, got %s",
	GenericCallArityMismatch: "generic '%s' expects %s type arguments, got %s",
	OptionCallArityMismatch:  "option<...> expects exactly one type argument, got %s",
	ExpectedFunction:         "expected a function, found %s",
	ExpectedTable:            "expected a table, found %s",
	ExpectedVariadic:         "only the last parameter may be variadic, found %s after it",
	KeyNotFoundInTable:       "key '%s' not found in table",
	MismatchedAccessorType:   "index must be a number or string, found %s",
	MismatchedKeyType:        "table key must be an identifier or string literal",
	UnsupportedOperator:      "unsupported operator '%s' between %s and %s",
	ModuleNotFound:           "module not found: '%s'",
	ModuleNotExported:        "module '%s' has no top-level return",

	UnusedVariable:   "'%s' is declared but never used",
	ShadowedVariable: "'%s' shadows an outer-scope binding",
	RedundantType:    "redundant type annotation on '%s'",
}

// Diagnostic is one error or warning, always range-tagged.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Args     []interface{}
	Rng      span.Range
}

func (d *Diagnostic) Message() string {
	template, ok := messageTemplates[d.Kind]
	if !ok {
		return string(d.Kind)
	}
	return fmt.Sprintf(template, d.Args...)
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%d:%d %s: %s", d.Rng.Start.Line, d.Rng.Start.Column, d.Severity, d.Message())
}

// Sink is the ordered, deduplicated diagnostic collection owned by one
// checker invocation. Every diagnostic is recoverable: the checker
// always appends and continues rather than aborting.
type Sink struct {
	diagnostics []*Diagnostic
	seen        map[string]bool
}

func NewSink() *Sink {
	return &Sink{seen: make(map[string]bool)}
}

func (s *Sink) add(severity Severity, kind Kind, rng span.Range, args ...interface{}) {
	d := &Diagnostic{Severity: severity, Kind: kind, Args: args, Rng: rng}
	key := fmt.Sprintf("%s|%s|%v|%s", severity, kind, args, rng)
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.diagnostics = append(s.diagnostics, d)
}

// Error appends an error diagnostic.
func (s *Sink) Error(kind Kind, rng span.Range, args ...interface{}) {
	s.add(SeverityError, kind, rng, args...)
}

// Warning appends a warning diagnostic.
func (s *Sink) Warning(kind Kind, rng span.Range, args ...interface{}) {
	s.add(SeverityWarning, kind, rng, args...)
}

// All returns the accumulated diagnostics in insertion order.
func (s *Sink) All() []*Diagnostic { return s.diagnostics }

// HasErrors reports whether any error-severity diagnostic was recorded.
func (s *Sink) HasErrors() bool {
	for _, d := range s.diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Merge appends another sink's diagnostics into s, deduplicating
// against what s has already recorded. Used when a nested module
// check's diagnostics are folded into the parent sink.
func (s *Sink) Merge(other *Sink) {
	for _, d := range other.diagnostics {
		key := fmt.Sprintf("%s|%s|%v|%s", d.Severity, d.Kind, d.Args, d.Rng)
		if s.seen[key] {
			continue
		}
		s.seen[key] = true
		s.diagnostics = append(s.diagnostics, d)
	}
}
