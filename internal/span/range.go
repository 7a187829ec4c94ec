// Package span holds the source-range type shared by tokens, AST nodes,
// types, and diagnostics.
package span

import "fmt"

// Position is one endpoint of a Range: a byte offset plus line/column.
type Position struct {
	Offset int
	Line   int
	Column int
}

// Range is a source span. Invariant: Start.Offset <= End.Offset.
type Range struct {
	Start Position
	End   Position
}

func (r Range) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", r.Start.Line, r.Start.Column, r.End.Line, r.End.Column)
}

// Merge returns the range from a's start to b's end (A.start, B.end).
// It does not reorder its arguments, so it covers both only when a
// starts first and b ends last.
func Merge(a, b Range) Range {
	return Range{Start: a.Start, End: b.End}
}

// Zero is the empty range used when no source position is available.
var Zero = Range{}
