// Package text holds the positional data model shared by every stage of the
// front end: absolute byte positions, half-open spans and the line index used
// to turn them into line/column diagnostics.
package text

import (
	"fmt"

	"github.com/cera-lang/cera/core/invariant"
)

// Position is a single byte offset into a source text.
type Position struct {
	Offset int // 0-based byte offset
}

// Shift rebases a position that is relative to a substring starting at n.
func (p Position) Shift(n int) Position {
	invariant.NotNegative(p.Offset+n, "shifted offset")
	return Position{Offset: p.Offset + n}
}

// Span returns the zero-length span at p.
func (p Position) Span() Span {
	return Span{Offset: p.Offset}
}

func (p Position) String() string {
	return fmt.Sprintf("@%d", p.Offset)
}

// Span is the half-open byte range [Offset, Offset+Len).
type Span struct {
	Offset int
	Len    int
}

// End returns the exclusive end offset.
func (s Span) End() int {
	return s.Offset + s.Len
}

// Shift rebases a span that is relative to a substring starting at n.
func (s Span) Shift(n int) Span {
	invariant.NotNegative(s.Offset+n, "shifted offset")
	return Span{Offset: s.Offset + n, Len: s.Len}
}

// Start returns the position of the first byte of the span.
func (s Span) Start() Position {
	return Position{Offset: s.Offset}
}

// Slice returns the source bytes covered by the span, clamped to src.
func (s Span) Slice(src string) string {
	start := min(max(s.Offset, 0), len(src))
	end := min(max(s.End(), start), len(src))
	return src[start:end]
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Offset, s.End())
}
