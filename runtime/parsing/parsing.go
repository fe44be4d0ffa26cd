// Package parsing drives a single-token parse function over a whole source
// text, turning the relative lengths it reports into absolute spans.
package parsing

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/cera-lang/cera/core/invariant"
	"github.com/cera-lang/cera/core/text"
)

// Kind says what a single parse step found.
type Kind int

const (
	// NoMatch means the rule does not apply at this position.
	NoMatch Kind = iota
	// Skip means trivia (whitespace, comments) to advance over.
	Skip
	// Value means a result to record.
	Value
)

func (k Kind) String() string {
	switch k {
	case NoMatch:
		return "NoMatch"
	case Skip:
		return "Skip"
	case Value:
		return "Value"
	default:
		return "Kind(?)"
	}
}

// Outcome is the result of one parse step.
type Outcome[T any] struct {
	kind  Kind
	value T
	n     int
}

// Matched records v, which spans the next n bytes.
func Matched[T any](v T, n int) Outcome[T] {
	return Outcome[T]{kind: Value, value: v, n: n}
}

// Skipped discards the next n bytes.
func Skipped[T any](n int) Outcome[T] {
	return Outcome[T]{kind: Skip, n: n}
}

// Unmatched reports that the rule does not apply.
func Unmatched[T any]() Outcome[T] {
	return Outcome[T]{}
}

// Kind returns what the step found.
func (o Outcome[T]) Kind() Kind { return o.kind }

// Len returns the number of bytes consumed.
func (o Outcome[T]) Len() int { return o.n }

// Value returns the recorded value, if any.
func (o Outcome[T]) Value() (T, bool) {
	return o.value, o.kind == Value
}

// Func parses at most one item from the start of src.
type Func[T any] func(src string) (Outcome[T], error)

// Positioned is implemented by errors whose position is relative to the
// string handed to the parser that produced them.
type Positioned interface {
	error
	Offset(n int)
}

var (
	ErrZeroLenSkip    = errors.New("parse step consumed zero bytes")
	ErrOutOfCharBound = errors.New("parse step ended outside a character boundary")
)

// ErrorKind classifies driver failures.
type ErrorKind int

const (
	// Parsable wraps an error returned by the parse function.
	Parsable ErrorKind = iota
	ZeroLenSkip
	OutOfCharBound
)

func (k ErrorKind) String() string {
	switch k {
	case Parsable:
		return "Parsable"
	case ZeroLenSkip:
		return "ZeroLenSkip"
	case OutOfCharBound:
		return "OutOfCharBound"
	default:
		return "ErrorKind(?)"
	}
}

// Error is the single fatal error of a Parse call.
type Error struct {
	Kind ErrorKind
	// Pos is the absolute start of the failing step.
	Pos text.Position
	// Err is the rebased parse function error for Kind Parsable.
	Err error
}

func (e *Error) Error() string {
	if e.Kind == Parsable {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v at %v", e.Unwrap(), e.Pos)
}

func (e *Error) Unwrap() error {
	switch e.Kind {
	case ZeroLenSkip:
		return ErrZeroLenSkip
	case OutOfCharBound:
		return ErrOutOfCharBound
	default:
		return e.Err
	}
}

// Span returns the absolute region the error refers to.
func (e *Error) Span() text.Span {
	var spanned interface{ Span() text.Span }
	if e.Kind == Parsable && errors.As(e.Err, &spanned) {
		return spanned.Span()
	}
	return e.Pos.Span()
}

// Parse applies fn to the remaining input until it is exhausted and returns
// the recorded values with their absolute spans, index-aligned.
//
// Errors implementing Positioned are rebased to absolute offsets before being
// returned; other errors are wrapped unchanged. The first error ends the
// parse and no partial results are returned.
func Parse[T any](src string, fn Func[T]) ([]T, []text.Span, error) {
	invariant.Precondition(fn != nil, "parse function must not be nil")

	var values []T
	var spans []text.Span

	cursor := 0
	for cursor < len(src) {
		out, err := fn(src[cursor:])
		if err != nil {
			var positioned Positioned
			if errors.As(err, &positioned) {
				positioned.Offset(cursor)
			}
			return nil, nil, &Error{Kind: Parsable, Pos: text.Position{Offset: cursor}, Err: err}
		}

		n := out.Len()
		if out.Kind() == NoMatch || n == 0 {
			return nil, nil, &Error{Kind: ZeroLenSkip, Pos: text.Position{Offset: cursor}}
		}
		next := cursor + n
		if n < 0 || next > len(src) || (next < len(src) && !utf8.RuneStart(src[next])) {
			return nil, nil, &Error{Kind: OutOfCharBound, Pos: text.Position{Offset: cursor}}
		}

		if v, ok := out.Value(); ok {
			values = append(values, v)
			spans = append(spans, text.Span{Offset: cursor, Len: n})
		}

		invariant.Invariant(next > cursor, "cursor must advance")
		cursor = next
	}

	invariant.Postcondition(len(values) == len(spans), "values and spans must align")
	return values, spans, nil
}
