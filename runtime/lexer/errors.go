package lexer

import (
	"errors"
	"fmt"

	"github.com/cera-lang/cera/core/text"
)

var (
	ErrNoMatch        = errors.New("no token matches")
	ErrUnexpectedEOF  = errors.New("unterminated string literal")
	ErrUnexpectedChar = errors.New("unexpected character after numeral")
)

// ErrorKind classifies tokenizer failures.
type ErrorKind int

const (
	NoMatch ErrorKind = iota
	UnexpectedEOF
	// UnexpectedChar is reserved: numerals end at any character, which then
	// starts the next token.
	UnexpectedChar
	// BadString wraps a literal.EscapeError.
	BadString
	// BadFloat wraps a literal.FloatError.
	BadFloat
	// BadInt wraps a literal.IntError.
	BadInt
)

func (k ErrorKind) String() string {
	switch k {
	case NoMatch:
		return "NoMatch"
	case UnexpectedEOF:
		return "UnexpectedEOF"
	case UnexpectedChar:
		return "UnexpectedChar"
	case BadString:
		return "BadString"
	case BadFloat:
		return "BadFloat"
	case BadInt:
		return "BadInt"
	default:
		return "ErrorKind(?)"
	}
}

// positioned is the rebasing contract shared by the literal errors.
type positioned interface {
	error
	Offset(n int)
	Span() text.Span
}

// Error is a tokenizer failure. Region is relative to the text handed to
// TryParse until rebased with Offset; for the Bad* kinds the wrapped
// literal error carries the precise position instead.
type Error struct {
	Kind   ErrorKind
	Region text.Span
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case BadString, BadFloat, BadInt:
		return e.Err.Error()
	}
	return fmt.Sprintf("%v at %v", e.Unwrap(), e.Region.Start())
}

func (e *Error) Unwrap() error {
	switch e.Kind {
	case NoMatch:
		return ErrNoMatch
	case UnexpectedEOF:
		return ErrUnexpectedEOF
	case UnexpectedChar:
		return ErrUnexpectedChar
	default:
		return e.Err
	}
}

// Offset rebases the error, including any wrapped literal error, by n bytes.
func (e *Error) Offset(n int) {
	e.Region = e.Region.Shift(n)
	if p, ok := e.Err.(positioned); ok {
		p.Offset(n)
	}
}

// Span returns the region to highlight in a diagnostic.
func (e *Error) Span() text.Span {
	if p, ok := e.Err.(positioned); ok {
		return p.Span()
	}
	return e.Region
}

// wrap turns a literal error relative to the token start into an Error.
func wrap(kind ErrorKind, err error, n int) *Error {
	return &Error{Kind: kind, Region: text.Span{Len: n}, Err: err}
}
