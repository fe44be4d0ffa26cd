package literal

import (
	"errors"
	"fmt"

	"github.com/cera-lang/cera/core/text"
)

// Sentinel errors, matched with errors.Is through the positioned error types.
var (
	ErrZeroLength           = errors.New("empty numeral")
	ErrInvalidChar          = errors.New("invalid character in numeral")
	ErrNoDecimalDot         = errors.New("float literal has no decimal dot")
	ErrExponentTooLarge     = errors.New("float exponent too large")
	ErrUnexpectedStrEnd     = errors.New("string ends inside an escape sequence")
	ErrInvalidEscapedChar   = errors.New("invalid escape sequence")
	ErrExpectedCloseBracket = errors.New("expected '}' closing unicode escape")
)

// IntErrorKind classifies integer parse failures.
type IntErrorKind int

const (
	ZeroLength IntErrorKind = iota
	InvalidChar
)

func (k IntErrorKind) String() string {
	switch k {
	case ZeroLength:
		return "ZeroLength"
	case InvalidChar:
		return "InvalidChar"
	default:
		return "IntErrorKind(?)"
	}
}

// IntError reports a failed integer parse. Pos is relative to the string the
// failing parser was given until a caller rebases it with Offset.
type IntError struct {
	Kind IntErrorKind
	Pos  text.Position
}

func (e *IntError) Error() string {
	return fmt.Sprintf("%v at %v", e.Unwrap(), e.Pos)
}

func (e *IntError) Unwrap() error {
	if e.Kind == ZeroLength {
		return ErrZeroLength
	}
	return ErrInvalidChar
}

// Offset rebases the error by n bytes.
func (e *IntError) Offset(n int) {
	e.Pos = e.Pos.Shift(n)
}

// Span returns the offending byte, or an empty span for ZeroLength.
func (e *IntError) Span() text.Span {
	if e.Kind == ZeroLength {
		return e.Pos.Span()
	}
	return text.Span{Offset: e.Pos.Offset, Len: 1}
}

func intErr(kind IntErrorKind, offset int) *IntError {
	return &IntError{Kind: kind, Pos: text.Position{Offset: offset}}
}

// FloatErrorKind classifies float parse failures.
type FloatErrorKind int

const (
	NoDecimalDot FloatErrorKind = iota
	ExponentTooLarge
	// BadNumber wraps an IntError from the integer, fraction or exponent part.
	BadNumber
)

func (k FloatErrorKind) String() string {
	switch k {
	case NoDecimalDot:
		return "NoDecimalDot"
	case ExponentTooLarge:
		return "ExponentTooLarge"
	case BadNumber:
		return "BadNumber"
	default:
		return "FloatErrorKind(?)"
	}
}

// FloatError reports a failed float parse.
type FloatError struct {
	Kind FloatErrorKind
	// Region is set for NoDecimalDot and ExponentTooLarge.
	Region text.Span
	// Int is set for BadNumber.
	Int *IntError
}

func (e *FloatError) Error() string {
	if e.Kind == BadNumber {
		return "float: " + e.Int.Error()
	}
	return fmt.Sprintf("%v at %v", e.Unwrap(), e.Region)
}

func (e *FloatError) Unwrap() error {
	switch e.Kind {
	case NoDecimalDot:
		return ErrNoDecimalDot
	case ExponentTooLarge:
		return ErrExponentTooLarge
	default:
		return e.Int
	}
}

// Offset rebases the error by n bytes.
func (e *FloatError) Offset(n int) {
	if e.Kind == BadNumber {
		e.Int.Offset(n)
		return
	}
	e.Region = e.Region.Shift(n)
}

// Span returns the source region the error refers to.
func (e *FloatError) Span() text.Span {
	if e.Kind == BadNumber {
		return e.Int.Span()
	}
	return e.Region
}

func badNumber(err *IntError, offset int) *FloatError {
	err.Offset(offset)
	return &FloatError{Kind: BadNumber, Int: err}
}

// EscapeErrorKind classifies string escape failures.
type EscapeErrorKind int

const (
	UnexpectedStrEnd EscapeErrorKind = iota
	InvalidEscapedChar
	ExpectedCloseBracket
)

func (k EscapeErrorKind) String() string {
	switch k {
	case UnexpectedStrEnd:
		return "UnexpectedStrEnd"
	case InvalidEscapedChar:
		return "InvalidEscapedChar"
	case ExpectedCloseBracket:
		return "ExpectedCloseBracket"
	default:
		return "EscapeErrorKind(?)"
	}
}

// EscapeError reports a malformed escape inside a string body. Region is
// relative to the body, not to the quoted literal.
type EscapeError struct {
	Kind   EscapeErrorKind
	Region text.Span
}

func (e *EscapeError) Error() string {
	return fmt.Sprintf("%v at %v", e.Unwrap(), e.Region)
}

func (e *EscapeError) Unwrap() error {
	switch e.Kind {
	case UnexpectedStrEnd:
		return ErrUnexpectedStrEnd
	case ExpectedCloseBracket:
		return ErrExpectedCloseBracket
	default:
		return ErrInvalidEscapedChar
	}
}

// Offset rebases the error by n bytes.
func (e *EscapeError) Offset(n int) {
	e.Region = e.Region.Shift(n)
}

// Span returns the escape sequence (or position) the error refers to.
func (e *EscapeError) Span() text.Span {
	return e.Region
}

func spanOf(offset, n int) text.Span {
	return text.Span{Offset: offset, Len: n}
}
