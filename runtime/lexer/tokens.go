package lexer

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/cera-lang/cera/core/literal"
)

// Kind is the top-level token category.
type Kind int

const (
	Identifier Kind = iota
	Literal
	Special
)

func (k Kind) String() string {
	switch k {
	case Identifier:
		return "Identifier"
	case Literal:
		return "Literal"
	case Special:
		return "Special"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// LiteralKind says which literal a Literal token carries.
type LiteralKind int

const (
	String LiteralKind = iota
	Int
	Float
)

func (k LiteralKind) String() string {
	switch k {
	case String:
		return "String"
	case Int:
		return "Int"
	case Float:
		return "Float"
	default:
		return "LiteralKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// SpecialChar is a single-character punctuation token.
type SpecialChar int

const (
	Dot          SpecialChar = iota // .
	Semicolon                       // ;
	Colon                           // :
	Comma                           // ,
	Plus                            // +
	Minus                           // -
	Equal                           // =
	Greater                         // >
	Less                            // <
	Slash                           // /
	Star                            // *
	OpenParen                       // (
	CloseParen                      // )
	OpenBrace                       // {
	CloseBrace                      // }
	OpenBracket                     // [
	CloseBracket                    // ]
	At                              // @
	Bang                            // !
	Question                        // ?
)

var specialSymbols = [...]byte{
	Dot:          '.',
	Semicolon:    ';',
	Colon:        ':',
	Comma:        ',',
	Plus:         '+',
	Minus:        '-',
	Equal:        '=',
	Greater:      '>',
	Less:         '<',
	Slash:        '/',
	Star:         '*',
	OpenParen:    '(',
	CloseParen:   ')',
	OpenBrace:    '{',
	CloseBrace:   '}',
	OpenBracket:  '[',
	CloseBracket: ']',
	At:           '@',
	Bang:         '!',
	Question:     '?',
}

var specialNames = [...]string{
	Dot:          "Dot",
	Semicolon:    "Semicolon",
	Colon:        "Colon",
	Comma:        "Comma",
	Plus:         "Plus",
	Minus:        "Minus",
	Equal:        "Equal",
	Greater:      "Greater",
	Less:         "Less",
	Slash:        "Slash",
	Star:         "Star",
	OpenParen:    "OpenParen",
	CloseParen:   "CloseParen",
	OpenBrace:    "OpenBrace",
	CloseBrace:   "CloseBrace",
	OpenBracket:  "OpenBracket",
	CloseBracket: "CloseBracket",
	At:           "At",
	Bang:         "Bang",
	Question:     "Question",
}

// Symbol returns the source character of the punctuation.
func (c SpecialChar) Symbol() byte {
	if c < 0 || int(c) >= len(specialSymbols) {
		return 0
	}
	return specialSymbols[c]
}

func (c SpecialChar) String() string {
	if c < 0 || int(c) >= len(specialNames) {
		return "SpecialChar(" + strconv.Itoa(int(c)) + ")"
	}
	return specialNames[c]
}

// Token is a lexical unit. Only the fields selected by Kind (and LitKind
// for literals) are meaningful. Tokens carry no position; the driver
// reports spans alongside them.
type Token struct {
	Kind    Kind
	LitKind LiteralKind

	Name  string        // Identifier
	Str   string        // String literal, escapes decoded
	Int   *big.Int      // Int literal
	Float literal.Float // Float literal
	Char  SpecialChar   // Special
}

func NewIdentifier(name string) Token { return Token{Kind: Identifier, Name: name} }
func NewString(s string) Token { return Token{Kind: Literal, LitKind: String, Str: s} }
func NewInt(v *big.Int) Token { return Token{Kind: Literal, LitKind: Int, Int: v} }
func NewFloat(f literal.Float) Token { return Token{Kind: Literal, LitKind: Float, Float: f} }
func NewSpecial(c SpecialChar) Token { return Token{Kind: Special, Char: c} }

// Class is the flattened category of a token, used for telemetry and
// serialization.
type Class string

const (
	ClassIdentifier Class = "ident"
	ClassString     Class = "string"
	ClassInt        Class = "int"
	ClassFloat      Class = "float"
	ClassSpecial    Class = "punct"
	ClassTrivia     Class = "trivia"
)

// Class returns the flattened category of t.
func (t Token) Class() Class {
	switch t.Kind {
	case Identifier:
		return ClassIdentifier
	case Special:
		return ClassSpecial
	}
	switch t.LitKind {
	case Int:
		return ClassInt
	case Float:
		return ClassFloat
	default:
		return ClassString
	}
}

// Text returns the token value in a canonical textual form: the name, the
// quoted string, the decimal integer, the float as mantissa e exponent, or
// the punctuation symbol.
func (t Token) Text() string {
	switch t.Class() {
	case ClassIdentifier:
		return t.Name
	case ClassString:
		return strconv.Quote(t.Str)
	case ClassInt:
		return t.Int.String()
	case ClassFloat:
		return t.Float.String()
	default:
		return string(t.Char.Symbol())
	}
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s", t.Class(), t.Text())
}

// Equal reports whether t and o carry the same value.
func (t Token) Equal(o Token) bool {
	if t.Class() != o.Class() {
		return false
	}
	switch t.Class() {
	case ClassIdentifier:
		return t.Name == o.Name
	case ClassString:
		return t.Str == o.Str
	case ClassInt:
		return t.Int.Cmp(o.Int) == 0
	case ClassFloat:
		return t.Float.Equal(o.Float)
	default:
		return t.Char == o.Char
	}
}
