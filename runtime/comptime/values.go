// Package comptime holds the values, scopes and expression reduction used
// for compile-time evaluation. It consumes literal tokens from the lexer
// and never sees raw source text.
package comptime

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/cera-lang/cera/core/literal"
	"github.com/cera-lang/cera/runtime/lexer"
)

// TypeKind enumerates the types a comptime value can have.
type TypeKind int

const (
	TypeComptimeInt TypeKind = iota
	TypeComptimeFloat
	TypeString
	TypeType
	TypeVoid
	TypeUndefined
)

var typeNames = [...]string{
	TypeComptimeInt:   "comptime_int",
	TypeComptimeFloat: "comptime_float",
	TypeString:        "string",
	TypeType:          "type",
	TypeVoid:          "void",
	TypeUndefined:     "undefined",
}

// Type is the type of a comptime value.
type Type struct {
	Kind TypeKind
}

func (t Type) String() string {
	if t.Kind < 0 || int(t.Kind) >= len(typeNames) {
		return "TypeKind(" + strconv.Itoa(int(t.Kind)) + ")"
	}
	return typeNames[t.Kind]
}

// ValueKind says which field of a Value is meaningful.
type ValueKind int

const (
	KindVoid ValueKind = iota
	KindUndefined
	KindInt
	KindFloat
	KindString
	KindType
)

// Value is a fully formed comptime value. The zero Value is void.
type Value struct {
	Kind  ValueKind
	Int   *big.Int
	Float literal.Float
	Str   string
	Type  Type // for KindType: the type being held
}

func Void() Value { return Value{Kind: KindVoid} }
func Undefined() Value { return Value{Kind: KindUndefined} }
func IntValue(v *big.Int) Value { return Value{Kind: KindInt, Int: v} }
func FloatValue(f literal.Float) Value { return Value{Kind: KindFloat, Float: f} }
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }
func TypeValue(t Type) Value { return Value{Kind: KindType, Type: t} }

// TypeOf returns the type of v. Literal numerals have the untyped comptime
// numeric types until a consumer coerces them.
func (v Value) TypeOf() Type {
	switch v.Kind {
	case KindInt:
		return Type{Kind: TypeComptimeInt}
	case KindFloat:
		return Type{Kind: TypeComptimeFloat}
	case KindString:
		return Type{Kind: TypeString}
	case KindType:
		return Type{Kind: TypeType}
	case KindUndefined:
		return Type{Kind: TypeUndefined}
	default:
		return Type{Kind: TypeVoid}
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return v.Int.String()
	case KindFloat:
		return v.Float.String()
	case KindString:
		return strconv.Quote(v.Str)
	case KindType:
		return v.Type.String()
	case KindUndefined:
		return "undefined"
	default:
		return "void"
	}
}

// Equal reports whether v and o are the same value.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindInt:
		return v.Int.Cmp(o.Int) == 0
	case KindFloat:
		return v.Float.Equal(o.Float)
	case KindString:
		return v.Str == o.Str
	case KindType:
		return v.Type == o.Type
	default:
		return true
	}
}

var ErrNotLiteral = errors.New("token is not a literal")

// FromLiteral materializes the value carried by a literal token.
func FromLiteral(tok lexer.Token) (Value, error) {
	if tok.Kind != lexer.Literal {
		return Value{}, fmt.Errorf("%w: %v", ErrNotLiteral, tok)
	}
	switch tok.LitKind {
	case lexer.Int:
		return IntValue(tok.Int), nil
	case lexer.Float:
		return FloatValue(tok.Float), nil
	default:
		return StringValue(tok.Str), nil
	}
}
