package comptime

import (
	"errors"
	"fmt"
	"slices"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Builtin identifies a compiler-provided function.
type Builtin int

const (
	BuiltinTypeOf Builtin = iota
)

var builtinNames = map[Builtin]string{
	BuiltinTypeOf: "typeOf",
}

func (b Builtin) String() string {
	if name, ok := builtinNames[b]; ok {
		return name
	}
	return fmt.Sprintf("Builtin(%d)", int(b))
}

var (
	ErrArity          = errors.New("wrong number of arguments")
	ErrUnknownBuiltin = errors.New("unknown builtin")
)

// LookupBuiltin resolves a builtin by its source name.
func LookupBuiltin(name string) (Builtin, error) {
	names := make([]string, 0, len(builtinNames))
	for b, n := range builtinNames {
		if n == name {
			return b, nil
		}
		names = append(names, n)
	}
	slices.Sort(names)
	if closest := findClosestMatch(name, names); closest != "" {
		return 0, fmt.Errorf("%w @%s (did you mean @%s?)", ErrUnknownBuiltin, name, closest)
	}
	return 0, fmt.Errorf("%w @%s", ErrUnknownBuiltin, name)
}

func findClosestMatch(target string, candidates []string) string {
	if target == "" || len(candidates) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) == 0 {
		return ""
	}
	slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int { return a.Distance - b.Distance })
	return ranks[0].Target
}

// ExprKind says which shape an Expr has.
type ExprKind int

const (
	ExprValue ExprKind = iota
	ExprBuiltin
	ExprList
	ExprRef
	ExprDefine
)

// Expr is a comptime expression tree. Reduction never mutates a tree;
// Eval returns a new one.
type Expr struct {
	Kind    ExprKind
	Value   Value   // ExprValue
	Builtin Builtin // ExprBuiltin
	Name    string  // ExprRef, ExprDefine
	Args    []Expr  // builtin arguments, list items, or the single define initializer
}

func ValueExpr(v Value) Expr { return Expr{Kind: ExprValue, Value: v} }

func CallExpr(b Builtin, args ...Expr) Expr {
	return Expr{Kind: ExprBuiltin, Builtin: b, Args: args}
}

func ListExpr(items ...Expr) Expr { return Expr{Kind: ExprList, Args: items} }

func RefExpr(name string) Expr { return Expr{Kind: ExprRef, Name: name} }

// DefineExpr binds name to the value of init in the enclosing scope and
// evaluates to void.
func DefineExpr(name string, init Expr) Expr {
	return Expr{Kind: ExprDefine, Name: name, Args: []Expr{init}}
}

// Reduced returns the value of a fully evaluated expression.
func (e Expr) Reduced() (Value, bool) {
	if e.Kind != ExprValue {
		return Value{}, false
	}
	return e.Value, true
}

// Eval reduces e in scope and returns the resulting value expression. On
// failure the input tree is returned unchanged together with the error.
func Eval(e Expr, scope *Scope) (Expr, error) {
	v, err := eval(e, scope)
	if err != nil {
		return e, err
	}
	return ValueExpr(v), nil
}

func eval(e Expr, scope *Scope) (Value, error) {
	switch e.Kind {
	case ExprValue:
		return e.Value, nil

	case ExprRef:
		v, _, err := scope.Lookup(e.Name)
		return v, err

	case ExprDefine:
		if len(e.Args) != 1 {
			return Value{}, fmt.Errorf("define %q: %w: expected 1 initializer, got %d", e.Name, ErrArity, len(e.Args))
		}
		v, err := eval(e.Args[0], scope)
		if err != nil {
			return Value{}, err
		}
		if err := scope.Define(e.Name, v); err != nil {
			return Value{}, err
		}
		return Void(), nil

	case ExprList:
		inner := scope.Child()
		result := Void()
		for _, item := range e.Args {
			v, err := eval(item, inner)
			if err != nil {
				return Value{}, err
			}
			result = v
		}
		return result, nil

	case ExprBuiltin:
		args := make([]Value, len(e.Args))
		for i, arg := range e.Args {
			v, err := eval(arg, scope)
			if err != nil {
				return Value{}, err
			}
			args[i] = v
		}
		return callBuiltin(e.Builtin, args)
	}
	return Value{}, fmt.Errorf("unknown expression kind %d", int(e.Kind))
}

func callBuiltin(b Builtin, args []Value) (Value, error) {
	switch b {
	case BuiltinTypeOf:
		if len(args) != 1 {
			return Value{}, fmt.Errorf("@%s: %w: expected 1, got %d", b, ErrArity, len(args))
		}
		return TypeValue(args[0].TypeOf()), nil
	}
	return Value{}, fmt.Errorf("%w %v", ErrUnknownBuiltin, b)
}
