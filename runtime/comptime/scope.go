package comptime

import (
	"errors"
	"fmt"
)

var (
	ErrUndefined = errors.New("undefined name")
	ErrRedefined = errors.New("name already defined in this scope")
)

// Scope is one level of the lexical scope chain. A child holds a handle to
// its parent and never outlives it; lookups walk towards the root and a
// child may shadow a parent's name.
type Scope struct {
	parent *Scope
	vars   map[string]Value
	depth  int
}

// NewScope creates a root scope.
func NewScope() *Scope {
	return &Scope{vars: make(map[string]Value)}
}

// Child creates a nested scope.
func (s *Scope) Child() *Scope {
	return &Scope{
		parent: s,
		vars:   make(map[string]Value),
		depth:  s.depth + 1,
	}
}

// Parent returns the enclosing scope, or nil for the root.
func (s *Scope) Parent() *Scope { return s.parent }

// Depth returns the distance from the root scope.
func (s *Scope) Depth() int { return s.depth }

// Define binds name in this scope.
func (s *Scope) Define(name string, v Value) error {
	if _, exists := s.vars[name]; exists {
		return fmt.Errorf("%w: %q", ErrRedefined, name)
	}
	s.vars[name] = v
	return nil
}

// Lookup resolves name by traversing up the scope chain and returns the
// value and the scope that defines it.
func (s *Scope) Lookup(name string) (Value, *Scope, error) {
	for scope := s; scope != nil; scope = scope.parent {
		if v, ok := scope.vars[name]; ok {
			return v, scope, nil
		}
	}
	return Value{}, nil, fmt.Errorf("%w: %q not found in scope chain", ErrUndefined, name)
}
