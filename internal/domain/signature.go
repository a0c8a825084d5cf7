package domain

import (
	"slices"
	"sort"
)

// ExpectedType describes what a constructor parameter semantically holds.
// The resolver keeps values that the type accepts, treats other strings as
// identifier references, and drops everything else.
type ExpectedType interface {
	// Name is the category searched when a string reference must be resolved.
	Name() string

	// Accepts reports whether v already has the expected type.
	Accepts(v any) bool
}

// Signature maps constructor parameter names to their expected types.
type Signature map[string]ExpectedType

// Params returns the parameter names in sorted order.
func (s Signature) Params() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type primitive[T any] struct {
	name string
}

func (p primitive[T]) Name() string { return p.name }

func (p primitive[T]) Accepts(v any) bool {
	_, ok := v.(T)
	return ok
}

// Primitive returns an ExpectedType satisfied by values of Go type T.
func Primitive[T any](name string) ExpectedType {
	return primitive[T]{name: name}
}

// Primitive expected types.
var (
	String  = Primitive[string]("string")
	Int     = Primitive[int]("int")
	Int64   = Primitive[int64]("int64")
	Float64 = Primitive[float64]("float64")
	Bool    = Primitive[bool]("bool")
)

type ref struct {
	category string
}

func (r ref) Name() string { return r.category }

func (r ref) Accepts(v any) bool {
	obj, ok := v.(Object)
	if !ok || obj == nil {
		return false
	}
	return slices.Contains(obj.Categories(), r.category)
}

// Ref returns an ExpectedType satisfied by any Object indexed under category.
func Ref(category string) ExpectedType {
	return ref{category: category}
}
