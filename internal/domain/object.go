package domain

import "reflect"

// Scope is the lifetime tag the registry attaches to an object when it is
// added. A scoped clear evicts exactly the objects carrying that tag.
type Scope string

const (
	// ScopeModule objects live for a whole test package (TestMain or a
	// package-level session).
	ScopeModule Scope = "module"

	// ScopeFunction objects live for a single test function.
	ScopeFunction Scope = "function"
)

// String implements fmt.Stringer.
func (s Scope) String() string {
	return string(s)
}

// Object is a provisioned value. The registry indexes it under every
// category returned by Categories, keyed by Identifier.
type Object interface {
	// Identifier must be unique within every category the object belongs to.
	Identifier() string

	// Categories lists the object's own type name followed by its ancestors,
	// most-derived first. The universal base is never listed.
	Categories() []string

	// TTL returns the scope assigned by the registry, empty before insertion.
	TTL() Scope

	// SetTTL is called by the registry on insertion.
	SetTTL(scope Scope)
}

// IsNil reports whether obj is nil or a typed nil pointer. Representations
// must not return either; the resolver rejects both instead of calling
// methods on them.
func IsNil(obj Object) bool {
	if obj == nil {
		return true
	}
	v := reflect.ValueOf(obj)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// DefaultRepresenter is implemented by objects whose construction implicitly
// produced further objects that must be registered alongside them.
//
// Elements of the returned slice are Object values, []Object, or nested []any
// sequences of the same; nesting is flattened depth-first.
type DefaultRepresenter interface {
	DefaultRepresentations() []any
}

// Base is an embeddable Object implementation holding the identifier, the
// category chain, and the registry-assigned scope.
type Base struct {
	ID       string
	Category []string
	ttl      Scope
}

// NewBase returns a Base for identifier indexed under categories
// (most-derived first).
func NewBase(identifier string, categories ...string) Base {
	return Base{ID: identifier, Category: categories}
}

// Identifier implements Object.
func (b *Base) Identifier() string { return b.ID }

// Categories implements Object.
func (b *Base) Categories() []string { return b.Category }

// TTL implements Object.
func (b *Base) TTL() Scope { return b.ttl }

// SetTTL implements Object.
func (b *Base) SetTTL(scope Scope) { b.ttl = scope }
