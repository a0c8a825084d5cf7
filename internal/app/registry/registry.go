// Package registry provides the scoped, category-indexed store of provisioned
// objects. Every object is indexed under its full category chain so that a
// lookup by an ancestor category finds concrete instances.
//
// DB model:
//
//	{"User": {"bob": <obj>}, "BaseUser": {"bob": <obj>, "bobs-owner": <obj>}}
//
// A Registry is not safe for concurrent mutation; setup passes must be
// serialized by the caller.
package registry

import (
	"sort"

	"github.com/jsamuelsen11/testdata-provisioner/internal/domain"
	"github.com/jsamuelsen11/testdata-provisioner/internal/ports"
)

// Compile-time interface check.
var _ ports.Store = (*Registry)(nil)

// Typed is anything that reports a category chain: a representation or an
// object. Lookups through Typed use the most-derived category.
type Typed interface {
	Categories() []string
}

// Registry maps category -> identifier -> object.
type Registry struct {
	db map[string]map[string]domain.Object
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{db: make(map[string]map[string]domain.Object)}
}

// Add indexes obj under every category it belongs to and tags it with ttl.
// Uniqueness is validated across all categories before anything is inserted,
// so a failed Add leaves the registry unchanged.
func (r *Registry) Add(obj domain.Object, ttl domain.Scope) (domain.Object, error) {
	categories := obj.Categories()
	id := obj.Identifier()

	for _, category := range categories {
		if _, exists := r.db[category][id]; exists {
			return nil, &domain.DuplicateIdentifierError{Category: category, Identifier: id}
		}
	}

	for _, category := range categories {
		bucket, ok := r.db[category]
		if !ok {
			bucket = make(map[string]domain.Object)
			r.db[category] = bucket
		}
		bucket[id] = obj
	}
	obj.SetTTL(ttl)
	return obj, nil
}

// Get returns the object registered as identifier in category, or nil on a
// miss.
func (r *Registry) Get(category, identifier string) domain.Object {
	return r.db[category][identifier]
}

// GetType is Get keyed by the most-derived category of t.
func (r *Registry) GetType(t Typed, identifier string) domain.Object {
	categories := t.Categories()
	if len(categories) == 0 {
		return nil
	}
	return r.Get(categories[0], identifier)
}

// Clear drops every object when called without arguments. With a scope it
// removes, from every category, the objects tagged with that scope; emptied
// categories are kept.
func (r *Registry) Clear(ttl ...domain.Scope) {
	if len(ttl) == 0 {
		clear(r.db)
		return
	}

	for _, bucket := range r.db {
		for id, obj := range bucket {
			for _, scope := range ttl {
				if obj.TTL() == scope {
					delete(bucket, id)
					break
				}
			}
		}
	}
}

// Categories returns all category names in lexicographic order.
func (r *Registry) Categories() []string {
	names := make([]string, 0, len(r.db))
	for name := range r.db {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Objects returns the objects of category sorted by identifier.
func (r *Registry) Objects(category string) []domain.Object {
	bucket := r.db[category]
	objs := make([]domain.Object, 0, len(bucket))
	for _, obj := range bucket {
		objs = append(objs, obj)
	}
	sort.Slice(objs, func(i, j int) bool {
		return objs[i].Identifier() < objs[j].Identifier()
	})
	return objs
}

// Len returns the number of distinct objects held, counting each object once
// (in its most-derived category) regardless of how many categories index it.
func (r *Registry) Len() int {
	n := 0
	for category, bucket := range r.db {
		for _, obj := range bucket {
			if categories := obj.Categories(); len(categories) > 0 && categories[0] == category {
				n++
			}
		}
	}
	return n
}

// Each calls fn for every (category, object) pair in category order, then
// identifier order.
func (r *Registry) Each(fn func(category string, obj domain.Object)) {
	for _, category := range r.Categories() {
		for _, obj := range r.Objects(category) {
			fn(category, obj)
		}
	}
}

// Find returns the object registered as identifier in category, asserted to
// T. The boolean is false on a miss or a type mismatch.
func Find[T domain.Object](r *Registry, category, identifier string) (T, bool) {
	obj, ok := r.Get(category, identifier).(T)
	return obj, ok
}
