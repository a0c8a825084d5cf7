// Package catalog implements the type lookup consumed by the resolver: a
// static registry of representations keyed by kind, plus the table of direct
// subtypes derived from each representation's declared category chain.
//
//	c := catalog.New()
//	c.MustRegister(representations.NewUser(persister))
//	rep, err := c.Lookup("User")
package catalog

import (
	"fmt"
	"slices"
	"sync"

	"github.com/jsamuelsen11/testdata-provisioner/internal/domain"
	"github.com/jsamuelsen11/testdata-provisioner/internal/ports"
)

// Compile-time interface check.
var _ ports.Catalog = (*Catalog)(nil)

// Catalog is a registration table for representations. Registration normally
// happens once at startup; lookups are safe for concurrent use.
type Catalog struct {
	mu       sync.RWMutex
	kinds    map[string]ports.Representation
	subtypes map[string][]string
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		kinds:    make(map[string]ports.Representation),
		subtypes: make(map[string][]string),
	}
}

// Register adds rep under its Kind. Every adjacent pair of its category chain
// records a direct subtype relation, in registration order.
func (c *Catalog) Register(rep ports.Representation) error {
	kind := rep.Kind()
	categories := rep.Categories()
	if kind == "" {
		return fmt.Errorf("representation %T has an empty kind", rep)
	}
	if len(categories) == 0 || categories[0] != kind {
		return fmt.Errorf("representation %q must list its own kind first in Categories, got %v", kind, categories)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.kinds[kind]; exists {
		return fmt.Errorf("kind %q is already registered", kind)
	}
	c.kinds[kind] = rep

	for i := 0; i+1 < len(categories); i++ {
		child, parent := categories[i], categories[i+1]
		if !slices.Contains(c.subtypes[parent], child) {
			c.subtypes[parent] = append(c.subtypes[parent], child)
		}
	}
	return nil
}

// MustRegister is Register for startup wiring; it panics on error.
func (c *Catalog) MustRegister(reps ...ports.Representation) {
	for _, rep := range reps {
		if err := c.Register(rep); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the representation registered for kind.
func (c *Catalog) Lookup(kind string) (ports.Representation, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rep, ok := c.kinds[kind]
	if !ok {
		return nil, &domain.UnknownRepresentationError{Kind: kind}
	}
	return rep, nil
}

// Subtypes returns the direct subtypes of category in the order they were
// first registered. The returned slice is a copy.
func (c *Catalog) Subtypes(category string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.subtypes[category])
}

// Kinds returns the registered kinds, sorted.
func (c *Catalog) Kinds() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	kinds := make([]string, 0, len(c.kinds))
	for kind := range c.kinds {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	return kinds
}
