package ports

import (
	"context"

	"github.com/jsamuelsen11/testdata-provisioner/internal/domain"
)

// Representation is a constructible type: it declares its constructor
// signature and builds domain objects from resolved parameters.
type Representation interface {
	// Kind is the name specifications use to request this type.
	Kind() string

	// Categories lists the type name and its ancestors, most-derived first.
	// Objects created by this representation must report the same chain.
	Categories() []string

	// Signature declares the expected type of each constructor parameter.
	Signature() domain.Signature

	// Create builds the object. Transient backend failures are reported as
	// errors wrapping domain.ErrPersistence; any other error is permanent.
	Create(ctx context.Context, params domain.ParamSet) (domain.Object, error)
}

// Catalog resolves kind names to representations.
type Catalog interface {
	// Lookup returns the representation registered for kind.
	// Returns a *domain.UnknownRepresentationError if none is registered.
	Lookup(kind string) (Representation, error)

	// Subtypes returns the direct subtypes of category in declaration order.
	Subtypes(category string) []string
}

// Store is the registry contract used by the resolver and by test code.
type Store interface {
	// Add indexes obj under all of its categories and tags it with ttl.
	// Returns a *domain.DuplicateIdentifierError if any category already
	// holds the identifier; nothing is inserted in that case.
	Add(obj domain.Object, ttl domain.Scope) (domain.Object, error)

	// Get returns the object registered as identifier in category, or nil.
	Get(category, identifier string) domain.Object

	// Clear drops every object, or only those tagged with the given scope.
	Clear(ttl ...domain.Scope)

	// Categories returns the known category names, sorted.
	Categories() []string
}

// Persister writes representation payloads to the backing system.
// Transient failures wrap domain.ErrPersistence.
type Persister interface {
	// Persist stores body in collection and returns the assigned identifier.
	Persist(ctx context.Context, collection string, body any) (string, error)

	// Link attaches body to the relation of an already persisted record,
	// e.g. POST /accounts/{id}/members.
	Link(ctx context.Context, collection, id, relation string, body any) error
}

// MemberAdder is implemented by container objects (accounts, projects) that
// can take users as members after both have been provisioned.
type MemberAdder interface {
	AddMember(ctx context.Context, member domain.Object, siteIndex *int) error
}
