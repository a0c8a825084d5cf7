// Package representations holds the constructible types of the demo backend:
// users, account owners, accounts, and projects. Each type declares its
// category chain and signature, persists itself through a ports.Persister,
// and keeps the backend identifier it was assigned.
//
// Without a persister objects are created in memory with random identifiers,
// which is what unit tests of fixture code usually want.
package representations

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/testdata-provisioner/internal/ports"
)

// Kind and category names.
const (
	KindUser     = "User"
	KindOwner    = "Owner"
	KindAccount  = "Account"
	KindProject  = "Project"
	CategoryUser = "BaseUser"
)

// Backend collections.
const (
	collectionUsers    = "users"
	collectionAccounts = "accounts"
	collectionProjects = "projects"
	relationMembers    = "members"
)

// Set builds the demo representations around one persister.
type Set struct {
	persister ports.Persister
}

// New returns a Set persisting through p. A nil p keeps objects in memory.
func New(p ports.Persister) *Set {
	return &Set{persister: p}
}

// All returns every representation in the set, parents before children.
func (s *Set) All() []ports.Representation {
	return []ports.Representation{
		&userRepresentation{set: s},
		&ownerRepresentation{set: s},
		&accountRepresentation{set: s},
		&projectRepresentation{set: s},
	}
}

// persist stores body and returns its backend id.
func (s *Set) persist(ctx context.Context, collection string, body any) (string, error) {
	if s.persister == nil {
		return uuid.NewString(), nil
	}

	id, err := s.persister.Persist(ctx, collection, body)
	if err != nil {
		return "", fmt.Errorf("persisting %s: %w", collection, err)
	}
	return id, nil
}

// link attaches body to a record's relation. It is a no-op in memory.
func (s *Set) link(ctx context.Context, collection, id, relation string, body any) error {
	if s.persister == nil {
		return nil
	}
	if err := s.persister.Link(ctx, collection, id, relation, body); err != nil {
		return fmt.Errorf("linking %s/%s/%s: %w", collection, id, relation, err)
	}
	return nil
}
