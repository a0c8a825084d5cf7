package representations

import (
	"context"
	"fmt"

	"github.com/jsamuelsen11/testdata-provisioner/internal/domain"
	"github.com/jsamuelsen11/testdata-provisioner/internal/ports"
)

var (
	_ ports.MemberAdder         = (*Account)(nil)
	_ domain.DefaultRepresenter = (*Account)(nil)
)

// Account is a tenant owned by a user. When no owner is given, creating an
// account also creates an Owner named "<account> owner", which is returned
// from DefaultRepresentations so it gets registered alongside the account.
type Account struct {
	domain.Base
	Name      string
	Owner     domain.Object
	BackendID string
	Members   []domain.Object

	set          *Set
	createdOwner domain.Object
}

type accountDTO struct {
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`
}

type memberDTO struct {
	UserID    string `json:"user_id,omitempty"`
	Email     string `json:"email,omitempty"`
	AddedBy   string `json:"added_by"`
	SiteIndex *int   `json:"site_index,omitempty"`
}

// DefaultRepresentations returns the owner the account created, if any.
func (a *Account) DefaultRepresentations() []any {
	if a.createdOwner == nil {
		return nil
	}
	return []any{a.createdOwner}
}

// AddMember adds member to the account on behalf of its owner.
func (a *Account) AddMember(ctx context.Context, member domain.Object, siteIndex *int) error {
	userID, ok := backendID(member)
	if !ok {
		return fmt.Errorf("account %s: cannot add %T as a member", a.Name, member)
	}
	ownerID, _ := backendID(a.Owner)

	body := memberDTO{UserID: userID, AddedBy: ownerID, SiteIndex: siteIndex}
	if err := a.set.link(ctx, collectionAccounts, a.BackendID, relationMembers, body); err != nil {
		return err
	}
	a.Members = append(a.Members, member)
	return nil
}

type accountRepresentation struct {
	set *Set
}

func (r *accountRepresentation) Kind() string         { return KindAccount }
func (r *accountRepresentation) Categories() []string { return []string{KindAccount} }

func (r *accountRepresentation) Signature() domain.Signature {
	return domain.Signature{"name": domain.String, "owner": domain.Ref(CategoryUser)}
}

func (r *accountRepresentation) Create(ctx context.Context, params domain.ParamSet) (domain.Object, error) {
	name, _ := params["name"].(string)
	if name == "" {
		return nil, fmt.Errorf("creating %s: name is required", KindAccount)
	}

	acc := &Account{Base: domain.NewBase(name, r.Categories()...), Name: name, set: r.set}

	owner, _ := params["owner"].(domain.Object)
	if owner == nil {
		created, err := (&ownerRepresentation{set: r.set}).Create(ctx, domain.ParamSet{"name": name + " owner"})
		if err != nil {
			return nil, err
		}
		owner = created
		acc.createdOwner = created
	}
	acc.Owner = owner

	ownerID, ok := backendID(owner)
	if !ok {
		return nil, fmt.Errorf("creating %s %s: owner %s is not a user", KindAccount, name, owner.Identifier())
	}

	id, err := r.set.persist(ctx, collectionAccounts, accountDTO{Name: name, OwnerID: ownerID})
	if err != nil {
		return nil, err
	}
	acc.BackendID = id
	return acc, nil
}
