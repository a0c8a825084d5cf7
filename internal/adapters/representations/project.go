package representations

import (
	"context"
	"fmt"

	"github.com/jsamuelsen11/testdata-provisioner/internal/domain"
	"github.com/jsamuelsen11/testdata-provisioner/internal/ports"
)

var _ ports.MemberAdder = (*Project)(nil)

// Project belongs to an account and is administered by a head admin, who
// defaults to the account owner.
type Project struct {
	domain.Base
	Name      string
	Account   *Account
	HeadAdmin domain.Object
	BackendID string
	Members   []string

	set *Set
}

type projectDTO struct {
	Name        string `json:"name"`
	AccountID   string `json:"account_id"`
	HeadAdminID string `json:"head_admin_id"`
}

// AddMember invites member by email on behalf of the head admin.
func (p *Project) AddMember(ctx context.Context, member domain.Object, siteIndex *int) error {
	addr, ok := email(member)
	if !ok {
		return fmt.Errorf("project %s: cannot add %T as a member", p.Name, member)
	}
	adminID, _ := backendID(p.HeadAdmin)

	body := memberDTO{Email: addr, AddedBy: adminID, SiteIndex: siteIndex}
	if err := p.set.link(ctx, collectionProjects, p.BackendID, relationMembers, body); err != nil {
		return err
	}
	p.Members = append(p.Members, addr)
	return nil
}

type projectRepresentation struct {
	set *Set
}

func (r *projectRepresentation) Kind() string         { return KindProject }
func (r *projectRepresentation) Categories() []string { return []string{KindProject} }

func (r *projectRepresentation) Signature() domain.Signature {
	return domain.Signature{
		"name":       domain.String,
		"account":    domain.Ref(KindAccount),
		"head_admin": domain.Ref(CategoryUser),
	}
}

func (r *projectRepresentation) Create(ctx context.Context, params domain.ParamSet) (domain.Object, error) {
	name, _ := params["name"].(string)
	if name == "" {
		return nil, fmt.Errorf("creating %s: name is required", KindProject)
	}
	account, ok := params["account"].(*Account)
	if !ok {
		return nil, fmt.Errorf("creating %s %s: account is required", KindProject, name)
	}

	admin, _ := params["head_admin"].(domain.Object)
	if admin == nil {
		admin = account.Owner
	}
	adminID, ok := backendID(admin)
	if !ok {
		return nil, fmt.Errorf("creating %s %s: head admin %s is not a user", KindProject, name, admin.Identifier())
	}

	id, err := r.set.persist(ctx, collectionProjects, projectDTO{
		Name:        name,
		AccountID:   account.BackendID,
		HeadAdminID: adminID,
	})
	if err != nil {
		return nil, err
	}

	return &Project{
		Base:      domain.NewBase(name, r.Categories()...),
		Name:      name,
		Account:   account,
		HeadAdmin: admin,
		BackendID: id,
		set:       r.set,
	}, nil
}
