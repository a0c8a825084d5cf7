package representations

import (
	"context"
	"fmt"
	"strings"

	"github.com/jsamuelsen11/testdata-provisioner/internal/domain"
)

// User is a regular backend user. Its identifier is its name.
type User struct {
	domain.Base
	Name      string
	Email     string
	BackendID string
}

// Owner is a user entitled to own accounts.
type Owner struct {
	User
}

type userDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type userRepresentation struct {
	set *Set
}

func (r *userRepresentation) Kind() string         { return KindUser }
func (r *userRepresentation) Categories() []string { return []string{KindUser, CategoryUser} }

func (r *userRepresentation) Signature() domain.Signature {
	return domain.Signature{"name": domain.String, "email": domain.String}
}

func (r *userRepresentation) Create(ctx context.Context, params domain.ParamSet) (domain.Object, error) {
	u, err := r.set.newUser(ctx, params, "member", r.Categories())
	if err != nil {
		return nil, err
	}
	return u, nil
}

type ownerRepresentation struct {
	set *Set
}

func (r *ownerRepresentation) Kind() string         { return KindOwner }
func (r *ownerRepresentation) Categories() []string { return []string{KindOwner, CategoryUser} }

func (r *ownerRepresentation) Signature() domain.Signature {
	return domain.Signature{"name": domain.String, "email": domain.String}
}

func (r *ownerRepresentation) Create(ctx context.Context, params domain.ParamSet) (domain.Object, error) {
	u, err := r.set.newUser(ctx, params, "owner", r.Categories())
	if err != nil {
		return nil, err
	}
	return &Owner{User: *u}, nil
}

func (s *Set) newUser(ctx context.Context, params domain.ParamSet, role string, categories []string) (*User, error) {
	name, _ := params["name"].(string)
	if name == "" {
		return nil, fmt.Errorf("creating %s: name is required", categories[0])
	}
	email, _ := params["email"].(string)
	if email == "" {
		email = defaultEmail(name)
	}

	id, err := s.persist(ctx, collectionUsers, userDTO{Name: name, Email: email, Role: role})
	if err != nil {
		return nil, err
	}

	return &User{
		Base:      domain.NewBase(name, categories...),
		Name:      name,
		Email:     email,
		BackendID: id,
	}, nil
}

func defaultEmail(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.test"
}

// backendID returns the backend id of any user-like object.
func backendID(obj domain.Object) (string, bool) {
	switch u := obj.(type) {
	case *User:
		return u.BackendID, true
	case *Owner:
		return u.BackendID, true
	default:
		return "", false
	}
}

// email returns the email of any user-like object.
func email(obj domain.Object) (string, bool) {
	switch u := obj.(type) {
	case *User:
		return u.Email, true
	case *Owner:
		return u.Email, true
	default:
		return "", false
	}
}
