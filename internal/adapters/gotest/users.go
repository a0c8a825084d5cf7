package gotest

import (
	"testing"

	"github.com/jsamuelsen11/testdata-provisioner/internal/domain"
	"github.com/jsamuelsen11/testdata-provisioner/internal/ports"
)

// Membership keys understood by Users. They are removed from the parameter
// set before the user is created.
const (
	KeyAccount   = "account"
	KeyProject   = "project"
	KeySiteIndex = "site_index"
)

// Users creates one function-scoped User per parameter set. When "account"
// or "project" names a registered container, the new user is added to it as
// a member, at "site_index" when given.
func (s *Session) Users(tb testing.TB, users ...domain.ParamSet) []domain.Object {
	tb.Helper()

	tb.Cleanup(func() { s.store.Clear(domain.ScopeFunction) })

	created := make([]domain.Object, 0, len(users))
	for _, params := range users {
		created = append(created, s.user(tb, params.Clone()))
	}
	return created
}

func (s *Session) user(tb testing.TB, params domain.ParamSet) domain.Object {
	tb.Helper()

	account, _ := pop(params, KeyAccount).(string)
	project, _ := pop(params, KeyProject).(string)
	siteIndex, err := toSiteIndex(pop(params, KeySiteIndex))
	if err != nil {
		tb.Fatalf("user %v: %v", params["name"], err)
		return nil
	}

	ctx := contextFor(tb)
	user, err := s.provisioner.Build(ctx, domain.ScopeFunction, "User", params)
	if err != nil {
		tb.Fatalf("creating user: %v", err)
		return nil
	}

	for _, target := range []struct{ category, name string }{
		{"Account", account},
		{"Project", project},
	} {
		if target.name == "" {
			continue
		}
		adder, ok := s.Get(tb, target.category, target.name).(ports.MemberAdder)
		if !ok {
			tb.Fatalf("%s %q cannot take members", target.category, target.name)
			return user
		}
		if err := adder.AddMember(ctx, user, siteIndex); err != nil {
			tb.Fatalf("adding %s to %s %q: %v", user.Identifier(), target.category, target.name, err)
			return user
		}
	}
	return user
}

func pop(params domain.ParamSet, key string) any {
	v := params[key]
	delete(params, key)
	return v
}

func toSiteIndex(v any) (*int, error) {
	switch n := v.(type) {
	case nil:
		return nil, nil
	case int:
		return &n, nil
	case int64:
		i := int(n)
		return &i, nil
	case float64:
		if n != float64(int(n)) {
			return nil, &domain.ValidationError{Fields: map[string]string{KeySiteIndex: "must be a whole number"}}
		}
		i := int(n)
		return &i, nil
	default:
		return nil, &domain.ValidationError{Fields: map[string]string{KeySiteIndex: "must be a number"}}
	}
}
