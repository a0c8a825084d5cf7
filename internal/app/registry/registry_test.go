package registry_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/jsamuelsen11/testdata-provisioner/internal/app/registry"
	"github.com/jsamuelsen11/testdata-provisioner/internal/domain"
)

type testObject struct {
	domain.Base
}

func newUser(id string) *testObject {
	return &testObject{Base: domain.NewBase(id, "User", "BaseUser")}
}

func newOwner(id string) *testObject {
	return &testObject{Base: domain.NewBase(id, "Owner", "BaseUser")}
}

type kindOnly []string

func (k kindOnly) Categories() []string { return k }

// --- Add ---

func TestAdd_IndexesEveryCategory(t *testing.T) {
	t.Parallel()

	r := registry.New()
	owner := newOwner("bobs-owner")

	got, err := r.Add(owner, domain.ScopeFunction)
	require.NoError(t, err)

	assert.Same(t, owner, got, "Add should return the same object for chaining")
	assert.Same(t, owner, r.Get("Owner", "bobs-owner"))
	assert.Same(t, owner, r.Get("BaseUser", "bobs-owner"))
	assert.Nil(t, r.Get("User", "bobs-owner"))
}

func TestAdd_SetsTTL(t *testing.T) {
	t.Parallel()

	r := registry.New()
	user := newUser("bob")
	require.Empty(t, user.TTL())

	_, err := r.Add(user, domain.ScopeModule)
	require.NoError(t, err)

	assert.Equal(t, domain.ScopeModule, user.TTL())
}

func TestAdd_DuplicateSameCategory(t *testing.T) {
	t.Parallel()

	r := registry.New()
	_, err := r.Add(newUser("bob"), domain.ScopeFunction)
	require.NoError(t, err)

	_, err = r.Add(newUser("bob"), domain.ScopeFunction)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicateIdentifier)

	var dup *domain.DuplicateIdentifierError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "User", dup.Category)
	assert.Equal(t, "bob", dup.Identifier)
}

func TestAdd_DuplicateInAncestorLeavesRegistryUnchanged(t *testing.T) {
	t.Parallel()

	r := registry.New()
	owner := newOwner("sam")
	_, err := r.Add(owner, domain.ScopeModule)
	require.NoError(t, err)

	user := newUser("sam")
	_, err = r.Add(user, domain.ScopeFunction)

	var dup *domain.DuplicateIdentifierError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "BaseUser", dup.Category)

	assert.Nil(t, r.Get("User", "sam"), "failed Add must not insert into already validated categories")
	assert.Same(t, owner, r.Get("BaseUser", "sam"))
	assert.Empty(t, user.TTL(), "failed Add must not tag the object")
	assert.NotContains(t, r.Categories(), "User")
}

// --- Get ---

func TestGet_MissReturnsNil(t *testing.T) {
	t.Parallel()

	r := registry.New()
	assert.Nil(t, r.Get("User", "nobody"))

	_, err := r.Add(newUser("bob"), domain.ScopeFunction)
	require.NoError(t, err)
	assert.Nil(t, r.Get("User", "nobody"))
	assert.Nil(t, r.Get("Account", "bob"))
}

func TestGetType_UsesMostDerivedCategory(t *testing.T) {
	t.Parallel()

	r := registry.New()
	user := newUser("bob")
	_, err := r.Add(user, domain.ScopeFunction)
	require.NoError(t, err)

	assert.Same(t, user, r.GetType(kindOnly{"User", "BaseUser"}, "bob"))
	assert.Same(t, user, r.GetType(kindOnly{"BaseUser"}, "bob"))
	assert.Nil(t, r.GetType(kindOnly{"Owner", "BaseUser"}, "bob"))
	assert.Nil(t, r.GetType(kindOnly{}, "bob"))
}

func TestFind(t *testing.T) {
	t.Parallel()

	r := registry.New()
	user := newUser("bob")
	_, err := r.Add(user, domain.ScopeFunction)
	require.NoError(t, err)

	got, ok := registry.Find[*testObject](r, "User", "bob")
	require.True(t, ok)
	assert.Same(t, user, got)

	_, ok = registry.Find[*testObject](r, "User", "rob")
	assert.False(t, ok)
}

// --- Clear ---

func TestClear_All(t *testing.T) {
	t.Parallel()

	r := registry.New()
	_, _ = r.Add(newUser("bob"), domain.ScopeFunction)
	_, _ = r.Add(newOwner("rob"), domain.ScopeModule)

	r.Clear()

	assert.Empty(t, r.Categories())
	assert.Nil(t, r.Get("User", "bob"))
	assert.Equal(t, 0, r.Len())
}

func TestClear_EmptyScopeRemovesNothing(t *testing.T) {
	t.Parallel()

	r := registry.New()
	_, _ = r.Add(newUser("bob"), domain.ScopeFunction)

	r.Clear("")

	assert.NotNil(t, r.Get("User", "bob"))
	assert.Equal(t, 1, r.Len())
}

func TestClear_ScopedKeepsOtherScopes(t *testing.T) {
	t.Parallel()

	r := registry.New()
	bob := newUser("bob")
	rob := newUser("rob")
	_, _ = r.Add(bob, domain.ScopeFunction)
	_, _ = r.Add(rob, domain.ScopeModule)
	before := r.Categories()

	r.Clear(domain.ScopeFunction)

	assert.Nil(t, r.Get("User", "bob"))
	assert.Nil(t, r.Get("BaseUser", "bob"))
	assert.Same(t, rob, r.Get("User", "rob"))
	assert.Same(t, rob, r.Get("BaseUser", "rob"))
	assert.Equal(t, before, r.Categories())
}

func TestClear_ScopedKeepsEmptyCategories(t *testing.T) {
	t.Parallel()

	r := registry.New()
	_, _ = r.Add(newOwner("bobs-owner"), domain.ScopeFunction)

	r.Clear(domain.ScopeFunction)

	assert.Equal(t, []string{"BaseUser", "Owner"}, r.Categories())
	assert.Empty(t, r.Objects("Owner"))
}

func TestClear_AllowsReAdd(t *testing.T) {
	t.Parallel()

	r := registry.New()
	_, err := r.Add(newUser("bob"), domain.ScopeFunction)
	require.NoError(t, err)

	r.Clear(domain.ScopeFunction)

	_, err = r.Add(newUser("bob"), domain.ScopeFunction)
	assert.NoError(t, err)
}

// --- Introspection ---

func TestCategories_Sorted(t *testing.T) {
	t.Parallel()

	r := registry.New()
	_, _ = r.Add(&testObject{Base: domain.NewBase("acc", "Account")}, domain.ScopeModule)
	_, _ = r.Add(newUser("bob"), domain.ScopeModule)
	_, _ = r.Add(newOwner("o"), domain.ScopeModule)

	assert.Equal(t, []string{"Account", "BaseUser", "Owner", "User"}, r.Categories())
}

func TestLen_CountsObjectsOnce(t *testing.T) {
	t.Parallel()

	r := registry.New()
	_, _ = r.Add(newUser("bob"), domain.ScopeModule)
	_, _ = r.Add(newUser("rob"), domain.ScopeModule)
	_, _ = r.Add(newOwner("o"), domain.ScopeModule)

	assert.Equal(t, 3, r.Len())
}

func TestEach_DeterministicOrder(t *testing.T) {
	t.Parallel()

	r := registry.New()
	_, _ = r.Add(newUser("rob"), domain.ScopeModule)
	_, _ = r.Add(newUser("bob"), domain.ScopeModule)

	var got []string
	r.Each(func(category string, obj domain.Object) {
		got = append(got, category+"/"+obj.Identifier())
	})

	assert.Equal(t, []string{"BaseUser/bob", "BaseUser/rob", "User/bob", "User/rob"}, got)
}

// --- Properties ---

// TestRegistry_UniquenessProperty checks that any second Add of an identifier
// into a shared category fails and leaves the first object in place.
func TestRegistry_UniquenessProperty(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		r := registry.New()
		id := rapid.StringMatching(`[a-z]{1,8}`).Draw(rt, "id")
		firstIsOwner := rapid.Bool().Draw(rt, "firstIsOwner")
		secondIsOwner := rapid.Bool().Draw(rt, "secondIsOwner")

		build := func(owner bool) *testObject {
			if owner {
				return newOwner(id)
			}
			return newUser(id)
		}

		first := build(firstIsOwner)
		if _, err := r.Add(first, domain.ScopeModule); err != nil {
			rt.Fatalf("first Add: %v", err)
		}

		_, err := r.Add(build(secondIsOwner), domain.ScopeFunction)
		if !errors.Is(err, domain.ErrDuplicateIdentifier) {
			rt.Fatalf("second Add error = %v, want ErrDuplicateIdentifier", err)
		}
		if got := r.Get("BaseUser", id); got != first {
			rt.Fatalf("BaseUser/%s replaced by failed Add", id)
		}
		if r.Len() != 1 {
			rt.Fatalf("Len() = %d, want 1", r.Len())
		}
	})
}

// TestRegistry_ScopedClearProperty checks that clearing one scope removes
// exactly the objects carrying it.
func TestRegistry_ScopedClearProperty(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		r := registry.New()
		n := rapid.IntRange(0, 20).Draw(rt, "n")

		scopes := make(map[string]domain.Scope, n)
		for i := range n {
			id := fmt.Sprintf("obj-%d", i)
			scope := rapid.SampledFrom([]domain.Scope{domain.ScopeModule, domain.ScopeFunction}).Draw(rt, "scope")
			scopes[id] = scope
			if _, err := r.Add(newUser(id), scope); err != nil {
				rt.Fatalf("Add(%s): %v", id, err)
			}
		}

		r.Clear(domain.ScopeFunction)

		for id, scope := range scopes {
			for _, category := range []string{"User", "BaseUser"} {
				got := r.Get(category, id)
				if scope == domain.ScopeFunction && got != nil {
					rt.Fatalf("%s/%s survived Clear(function)", category, id)
				}
				if scope == domain.ScopeModule && got == nil {
					rt.Fatalf("%s/%s removed by Clear(function)", category, id)
				}
			}
		}
	})
}
