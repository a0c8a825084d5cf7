// Package gotest wires setup passes into the lifecycle of go test.
//
// A Session belongs to one top-level test (the "module"): objects created by
// SetupModule live until that test ends, objects created by Setup live until
// the subtest that requested them ends.
//
//	func TestAccounts(t *testing.T) {
//		s := gotest.NewSession(t, resolver, reg)
//		s.SetupModule(t, moduleSpecs...)
//
//		t.Run("owner can invite", func(t *testing.T) {
//			s.Setup(t, domain.Spec{domain.One("Project", domain.ParamSet{"name": "Launch", "account": "Acme"})})
//			s.Users(t, domain.ParamSet{"name": "Tim", "account": "Acme", "site_index": 1})
//			...
//		})
//	}
package gotest

import (
	"context"
	"strings"
	"testing"

	"github.com/jsamuelsen11/testdata-provisioner/internal/adapters/specfile"
	"github.com/jsamuelsen11/testdata-provisioner/internal/domain"
	"github.com/jsamuelsen11/testdata-provisioner/internal/platform/httpclient"
	"github.com/jsamuelsen11/testdata-provisioner/internal/ports"
)

// Provisioner runs setup passes. *app.Resolver implements it.
type Provisioner interface {
	Process(ctx context.Context, scope domain.Scope, specs []domain.Spec) error
	Build(ctx context.Context, scope domain.Scope, kind string, params domain.ParamSet) (domain.Object, error)
}

// Session binds a provisioner and the store it writes to a test.
type Session struct {
	provisioner Provisioner
	store       ports.Store
}

// NewSession returns a Session whose store is cleared entirely when tb ends.
func NewSession(tb testing.TB, provisioner Provisioner, store ports.Store) *Session {
	tb.Helper()

	tb.Cleanup(func() { store.Clear() })
	return &Session{provisioner: provisioner, store: store}
}

// Store returns the store objects are registered in.
func (s *Session) Store() ports.Store {
	return s.store
}

// Get returns the registered object or fails the test.
func (s *Session) Get(tb testing.TB, category, identifier string) domain.Object {
	tb.Helper()

	obj := s.store.Get(category, identifier)
	if obj == nil {
		tb.Fatalf("no %s named %q in the test registry", category, identifier)
	}
	return obj
}

// SetupModule provisions specs with module scope.
func (s *Session) SetupModule(tb testing.TB, specs ...domain.Spec) {
	tb.Helper()

	if err := s.provisioner.Process(contextFor(tb), domain.ScopeModule, specs); err != nil {
		tb.Fatalf("module setup: %v", err)
	}
}

// Setup provisions specs with function scope and evicts every
// function-scoped object when tb ends.
func (s *Session) Setup(tb testing.TB, specs ...domain.Spec) {
	tb.Helper()

	tb.Cleanup(func() { s.store.Clear(domain.ScopeFunction) })
	if err := s.provisioner.Process(contextFor(tb), domain.ScopeFunction, specs); err != nil {
		tb.Fatalf("setup: %v", err)
	}
}

// Apply runs the module part of plan now and its function part under tb's
// function scope.
func (s *Session) Apply(tb testing.TB, plan domain.Plan) {
	tb.Helper()

	if len(plan.Module) > 0 {
		s.SetupModule(tb, plan.Module...)
	}
	if len(plan.Function) > 0 {
		s.Setup(tb, plan.Function...)
	}
}

// LoadPlan reads a YAML setup file, failing tb on error. Bare sequences are
// treated as function scope.
func LoadPlan(tb testing.TB, path string) domain.Plan {
	tb.Helper()

	plan, err := specfile.Load(path, domain.ScopeFunction)
	if err != nil {
		tb.Fatalf("loading setup file: %v", err)
	}
	return plan
}

// TestName returns the name of the top-level test function running tb.
func TestName(tb testing.TB) string {
	name, _, _ := strings.Cut(tb.Name(), "/")
	return name
}

// contextFor tags outbound calls with the test that caused them.
func contextFor(tb testing.TB) context.Context {
	return httpclient.WithTestName(tb.Context(), tb.Name())
}
