// Package testutil provides in-memory representations for exercising the
// catalog, resolver, and fixtures without a backing system.
package testutil

import (
	"context"

	"github.com/jsamuelsen11/testdata-provisioner/internal/domain"
)

// Object is a generic provisioned object. Params records the resolved
// parameters it was created with; Defaults is returned verbatim from
// DefaultRepresentations when non-nil.
type Object struct {
	domain.Base
	Params   domain.ParamSet
	Defaults []any
}

// NewObject returns an Object for identifier under categories.
func NewObject(identifier string, categories ...string) *Object {
	return &Object{Base: domain.NewBase(identifier, categories...)}
}

// Plain is an Object without default representations.
type Plain struct {
	domain.Base
	Params domain.ParamSet
}

// WithDefaults is an Object that exposes default representations.
type WithDefaults struct {
	Object
}

// DefaultRepresentations implements domain.DefaultRepresenter.
func (o *WithDefaults) DefaultRepresentations() []any {
	return o.Defaults
}

// CreateFunc builds an object from resolved parameters.
type CreateFunc func(ctx context.Context, params domain.ParamSet) (domain.Object, error)

// Representation is a configurable ports.Representation. Calls records the
// parameter sets Create received.
type Representation struct {
	KindName string
	Chain    []string
	Sig      domain.Signature
	CreateFn CreateFunc
	Calls    []domain.ParamSet
}

// NewRepresentation returns a Representation whose Create builds a Plain
// object identified by the "name" parameter. chain lists ancestors after kind.
func NewRepresentation(kind string, sig domain.Signature, ancestors ...string) *Representation {
	r := &Representation{
		KindName: kind,
		Chain:    append([]string{kind}, ancestors...),
		Sig:      sig,
	}
	r.CreateFn = func(_ context.Context, params domain.ParamSet) (domain.Object, error) {
		name, _ := params["name"].(string)
		return &Plain{Base: domain.NewBase(name, r.Chain...), Params: params}, nil
	}
	return r
}

// Kind implements ports.Representation.
func (r *Representation) Kind() string { return r.KindName }

// Categories implements ports.Representation.
func (r *Representation) Categories() []string { return r.Chain }

// Signature implements ports.Representation.
func (r *Representation) Signature() domain.Signature { return r.Sig }

// Create implements ports.Representation.
func (r *Representation) Create(ctx context.Context, params domain.ParamSet) (domain.Object, error) {
	r.Calls = append(r.Calls, params)
	return r.CreateFn(ctx, params)
}
