package domain

import "maps"

// ParamSet holds the constructor parameters for one object, keyed by
// parameter name.
type ParamSet map[string]any

// Clone returns a shallow copy. The resolver always works on a clone so that
// a specification can be replayed (for example when a test is re-run).
func (p ParamSet) Clone() ParamSet {
	if p == nil {
		return ParamSet{}
	}
	return maps.Clone(p)
}

// Entry requests objects of one kind. Each ParamSet yields one object, in
// order. An empty Params slice is legal and yields nothing.
type Entry struct {
	Kind   string
	Params []ParamSet
}

// Spec is one declarative mapping of kind names to parameter sets. Entries
// keep their declared order.
type Spec []Entry

// One builds a single-object entry.
func One(kind string, params ParamSet) Entry {
	return Entry{Kind: kind, Params: []ParamSet{params}}
}

// Many builds an entry yielding one object per ParamSet.
func Many(kind string, params ...ParamSet) Entry {
	if params == nil {
		params = []ParamSet{}
	}
	return Entry{Kind: kind, Params: params}
}

// Plan groups the specifications of a test package by lifetime: Module specs
// run once per package, Function specs run for every test function.
type Plan struct {
	Module   []Spec
	Function []Spec
}
