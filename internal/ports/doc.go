// Package ports defines interfaces between layers in the hexagonal architecture.
// The resolver consumes the Catalog, Representation, and Store ports; adapters
// implement them (static catalog, demo representations, backend persister).
package ports
