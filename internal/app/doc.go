// Package app provides the setup-pass orchestration: the Resolver turns
// declarative specifications into provisioned objects by looking up
// representations in the catalog, resolving identifier references against
// the registry, creating objects under a transient-error retry policy, and
// registering them (with their default representations) under a scope.
package app
