// Package domain contains the types shared by the provisioning core: the
// Object contract that every provisioned value satisfies, scopes, declarative
// specifications, parameter signatures, and the error taxonomy. Concrete
// representations (users, accounts, ...) live in adapter packages and only
// depend on this package.
package domain
