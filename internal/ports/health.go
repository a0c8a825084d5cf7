package ports

import "context"

// HealthChecker is a backing dependency that can say whether setup is
// likely to succeed against it. Preflight consults every registered
// checker before the first object is created.
type HealthChecker interface {
	// Name identifies the dependency in preflight output, e.g. "backend".
	Name() string

	// HealthCheck returns nil when the dependency is usable. It must give
	// up when ctx is done.
	HealthCheck(ctx context.Context) error
}

// HealthRegistry fans preflight out over a set of checkers.
type HealthRegistry interface {
	Register(checker HealthChecker)

	// CheckAll runs every checker and returns one entry per checker name;
	// a nil entry means healthy.
	CheckAll(ctx context.Context) map[string]error
}
