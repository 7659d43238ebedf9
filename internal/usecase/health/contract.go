package health

import "context"

// IndexPinger checks search index availability.
type IndexPinger interface {
	Ping(ctx context.Context) error
}

// BackendChecker verifies a model endpoint's availability.
type BackendChecker interface {
	HealthCheck(ctx context.Context) error
}
