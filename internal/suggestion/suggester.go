package suggestion

import "context"

// Suggester defines the interface for proposing knowledge domain tags
// for an experience description. It is the boundary between the
// application core and the external LLM service.
type Suggester interface {
	// SuggestDomains proposes up to the configured number of lowercase
	// domain tags for the given description. Returns ErrUnavailable when
	// the backing service is disabled or shedding load, and the other
	// package sentinel errors for provider failures.
	SuggestDomains(ctx context.Context, description string) ([]string, error)
}
