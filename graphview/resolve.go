package graphview

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultResolveConcurrency bounds the resolver fan-out unless overridden.
const DefaultResolveConcurrency = 16

// Resolver fetches entity records for node identifiers, one concurrent
// lookup per id. A failed lookup never aborts the others: the id is simply
// absent from the result map. Absence is the failure signal; failed ids are
// not present with a nil value.
type Resolver struct {
	lookup EntityLookup
	limit  int
	log    *logrus.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithConcurrency caps simultaneous lookups. 0 means unbounded.
func WithConcurrency(n int) ResolverOption {
	return func(r *Resolver) { r.limit = n }
}

// NewResolver creates a Resolver over the given lookup.
func NewResolver(lookup EntityLookup, log *logrus.Logger, opts ...ResolverOption) *Resolver {
	r := &Resolver{lookup: lookup, limit: DefaultResolveConcurrency, log: log}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve fans out one lookup per unique id and joins them all. It returns
// only when every lookup has completed or failed; traversal results are a
// snapshot, so ids may have been deleted in between and the caller degrades
// those to placeholders rather than losing the subgraph.
func (r *Resolver) Resolve(ctx context.Context, ids []string) map[string]Entity {
	resolved := make(map[string]Entity, len(ids))
	if len(ids) == 0 {
		return resolved
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		g.Go(func() error {
			entity, err := r.lookup.GetEntity(ctx, id)
			if err != nil {
				// Failure is caught at the task boundary and recorded
				// as absence; it must never propagate to the group.
				r.log.WithError(err).WithField("node_id", id).Debug("entity resolution gap")
				return nil
			}
			mu.Lock()
			resolved[id] = *entity
			mu.Unlock()
			return nil
		})
	}

	g.Wait() //nolint:errcheck // tasks never return errors
	return resolved
}
