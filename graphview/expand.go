package graphview

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Expander drives the fetch → resolve → materialize pipeline and merges
// expansions into an existing graph.
type Expander struct {
	fetcher  Fetcher
	resolver *Resolver
	log      *logrus.Logger
}

// NewExpander creates an Expander.
func NewExpander(fetcher Fetcher, resolver *Resolver, log *logrus.Logger) *Expander {
	return &Expander{fetcher: fetcher, resolver: resolver, log: log}
}

// Load runs a full traversal from startID and materializes the result into a
// fresh graph. A fetch error is terminal: no partial graph is produced.
// Resolution gaps are not errors; affected nodes come back as placeholders.
func (e *Expander) Load(ctx context.Context, startID string, opts TraverseOptions) (GraphData, error) {
	if startID == "" {
		return GraphData{}, fmt.Errorf("start node id is required")
	}
	if err := opts.Validate(); err != nil {
		return GraphData{}, fmt.Errorf("traverse options: %w", err)
	}

	result, err := e.fetcher.Traverse(ctx, startID, opts)
	if err != nil {
		return GraphData{}, fmt.Errorf("traverse from %q: %w", startID, err)
	}

	entities := e.resolver.Resolve(ctx, result.NodeIDs)

	g := Materialize(result, entities)

	e.log.WithFields(logrus.Fields{
		"start_id":     startID,
		"paths":        result.PathCount,
		"nodes":        g.NodeCount(),
		"edges":        g.EdgeCount(),
		"placeholders": g.PlaceholderCount(),
		"elapsed":      result.Elapsed,
	}).Debug("graph loaded")

	return g, nil
}

// Expand runs a one-hop traversal from nodeID (deeper if opts.MaxDepth says
// so) and returns Merge(existing, incoming). The existing graph is never
// mutated, so concurrent expansions are safe; callers that race decide their
// own ordering, and the last applied merge wins.
func (e *Expander) Expand(ctx context.Context, existing GraphData, nodeID string, opts TraverseOptions) (GraphData, error) {
	if opts.MaxDepth == 0 {
		opts.MaxDepth = 1
	}

	incoming, err := e.Load(ctx, nodeID, opts)
	if err != nil {
		return GraphData{}, fmt.Errorf("expand %q: %w", nodeID, err)
	}

	return Merge(existing, incoming), nil
}
