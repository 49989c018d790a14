package client

import (
	"context"
	"time"

	"github.com/engramhq/engramview/graphview"
)

// ViewSource adapts a Client to the graphview Fetcher and EntityLookup
// interfaces, converting between wire and engine types.
type ViewSource struct {
	c *Client
}

// NewViewSource wraps a Client for use by the graphview pipeline.
func NewViewSource(c *Client) *ViewSource {
	return &ViewSource{c: c}
}

var (
	_ graphview.Fetcher      = (*ViewSource)(nil)
	_ graphview.EntityLookup = (*ViewSource)(nil)
)

// Traverse runs a backend traversal query.
func (s *ViewSource) Traverse(ctx context.Context, startID string, opts graphview.TraverseOptions) (*graphview.QueryResult, error) {
	res, err := s.c.Graph.Traverse(ctx, startID, &TraverseOptions{
		MaxDepth:    opts.MaxDepth,
		Relations:   opts.Relations,
		Categories:  opts.Categories,
		Direction:   string(opts.Direction),
		MinStrength: opts.MinStrength,
		MaxPaths:    opts.MaxPaths,
		MaxNodes:    opts.MaxNodes,
	})
	if err != nil {
		return nil, err
	}

	paths := make([]graphview.Path, len(res.Paths))
	for i, p := range res.Paths {
		edges := make([]graphview.PathEdge, len(p.Edges))
		for j, e := range p.Edges {
			edges[j] = graphview.PathEdge{
				Source:   e.Source,
				Target:   e.Target,
				Relation: e.Relation,
				Strength: e.Strength,
			}
		}
		paths[i] = graphview.Path{
			NodeIDs:  p.NodeIDs,
			Edges:    edges,
			Strength: p.Strength,
			Depth:    p.Depth,
		}
	}

	return &graphview.QueryResult{
		Paths:     paths,
		NodeIDs:   res.NodeIDs,
		PathCount: res.PathCount,
		Elapsed:   time.Duration(res.ElapsedMS * float64(time.Millisecond)),
	}, nil
}

// GetEntity fetches the full entity record for a node identifier.
func (s *ViewSource) GetEntity(ctx context.Context, id string) (*graphview.Entity, error) {
	node, err := s.c.Nodes.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &graphview.Entity{
		ID:         node.ID,
		Type:       node.Type,
		Label:      node.Label,
		Properties: node.Properties,
	}, nil
}
