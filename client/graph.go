package client

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// GraphService handles graph traversal queries.
type GraphService struct {
	c *Client
}

// Traverse runs a weighted traversal from a start node and returns the
// discovered path set. Options with zero values fall back to backend defaults.
func (s *GraphService) Traverse(ctx context.Context, id string, opts *TraverseOptions) (*TraverseResult, error) {
	params := url.Values{}
	if opts != nil {
		if opts.MaxDepth > 0 {
			params.Set("depth", strconv.Itoa(opts.MaxDepth))
		}
		if len(opts.Relations) > 0 {
			params.Set("relations", strings.Join(opts.Relations, ","))
		}
		if len(opts.Categories) > 0 {
			params.Set("categories", strings.Join(opts.Categories, ","))
		}
		if opts.Direction != "" {
			params.Set("direction", opts.Direction)
		}
		if opts.MinStrength > 0 {
			params.Set("min_strength", strconv.FormatFloat(opts.MinStrength, 'f', -1, 64))
		}
		if opts.MaxPaths > 0 {
			params.Set("max_paths", strconv.Itoa(opts.MaxPaths))
		}
		if opts.MaxNodes > 0 {
			params.Set("max_nodes", strconv.Itoa(opts.MaxNodes))
		}
	}
	var resp TraverseResult
	if err := s.c.get(ctx, "/api/v1/graph/traverse/"+url.PathEscape(id), params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
