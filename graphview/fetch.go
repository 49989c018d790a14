package graphview

import (
	"context"
	"fmt"
	"time"
)

// Direction constrains which edges a traversal follows.
type Direction string

// Traversal directions.
const (
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"
	DirectionBoth     Direction = "both"
)

// TraverseOptions are the optional filters for a traversal query. Zero values
// mean "backend default".
type TraverseOptions struct {
	MaxDepth    int
	Relations   []string // relationship type allow-list
	Categories  []string // relationship category allow-list
	Direction   Direction
	MinStrength float64
	MaxPaths    int
	MaxNodes    int
}

// Validate rejects option values the backend would refuse outright.
func (o TraverseOptions) Validate() error {
	if o.MaxDepth < 0 {
		return fmt.Errorf("max depth must be non-negative, got %d", o.MaxDepth)
	}
	switch o.Direction {
	case "", DirectionOutgoing, DirectionIncoming, DirectionBoth:
	default:
		return fmt.Errorf("invalid direction %q", o.Direction)
	}
	if o.MinStrength < 0 {
		return fmt.Errorf("min strength must be non-negative, got %v", o.MinStrength)
	}
	return nil
}

// PathEdge is one traversed edge within a path.
type PathEdge struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Relation string  `json:"relation"`
	Strength float64 `json:"strength"`
}

// Path is an ordered walk of nodes and edges returned by a traversal.
// Strength is the backend-defined cumulative weight; the engine carries it
// but never recomputes it.
type Path struct {
	NodeIDs  []string   `json:"node_ids"`
	Edges    []PathEdge `json:"edges"`
	Strength float64    `json:"strength"`
	Depth    int        `json:"depth"`
}

// QueryResult is a raw traversal result. Paths are in backend order, which
// reflects path-quality ranking (strongest first); the materializer relies
// on that for its first-seen-wins tie-break.
type QueryResult struct {
	Paths     []Path        `json:"paths"`
	NodeIDs   []string      `json:"node_ids"` // deduplicated, every id referenced by any path
	PathCount int           `json:"path_count"`
	Elapsed   time.Duration `json:"elapsed"` // diagnostic only
}

// Fetcher runs backend traversal queries. Any transport or backend error is
// terminal for the query: callers must not materialize a partial result.
type Fetcher interface {
	Traverse(ctx context.Context, startID string, opts TraverseOptions) (*QueryResult, error)
}

// Entity is the resolved content record for a node identifier.
type Entity struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties,omitempty"`
}

// EntityLookup fetches a single entity record. A not-found, deleted, or
// access error outcome is reported as a non-nil error.
type EntityLookup interface {
	GetEntity(ctx context.Context, id string) (*Entity, error)
}
