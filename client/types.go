package client

import "time"

// Node represents a memory entity in the knowledge graph.
type Node struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties,omitempty"`
	Salience   float64        `json:"salience_score"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// PathEdge is one traversed relationship within a path.
type PathEdge struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Relation string  `json:"relation"`
	Strength float64 `json:"strength"`
}

// Path is an ordered walk returned by a traversal query. NodeIDs and Edges
// are in walk order; Strength is the backend-defined cumulative weight.
type Path struct {
	NodeIDs  []string   `json:"node_ids"`
	Edges    []PathEdge `json:"edges"`
	Strength float64    `json:"strength"`
	Depth    int        `json:"depth"`
}

// TraverseResult holds a weighted path set discovered from a start node.
// Paths are ordered strongest-first by the backend. NodeIDs is the
// deduplicated set of every node referenced by any path.
type TraverseResult struct {
	Paths     []Path   `json:"paths"`
	NodeIDs   []string `json:"node_ids"`
	PathCount int      `json:"path_count"`
	ElapsedMS float64  `json:"elapsed_ms"`
}

// TraverseOptions holds the optional traversal filters. Zero values are
// omitted and the backend applies its defaults.
type TraverseOptions struct {
	MaxDepth    int
	Relations   []string
	Categories  []string
	Direction   string // outgoing, incoming, both
	MinStrength float64
	MaxPaths    int
	MaxNodes    int
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
