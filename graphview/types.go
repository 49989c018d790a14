package graphview

import "encoding/json"

// Position is a layout coordinate assigned by the rendering layer.
// The engine stores and preserves positions but never computes them.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeView is a renderable memory node.
type NodeView struct {
	ID          string    `json:"id"`
	Category    Category  `json:"category"`
	Label       string    `json:"label"`
	Placeholder bool      `json:"placeholder,omitempty"`
	Position    *Position `json:"position,omitempty"`
}

// EdgeKey is the identity of an edge: the (source, target, relation) triple,
// not an opaque generated ID. Direction is implied by source→target order.
type EdgeKey struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Relation string `json:"relation"`
}

// EdgeView is a renderable relationship between two memory nodes.
type EdgeView struct {
	EdgeKey
	Category RelationCategory `json:"category"`
	Strength float64          `json:"strength"`
}

// GraphData is an immutable node/edge graph value. Operations never mutate a
// GraphData in place; Materialize and Merge produce new values. Node and edge
// iteration order is the order nodes and edges were first accepted, which is
// derived from backend path order, never from resolver completion order.
type GraphData struct {
	nodes     map[string]NodeView
	nodeOrder []string
	edges     map[EdgeKey]EdgeView
	edgeOrder []EdgeKey
}

// NewGraphData returns an empty graph value.
func NewGraphData() GraphData {
	return GraphData{
		nodes: make(map[string]NodeView),
		edges: make(map[EdgeKey]EdgeView),
	}
}

// NodeCount returns the number of nodes.
func (g GraphData) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g GraphData) EdgeCount() int { return len(g.edges) }

// Node returns the NodeView for id, if present.
func (g GraphData) Node(id string) (NodeView, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Edge returns the EdgeView for key, if present.
func (g GraphData) Edge(key EdgeKey) (EdgeView, bool) {
	e, ok := g.edges[key]
	return e, ok
}

// Nodes returns all nodes in first-accepted order.
func (g GraphData) Nodes() []NodeView {
	out := make([]NodeView, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns all edges in first-accepted order.
func (g GraphData) Edges() []EdgeView {
	out := make([]EdgeView, 0, len(g.edgeOrder))
	for _, k := range g.edgeOrder {
		out = append(out, g.edges[k])
	}
	return out
}

// NodeIDs returns all node identifiers in first-accepted order.
func (g GraphData) NodeIDs() []string {
	out := make([]string, len(g.nodeOrder))
	copy(out, g.nodeOrder)
	return out
}

// PlaceholderCount returns the number of nodes whose entity never resolved.
func (g GraphData) PlaceholderCount() int {
	n := 0
	for _, id := range g.nodeOrder {
		if g.nodes[id].Placeholder {
			n++
		}
	}
	return n
}

// WithPosition returns a copy of the graph with the given node's position
// set. It is the hook for the rendering layer to record layout coordinates;
// the receiver is unchanged. Unknown ids return the receiver as-is.
func (g GraphData) WithPosition(id string, pos Position) GraphData {
	n, ok := g.nodes[id]
	if !ok {
		return g
	}
	out := g.clone()
	n.Position = &pos
	out.nodes[id] = n
	return out
}

// clone returns a deep-enough copy: fresh maps and order slices. NodeView
// Position pointers are shared, which is safe because merge and materialize
// never write through them.
func (g GraphData) clone() GraphData {
	out := GraphData{
		nodes:     make(map[string]NodeView, len(g.nodes)),
		nodeOrder: make([]string, len(g.nodeOrder)),
		edges:     make(map[EdgeKey]EdgeView, len(g.edges)),
		edgeOrder: make([]EdgeKey, len(g.edgeOrder)),
	}
	for id, n := range g.nodes {
		out.nodes[id] = n
	}
	copy(out.nodeOrder, g.nodeOrder)
	for k, e := range g.edges {
		out.edges[k] = e
	}
	copy(out.edgeOrder, g.edgeOrder)
	return out
}

// graphJSON is the wire shape consumed by the rendering layer.
type graphJSON struct {
	Nodes []NodeView `json:"nodes"`
	Edges []EdgeView `json:"edges"`
}

// MarshalJSON renders the graph as ordered node and edge lists.
func (g GraphData) MarshalJSON() ([]byte, error) {
	return json.Marshal(graphJSON{Nodes: g.Nodes(), Edges: g.Edges()})
}

// UnmarshalJSON rebuilds a graph value from the list form, preserving order.
func (g *GraphData) UnmarshalJSON(data []byte) error {
	var raw graphJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := NewGraphData()
	for _, n := range raw.Nodes {
		out.putNode(n)
	}
	for _, e := range raw.Edges {
		out.putEdge(e)
	}
	*g = out
	return nil
}

// putNode inserts or replaces a node, recording first-insert order.
// Only builders (Materialize, Merge, UnmarshalJSON) call this on graphs
// they have not yet shared.
func (g *GraphData) putNode(n NodeView) {
	if _, ok := g.nodes[n.ID]; !ok {
		g.nodeOrder = append(g.nodeOrder, n.ID)
	}
	g.nodes[n.ID] = n
}

// putEdge inserts an edge unless its key is already present: first seen wins.
func (g *GraphData) putEdge(e EdgeView) {
	if _, ok := g.edges[e.EdgeKey]; ok {
		return
	}
	g.edgeOrder = append(g.edgeOrder, e.EdgeKey)
	g.edges[e.EdgeKey] = e
}
