package graphview

// Merge unions an incoming graph into an existing one, producing a new value
// that is a superset of both by nodes and edges. Merge never deletes.
//
// For nodes present in both, the existing view's position survives so that
// repeated expansion never makes already-rendered nodes jump, while
// descriptive fields (category, label) are refreshed from the incoming view.
// A placeholder never overwrites resolved content: if the incoming view is a
// placeholder and the existing one is not, the existing descriptive fields
// stay. Edge conflicts keep the existing entry, consistent with the
// materializer's first-seen-wins rule.
//
// Merge is a total, pure function: both inputs are left unchanged.
func Merge(existing, incoming GraphData) GraphData {
	out := NewGraphData()

	for _, id := range existing.nodeOrder {
		cur := existing.nodes[id]
		next, ok := incoming.nodes[id]
		if ok && !(next.Placeholder && !cur.Placeholder) {
			cur.Category = next.Category
			cur.Label = next.Label
			cur.Placeholder = next.Placeholder
		}
		out.putNode(cur)
	}
	for _, id := range incoming.nodeOrder {
		if _, ok := out.nodes[id]; !ok {
			out.putNode(incoming.nodes[id])
		}
	}

	for _, k := range existing.edgeOrder {
		out.putEdge(existing.edges[k])
	}
	for _, k := range incoming.edgeOrder {
		out.putEdge(incoming.edges[k]) // no-op when the key already exists
	}

	return out
}
