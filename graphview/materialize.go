package graphview

// Materialize converts a raw traversal result plus a partial entity map into
// a deduplicated graph value.
//
// Every node identifier along every path yields exactly one NodeView: a real
// one derived from its resolved entity, or a placeholder (category unknown,
// label = raw id) when resolution failed. Edges dedupe on their (source,
// target, relation) key with first-seen-wins: paths arrive in backend
// quality order, so the first occurrence carries the strength to keep.
// Positions are left unassigned; placing new nodes is the rendering layer's
// job. A zero-length path still yields its single node with no edges.
func Materialize(result *QueryResult, entities map[string]Entity) GraphData {
	g := NewGraphData()

	for _, path := range result.Paths {
		for _, id := range path.NodeIDs {
			if _, ok := g.nodes[id]; ok {
				continue
			}
			g.putNode(makeNodeView(id, entities))
		}
		for _, e := range path.Edges {
			g.putEdge(EdgeView{
				EdgeKey:  EdgeKey{Source: e.Source, Target: e.Target, Relation: e.Relation},
				Category: ParseRelationCategory(e.Relation),
				Strength: e.Strength,
			})
		}
	}

	return g
}

// makeNodeView builds the view for one node id, synthesizing a placeholder
// when the entity is absent from the resolved map.
func makeNodeView(id string, entities map[string]Entity) NodeView {
	entity, ok := entities[id]
	if !ok {
		return NodeView{
			ID:          id,
			Category:    CategoryUnknown,
			Label:       id,
			Placeholder: true,
		}
	}

	label := entity.Label
	if label == "" {
		label = id
	}
	return NodeView{
		ID:       id,
		Category: ParseCategory(entity.Type),
		Label:    label,
	}
}
