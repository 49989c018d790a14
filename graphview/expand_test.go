package graphview

import (
	"context"
	"errors"
	"testing"
)

// mockFetcher implements Fetcher with a func field.
type mockFetcher struct {
	traverse func(ctx context.Context, startID string, opts TraverseOptions) (*QueryResult, error)
}

func (m *mockFetcher) Traverse(ctx context.Context, startID string, opts TraverseOptions) (*QueryResult, error) {
	return m.traverse(ctx, startID, opts)
}

func okLookup() *mockLookup {
	return &mockLookup{
		getEntity: func(_ context.Context, id string) (*Entity, error) {
			return &Entity{ID: id, Type: "fact", Label: "label-" + id}, nil
		},
	}
}

func TestExpander_Load(t *testing.T) {
	fetcher := &mockFetcher{
		traverse: func(_ context.Context, startID string, _ TraverseOptions) (*QueryResult, error) {
			return &QueryResult{
				Paths: []Path{{
					NodeIDs: []string{startID, "m2"},
					Edges:   []PathEdge{{Source: startID, Target: "m2", Relation: "CAUSES", Strength: 0.8}},
					Depth:   1,
				}},
				NodeIDs:   []string{startID, "m2"},
				PathCount: 1,
			}, nil
		},
	}
	e := NewExpander(fetcher, NewResolver(okLookup(), testLogger()), testLogger())

	g, err := e.Load(context.Background(), "m1", TraverseOptions{MaxDepth: 2})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Fatalf("got %d nodes / %d edges, want 2 / 1", g.NodeCount(), g.EdgeCount())
	}
}

func TestExpander_LoadFetchErrorIsTerminal(t *testing.T) {
	wantErr := errors.New("backend unavailable")
	fetcher := &mockFetcher{
		traverse: func(_ context.Context, _ string, _ TraverseOptions) (*QueryResult, error) {
			return nil, wantErr
		},
	}
	e := NewExpander(fetcher, NewResolver(okLookup(), testLogger()), testLogger())

	g, err := e.Load(context.Background(), "m1", TraverseOptions{})
	if !errors.Is(err, wantErr) {
		t.Fatalf("error = %v, want wrapped %v", err, wantErr)
	}
	if g.NodeCount() != 0 {
		t.Error("no partial graph may be produced on fetch failure")
	}
}

func TestExpander_LoadValidation(t *testing.T) {
	e := NewExpander(&mockFetcher{}, NewResolver(okLookup(), testLogger()), testLogger())

	tests := []struct {
		name    string
		startID string
		opts    TraverseOptions
	}{
		{name: "empty start id", startID: "", opts: TraverseOptions{}},
		{name: "negative depth", startID: "m1", opts: TraverseOptions{MaxDepth: -1}},
		{name: "bad direction", startID: "m1", opts: TraverseOptions{Direction: "sideways"}},
		{name: "negative strength", startID: "m1", opts: TraverseOptions{MinStrength: -0.1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := e.Load(context.Background(), tc.startID, tc.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestExpander_ExpandMergesIntoExisting(t *testing.T) {
	fetcher := &mockFetcher{
		traverse: func(_ context.Context, startID string, opts TraverseOptions) (*QueryResult, error) {
			if opts.MaxDepth != 1 {
				t.Errorf("default expand depth = %d, want 1", opts.MaxDepth)
			}
			return &QueryResult{
				Paths: []Path{{
					NodeIDs: []string{startID, "m3"},
					Edges:   []PathEdge{{Source: startID, Target: "m3", Relation: "FOLLOWS", Strength: 0.6}},
					Depth:   1,
				}},
				NodeIDs:   []string{startID, "m3"},
				PathCount: 1,
			}, nil
		},
	}
	e := NewExpander(fetcher, NewResolver(okLookup(), testLogger()), testLogger())

	existing := buildGraph(
		[]NodeView{
			{ID: "m1", Category: CategoryFact, Label: "label-m1", Position: &Position{X: 1, Y: 1}},
			{ID: "m2", Category: CategoryFact, Label: "label-m2", Position: &Position{X: 2, Y: 2}},
		},
		[]EdgeView{{EdgeKey: EdgeKey{Source: "m1", Target: "m2", Relation: "CAUSES"}, Category: RelationCausal, Strength: 0.8}},
	)

	merged, err := e.Expand(context.Background(), existing, "m2", TraverseOptions{})
	if err != nil {
		t.Fatalf("Expand() error: %v", err)
	}

	if merged.NodeCount() != 3 || merged.EdgeCount() != 2 {
		t.Fatalf("got %d nodes / %d edges, want 3 / 2", merged.NodeCount(), merged.EdgeCount())
	}
	m2, _ := merged.Node("m2")
	if m2.Position == nil || m2.Position.X != 2 {
		t.Errorf("m2 position = %+v, want preserved (2,2)", m2.Position)
	}
}

func TestExpander_ReexpandIsANoOp(t *testing.T) {
	// Expanding a node whose neighborhood is already fully contained in the
	// current graph must not move positions or duplicate edges.
	fetcher := &mockFetcher{
		traverse: func(_ context.Context, startID string, _ TraverseOptions) (*QueryResult, error) {
			return &QueryResult{
				Paths: []Path{{
					NodeIDs: []string{"m2", "m1"},
					Edges:   []PathEdge{{Source: "m1", Target: "m2", Relation: "CAUSES", Strength: 0.8}},
					Depth:   1,
				}},
				NodeIDs:   []string{"m2", "m1"},
				PathCount: 1,
			}, nil
		},
	}
	e := NewExpander(fetcher, NewResolver(okLookup(), testLogger()), testLogger())

	existing := buildGraph(
		[]NodeView{
			{ID: "m1", Category: CategoryFact, Label: "label-m1", Position: &Position{X: 1, Y: 1}},
			{ID: "m2", Category: CategoryFact, Label: "label-m2", Position: &Position{X: 2, Y: 2}},
		},
		[]EdgeView{{EdgeKey: EdgeKey{Source: "m1", Target: "m2", Relation: "CAUSES"}, Category: RelationCausal, Strength: 0.8}},
	)

	merged, err := e.Expand(context.Background(), existing, "m2", TraverseOptions{})
	if err != nil {
		t.Fatalf("Expand() error: %v", err)
	}

	if merged.NodeCount() != existing.NodeCount() || merged.EdgeCount() != existing.EdgeCount() {
		t.Fatalf("re-expand changed counts: %d/%d", merged.NodeCount(), merged.EdgeCount())
	}
	for _, id := range existing.NodeIDs() {
		before, _ := existing.Node(id)
		after, _ := merged.Node(id)
		if before.Position == nil || after.Position == nil ||
			*before.Position != *after.Position {
			t.Errorf("node %s position moved: %+v -> %+v", id, before.Position, after.Position)
		}
	}
}
