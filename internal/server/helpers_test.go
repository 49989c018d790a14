package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/engramhq/engramview/graphview"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)

	return l
}

// mockEngine implements server.ExpandService with overridable functions.
type mockEngine struct {
	loadFn   func(ctx context.Context, startID string, opts graphview.TraverseOptions) (graphview.GraphData, error)
	expandFn func(ctx context.Context, existing graphview.GraphData, nodeID string, opts graphview.TraverseOptions) (graphview.GraphData, error)
}

func (m *mockEngine) Load(ctx context.Context, startID string, opts graphview.TraverseOptions) (graphview.GraphData, error) {
	if m.loadFn != nil {
		return m.loadFn(ctx, startID, opts)
	}
	return graphview.GraphData{}, nil
}

func (m *mockEngine) Expand(ctx context.Context, existing graphview.GraphData, nodeID string, opts graphview.TraverseOptions) (graphview.GraphData, error) {
	if m.expandFn != nil {
		return m.expandFn(ctx, existing, nodeID, opts)
	}
	return existing, nil
}

// graphOf materializes a small graph from chains of node IDs, e.g.
// graphOf([]string{"a", "b"}) yields a->b with a RELATES edge.
func graphOf(chains ...[]string) graphview.GraphData {
	result := &graphview.QueryResult{}
	entities := make(map[string]graphview.Entity)
	for _, chain := range chains {
		p := graphview.Path{NodeIDs: chain, Depth: len(chain) - 1}
		for i := 0; i+1 < len(chain); i++ {
			p.Edges = append(p.Edges, graphview.PathEdge{
				Source:   chain[i],
				Target:   chain[i+1],
				Relation: "RELATES",
				Strength: 0.5,
			})
		}
		result.Paths = append(result.Paths, p)
		for _, id := range chain {
			entities[id] = graphview.Entity{ID: id, Type: "concept", Label: id}
			result.NodeIDs = append(result.NodeIDs, id)
		}
	}
	return graphview.Materialize(result, entities)
}

// doRequest performs an HTTP request against the router and returns the recorder.
func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, http.NoBody)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}
