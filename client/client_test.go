package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// newTestServer creates a test server that routes to the given handler map.
// Keys are "METHOD /path", values are handler funcs.
func newTestServer(t *testing.T, routes map[string]http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c := New(srv.URL, WithAPIKey("test-key"))
	return srv, c
}

func jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func TestHealth(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/health": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, HealthResponse{Status: "ok", Version: "0.3.0"})
		},
	})
	resp, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("got status %q, want ok", resp.Status)
	}
}

func TestTraverse(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/graph/traverse/m1": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("depth") != "2" {
				t.Errorf("depth = %q, want 2", q.Get("depth"))
			}
			if q.Get("direction") != "outgoing" {
				t.Errorf("direction = %q, want outgoing", q.Get("direction"))
			}
			if q.Get("relations") != "CAUSES,FOLLOWS" {
				t.Errorf("relations = %q", q.Get("relations"))
			}
			if q.Get("min_strength") != "0.5" {
				t.Errorf("min_strength = %q", q.Get("min_strength"))
			}
			jsonResponse(w, 200, TraverseResult{
				Paths: []Path{{
					NodeIDs:  []string{"m1", "m2"},
					Edges:    []PathEdge{{Source: "m1", Target: "m2", Relation: "CAUSES", Strength: 0.8}},
					Strength: 0.8,
					Depth:    1,
				}},
				NodeIDs:   []string{"m1", "m2"},
				PathCount: 1,
				ElapsedMS: 4.2,
			})
		},
	})

	result, err := c.Graph.Traverse(context.Background(), "m1", &TraverseOptions{
		MaxDepth:    2,
		Relations:   []string{"CAUSES", "FOLLOWS"},
		Direction:   "outgoing",
		MinStrength: 0.5,
	})
	if err != nil {
		t.Fatalf("Traverse() error: %v", err)
	}
	if result.PathCount != 1 || len(result.Paths) != 1 {
		t.Fatalf("got %d paths, want 1", len(result.Paths))
	}
	if result.Paths[0].Edges[0].Strength != 0.8 {
		t.Errorf("edge strength = %v, want 0.8", result.Paths[0].Edges[0].Strength)
	}
}

func TestTraverse_BackendError(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/graph/traverse/m1": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 500, map[string]string{"code": "internal_error", "message": "boom"})
		},
	})

	_, err := c.Graph.Traverse(context.Background(), "m1", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type %T, want *APIError", err)
	}
	if apiErr.StatusCode != 500 || apiErr.Code != "internal_error" {
		t.Errorf("got %+v", apiErr)
	}
}

func TestNodeGet_NotFound(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/nodes/ghost": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 404, map[string]string{"code": "not_found", "message": "node not found"})
		},
	})

	_, err := c.Nodes.Get(context.Background(), "ghost")
	if !IsNotFound(err) {
		t.Errorf("IsNotFound = false for %v", err)
	}
}

func TestNodeGet_SingleflightCollapses(t *testing.T) {
	var mu sync.Mutex
	var once sync.Once
	calls := 0
	started := make(chan struct{})
	block := make(chan struct{})

	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/nodes/m1": func(w http.ResponseWriter, _ *http.Request) {
			mu.Lock()
			calls++
			mu.Unlock()
			once.Do(func() { close(started) })
			<-block
			jsonResponse(w, 200, Node{ID: "m1", Type: "fact", Label: "One"})
		},
	})

	const n = 5
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.Nodes.Get(context.Background(), "m1")
		}(i)
	}

	// Hold the first flight open until the rest have had time to join it.
	<-started
	time.Sleep(100 * time.Millisecond)
	close(block)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("call %d error: %v", i, err)
		}
	}
	mu.Lock()
	defer mu.Unlock()
	if calls >= n {
		t.Errorf("backend saw %d calls for %d concurrent gets, want collapsed", calls, n)
	}
}

func TestAuthHeaderSent(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/health": func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer test-key" {
				t.Errorf("authorization = %q", r.Header.Get("Authorization"))
			}
			jsonResponse(w, 200, HealthResponse{Status: "ok"})
		},
	})
	if _, err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health() error: %v", err)
	}
}
