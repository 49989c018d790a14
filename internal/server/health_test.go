package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/engramhq/engramview/client"
	"github.com/engramhq/engramview/internal/server"
	"github.com/engramhq/engramview/internal/ws"
)

func newHealthRouter(backendURL string) *gin.Engine {
	h := server.NewHealthHandler(client.New(backendURL), ws.NewHub(testLogger()), testLogger(), "test")

	r := gin.New()
	r.GET("/health", h.Liveness)
	r.GET("/ready", h.Readiness)

	return r
}

func TestLiveness(t *testing.T) {
	t.Parallel()

	r := newHealthRouter("http://127.0.0.1:1")

	w := doRequest(r, http.MethodGet, "/health", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status 'ok', got %q", resp.Status)
	}
	if resp.Version != "test" {
		t.Errorf("expected version 'test', got %q", resp.Version)
	}
}

func TestReadiness_BackendUp(t *testing.T) {
	t.Parallel()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`)) //nolint:errcheck
	}))
	defer backend.Close()

	r := newHealthRouter(backend.URL)

	w := doRequest(r, http.MethodGet, "/ready", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestReadiness_BackendDown(t *testing.T) {
	t.Parallel()

	// Nothing listens on this port.
	r := newHealthRouter("http://127.0.0.1:1")

	w := doRequest(r, http.MethodGet, "/ready", "")

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Status != "degraded" {
		t.Errorf("expected status 'degraded', got %q", resp.Status)
	}
	if resp.Checks["backend"] != "unavailable" {
		t.Errorf("expected backend check 'unavailable', got %q", resp.Checks["backend"])
	}
}

func TestPalette(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.GET("/palette", server.Palette)

	w := doRequest(r, http.MethodGet, "/palette", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Nodes     map[string]string `json:"nodes"`
		Relations map[string]string `json:"relations"`
		Fallback  string            `json:"fallback"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if len(resp.Nodes) != 6 {
		t.Errorf("expected 6 node categories, got %d", len(resp.Nodes))
	}
	if len(resp.Relations) != 4 {
		t.Errorf("expected 4 relation categories, got %d", len(resp.Relations))
	}
	if resp.Fallback == "" {
		t.Error("expected non-empty fallback color")
	}
	if resp.Nodes["unknown"] != resp.Fallback {
		t.Errorf("expected unknown category to use fallback color, got %q vs %q", resp.Nodes["unknown"], resp.Fallback)
	}
}
