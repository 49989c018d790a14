// Package server provides the HTTP API consumed by the dashboard.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/engramhq/engramview/graphview"
	"github.com/engramhq/engramview/internal/metrics"
	"github.com/engramhq/engramview/internal/view"
	"github.com/engramhq/engramview/internal/ws"
)

// ExpandService is the pipeline the handlers drive. *graphview.Expander
// satisfies it.
type ExpandService interface {
	Load(ctx context.Context, startID string, opts graphview.TraverseOptions) (graphview.GraphData, error)
	Expand(ctx context.Context, existing graphview.GraphData, nodeID string, opts graphview.TraverseOptions) (graphview.GraphData, error)
}

// ViewHandler serves view session endpoints.
type ViewHandler struct {
	views        *view.Store
	engine       ExpandService
	hub          *ws.Hub
	log          *logrus.Logger
	defaultDepth int
	maxDepth     int
}

// NewViewHandler creates a ViewHandler.
func NewViewHandler(views *view.Store, engine ExpandService, hub *ws.Hub, log *logrus.Logger, defaultDepth, maxDepth int) *ViewHandler {
	return &ViewHandler{
		views:        views,
		engine:       engine,
		hub:          hub,
		log:          log,
		defaultDepth: defaultDepth,
		maxDepth:     maxDepth,
	}
}

// traverseRequest is the JSON body shared by create and expand.
type traverseRequest struct {
	StartID     string   `json:"start_id"`
	NodeID      string   `json:"node_id"`
	Depth       int      `json:"depth"`
	Relations   []string `json:"relations"`
	Categories  []string `json:"categories"`
	Direction   string   `json:"direction"`
	MinStrength float64  `json:"min_strength"`
	MaxPaths    int      `json:"max_paths"`
	MaxNodes    int      `json:"max_nodes"`
}

// options converts the request body into engine options, applying the
// configured default depth when unset.
func (h *ViewHandler) options(req traverseRequest, defaultDepth int) (graphview.TraverseOptions, error) {
	depth := req.Depth
	if depth == 0 {
		depth = defaultDepth
	}
	if depth > h.maxDepth {
		return graphview.TraverseOptions{}, fmt.Errorf("depth must be <= %d", h.maxDepth)
	}
	opts := graphview.TraverseOptions{
		MaxDepth:    depth,
		Relations:   req.Relations,
		Categories:  req.Categories,
		Direction:   graphview.Direction(req.Direction),
		MinStrength: req.MinStrength,
		MaxPaths:    req.MaxPaths,
		MaxNodes:    req.MaxNodes,
	}
	return opts, opts.Validate()
}

// viewResponse is the JSON payload describing a view session.
type viewResponse struct {
	ViewID  string              `json:"view_id"`
	StartID string              `json:"start_id"`
	Graph   graphview.GraphData `json:"graph"`
}

// Create handles POST /api/v1/views. It loads an initial graph and opens a
// session around it.
func (h *ViewHandler) Create(c *gin.Context) {
	var req traverseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON body")

		return
	}
	if err := validateNodeID(req.StartID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "start_id: "+err.Error())

		return
	}

	opts, err := h.options(req, h.defaultDepth)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	start := time.Now()
	g, err := h.engine.Load(c.Request.Context(), req.StartID, opts)
	metrics.TraversalDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ExpansionsTotal.WithLabelValues("load", "error").Inc()
		h.log.WithError(err).WithField("start_id", req.StartID).Error("initial graph load failed")
		respondError(c, http.StatusBadGateway, ErrCodeBackendError, "graph load failed")

		return
	}
	metrics.ExpansionsTotal.WithLabelValues("load", "ok").Inc()
	metrics.ResolutionGaps.Add(float64(g.PlaceholderCount()))

	s := h.views.Create(req.StartID, g)

	c.JSON(http.StatusCreated, viewResponse{ViewID: s.ID, StartID: s.StartID, Graph: g})
}

// Get handles GET /api/v1/views/:id and returns the session's current graph.
func (h *ViewHandler) Get(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, viewResponse{ViewID: s.ID, StartID: s.StartID, Graph: s.Graph()})
}

// expandEventData is the payload of a graph.updated WebSocket event.
type expandEventData struct {
	NodeID    string `json:"node_id"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

// Expand handles POST /api/v1/views/:id/expand. It runs a one-hop expansion
// from the requested node and merges it into the session graph.
func (h *ViewHandler) Expand(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req traverseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON body")

		return
	}
	if err := validateNodeID(req.NodeID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "node_id: "+err.Error())

		return
	}

	// Default expand depth is one hop, not the initial-load depth.
	opts, err := h.options(req, 1)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	start := time.Now()
	merged, err := h.engine.Expand(c.Request.Context(), s.Graph(), req.NodeID, opts)
	metrics.TraversalDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ExpansionsTotal.WithLabelValues("expand", "error").Inc()
		h.log.WithError(err).WithFields(logrus.Fields{
			"view_id": s.ID,
			"node_id": req.NodeID,
		}).Error("expansion failed")
		respondError(c, http.StatusBadGateway, ErrCodeBackendError, "expansion failed")

		return
	}
	metrics.ExpansionsTotal.WithLabelValues("expand", "ok").Inc()

	// Re-merge through the session: another expansion may have landed since
	// s.Graph() was read, and ApplyMerge folds both in.
	final := s.ApplyMerge(merged)
	h.views.RefreshGauges()

	data, err := json.Marshal(expandEventData{
		NodeID:    req.NodeID,
		NodeCount: final.NodeCount(),
		EdgeCount: final.EdgeCount(),
	})
	if err == nil {
		h.hub.BroadcastEvent(ws.EventGraphUpdated, s.ID, data)
	}

	c.JSON(http.StatusOK, viewResponse{ViewID: s.ID, StartID: s.StartID, Graph: final})
}

// positionRequest is the JSON body for recording a layout position.
type positionRequest struct {
	NodeID string  `json:"node_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// SetPosition handles PUT /api/v1/views/:id/positions. The rendering layer
// reports back where it placed a node so later merges preserve it.
func (h *ViewHandler) SetPosition(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON body")

		return
	}
	if err := validateNodeID(req.NodeID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "node_id: "+err.Error())

		return
	}

	s.SetPosition(req.NodeID, graphview.Position{X: req.X, Y: req.Y})

	c.Status(http.StatusNoContent)
}

// Delete handles DELETE /api/v1/views/:id and closes the session.
func (h *ViewHandler) Delete(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	h.views.Delete(s.ID)
	h.hub.DropView(s.ID)

	c.Status(http.StatusNoContent)
}

// session resolves the :id path parameter, responding 404 on a miss.
func (h *ViewHandler) session(c *gin.Context) (*view.Session, bool) {
	s, err := h.views.Get(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "view session not found")

		return nil, false
	}
	return s, true
}

// maxNodeIDLen bounds identifiers forwarded to the backend.
const maxNodeIDLen = 256

func validateNodeID(id string) error {
	if id == "" {
		return fmt.Errorf("id is required")
	}
	if len(id) > maxNodeIDLen {
		return fmt.Errorf("id exceeds %d characters", maxNodeIDLen)
	}
	if strings.ContainsAny(id, "\x00\n\r") {
		return fmt.Errorf("id contains control characters")
	}
	return nil
}
