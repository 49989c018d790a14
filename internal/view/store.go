// Package view holds per-session "current graph" state for the dashboard.
// GraphData values are immutable, so a session only ever swaps a pointer;
// concurrent expansions race benignly and the last applied merge wins.
package view

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/engramhq/engramview/graphview"
	"github.com/engramhq/engramview/internal/metrics"
)

// ErrSessionNotFound is returned when a view session id is unknown.
var ErrSessionNotFound = fmt.Errorf("view session not found")

// Session is one open graph view: a start node and the graph currently
// displayed for it.
type Session struct {
	ID        string
	StartID   string
	CreatedAt time.Time

	graph atomic.Pointer[graphview.GraphData]
}

// Graph returns the session's current graph value.
func (s *Session) Graph() graphview.GraphData {
	return *s.graph.Load()
}

// ApplyMerge merges an incoming graph into the current one and publishes the
// result. A CAS loop makes concurrent expansions safe: each merge re-reads
// the graph it lost a race against, so no accepted expansion is ever
// dropped; ordering between racers is last-applied-wins.
func (s *Session) ApplyMerge(incoming graphview.GraphData) graphview.GraphData {
	for {
		cur := s.graph.Load()
		merged := graphview.Merge(*cur, incoming)
		if s.graph.CompareAndSwap(cur, &merged) {
			return merged
		}
	}
}

// Replace publishes a freshly loaded graph, discarding the current one.
// Used when the user reloads the view from a different start node.
func (s *Session) Replace(g graphview.GraphData) {
	s.graph.Store(&g)
}

// SetPosition records a rendering-layer position for one node. Unknown node
// ids are ignored.
func (s *Session) SetPosition(nodeID string, pos graphview.Position) graphview.GraphData {
	for {
		cur := s.graph.Load()
		next := cur.WithPosition(nodeID, pos)
		if s.graph.CompareAndSwap(cur, &next) {
			return next
		}
	}
}

// Store tracks open view sessions.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create opens a session for startID seeded with the given graph.
func (st *Store) Create(startID string, g graphview.GraphData) *Session {
	s := &Session{
		ID:        uuid.New().String(),
		StartID:   startID,
		CreatedAt: time.Now(),
	}
	s.graph.Store(&g)

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	st.updateGauges()
	return s
}

// Get returns the session with the given id.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete closes a session. Closing an unknown session is a no-op.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()

	st.updateGauges()
}

// Count returns the number of open sessions.
func (st *Store) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// updateGauges refreshes the session and graph-size gauges.
func (st *Store) updateGauges() {
	st.mu.RLock()
	sessions := len(st.sessions)
	nodes, edges := 0, 0
	for _, s := range st.sessions {
		g := s.Graph()
		nodes += g.NodeCount()
		edges += g.EdgeCount()
	}
	st.mu.RUnlock()

	metrics.ViewSessions.Set(float64(sessions))
	metrics.ViewNodes.Set(float64(nodes))
	metrics.ViewEdges.Set(float64(edges))
}

// RefreshGauges republishes graph-size gauges after a merge.
func (st *Store) RefreshGauges() {
	st.updateGauges()
}
