package ws

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// EventGraphUpdated is broadcast whenever a view session's graph changes.
const EventGraphUpdated = "graph.updated"

// Event is the structured message sent to WebSocket clients.
type Event struct {
	Type   string          `json:"type"`
	ID     uint64          `json:"id"`
	ViewID string          `json:"-"`
	Data   json.RawMessage `json:"data"`
	Time   time.Time       `json:"time"`
}

// SubscribeMsg is sent by the client on connect to request event replay.
type SubscribeMsg struct {
	Type        string `json:"type"`
	ViewID      string `json:"view_id"`
	LastEventID uint64 `json:"last_event_id"`
}

// ResetMsg tells the client to refetch the full graph (requested events too old).
type ResetMsg struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// EventSequence tracks monotonic event IDs per view session.
type EventSequence struct {
	mu       sync.Mutex
	counters map[string]*atomic.Uint64
}

// NewEventSequence creates a new EventSequence.
func NewEventSequence() *EventSequence {
	return &EventSequence{
		counters: make(map[string]*atomic.Uint64),
	}
}

// Next returns the next sequence number for a view session.
func (es *EventSequence) Next(viewID string) uint64 {
	es.mu.Lock()
	counter, ok := es.counters[viewID]
	if !ok {
		counter = &atomic.Uint64{}
		es.counters[viewID] = counter
	}
	es.mu.Unlock()

	return counter.Add(1)
}
