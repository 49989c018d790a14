// Package ws pushes graph-update events to dashboard clients over WebSocket.
package ws

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/engramhq/engramview/internal/metrics"
)

// Hub channel buffer sizes.
const (
	broadcastBuffer = 256
	registerBuffer  = 64
)

// Connection caps.
const (
	maxClients        = 512
	maxClientsPerView = 32
)

// viewBroadcast is sent through the broadcast channel to the Run goroutine.
type viewBroadcast struct {
	viewID string
	msg    []byte
}

// Hub manages active WebSocket clients and broadcasts messages.
// All client map mutations happen exclusively in the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	viewCount  map[string]int // O(1) per-view connection counting
	register   chan *Client
	unregister chan *Client
	broadcast  chan viewBroadcast
	shutdown   chan struct{} // signals Run to begin graceful drain
	done       chan struct{} // closed when Run has finished draining
	count      atomic.Int64
	log        *logrus.Logger
	seq        *EventSequence
	buffer     *EventBuffer
}

// NewHub creates a new Hub instance.
func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		viewCount:  make(map[string]int),
		register:   make(chan *Client, registerBuffer),
		unregister: make(chan *Client, registerBuffer),
		broadcast:  make(chan viewBroadcast, broadcastBuffer),
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		log:        log,
		seq:        NewEventSequence(),
		buffer:     NewEventBuffer(defaultBufferMaxLen, defaultBufferMaxAge),
	}
}

// drainTimeout is how long the hub waits for clients to flush after shutdown.
const drainTimeout = 3 * time.Second

// Run starts the hub event loop. It should be run as a goroutine.
// It exits when Shutdown is called or the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.drainClients()

			return
		case <-h.shutdown:
			h.drainClients()

			return

		case client := <-h.register:
			if len(h.clients) >= maxClients {
				h.log.Warn("global connection limit reached, dropping client")
				client.closeSend()
				continue
			}
			if h.viewCount[client.ViewID] >= maxClientsPerView {
				h.log.WithField("view_id", client.ViewID).Warn("per-view connection limit reached, dropping client")
				client.closeSend()
				continue
			}
			h.clients[client] = true
			h.viewCount[client.ViewID]++
			h.count.Store(int64(len(h.clients)))
			metrics.WSConnections.Set(float64(len(h.clients)))
			h.log.WithField("total", len(h.clients)).Info("client registered")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
				h.viewCount[client.ViewID]--
				if h.viewCount[client.ViewID] <= 0 {
					delete(h.viewCount, client.ViewID)
				}
			}
			h.count.Store(int64(len(h.clients)))
			metrics.WSConnections.Set(float64(len(h.clients)))
			h.log.WithField("total", len(h.clients)).Info("client unregistered")

		case b := <-h.broadcast:
			for client := range h.clients {
				if client.ViewID != b.viewID {
					continue
				}
				select {
				case client.send <- b.msg:
				default:
					client.closeSend()
					delete(h.clients, client)
					h.viewCount[client.ViewID]--
					if h.viewCount[client.ViewID] <= 0 {
						delete(h.viewCount, client.ViewID)
					}
				}
			}
			h.count.Store(int64(len(h.clients)))
		}
	}
}

// maxBroadcastPayload caps a single event payload (64 KB). Graph updates
// carry node/edge deltas, which are larger than typical notification
// payloads but still bounded by traversal limits.
const maxBroadcastPayload = 64 << 10

// BroadcastToView sends a message only to clients watching the given view.
// The actual send is performed by the Run goroutine via a channel.
func (h *Hub) BroadcastToView(viewID string, msg []byte) {
	if len(msg) > maxBroadcastPayload {
		h.log.WithFields(logrus.Fields{
			"view_id":      viewID,
			"payload_size": len(msg),
			"max_size":     maxBroadcastPayload,
		}).Warn("dropping oversized broadcast payload")
		return
	}
	select {
	case h.broadcast <- viewBroadcast{viewID: viewID, msg: msg}:
	default:
		h.log.Warn("broadcast channel full, dropping message")
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	default:
		h.log.Warn("register channel full, dropping client")
		c.closeSend()
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	default:
		// Run loop already exited; client cleanup happened in Run shutdown.
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// BroadcastEvent assigns a sequence ID, stores the event in the replay
// buffer, and broadcasts it to all clients of the given view session.
func (h *Hub) BroadcastEvent(eventType, viewID string, data json.RawMessage) {
	evt := Event{
		Type:   eventType,
		ID:     h.seq.Next(viewID),
		ViewID: viewID,
		Data:   data,
		Time:   time.Now(),
	}

	msg, err := json.Marshal(evt)
	if err != nil {
		h.log.WithError(err).Error("failed to marshal event")
		return
	}

	h.buffer.Append(viewID, &evt)
	h.BroadcastToView(viewID, msg)
}

// DropView discards buffered events for a closed view session.
func (h *Hub) DropView(viewID string) {
	h.buffer.Drop(viewID)
}

// ReplayEvents resends buffered events newer than lastEventID to one client.
// It returns false when the requested horizon has already been evicted, in
// which case the client must refetch the full graph.
func (h *Hub) ReplayEvents(c *Client, lastEventID uint64) bool {
	if lastEventID == 0 {
		return true
	}

	oldest := h.buffer.OldestID(c.ViewID)
	if oldest > lastEventID+1 {
		return false
	}

	for _, evt := range h.buffer.Since(c.ViewID, lastEventID) {
		msg, err := json.Marshal(evt)
		if err != nil {
			continue
		}
		select {
		case c.send <- msg:
		default:
			return true // send buffer full; client will catch up via reset
		}
	}
	return true
}

// Shutdown initiates a graceful WebSocket drain: notifies every connected
// client, waits for write pumps to flush, then closes all connections.
// It blocks until the drain completes or times out.
func (h *Hub) Shutdown() {
	close(h.shutdown)
	<-h.done
	h.buffer.Stop()
}

// drainClients sends a close frame to every client and waits for buffers to flush.
func (h *Hub) drainClients() {
	if len(h.clients) == 0 {
		return
	}

	h.log.WithField("clients", len(h.clients)).Info("draining WebSocket clients")

	shutdownMsg := []byte(`{"type":"shutdown","message":"server shutting down"}`)
	for client := range h.clients {
		select {
		case client.send <- shutdownMsg:
		default:
		}
	}

	deadline := time.After(drainTimeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		allDrained := true

		for client := range h.clients {
			if len(client.send) > 0 {
				allDrained = false

				break
			}
		}

		if allDrained {
			break
		}

		select {
		case <-deadline:
			h.log.Warn("WebSocket drain timeout, closing remaining clients")

			goto closeAll
		case <-ticker.C:
		}
	}

closeAll:
	for client := range h.clients {
		client.closeSend()
		delete(h.clients, client)
	}

	h.viewCount = make(map[string]int)
	h.count.Store(0)
	metrics.WSConnections.Set(0)
}
