// Package hub fans detection snapshots out to websocket subscribers
// using the channel-based broadcast pattern: one goroutine owns the
// client set, clients register and unregister through channels, and
// slow clients are dropped rather than allowed to stall the rest.
package hub

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/veranav/go-vera/internal/metrics"
	"github.com/veranav/go-vera/pkg/navigator"
)

// Envelope is the wire shape pushed to detection subscribers, one
// message per processed frame.
type Envelope struct {
	Type       string                `json:"type"`
	Detections []navigator.Detection `json:"detections"`
}

// Message is a pre-encoded broadcast payload.
type Message []byte

// Hub maintains the set of active subscribers and broadcasts each
// frame's detections to them.
type Hub struct {
	logger  *slog.Logger
	metrics *metrics.Metrics

	// Registered clients
	clients map[*Client]bool

	// Inbound messages to broadcast
	broadcast chan Message

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Stops the run loop
	quit chan struct{}

	// Guards clients for the count accessor
	mu sync.RWMutex
}

// New creates a hub. Pass a nil metrics to skip instrumentation.
func New(logger *slog.Logger, m *metrics.Metrics) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger:     logger.With("component", "hub"),
		metrics:    m,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
	}
}

// Run owns the client set. Call it in a goroutine; it returns after
// Stop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			if h.metrics != nil {
				h.metrics.HubClients.Store(uint64(count))
			}
			h.logger.Info("client connected", "client_id", client.id, "total", count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			if h.metrics != nil {
				h.metrics.HubClients.Store(uint64(count))
			}
			h.logger.Info("client disconnected", "client_id", client.id, "remaining", count)

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client's buffer is full - they're too slow
					close(client.send)
					delete(h.clients, client)
					if h.metrics != nil {
						h.metrics.HubDropped.Add(1)
					}
					h.logger.Warn("dropped slow client", "client_id", client.id)
				}
			}
			if h.metrics != nil {
				h.metrics.HubClients.Store(uint64(len(h.clients)))
			}
			h.mu.Unlock()

		case <-h.quit:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop terminates the run loop and disconnects every client.
func (h *Hub) Stop() {
	close(h.quit)
}

// Broadcast queues one frame's detections for fan-out. It encodes
// immediately, so the caller's slice is not retained, and it never
// blocks: when the intake is full the frame's message is dropped.
func (h *Hub) Broadcast(detections []navigator.Detection) {
	data, err := json.Marshal(Envelope{Type: "detections", Detections: detections})
	if err != nil {
		h.logger.Error("encode broadcast failed", "error", err)
		return
	}

	select {
	case h.broadcast <- Message(data):
	default:
		if h.metrics != nil {
			h.metrics.HubDropped.Add(1)
		}
		h.logger.Warn("broadcast intake full, dropping frame message")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

var _ navigator.Publisher = (*Hub)(nil)
