// Package ws fans live snapshot updates out to websocket subscribers.
package ws

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/checkmateLL/F1LiveDashboard/internal/metrics"
)

// Message is what subscribers receive for every published snapshot category
type Message struct {
	Type      string      `json:"type"`
	Category  string      `json:"category"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

const messageTypeSnapshot = "snapshot_update"

// Hub maintains the set of active clients and broadcasts snapshot updates
// to them
type Hub struct {
	clients   map[*Client]bool
	clientsMu sync.RWMutex

	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	closed     chan struct{}
}

// NewHub creates an idle hub; call Run to start it
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		closed:     make(chan struct{}),
	}
}

// Run is the hub's main loop; it exits when ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case c := <-h.register:
			h.registerClient(c)
		case c := <-h.unregister:
			h.unregisterClient(c)
		case msg := <-h.broadcast:
			h.fanOut(msg)
		}
	}
}

// Register adds a client to the hub. After shutdown it becomes a no-op so
// pump teardown never blocks on a stopped loop.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.closed:
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.closed:
	}
}

// Broadcast queues a snapshot category for fan-out. Drops the update when
// the buffer is full; the next poll cycle supersedes it anyway.
func (h *Hub) Broadcast(category string, payload interface{}) {
	msg := Message{
		Type:      messageTypeSnapshot,
		Category:  category,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}

	select {
	case h.broadcast <- msg:
	default:
		log.Println("[ws] broadcast buffer full, dropping update")
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) registerClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.clients[c] = true
	metrics.ConnectedClients.Set(float64(len(h.clients)))
	log.Printf("[ws] client %s connected (total: %d)", c.ID, len(h.clients))
}

func (h *Hub) unregisterClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		metrics.ConnectedClients.Set(float64(len(h.clients)))
		log.Printf("[ws] client %s disconnected (total: %d)", c.ID, len(h.clients))
	}
}

func (h *Hub) fanOut(msg Message) {
	h.clientsMu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	for _, c := range clients {
		if !c.TrySend(msg) {
			// Slow client: its buffer is full, disconnect it
			log.Printf("[ws] client %s buffer full, disconnecting", c.ID)
			go h.Unregister(c)
		}
	}
}

func (h *Hub) shutdown() {
	close(h.closed)

	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	log.Printf("[ws] shutting down hub (%d active clients)", len(h.clients))
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
	metrics.ConnectedClients.Set(0)
}
