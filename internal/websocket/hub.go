package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/princekumarofficial/upload-service/internal/types"
)

// Hub maintains the set of active watchers and broadcasts events to them
type Hub struct {
	// Registered clients mapped by connection ID
	clients map[string]*Client

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex to protect clients map
	mu sync.RWMutex

	// Channel to broadcast events
	broadcast chan *types.Event

	// Closed when Run returns
	done chan struct{}
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *types.Event, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop and returns when ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			h.mu.Unlock()
			slog.Info("WebSocket watcher connected",
				slog.String("client_id", client.id),
				slog.String("subject", client.subject))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				close(client.send)
				slog.Info("WebSocket watcher disconnected", slog.String("client_id", client.id))
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.broadcastToAll(event)
		}
	}
}

// RegisterClient registers a new client. It reports false once the hub has stopped.
func (h *Hub) RegisterClient(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// UnregisterClient unregisters a client
func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastToAll queues an event for every connected watcher
func (h *Hub) BroadcastToAll(event *types.Event) {
	select {
	case h.broadcast <- event:
	default:
		slog.Warn("Broadcast channel is full, dropping event", slog.String("type", string(event.Type)))
	}
}

// broadcastToAll encodes the event once and queues it for every watcher.
// Watchers that cannot keep up are dropped.
func (h *Hub) broadcastToAll(event *types.Event) {
	message, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to encode event", slog.String("type", string(event.Type)), slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, client := range h.clients {
		if err := client.queue(message); err != nil {
			slog.Warn("Dropping watcher",
				slog.String("client_id", id),
				slog.String("error", err.Error()))
			go h.UnregisterClient(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, client := range h.clients {
		delete(h.clients, id)
		close(client.send)
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}
