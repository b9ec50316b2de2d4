package speech

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is a single frame pushed to connected clients over the speech bridge.
type Event struct {
	Type      string `json:"type"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Client is one registered WebSocket connection. Writes are serialized per
// connection as required by gorilla/websocket.
type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *Client) send(event Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(event)
}

// Hub tracks the live bridge connections and fans events out to all of them.
// It doubles as the platform side of the intent resolver's navigation
// capability and the orchestrator's thinking-state notifier.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// Register adds a connection and returns its client handle.
func (h *Hub) Register(conn *websocket.Conn) *Client {
	client := &Client{conn: conn}
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	return client
}

// Unregister drops a connection.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	delete(h.clients, client)
	h.mu.Unlock()
}

// Broadcast sends the event to every connected client.
func (h *Hub) Broadcast(eventType string, data any) {
	event := Event{Type: eventType, Data: data, Timestamp: time.Now().UnixMilli()}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if err := client.send(event); err != nil {
			log.Printf("[websocket] failed to push %s event: %v", eventType, err)
		}
	}
}

// Navigate implements intent.Navigator by handing the URI to the client,
// where the platform shows its confirmation prompt.
func (h *Hub) Navigate(uri string) error {
	h.Broadcast("navigate", map[string]any{"uri": uri})
	return nil
}

// NotifyThinking pushes the orchestrator's thinking flag to clients.
func (h *Hub) NotifyThinking(thinking bool) {
	h.Broadcast("state", map[string]any{"thinking": thinking})
}
