package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/campushub/cafe/internal/enum"
)

// Event is a message pushed to connected consoles.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewEvent marshals payload into an Event of the given type.
func NewEvent(eventType string, payload interface{}) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: eventType, Payload: data}, nil
}

// roleEvent routes an event to every client of one role.
type roleEvent struct {
	Role  enum.Role
	Event Event
}

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	// Registered clients by role
	rooms map[enum.Role]map[*Client]bool

	register   chan *Client
	unregister chan *Client

	broadcast chan *roleEvent

	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[enum.Role]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *roleEvent, 256),
	}
}

// Run starts the hub's main loop
// This should be called as a goroutine: go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.role] == nil {
				h.rooms[client.role] = make(map[*Client]bool)
			}
			h.rooms[client.role][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.drop(client)
			h.mu.Unlock()

		case event := <-h.broadcast:
			message, err := json.Marshal(event.Event)
			if err != nil {
				log.Printf("ERROR: marshal %s event: %v", event.Event.Type, err)
				continue
			}

			h.mu.Lock()
			for client := range h.rooms[event.Role] {
				select {
				case client.send <- message:
				default:
					// send buffer full, the client is too slow to keep
					h.drop(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// drop removes client and closes its send channel. Callers hold mu.
func (h *Hub) drop(client *Client) {
	clients, ok := h.rooms[client.role]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.role)
	}
}

// BroadcastToRole sends an event to every client connected with role.
func (h *Hub) BroadcastToRole(role enum.Role, event Event) {
	h.broadcast <- &roleEvent{
		Role:  role,
		Event: event,
	}
}

// Clients returns how many clients are connected with role.
func (h *Hub) Clients(role enum.Role) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[role])
}
