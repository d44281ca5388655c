package ws

import (
	"sync"
)

// Hub tracks live connections and their room subscriptions and fans room
// events out to every subscriber. Rooms here are broadcast groups only; the
// game package owns the authoritative room state.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client            // connection id -> client
	rooms   map[string]map[string]*Client // room code -> connection id -> client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c.ID] = c
}

// Unregister removes the client from its room group and closes its send
// channel. Idempotent; safe to call for a client that never joined a room.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	delete(h.clients, c.ID)

	for code, members := range h.rooms {
		if _, ok := members[c.ID]; ok {
			delete(members, c.ID)
			if len(members) == 0 {
				delete(h.rooms, code)
			}
		}
	}

	close(c.send)
}

func (h *Hub) Join(c *Client, roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[roomCode]
	if !ok {
		members = make(map[string]*Client)
		h.rooms[roomCode] = members
	}
	members[c.ID] = c
}

func (h *Hub) Leave(c *Client, roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[roomCode]; ok {
		delete(members, c.ID)
		if len(members) == 0 {
			delete(h.rooms, roomCode)
		}
	}
}

// DropRoom disbands a room's broadcast group. Members stay registered and
// keep their send channels; they only stop receiving events for this code.
// Without this a reused room code would inherit the dead room's subscribers.
func (h *Hub) DropRoom(roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.rooms, roomCode)
}

// Broadcast delivers msg to every connection subscribed to msg.Room. Slow
// clients drop the message rather than block the caller.
func (h *Hub) Broadcast(msg *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, cl := range h.rooms[msg.Room] {
		cl.Send(msg)
	}
}

func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
