package ws

import (
	"log"
	"sync"
)

// Hub owns the connections this process holds and their local room channel
// membership. Cross-instance fan-out happens above the hub, in the broker;
// the hub only ever writes to its own sockets.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client          // connection id -> client
	rooms   map[uint]map[string]*Client // room id -> connection id -> client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[uint]map[string]*Client),
	}
}

// Register adds a connection with no room channel membership.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	total := len(h.clients)
	h.mu.Unlock()
	log.Printf("hub: connection %s registered (total: %d)", client.ID, total)
}

// Unregister removes a connection and drops it from every room channel.
// It returns the room ids whose channels became empty so the caller can
// release the matching backbone subscriptions.
func (h *Hub) Unregister(clientID string) []uint {
	var emptied []uint
	h.mu.Lock()
	delete(h.clients, clientID)
	for roomID, conns := range h.rooms {
		if _, ok := conns[clientID]; !ok {
			continue
		}
		delete(conns, clientID)
		if len(conns) == 0 {
			delete(h.rooms, roomID)
			emptied = append(emptied, roomID)
		}
	}
	total := len(h.clients)
	h.mu.Unlock()
	log.Printf("hub: connection %s unregistered (total: %d)", clientID, total)
	return emptied
}

// JoinChannel adds a connection to a room channel; reports whether it was
// the first local connection in that room.
func (h *Hub) JoinChannel(roomID uint, client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.rooms[roomID]
	if !ok {
		conns = make(map[string]*Client)
		h.rooms[roomID] = conns
	}
	// A rebind of the same connection must not count as a new arrival, or
	// the caller would take a second backbone subscription it never releases.
	_, existed := conns[client.ID]
	conns[client.ID] = client
	return !existed && len(conns) == 1
}

// LeaveChannel removes a connection from a room channel; reports whether the
// channel became empty.
func (h *Hub) LeaveChannel(roomID uint, clientID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.rooms[roomID]
	if !ok {
		return false
	}
	delete(conns, clientID)
	if len(conns) == 0 {
		delete(h.rooms, roomID)
		return true
	}
	return false
}

// BroadcastRoom writes a frame to every local connection in a room channel.
func (h *Hub) BroadcastRoom(roomID uint, data []byte) {
	h.mu.RLock()
	conns := make([]*Client, 0, len(h.rooms[roomID]))
	for _, client := range h.rooms[roomID] {
		conns = append(conns, client)
	}
	h.mu.RUnlock()

	for _, client := range conns {
		if err := client.Write(data); err != nil {
			log.Printf("hub: writing to connection %s: %v", client.ID, err)
		}
	}
}

// BroadcastAll writes a frame to every connection, bound or not.
func (h *Hub) BroadcastAll(data []byte) {
	h.mu.RLock()
	conns := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		conns = append(conns, client)
	}
	h.mu.RUnlock()

	for _, client := range conns {
		if err := client.Write(data); err != nil {
			log.Printf("hub: writing to connection %s: %v", client.ID, err)
		}
	}
}

// Count returns the number of connected clients
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
