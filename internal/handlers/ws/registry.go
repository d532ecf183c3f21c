package ws

import (
	"sort"
	"sync"
	"time"
)

// RoomCount is one row of the advisory room list broadcast to every
// connection.
type RoomCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type roomPresence struct {
	name      string
	users     map[string]struct{}
	createdAt time.Time
}

// RoomRegistry tracks which users currently hold a connection to each room
// on this process. It is ephemeral and strictly advisory: absence or
// staleness must never block persistence or broadcast, and no durability
// decision may depend on it.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[uint]*roomPresence
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{rooms: make(map[uint]*roomPresence)}
}

// Add records a user's presence in a room. Idempotent.
func (r *RoomRegistry) Add(roomID uint, name string, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		room = &roomPresence{name: name, users: make(map[string]struct{}), createdAt: time.Now()}
		r.rooms[roomID] = room
	}
	room.users[userID] = struct{}{}
}

// Remove drops a user's presence. The room entry itself is deleted once its
// last user leaves, so idle rooms hold no state.
func (r *RoomRegistry) Remove(roomID uint, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return
	}
	delete(room.users, userID)
	if len(room.users) == 0 {
		delete(r.rooms, roomID)
	}
}

// Users snapshots the connected user set of a room.
func (r *RoomRegistry) Users(roomID uint) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	users := make([]string, 0, len(room.users))
	for id := range room.users {
		users = append(users, id)
	}
	return users
}

func (r *RoomRegistry) Count(roomID uint) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return 0
	}
	return len(room.users)
}

// Counts returns the aggregate room list, sorted by name for stable output.
func (r *RoomRegistry) Counts() []RoomCount {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make([]RoomCount, 0, len(r.rooms))
	for _, room := range r.rooms {
		counts = append(counts, RoomCount{Name: room.name, Count: len(room.users)})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Name < counts[j].Name })
	return counts
}

// Clear drops all presence state. Called at shutdown.
func (r *RoomRegistry) Clear() {
	r.mu.Lock()
	r.rooms = make(map[uint]*roomPresence)
	r.mu.Unlock()
}
