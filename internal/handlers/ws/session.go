package ws

import (
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

// MessageWriter is the write half of a connection. *websocket.Conn satisfies
// it; tests use fakes.
type MessageWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// Session is the per-connection identity record. A connection is bound to at
// most one room at a time.
type Session struct {
	RoomID  uint
	UserID  string
	BoundAt time.Time
}

// Client wraps a connection with its session state and serializes writes;
// frames may originate from the reader goroutine and from backbone delivery
// concurrently.
type Client struct {
	ID string

	mu      sync.Mutex
	w       MessageWriter
	session *Session
}

func NewClient(id string, w MessageWriter) *Client {
	return &Client{ID: id, w: w}
}

func (c *Client) Write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w.WriteMessage(websocket.TextMessage, data)
}

// Bind attaches a (room, user) identity. Binding while already bound
// rebinds; the previous room's presence entry is left to disconnect cleanup.
func (c *Client) Bind(roomID uint, userID string) {
	c.mu.Lock()
	c.session = &Session{RoomID: roomID, UserID: userID, BoundAt: time.Now()}
	c.mu.Unlock()
}

func (c *Client) Unbind() {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
}

// Session returns a copy of the bound session, or nil for an unbound
// connection.
func (c *Client) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}
