package websocket

import (
	"log/slog"
	"sync"

	"github.com/coder/websocket"
)

// Client represents a single connected WebSocket client.
type Client struct {
	// ID is the unique connection identifier, distinct from the user:
	// a user with two tabs open holds two clients.
	ID       string
	Username string

	conn *websocket.Conn
	send chan []byte
	mu   sync.RWMutex
}

// SendMessage queues a message for delivery to the client. The send is
// non-blocking: if the client's buffer is full the message is dropped,
// because a lagging client must never stall fan-out to the others.
func (c *Client) SendMessage(msg []byte) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.send == nil {
		return
	}

	select {
	case c.send <- msg:
	default:
		slog.Warn("Client send channel full, dropping message", "connID", c.ID, "username", c.Username)
	}
}

// Close safely closes the client's send channel. Further SendMessage calls
// become no-ops.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.send != nil {
		close(c.send)
		c.send = nil
	}
}
