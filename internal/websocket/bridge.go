package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nfrund/gameroom/internal/broadcast"
	"github.com/nfrund/gameroom/internal/membership"
	"github.com/nfrund/gameroom/internal/pubsub"
)

const (
	// Bus topic announcing a connection teardown, published after the
	// membership edges for the connection have already been removed.
	TopicDisconnected = "system.websocket.disconnected"

	writeTimeout   = 10 * time.Second
	sendBufferSize = 256
)

// Metadata keys set on inbound bus messages: the originating connection ID
// (so modules can answer privately) and the client event name (so a module
// can multiplex several events over one serialized command topic).
const (
	MetaConnID = "conn_id"
	MetaEvent  = "event"
)

// Bridge manages all WebSocket connections and routes messages between
// connected clients and the pub/sub bus. Inbound client events are
// published onto module topics; outbound bus events are fanned out to the
// membership tracker's current subscriber set for their scope.
type Bridge struct {
	publisher pubsub.Publisher
	tracker   *membership.Tracker

	mu      sync.RWMutex
	clients map[string]*Client // connID -> client

	// inbound maps a client event name to the bus topic its owning module
	// consumes. Events not in the table are rejected per-connection.
	inboundMu sync.RWMutex
	inbound   map[string]string
}

// NewBridge initializes a new Bridge, ready to handle connections.
func NewBridge(pub pubsub.Publisher, tracker *membership.Tracker) *Bridge {
	return &Bridge{
		publisher: pub,
		tracker:   tracker,
		clients:   make(map[string]*Client),
		inbound:   make(map[string]string),
	}
}

// RegisterInbound declares that client events named event are forwarded to
// the given bus topic. Modules call this during their Register phase.
func (b *Bridge) RegisterInbound(event, topic string) {
	b.inboundMu.Lock()
	defer b.inboundMu.Unlock()
	b.inbound[event] = topic
}

// Start subscribes the bridge to the three delivery-scope topics. It must
// be called once before the server accepts connections.
func (b *Bridge) Start(ctx context.Context) error {
	sub, ok := b.publisher.(pubsub.Subscriber)
	if !ok {
		return fmt.Errorf("bridge publisher does not support subscriptions")
	}

	if err := sub.Subscribe(ctx, broadcast.TopicRoom, b.handleRoomEvent); err != nil {
		return fmt.Errorf("subscribe %s: %w", broadcast.TopicRoom, err)
	}
	if err := sub.Subscribe(ctx, broadcast.TopicDirect, b.handleDirectEvent); err != nil {
		return fmt.Errorf("subscribe %s: %w", broadcast.TopicDirect, err)
	}
	if err := sub.Subscribe(ctx, broadcast.TopicGlobal, b.handleGlobalEvent); err != nil {
		return fmt.Errorf("subscribe %s: %w", broadcast.TopicGlobal, err)
	}
	return nil
}

// Handler returns an echo.HandlerFunc that upgrades the request to a
// WebSocket connection. The client identifies its user with the username
// query parameter; authentication itself is an external concern.
func (b *Bridge) Handler() echo.HandlerFunc {
	return func(c echo.Context) error {
		username := c.QueryParam("username")
		if username == "" {
			return c.String(http.StatusBadRequest, "username query parameter is required")
		}

		conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
			InsecureSkipVerify: true, // In production, check origin.
		})
		if err != nil {
			slog.Error("Failed to upgrade connection to WebSocket", "error", err)
			return err
		}

		client := &Client{
			ID:       uuid.NewString(),
			Username: username,
			conn:     conn,
			send:     make(chan []byte, sendBufferSize),
		}
		b.addClient(client)
		slog.Info("Client connected", "connID", client.ID, "username", username)

		go client.writePump()
		go b.readPump(client)

		// Tell the client its connection ID so it can correlate direct
		// errors with its own actions.
		if ready, err := json.Marshal(broadcast.Event{
			Event:   EventConnectionReady,
			Payload: ConnectionReady{ConnectionID: client.ID, Username: username},
		}); err == nil {
			client.SendMessage(ready)
		}

		return nil
	}
}

// readPump pumps messages from the WebSocket connection onto the bus.
func (b *Bridge) readPump(c *Client) {
	defer func() {
		b.removeClient(c)
		c.conn.Close(websocket.StatusNormalClosure, "Client disconnected")
	}()

	for {
		_, data, err := c.conn.Read(context.Background())
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				slog.Info("WebSocket closed normally by client", "connID", c.ID)
			} else if err != io.EOF {
				slog.Error("WebSocket read error", "connID", c.ID, "error", err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			b.sendError(c, "malformed event envelope")
			continue
		}

		b.inboundMu.RLock()
		topic, ok := b.inbound[env.Event]
		b.inboundMu.RUnlock()
		if !ok {
			b.sendError(c, fmt.Sprintf("unknown event %q", env.Event))
			continue
		}

		msg := pubsub.Message{
			Topic:   topic,
			UserID:  c.Username,
			Payload: env.Payload,
			Metadata: map[string]string{
				MetaConnID: c.ID,
				MetaEvent:  env.Event,
			},
		}
		if err := b.publisher.Publish(context.Background(), msg); err != nil {
			slog.Error("Failed to publish inbound event", "connID", c.ID, "event", env.Event, "error", err)
		}
	}
}

// writePump pumps messages from the client's send channel to the socket.
func (c *Client) writePump() {
	defer c.conn.Close(websocket.StatusNormalClosure, "Server-side cleanup")

	for {
		message, ok := <-c.send
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := c.conn.Write(ctx, websocket.MessageText, message)
		cancel()
		if err != nil {
			slog.Error("WebSocket write error", "connID", c.ID, "error", err)
			return
		}
	}
}

func (b *Bridge) addClient(c *Client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[c.ID] = c
}

// removeClient tears down a connection: membership edges are removed
// before the disconnect event is published, so nothing observed after the
// event can still route to the dead connection.
func (b *Bridge) removeClient(c *Client) {
	b.mu.Lock()
	_, known := b.clients[c.ID]
	delete(b.clients, c.ID)
	b.mu.Unlock()
	if !known {
		return
	}

	left := b.tracker.LeaveAll(c.ID)
	c.Close()
	slog.Info("Client disconnected", "connID", c.ID, "username", c.Username, "rooms_left", len(left))

	payload, err := json.Marshal(map[string]any{
		"connectionId": c.ID,
		"username":     c.Username,
		"rooms":        left,
	})
	if err != nil {
		return
	}
	msg := pubsub.Message{
		Topic:   TopicDisconnected,
		UserID:  c.Username,
		Payload: payload,
	}
	if err := b.publisher.Publish(context.Background(), msg); err != nil {
		slog.Error("Failed to publish disconnect event", "connID", c.ID, "error", err)
	}
}

func (b *Bridge) sendError(c *Client, message string) {
	if payload, err := errorEvent(message); err == nil {
		c.SendMessage(payload)
	}
}

// handleRoomEvent fans a room-scoped event out to the room's current
// subscriber set. A full buffer on one client never blocks the rest.
func (b *Bridge) handleRoomEvent(ctx context.Context, msg pubsub.Message) error {
	roomID := msg.Metadata[broadcast.MetaRoomID]
	if roomID == "" {
		return fmt.Errorf("room event without %s metadata", broadcast.MetaRoomID)
	}

	for _, connID := range b.tracker.Subscribers(roomID) {
		if client := b.getClient(connID); client != nil {
			client.SendMessage(msg.Payload)
		}
	}
	return nil
}

// handleDirectEvent delivers an event to exactly one connection.
func (b *Bridge) handleDirectEvent(ctx context.Context, msg pubsub.Message) error {
	connID := msg.Metadata[broadcast.MetaRecipientID]
	if connID == "" {
		return fmt.Errorf("direct event without %s metadata", broadcast.MetaRecipientID)
	}

	if client := b.getClient(connID); client != nil {
		client.SendMessage(msg.Payload)
	}
	return nil
}

// handleGlobalEvent delivers an event to every connected client.
func (b *Bridge) handleGlobalEvent(ctx context.Context, msg pubsub.Message) error {
	b.mu.RLock()
	clients := make([]*Client, 0, len(b.clients))
	for _, client := range b.clients {
		clients = append(clients, client)
	}
	b.mu.RUnlock()

	for _, client := range clients {
		client.SendMessage(msg.Payload)
	}
	return nil
}

func (b *Bridge) getClient(connID string) *Client {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.clients[connID]
}
