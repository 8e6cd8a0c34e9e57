// Package broadcast routes typed events to one of three delivery scopes:
// a single connection, one room's subscriber set, or every connected
// client. Events travel over the pub/sub bus on fixed topics; the WebSocket
// bridge is the single consumer and performs the actual fan-out.
package broadcast

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nfrund/gameroom/internal/pubsub"
)

// Bus topics consumed by the WebSocket bridge. One topic per delivery
// scope; the scoped target travels in message metadata. A single topic per
// scope gives per-subscriber delivery ordering for free, because the bus
// preserves publish order within a topic.
const (
	TopicRoom   = "ws.room"
	TopicDirect = "ws.direct"
	TopicGlobal = "ws.global"
)

// Metadata keys used on bus messages.
const (
	MetaRoomID      = "room_id"
	MetaRecipientID = "recipient_id"
)

// Event is the envelope delivered to clients: a named event plus a
// JSON-marshalable payload.
type Event struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// Router publishes events onto the bus with the correct scope metadata.
// It is best-effort: delivery failures to individual connections are the
// bridge's concern and never roll back the state change that produced the
// event.
type Router struct {
	publisher pubsub.Publisher
}

// NewRouter creates a Router over the given publisher.
func NewRouter(pub pubsub.Publisher) *Router {
	return &Router{publisher: pub}
}

// Room delivers an event to every connection currently subscribed to the
// room. Events for a single room reach each subscriber in publish order.
func (r *Router) Room(ctx context.Context, roomID string, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", ev.Event, err)
	}
	return r.publisher.Publish(ctx, pubsub.Message{
		Topic:    TopicRoom,
		Payload:  payload,
		Metadata: map[string]string{MetaRoomID: roomID},
	})
}

// Direct delivers an event to exactly one connection. Used for validation
// failures so other participants' views stay unaffected by a rejected
// attempt.
func (r *Router) Direct(ctx context.Context, connID string, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", ev.Event, err)
	}
	return r.publisher.Publish(ctx, pubsub.Message{
		Topic:    TopicDirect,
		Payload:  payload,
		Metadata: map[string]string{MetaRecipientID: connID},
	})
}

// Global delivers an event to every connected client, regardless of room
// membership. Used for list-view deltas such as chat creation and user
// lifecycle events.
func (r *Router) Global(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", ev.Event, err)
	}
	return r.publisher.Publish(ctx, pubsub.Message{
		Topic:   TopicGlobal,
		Payload: payload,
	})
}
