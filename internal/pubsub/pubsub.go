package pubsub

import (
	"context"
)

// Message is the structure passed between components on the bus.
// It is intentionally simple to act as a wrapper for raw data.
type Message struct {
	// Topic identifies the channel the message belongs to (e.g. "ws.room").
	Topic string
	// UserID identifies the user who initiated the message, when known.
	UserID string
	// Payload contains the raw message data (JSON).
	Payload []byte
	// Metadata carries routing context (e.g. room or connection IDs).
	Metadata map[string]string
}

// Handler defines the function signature for processing a received message.
type Handler func(ctx context.Context, msg Message) error

// Publisher defines the contract for sending messages to the bus.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Subscriber defines the contract for receiving messages from the bus.
// Subscribe registers the handler and returns; messages are processed on a
// background goroutine until the context is canceled.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}
