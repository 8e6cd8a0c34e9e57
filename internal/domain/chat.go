package domain

import (
	"context"
	"time"
)

// Message classification tags.
const (
	MessageKindBroadcast = "broadcast"
	MessageKindDirect    = "direct"
)

// Chat is a multi-party conversation. The participant set controls who may
// append messages; live delivery is a separate concern tracked by the
// membership layer, so a participant can be "in" a chat without currently
// being subscribed.
type Chat struct {
	ID           string    `json:"id,omitempty"`
	Name         string    `json:"name"`
	Participants []string  `json:"participants"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HasParticipant reports whether username is in the chat's participant set.
func (c *Chat) HasParticipant(username string) bool {
	for _, p := range c.Participants {
		if p == username {
			return true
		}
	}
	return false
}

// ChatMessage is an immutable entry in a chat's append-only log. Messages
// are never reordered or mutated after append.
type ChatMessage struct {
	ID        string    `json:"id,omitempty"`
	ChatID    string    `json:"chatId"`
	Sender    string    `json:"sender"`
	Body      string    `json:"body"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChatRepository defines the persistence contract for chats and their
// message logs. Every method returns an explicit error; callers never rely
// on panics crossing this boundary.
type ChatRepository interface {
	Create(ctx context.Context, chat *Chat) (*Chat, error)
	FindByID(ctx context.Context, id string) (*Chat, error)
	List(ctx context.Context) ([]*Chat, error)
	AddParticipant(ctx context.Context, id, username string) (*Chat, error)
	AppendMessage(ctx context.Context, msg *ChatMessage) (*ChatMessage, error)
	Messages(ctx context.Context, chatID string, limit int) ([]*ChatMessage, error)
}
