// Package events defines the payload shapes exchanged with clients by the
// chat module.
package events

import "github.com/nfrund/gameroom/internal/domain"

// Change types carried on ChatUpdate events.
const (
	ChangeCreated        = "created"
	ChangeNewMessage     = "newMessage"
	ChangeNewParticipant = "newParticipant"
)

// ChatUpdate is the delta event for chat state changes. Creation deltas
// are broadcast globally for list views; message and participant deltas go
// only to the chat's subscribers.
type ChatUpdate struct {
	ChangeType string              `json:"changeType"`
	Chat       *domain.Chat        `json:"chat"`
	Message    *domain.ChatMessage `json:"message,omitempty"`
}

// JoinChat subscribes the connection to a chat's deltas.
type JoinChat struct {
	ChatID string `json:"chatId"`
}

// LeaveChat unsubscribes the connection from a chat's deltas.
type LeaveChat struct {
	ChatID string `json:"chatId"`
}

// ChatError is delivered privately to the connection whose command failed.
type ChatError struct {
	ChatID  string `json:"chatId,omitempty"`
	Message string `json:"message"`
}
