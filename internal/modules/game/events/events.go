// Package events defines the payload shapes exchanged with clients by the
// game module.
package events

import "github.com/nfrund/gameroom/internal/game"

// JoinGame asks to join a session, creating it on first use.
type JoinGame struct {
	SessionID string `json:"sessionId"`
	GameType  string `json:"gameType,omitempty"`
}

// MakeMove submits a move for the submitting participant.
type MakeMove struct {
	SessionID string    `json:"sessionId"`
	Move      game.Move `json:"move"`
}

// LeaveGame unsubscribes the connection from a session's updates.
type LeaveGame struct {
	SessionID string `json:"sessionId"`
}

// GameError is delivered privately to the connection whose action was
// rejected; other participants never see it.
type GameError struct {
	SessionID string `json:"sessionId,omitempty"`
	Message   string `json:"message"`
}
