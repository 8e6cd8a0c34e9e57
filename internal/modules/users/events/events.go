// Package events defines the user lifecycle event payloads.
package events

import "github.com/nfrund/gameroom/internal/domain"

// Change types carried on UserUpdate events.
const (
	ChangeCreated = "created"
	ChangeDeleted = "deleted"
)

// EventUserUpdate is the outbound event name for user lifecycle deltas.
// User deltas feed global list views, so they are always global-scoped.
const EventUserUpdate = "userUpdate"

// UserUpdate announces a user lifecycle change to all connected clients.
type UserUpdate struct {
	ChangeType string       `json:"changeType"`
	User       *domain.User `json:"user"`
}
