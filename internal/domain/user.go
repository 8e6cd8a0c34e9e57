package domain

import (
	"context"
	"time"
)

// User represents a participant identity. Credential storage and
// authentication live outside this core; the user record exists so that
// chats and game sessions can reference participants by username.
type User struct {
	ID        string    `json:"id,omitempty"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserRepository defines the contract for user persistence. It lives in the
// domain because it is a requirement OF the domain, not of the database
// implementation.
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Delete(ctx context.Context, username string) error
}
