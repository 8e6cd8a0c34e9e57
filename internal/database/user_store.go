package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"

	"github.com/nfrund/gameroom/internal/domain"
)

type userRecord struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:        r.UserID,
		Username:  r.Username,
		CreatedAt: r.CreatedAt,
	}
}

// UserStore implements domain.UserRepository backed by SurrealDB.
type UserStore struct {
	db *surrealdb.DB
}

// NewUserStore creates a UserStore over an established connection.
func NewUserStore(db *surrealdb.DB) *UserStore {
	return &UserStore{db: db}
}

// Create persists a new user. Usernames are unique.
func (s *UserStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	existing, err := QueryOne[userRecord](ctx, s.db, "SELECT * FROM user WHERE username = $username LIMIT 1", map[string]any{"username": user.Username})
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrUserAlreadyExists
	}

	query := "CREATE user CONTENT { userId: $userId, username: $username, createdAt: time::now() } RETURN AFTER"
	params := map[string]any{
		"userId":   uuid.NewString(),
		"username": user.Username,
	}

	created, err := QueryOne[userRecord](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if created == nil {
		return nil, fmt.Errorf("user was not created or could not be fetched")
	}
	return created.toDomain(), nil
}

// FindByUsername looks a user up by username.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	record, err := QueryOne[userRecord](ctx, s.db, "SELECT * FROM user WHERE username = $username LIMIT 1", map[string]any{"username": username})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if record == nil {
		return nil, domain.ErrUserNotFound
	}
	return record.toDomain(), nil
}

// List returns all users in creation order.
func (s *UserStore) List(ctx context.Context) ([]*domain.User, error) {
	records, err := Query[userRecord](ctx, s.db, "SELECT * FROM user ORDER BY createdAt ASC", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*domain.User, len(records))
	for i := range records {
		users[i] = records[i].toDomain()
	}
	return users, nil
}

// Delete removes a user by username.
func (s *UserStore) Delete(ctx context.Context, username string) error {
	existing, err := QueryOne[userRecord](ctx, s.db, "SELECT * FROM user WHERE username = $username LIMIT 1", map[string]any{"username": username})
	if err != nil {
		return fmt.Errorf("failed to fetch user: %w", err)
	}
	if existing == nil {
		return domain.ErrUserNotFound
	}

	if err := Execute(ctx, s.db, "DELETE user WHERE username = $username", map[string]any{"username": username}); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
