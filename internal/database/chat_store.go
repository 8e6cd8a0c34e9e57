package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"

	"github.com/nfrund/gameroom/internal/domain"
)

// chatRecord is the stored shape of a chat. The application-level ID lives
// in its own field so lookups never depend on SurrealDB record ID syntax.
type chatRecord struct {
	ChatID       string    `json:"chatId"`
	Name         string    `json:"name"`
	Participants []string  `json:"participants"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (r chatRecord) toDomain() *domain.Chat {
	return &domain.Chat{
		ID:           r.ChatID,
		Name:         r.Name,
		Participants: r.Participants,
		CreatedAt:    r.CreatedAt,
	}
}

type messageRecord struct {
	MessageID string    `json:"messageId"`
	ChatID    string    `json:"chatId"`
	Sender    string    `json:"sender"`
	Body      string    `json:"body"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r messageRecord) toDomain() *domain.ChatMessage {
	return &domain.ChatMessage{
		ID:        r.MessageID,
		ChatID:    r.ChatID,
		Sender:    r.Sender,
		Body:      r.Body,
		Kind:      r.Kind,
		CreatedAt: r.CreatedAt,
	}
}

// ChatStore implements domain.ChatRepository backed by SurrealDB.
type ChatStore struct {
	db *surrealdb.DB
}

// NewChatStore creates a ChatStore over an established connection.
func NewChatStore(db *surrealdb.DB) *ChatStore {
	return &ChatStore{db: db}
}

// Create persists a new chat. Missing IDs are generated here so callers can
// create chats by name alone.
func (s *ChatStore) Create(ctx context.Context, chat *domain.Chat) (*domain.Chat, error) {
	id := chat.ID
	if id == "" {
		id = uuid.NewString()
	}
	participants := chat.Participants
	if participants == nil {
		participants = []string{}
	}

	query := "CREATE chat CONTENT { chatId: $chatId, name: $name, participants: $participants, createdAt: time::now() } RETURN AFTER"
	params := map[string]any{
		"chatId":       id,
		"name":         chat.Name,
		"participants": participants,
	}

	created, err := QueryOne[chatRecord](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}
	if created == nil {
		return nil, fmt.Errorf("chat was not created or could not be fetched")
	}
	return created.toDomain(), nil
}

// FindByID looks up a chat by its application ID.
func (s *ChatStore) FindByID(ctx context.Context, id string) (*domain.Chat, error) {
	query := "SELECT * FROM chat WHERE chatId = $chatId LIMIT 1"
	record, err := QueryOne[chatRecord](ctx, s.db, query, map[string]any{"chatId": id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chat: %w", err)
	}
	if record == nil {
		return nil, domain.ErrChatNotFound
	}
	return record.toDomain(), nil
}

// List returns all chats in creation order.
func (s *ChatStore) List(ctx context.Context) ([]*domain.Chat, error) {
	query := "SELECT * FROM chat ORDER BY createdAt ASC"
	records, err := Query[chatRecord](ctx, s.db, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}

	chats := make([]*domain.Chat, len(records))
	for i := range records {
		chats[i] = records[i].toDomain()
	}
	return chats, nil
}

// AddParticipant appends a participant to the chat's set and returns the
// updated chat. Duplicate checks are the caller's responsibility; the store
// only appends.
func (s *ChatStore) AddParticipant(ctx context.Context, id, username string) (*domain.Chat, error) {
	query := "UPDATE chat SET participants += $username WHERE chatId = $chatId RETURN AFTER"
	params := map[string]any{
		"chatId":   id,
		"username": username,
	}

	updated, err := QueryOne[chatRecord](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to add chat participant: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrChatNotFound
	}
	return updated.toDomain(), nil
}

// AppendMessage persists a message at the end of the chat's log.
func (s *ChatStore) AppendMessage(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error) {
	id := msg.ID
	if id == "" {
		id = uuid.NewString()
	}
	kind := msg.Kind
	if kind == "" {
		kind = domain.MessageKindBroadcast
	}

	query := "CREATE message CONTENT { messageId: $messageId, chatId: $chatId, sender: $sender, body: $body, kind: $kind, createdAt: time::now() } RETURN AFTER"
	params := map[string]any{
		"messageId": id,
		"chatId":    msg.ChatID,
		"sender":    msg.Sender,
		"body":      msg.Body,
		"kind":      kind,
	}

	created, err := QueryOne[messageRecord](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to append message: %w", err)
	}
	if created == nil {
		return nil, fmt.Errorf("message was not created or could not be fetched")
	}
	return created.toDomain(), nil
}

// Messages returns a chat's log in append order, bounded by limit.
func (s *ChatStore) Messages(ctx context.Context, chatID string, limit int) ([]*domain.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}

	query := "SELECT * FROM message WHERE chatId = $chatId ORDER BY createdAt ASC LIMIT $limit"
	params := map[string]any{
		"chatId": chatID,
		"limit":  limit,
	}

	records, err := Query[messageRecord](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	messages := make([]*domain.ChatMessage, len(records))
	for i := range records {
		messages[i] = records[i].toDomain()
	}
	return messages, nil
}
