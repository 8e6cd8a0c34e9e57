package chat

import (
	"context"
	"fmt"
	"sync"

	"github.com/nfrund/gameroom/internal/broadcast"
	"github.com/nfrund/gameroom/internal/domain"
	"github.com/nfrund/gameroom/internal/modules/chat/events"
	"github.com/nfrund/gameroom/internal/modules/chat/topics"
)

// Service is the chat append log: it validates membership, persists through
// the external store, and only then emits delta events. A failed persistence
// write surfaces as an error and produces no event, so subscribers never
// observe a message that was not durably written.
type Service interface {
	Create(ctx context.Context, name string, participants []string) (*domain.Chat, error)
	Get(ctx context.Context, id string) (*domain.Chat, []*domain.ChatMessage, error)
	List(ctx context.Context) ([]*domain.Chat, error)
	Append(ctx context.Context, chatID, sender, body string) (*domain.ChatMessage, error)
	AddParticipant(ctx context.Context, chatID, username string) (*domain.Chat, error)
}

type service struct {
	repo   domain.ChatRepository
	router *broadcast.Router
	cfg    Config

	// Writes for one chat serialize on a per-chat mutex, so a membership
	// check is never based on a stale read and concurrent appends commit in
	// a single order. Reads and writes for different chats do not contend.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates the chat service.
func NewService(repo domain.ChatRepository, router *broadcast.Router, cfg Config) Service {
	return &service{
		repo:   repo,
		router: router,
		cfg:    cfg,
		locks:  make(map[string]*sync.Mutex),
	}
}

// chatLock returns the mutex guarding writes to one chat.
func (s *service) chatLock(chatID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[chatID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[chatID] = lock
	}
	return lock
}

// Create persists a new chat and announces it globally, so clients showing
// chat lists learn about it without being subscribed to anything.
func (s *service) Create(ctx context.Context, name string, participants []string) (*domain.Chat, error) {
	chat, err := s.repo.Create(ctx, &domain.Chat{Name: name, Participants: participants})
	if err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}

	s.publishGlobal(ctx, events.ChatUpdate{
		ChangeType: events.ChangeCreated,
		Chat:       chat,
	})
	return chat, nil
}

// Get returns a chat and its message log in append order.
func (s *service) Get(ctx context.Context, id string) (*domain.Chat, []*domain.ChatMessage, error) {
	chat, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	messages, err := s.repo.Messages(ctx, id, s.cfg.historyLimit())
	if err != nil {
		return nil, nil, fmt.Errorf("fetch chat messages: %w", err)
	}
	return chat, messages, nil
}

// List returns all chats.
func (s *service) List(ctx context.Context) ([]*domain.Chat, error) {
	return s.repo.List(ctx)
}

// Append validates the sender, persists the message, then emits a
// chat-scoped newMessage delta to the chat's current subscribers.
func (s *service) Append(ctx context.Context, chatID, sender, body string) (*domain.ChatMessage, error) {
	lock := s.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	chat, err := s.repo.FindByID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if !chat.HasParticipant(sender) {
		if !s.cfg.ImplicitJoin {
			return nil, domain.ErrNotParticipant
		}
		if chat, err = s.repo.AddParticipant(ctx, chatID, sender); err != nil {
			return nil, fmt.Errorf("implicit join: %w", err)
		}
	}

	msg, err := s.repo.AppendMessage(ctx, &domain.ChatMessage{
		ChatID: chatID,
		Sender: sender,
		Body:   body,
		Kind:   domain.MessageKindBroadcast,
	})
	if err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}

	s.publishRoom(ctx, chatID, events.ChatUpdate{
		ChangeType: events.ChangeNewMessage,
		Chat:       chat,
		Message:    msg,
	})
	return msg, nil
}

// AddParticipant adds a participant to the chat and emits a chat-scoped
// newParticipant delta. Adding a participant who is already present leaves
// the set unchanged and reports a rule violation.
func (s *service) AddParticipant(ctx context.Context, chatID, username string) (*domain.Chat, error) {
	lock := s.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	chat, err := s.repo.FindByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat.HasParticipant(username) {
		return nil, domain.ErrDuplicateParticipant
	}

	updated, err := s.repo.AddParticipant(ctx, chatID, username)
	if err != nil {
		return nil, fmt.Errorf("add participant: %w", err)
	}

	s.publishRoom(ctx, chatID, events.ChatUpdate{
		ChangeType: events.ChangeNewParticipant,
		Chat:       updated,
	})
	return updated, nil
}

// Event publication is best-effort: the state change already succeeded and
// is never rolled back because a delta could not be delivered.
func (s *service) publishRoom(ctx context.Context, chatID string, ev events.ChatUpdate) {
	_ = s.router.Room(ctx, topics.Room(chatID), broadcast.Event{
		Event:   topics.EventChatUpdate,
		Payload: ev,
	})
}

func (s *service) publishGlobal(ctx context.Context, ev events.ChatUpdate) {
	_ = s.router.Global(ctx, broadcast.Event{
		Event:   topics.EventChatUpdate,
		Payload: ev,
	})
}
