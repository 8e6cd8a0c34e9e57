package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nfrund/gameroom/internal/broadcast"
	"github.com/nfrund/gameroom/internal/domain"
	"github.com/nfrund/gameroom/internal/membership"
	"github.com/nfrund/gameroom/internal/modules/chat/events"
	"github.com/nfrund/gameroom/internal/modules/chat/topics"
	"github.com/nfrund/gameroom/internal/pubsub"
	"github.com/nfrund/gameroom/internal/websocket"
)

// Subscriber consumes chat subscription commands from the bus and updates
// the membership tracker. Only chat participants may subscribe to a chat's
// deltas.
type Subscriber struct {
	sub     pubsub.Subscriber
	router  *broadcast.Router
	repo    domain.ChatRepository
	tracker *membership.Tracker
}

// NewSubscriber creates the chat command subscriber.
func NewSubscriber(sub pubsub.Subscriber, router *broadcast.Router, repo domain.ChatRepository, tracker *membership.Tracker) *Subscriber {
	return &Subscriber{
		sub:     sub,
		router:  router,
		repo:    repo,
		tracker: tracker,
	}
}

// Start begins consuming chat commands.
func (s *Subscriber) Start(ctx context.Context) error {
	slog.Info("Starting chat module subscriber")
	return s.sub.Subscribe(ctx, topics.ClientCommand, s.handleCommand)
}

func (s *Subscriber) handleCommand(ctx context.Context, msg pubsub.Message) error {
	switch msg.Metadata[websocket.MetaEvent] {
	case topics.EventJoinChat:
		return s.handleJoin(ctx, msg)
	case topics.EventLeaveChat:
		return s.handleLeave(ctx, msg)
	default:
		return fmt.Errorf("unhandled chat command %q", msg.Metadata[websocket.MetaEvent])
	}
}

func (s *Subscriber) handleJoin(ctx context.Context, msg pubsub.Message) error {
	connID := msg.Metadata[websocket.MetaConnID]

	var ev events.JoinChat
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return s.sendError(ctx, connID, "", "malformed joinChat payload")
	}
	if ev.ChatID == "" {
		return s.sendError(ctx, connID, "", "chatId is required")
	}

	chat, err := s.repo.FindByID(ctx, ev.ChatID)
	if err != nil {
		return s.sendError(ctx, connID, ev.ChatID, err.Error())
	}
	if !chat.HasParticipant(msg.UserID) {
		return s.sendError(ctx, connID, ev.ChatID, domain.ErrNotParticipant.Error())
	}

	s.tracker.Join(connID, topics.Room(ev.ChatID))
	return nil
}

func (s *Subscriber) handleLeave(ctx context.Context, msg pubsub.Message) error {
	connID := msg.Metadata[websocket.MetaConnID]

	var ev events.LeaveChat
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return s.sendError(ctx, connID, "", "malformed leaveChat payload")
	}

	s.tracker.Leave(connID, topics.Room(ev.ChatID))
	return nil
}

func (s *Subscriber) sendError(ctx context.Context, connID, chatID, message string) error {
	if connID == "" {
		return fmt.Errorf("chat error with no originating connection: %s", message)
	}
	return s.router.Direct(ctx, connID, broadcast.Event{
		Event:   topics.EventChatError,
		Payload: events.ChatError{ChatID: chatID, Message: message},
	})
}
