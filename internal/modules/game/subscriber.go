package game

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nfrund/gameroom/internal/broadcast"
	enginepkg "github.com/nfrund/gameroom/internal/game"
	"github.com/nfrund/gameroom/internal/membership"
	"github.com/nfrund/gameroom/internal/modules/game/events"
	"github.com/nfrund/gameroom/internal/modules/game/topics"
	"github.com/nfrund/gameroom/internal/pubsub"
	"github.com/nfrund/gameroom/internal/websocket"
)

// Subscriber consumes game commands from the bus, applies them to the
// session registry, and publishes the resulting deltas. Accepted moves fan
// out to the session's subscribers; rejections go back to the submitting
// connection only.
type Subscriber struct {
	sub      pubsub.Subscriber
	router   *broadcast.Router
	sessions *enginepkg.Registry
	tracker  *membership.Tracker
}

// NewSubscriber creates the game command subscriber.
func NewSubscriber(sub pubsub.Subscriber, router *broadcast.Router, sessions *enginepkg.Registry, tracker *membership.Tracker) *Subscriber {
	return &Subscriber{
		sub:      sub,
		router:   router,
		sessions: sessions,
		tracker:  tracker,
	}
}

// Start begins consuming game commands and connection teardown events.
// Subscribe returns immediately; processing continues until the context is
// canceled.
func (s *Subscriber) Start(ctx context.Context) error {
	slog.Info("Starting game module subscriber")
	if err := s.sub.Subscribe(ctx, topics.ClientCommand, s.handleCommand); err != nil {
		return err
	}
	return s.sub.Subscribe(ctx, websocket.TopicDisconnected, s.handleDisconnected)
}

func (s *Subscriber) handleCommand(ctx context.Context, msg pubsub.Message) error {
	switch msg.Metadata[websocket.MetaEvent] {
	case topics.EventJoinGame:
		return s.handleJoin(ctx, msg)
	case topics.EventMakeMove:
		return s.handleMove(ctx, msg)
	case topics.EventLeaveGame:
		return s.handleLeave(ctx, msg)
	default:
		return fmt.Errorf("unhandled game command %q", msg.Metadata[websocket.MetaEvent])
	}
}

func (s *Subscriber) handleJoin(ctx context.Context, msg pubsub.Message) error {
	connID := msg.Metadata[websocket.MetaConnID]

	var ev events.JoinGame
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return s.sendError(ctx, connID, "", "malformed joinGame payload")
	}
	if ev.SessionID == "" {
		return s.sendError(ctx, connID, "", "sessionId is required")
	}
	gameType := ev.GameType
	if gameType == "" {
		gameType = enginepkg.NimType
	}

	session, err := s.sessions.CreateOrGet(gameType, ev.SessionID)
	if err != nil {
		return s.sendError(ctx, connID, ev.SessionID, err.Error())
	}

	snapshot, err := session.Join(msg.UserID)
	if err != nil {
		return s.sendError(ctx, connID, ev.SessionID, err.Error())
	}

	// Subscribe before broadcasting so the joiner sees its own join delta.
	s.tracker.Join(connID, topics.Room(ev.SessionID))

	return s.router.Room(ctx, topics.Room(ev.SessionID), broadcast.Event{
		Event:   topics.EventGameUpdate,
		Payload: snapshot,
	})
}

func (s *Subscriber) handleMove(ctx context.Context, msg pubsub.Message) error {
	connID := msg.Metadata[websocket.MetaConnID]

	var ev events.MakeMove
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return s.sendError(ctx, connID, "", "malformed makeMove payload")
	}

	session, err := s.sessions.Get(ev.SessionID)
	if err != nil {
		return s.sendError(ctx, connID, ev.SessionID, err.Error())
	}

	snapshot, err := session.Apply(msg.UserID, ev.Move)
	if err != nil {
		// Rejected moves leave state untouched and are reported privately;
		// nothing reaches the other participants.
		return s.sendError(ctx, connID, ev.SessionID, err.Error())
	}

	return s.router.Room(ctx, topics.Room(ev.SessionID), broadcast.Event{
		Event:   topics.EventGameUpdate,
		Payload: snapshot,
	})
}

func (s *Subscriber) handleLeave(ctx context.Context, msg pubsub.Message) error {
	connID := msg.Metadata[websocket.MetaConnID]

	var ev events.LeaveGame
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return s.sendError(ctx, connID, "", "malformed leaveGame payload")
	}

	s.tracker.Leave(connID, topics.Room(ev.SessionID))
	s.reclaimIfFinished(ev.SessionID)
	return nil
}

// handleDisconnected reclaims finished sessions whose last subscriber went
// away without sending leaveGame. The bridge removes the connection's
// membership edges before publishing this event, so a zero subscriber count
// here is definitive.
func (s *Subscriber) handleDisconnected(ctx context.Context, msg pubsub.Message) error {
	var ev struct {
		Rooms []string `json:"rooms"`
	}
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return fmt.Errorf("malformed disconnect payload: %w", err)
	}

	for _, room := range ev.Rooms {
		if sessionID, ok := topics.SessionID(room); ok {
			s.reclaimIfFinished(sessionID)
		}
	}
	return nil
}

// reclaimIfFinished removes a session once it is over and nobody is left
// subscribed. Leaving mid-game does not end the game; the session simply
// stalls until the participant returns.
func (s *Subscriber) reclaimIfFinished(sessionID string) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return
	}
	if session.Status() == enginepkg.StatusOver && s.tracker.Count(topics.Room(sessionID)) == 0 {
		if err := s.sessions.Remove(sessionID); err == nil {
			slog.Info("Reclaimed finished game session", "sessionID", sessionID)
		}
	}
}

func (s *Subscriber) sendError(ctx context.Context, connID, sessionID, message string) error {
	if connID == "" {
		return fmt.Errorf("game error with no originating connection: %s", message)
	}
	return s.router.Direct(ctx, connID, broadcast.Event{
		Event:   topics.EventGameError,
		Payload: events.GameError{SessionID: sessionID, Message: message},
	})
}
