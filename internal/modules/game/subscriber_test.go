package game

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/gameroom/internal/broadcast"
	enginepkg "github.com/nfrund/gameroom/internal/game"
	"github.com/nfrund/gameroom/internal/membership"
	"github.com/nfrund/gameroom/internal/modules/game/events"
	"github.com/nfrund/gameroom/internal/modules/game/topics"
	"github.com/nfrund/gameroom/internal/pubsub"
	"github.com/nfrund/gameroom/internal/websocket"
)

type mockPublisher struct {
	mu       sync.Mutex
	messages []pubsub.Message
}

func (m *mockPublisher) Publish(_ context.Context, msg pubsub.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func (m *mockPublisher) Messages() []pubsub.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]pubsub.Message(nil), m.messages...)
}

func newTestSubscriber(t *testing.T) (*Subscriber, *mockPublisher, *membership.Tracker, *enginepkg.Registry) {
	t.Helper()
	pub := &mockPublisher{}
	tracker := membership.NewTracker()
	sessions := enginepkg.NewRegistry(enginepkg.NewVariants(enginepkg.NewNim(7)))
	sub := NewSubscriber(nil, broadcast.NewRouter(pub), sessions, tracker)
	return sub, pub, tracker, sessions
}

func command(t *testing.T, event, connID, userID string, payload any) pubsub.Message {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return pubsub.Message{
		Topic:   topics.ClientCommand,
		UserID:  userID,
		Payload: body,
		Metadata: map[string]string{
			websocket.MetaEvent:  event,
			websocket.MetaConnID: connID,
		},
	}
}

func decodeEvent(t *testing.T, msg pubsub.Message) broadcast.Event {
	t.Helper()
	var ev broadcast.Event
	require.NoError(t, json.Unmarshal(msg.Payload, &ev))
	return ev
}

func TestSubscriber_JoinCreatesSessionAndSubscribes(t *testing.T) {
	sub, pub, tracker, sessions := newTestSubscriber(t)
	ctx := context.Background()

	err := sub.handleCommand(ctx, command(t, topics.EventJoinGame, "c1", "alice", events.JoinGame{SessionID: "s1"}))
	require.NoError(t, err)

	assert.True(t, tracker.IsSubscribed("c1", topics.Room("s1")))
	assert.Equal(t, 1, sessions.Len())

	msgs := pub.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, broadcast.TopicRoom, msgs[0].Topic)
	assert.Equal(t, topics.Room("s1"), msgs[0].Metadata[broadcast.MetaRoomID])
	assert.Equal(t, topics.EventGameUpdate, decodeEvent(t, msgs[0]).Event)
}

func TestSubscriber_JoinUnknownGameType(t *testing.T) {
	sub, pub, _, _ := newTestSubscriber(t)
	ctx := context.Background()

	err := sub.handleCommand(ctx, command(t, topics.EventJoinGame, "c1", "alice", events.JoinGame{
		SessionID: "s1",
		GameType:  "chess",
	}))
	require.NoError(t, err)

	msgs := pub.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, broadcast.TopicDirect, msgs[0].Topic)
	assert.Equal(t, "c1", msgs[0].Metadata[broadcast.MetaRecipientID])
	assert.Equal(t, topics.EventGameError, decodeEvent(t, msgs[0]).Event)
}

func TestSubscriber_SecondJoinStartsGame(t *testing.T) {
	sub, pub, _, _ := newTestSubscriber(t)
	ctx := context.Background()

	require.NoError(t, sub.handleCommand(ctx, command(t, topics.EventJoinGame, "c1", "alice", events.JoinGame{SessionID: "s1"})))
	require.NoError(t, sub.handleCommand(ctx, command(t, topics.EventJoinGame, "c2", "bob", events.JoinGame{SessionID: "s1"})))

	msgs := pub.Messages()
	require.Len(t, msgs, 2)

	var snap enginepkg.Snapshot
	ev := decodeEvent(t, msgs[1])
	raw, err := json.Marshal(ev.Payload)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &snap))
	assert.Equal(t, enginepkg.StatusInProgress, snap.Status)
	assert.Equal(t, []string{"alice", "bob"}, snap.Participants)
}

func TestSubscriber_MoveFansOutToRoom(t *testing.T) {
	sub, pub, _, _ := newTestSubscriber(t)
	ctx := context.Background()

	require.NoError(t, sub.handleCommand(ctx, command(t, topics.EventJoinGame, "c1", "alice", events.JoinGame{SessionID: "s1"})))
	require.NoError(t, sub.handleCommand(ctx, command(t, topics.EventJoinGame, "c2", "bob", events.JoinGame{SessionID: "s1"})))

	err := sub.handleCommand(ctx, command(t, topics.EventMakeMove, "c1", "alice", events.MakeMove{
		SessionID: "s1",
		Move:      enginepkg.Move{NumObjects: 2},
	}))
	require.NoError(t, err)

	msgs := pub.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, broadcast.TopicRoom, msgs[2].Topic)
	assert.Equal(t, topics.EventGameUpdate, decodeEvent(t, msgs[2]).Event)
}

func TestSubscriber_RejectedMoveGoesToSubmitterOnly(t *testing.T) {
	sub, pub, _, sessions := newTestSubscriber(t)
	ctx := context.Background()

	require.NoError(t, sub.handleCommand(ctx, command(t, topics.EventJoinGame, "c1", "alice", events.JoinGame{SessionID: "s1"})))
	require.NoError(t, sub.handleCommand(ctx, command(t, topics.EventJoinGame, "c2", "bob", events.JoinGame{SessionID: "s1"})))

	// Bob moves out of turn.
	err := sub.handleCommand(ctx, command(t, topics.EventMakeMove, "c2", "bob", events.MakeMove{
		SessionID: "s1",
		Move:      enginepkg.Move{NumObjects: 1},
	}))
	require.NoError(t, err)

	msgs := pub.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, broadcast.TopicDirect, msgs[2].Topic)
	assert.Equal(t, "c2", msgs[2].Metadata[broadcast.MetaRecipientID])
	assert.Equal(t, topics.EventGameError, decodeEvent(t, msgs[2]).Event)

	// State is unchanged.
	session, err := sessions.Get("s1")
	require.NoError(t, err)
	state := session.Snapshot().State.(enginepkg.NimState)
	assert.Equal(t, 7, state.Remaining)
	assert.Equal(t, 0, state.TurnIndex)
}

func TestSubscriber_MoveOnUnknownSession(t *testing.T) {
	sub, pub, _, _ := newTestSubscriber(t)
	ctx := context.Background()

	err := sub.handleCommand(ctx, command(t, topics.EventMakeMove, "c1", "alice", events.MakeMove{
		SessionID: "nope",
		Move:      enginepkg.Move{NumObjects: 1},
	}))
	require.NoError(t, err)

	msgs := pub.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, broadcast.TopicDirect, msgs[0].Topic)
}

func TestSubscriber_LeaveUnsubscribesAndReclaims(t *testing.T) {
	sub, _, tracker, sessions := newTestSubscriber(t)
	ctx := context.Background()

	require.NoError(t, sub.handleCommand(ctx, command(t, topics.EventJoinGame, "c1", "alice", events.JoinGame{SessionID: "s1"})))
	require.NoError(t, sub.handleCommand(ctx, command(t, topics.EventJoinGame, "c2", "bob", events.JoinGame{SessionID: "s1"})))

	// Play the game out: 7 -> 4 -> 1 -> 0, alice takes the last object.
	for _, mv := range []struct {
		conn, user string
		take       int
	}{
		{"c1", "alice", 3},
		{"c2", "bob", 3},
		{"c1", "alice", 1},
	} {
		require.NoError(t, sub.handleCommand(ctx, command(t, topics.EventMakeMove, mv.conn, mv.user, events.MakeMove{
			SessionID: "s1",
			Move:      enginepkg.Move{NumObjects: mv.take},
		})))
	}

	session, err := sessions.Get("s1")
	require.NoError(t, err)
	require.Equal(t, enginepkg.StatusOver, session.Status())

	require.NoError(t, sub.handleCommand(ctx, command(t, topics.EventLeaveGame, "c1", "alice", events.LeaveGame{SessionID: "s1"})))
	assert.False(t, tracker.IsSubscribed("c1", topics.Room("s1")))
	// Bob is still subscribed, so the session survives.
	assert.Equal(t, 1, sessions.Len())

	require.NoError(t, sub.handleCommand(ctx, command(t, topics.EventLeaveGame, "c2", "bob", events.LeaveGame{SessionID: "s1"})))
	assert.Equal(t, 0, sessions.Len())
}

func TestSubscriber_DisconnectReclaimsFinishedSession(t *testing.T) {
	sub, _, tracker, sessions := newTestSubscriber(t)
	ctx := context.Background()

	require.NoError(t, sub.handleCommand(ctx, command(t, topics.EventJoinGame, "c1", "alice", events.JoinGame{SessionID: "s1"})))
	require.NoError(t, sub.handleCommand(ctx, command(t, topics.EventJoinGame, "c2", "bob", events.JoinGame{SessionID: "s1"})))

	for _, mv := range []struct {
		conn, user string
		take       int
	}{
		{"c1", "alice", 3},
		{"c2", "bob", 3},
		{"c1", "alice", 1},
	} {
		require.NoError(t, sub.handleCommand(ctx, command(t, topics.EventMakeMove, mv.conn, mv.user, events.MakeMove{
			SessionID: "s1",
			Move:      enginepkg.Move{NumObjects: mv.take},
		})))
	}

	session, err := sessions.Get("s1")
	require.NoError(t, err)
	require.Equal(t, enginepkg.StatusOver, session.Status())

	// Alice's connection drops without sending leaveGame. Bob is still
	// subscribed, so the session survives.
	rooms := tracker.LeaveAll("c1")
	require.NoError(t, sub.handleDisconnected(ctx, disconnectEvent(t, "c1", rooms)))
	assert.Equal(t, 1, sessions.Len())

	rooms = tracker.LeaveAll("c2")
	require.NoError(t, sub.handleDisconnected(ctx, disconnectEvent(t, "c2", rooms)))
	assert.Equal(t, 0, sessions.Len())
}

func TestSubscriber_DisconnectLeavesActiveSessionAlone(t *testing.T) {
	sub, _, tracker, sessions := newTestSubscriber(t)
	ctx := context.Background()

	require.NoError(t, sub.handleCommand(ctx, command(t, topics.EventJoinGame, "c1", "alice", events.JoinGame{SessionID: "s1"})))
	require.NoError(t, sub.handleCommand(ctx, command(t, topics.EventJoinGame, "c2", "bob", events.JoinGame{SessionID: "s1"})))

	rooms := tracker.LeaveAll("c1")
	require.NoError(t, sub.handleDisconnected(ctx, disconnectEvent(t, "c1", rooms)))

	// The game is IN_PROGRESS; it stalls rather than being reclaimed.
	assert.Equal(t, 1, sessions.Len())
}

func TestSubscriber_DisconnectIgnoresForeignRooms(t *testing.T) {
	sub, _, _, sessions := newTestSubscriber(t)
	ctx := context.Background()

	require.NoError(t, sub.handleDisconnected(ctx, disconnectEvent(t, "c1", []string{"chat:lobby", "game:unknown"})))
	assert.Equal(t, 0, sessions.Len())
}

func disconnectEvent(t *testing.T, connID string, rooms []string) pubsub.Message {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"connectionId": connID,
		"rooms":        rooms,
	})
	require.NoError(t, err)
	return pubsub.Message{
		Topic:   websocket.TopicDisconnected,
		Payload: payload,
	}
}

func TestSubscriber_UnknownCommand(t *testing.T) {
	sub, _, _, _ := newTestSubscriber(t)

	err := sub.handleCommand(context.Background(), command(t, "teleport", "c1", "alice", struct{}{}))
	assert.Error(t, err)
}
