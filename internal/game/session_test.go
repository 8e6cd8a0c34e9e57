package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/gameroom/internal/domain"
)

func newNimSession(t *testing.T, start int) *Session {
	t.Helper()
	return newSession("g1", NewNim(start))
}

func TestSession_JoinLifecycle(t *testing.T) {
	s := newNimSession(t, 7)

	snap, err := s.Join("alice")
	require.NoError(t, err)
	assert.Equal(t, StatusWaiting, snap.Status)
	assert.Equal(t, []string{"alice"}, snap.Participants)
	assert.Nil(t, snap.State)

	snap, err = s.Join("bob")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, snap.Status)
	assert.Equal(t, []string{"alice", "bob"}, snap.Participants)
	assert.Equal(t, NimState{Remaining: 7, TurnIndex: 0}, snap.State)
}

func TestSession_JoinIdempotent(t *testing.T) {
	s := newNimSession(t, 7)

	_, err := s.Join("alice")
	require.NoError(t, err)

	snap, err := s.Join("alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, snap.Participants)
	assert.Equal(t, StatusWaiting, snap.Status)
}

func TestSession_JoinFull(t *testing.T) {
	s := newNimSession(t, 7)

	_, err := s.Join("alice")
	require.NoError(t, err)
	_, err = s.Join("bob")
	require.NoError(t, err)

	_, err = s.Join("carol")
	assert.ErrorIs(t, err, domain.ErrSessionFull)

	snap := s.Snapshot()
	assert.Len(t, snap.Participants, 2)
}

func TestSession_MoveBeforeStart(t *testing.T) {
	s := newNimSession(t, 7)

	_, err := s.Join("alice")
	require.NoError(t, err)

	_, err = s.Apply("alice", Move{NumObjects: 1})
	assert.ErrorIs(t, err, domain.ErrGameNotStarted)
}

func TestSession_RejectedMoveLeavesStateUnchanged(t *testing.T) {
	s := newNimSession(t, 7)
	_, _ = s.Join("alice")
	_, _ = s.Join("bob")

	before := s.Snapshot()

	_, err := s.Apply("bob", Move{NumObjects: 1})
	assert.ErrorIs(t, err, domain.ErrNotYourTurn)

	_, err = s.Apply("alice", Move{NumObjects: 5})
	assert.ErrorIs(t, err, domain.ErrInvalidMove)

	after := s.Snapshot()
	assert.Equal(t, before.State, after.State)
	assert.Equal(t, before.Status, after.Status)
}

// Full game walkthrough: two players, start count 7, misère rules.
func TestSession_FullGameScenario(t *testing.T) {
	s := newNimSession(t, 7)
	_, err := s.Join("p1")
	require.NoError(t, err)
	snap, err := s.Join("p2")
	require.NoError(t, err)
	require.Equal(t, StatusInProgress, snap.Status)

	// P1 removes 3 -> 4 remain, P2's turn.
	snap, err = s.Apply("p1", Move{NumObjects: 3})
	require.NoError(t, err)
	assert.Equal(t, NimState{Remaining: 4, TurnIndex: 1}, snap.State)

	// P1 tries again immediately: rejected, count stays 4.
	_, err = s.Apply("p1", Move{NumObjects: 1})
	assert.ErrorIs(t, err, domain.ErrNotYourTurn)
	assert.Equal(t, NimState{Remaining: 4, TurnIndex: 1}, s.Snapshot().State)

	// P2 removes 3 -> 1 remains, P1's turn.
	snap, err = s.Apply("p2", Move{NumObjects: 3})
	require.NoError(t, err)
	assert.Equal(t, NimState{Remaining: 1, TurnIndex: 0}, snap.State)

	// P1 removes the last object: game over, P1 loses, P2 wins.
	snap, err = s.Apply("p1", Move{NumObjects: 1})
	require.NoError(t, err)
	assert.Equal(t, StatusOver, snap.Status)
	require.NotNil(t, snap.Result)
	assert.Equal(t, "p1", snap.Result.Loser)
	assert.Equal(t, "p2", snap.Result.Winner)
}

func TestSession_OverIsAbsorbing(t *testing.T) {
	s := newNimSession(t, 1)
	_, _ = s.Join("p1")
	_, _ = s.Join("p2")

	snap, err := s.Apply("p1", Move{NumObjects: 1})
	require.NoError(t, err)
	require.Equal(t, StatusOver, snap.Status)

	_, err = s.Apply("p2", Move{NumObjects: 1})
	assert.ErrorIs(t, err, domain.ErrGameOver)

	_, err = s.Join("carol")
	assert.ErrorIs(t, err, domain.ErrGameOver)

	assert.Equal(t, StatusOver, s.Status())
}

func TestSession_StatusMonotonic(t *testing.T) {
	s := newNimSession(t, 2)

	assert.Equal(t, StatusWaiting, s.Status())
	_, _ = s.Join("p1")
	assert.Equal(t, StatusWaiting, s.Status())
	_, _ = s.Join("p2")
	assert.Equal(t, StatusInProgress, s.Status())

	_, err := s.Apply("p1", Move{NumObjects: 2})
	require.NoError(t, err)
	assert.Equal(t, StatusOver, s.Status())
}

func TestSession_SnapshotIsolation(t *testing.T) {
	s := newNimSession(t, 7)
	_, _ = s.Join("p1")

	snap := s.Snapshot()
	snap.Participants[0] = "mallory"

	assert.Equal(t, []string{"p1"}, s.Snapshot().Participants)
}
