package game

import (
	"slices"
	"sync"

	"github.com/nfrund/gameroom/internal/domain"
)

// Session is one live instance of a turn-based game. All mutation happens
// under the session's own mutex, so two near-simultaneous moves for the
// same session serialize deterministically: the second is validated against
// the advanced state, not the stale one.
type Session struct {
	mu sync.Mutex

	id           string
	variant      Variant
	status       Status
	participants []string
	state        State
	result       *Result
}

// Snapshot is an immutable view of a session, safe to marshal and broadcast.
type Snapshot struct {
	ID           string   `json:"id"`
	Type         string   `json:"type"`
	Status       Status   `json:"status"`
	Participants []string `json:"participants"`
	State        State    `json:"state,omitempty"`
	Result       *Result  `json:"result,omitempty"`
}

func newSession(id string, variant Variant) *Session {
	return &Session{
		id:      id,
		variant: variant,
		status:  StatusWaiting,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Join adds a participant. Joining a session you are already in is a no-op
// that returns the current snapshot. When the variant's required player
// count is reached the session transitions WAITING -> IN_PROGRESS and the
// initial game state is built. A session at capacity rejects further joins.
func (s *Session) Join(participant string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.participants, participant) {
		return s.snapshotLocked(), nil
	}
	if s.status == StatusOver {
		return Snapshot{}, domain.ErrGameOver
	}
	if len(s.participants) >= s.variant.Players() {
		return Snapshot{}, domain.ErrSessionFull
	}

	s.participants = append(s.participants, participant)
	if len(s.participants) == s.variant.Players() {
		s.status = StatusInProgress
		s.state = s.variant.InitialState(s.participants)
	}

	return s.snapshotLocked(), nil
}

// Apply validates and applies a participant's move. On rejection the state
// is untouched and the error describes why; on acceptance the returned
// snapshot reflects the new state, including a terminal result when the
// move ends the game. OVER is absorbing: no move is accepted after it.
func (s *Session) Apply(participant string, mv Move) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.status {
	case StatusWaiting:
		return Snapshot{}, domain.ErrGameNotStarted
	case StatusOver:
		return Snapshot{}, domain.ErrGameOver
	}

	if err := s.variant.ValidateMove(s.state, s.participants, participant, mv); err != nil {
		return Snapshot{}, err
	}

	s.state = s.variant.ApplyMove(s.state, s.participants, participant, mv)
	if terminal, result := s.variant.IsTerminal(s.state, s.participants); terminal {
		s.status = StatusOver
		s.result = result
	}

	return s.snapshotLocked(), nil
}

// Snapshot returns a consistent view of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Status returns the session's current lifecycle status.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ID:           s.id,
		Type:         s.variant.Type(),
		Status:       s.status,
		Participants: slices.Clone(s.participants),
		State:        s.state,
		Result:       s.result,
	}
}
