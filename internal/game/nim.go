package game

import (
	"fmt"

	"github.com/nfrund/gameroom/internal/domain"
)

// Misère Nim: two players alternate removing 1-3 objects from a shared
// pile; the player forced to remove the last object loses.
const (
	NimType         = "nim"
	NimDefaultStart = 21
	nimMinTake      = 1
	nimMaxTake      = 3
	nimPlayers      = 2
)

// NimState is the full state of a Nim session: the remaining object count
// and the turn pointer into the session's ordered participant list.
type NimState struct {
	Remaining int `json:"remaining"`
	TurnIndex int `json:"turnIndex"`
}

// Nim implements the Variant capability set for misère Nim.
type Nim struct {
	start int
}

// NewNim creates a Nim variant with the given starting count. A
// non-positive start falls back to NimDefaultStart.
func NewNim(start int) *Nim {
	if start <= 0 {
		start = NimDefaultStart
	}
	return &Nim{start: start}
}

func (n *Nim) Type() string { return NimType }

func (n *Nim) Players() int { return nimPlayers }

func (n *Nim) InitialState(participants []string) State {
	return NimState{Remaining: n.start, TurnIndex: 0}
}

func (n *Nim) ValidateMove(state State, participants []string, participant string, mv Move) error {
	s := state.(NimState)

	if participants[s.TurnIndex] != participant {
		return domain.ErrNotYourTurn
	}
	if mv.NumObjects < nimMinTake || mv.NumObjects > nimMaxTake {
		return fmt.Errorf("%w: must remove between %d and %d objects", domain.ErrInvalidMove, nimMinTake, nimMaxTake)
	}
	if mv.NumObjects > s.Remaining {
		return fmt.Errorf("%w: only %d objects remaining", domain.ErrInvalidMove, s.Remaining)
	}
	return nil
}

func (n *Nim) ApplyMove(state State, participants []string, participant string, mv Move) State {
	s := state.(NimState)
	return NimState{
		Remaining: s.Remaining - mv.NumObjects,
		TurnIndex: (s.TurnIndex + 1) % len(participants),
	}
}

func (n *Nim) IsTerminal(state State, participants []string) (bool, *Result) {
	s := state.(NimState)
	if s.Remaining > 0 {
		return false, nil
	}

	// The turn pointer has already advanced past the mover who emptied the
	// pile; under misère rules that mover is the loser.
	moverIndex := (s.TurnIndex - 1 + len(participants)) % len(participants)
	return true, &Result{
		Winner: participants[s.TurnIndex],
		Loser:  participants[moverIndex],
	}
}
