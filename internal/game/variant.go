package game

import (
	"fmt"

	"github.com/nfrund/gameroom/internal/domain"
)

// Status describes where a session is in its lifecycle. Transitions are
// monotonic: WAITING -> IN_PROGRESS -> OVER, never backward.
type Status string

const (
	StatusWaiting    Status = "WAITING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusOver       Status = "OVER"
)

// Move is a participant-submitted action. The payload is game-specific;
// variants decide which fields matter.
type Move struct {
	NumObjects int `json:"numObjects"`
}

// Result records the outcome of a finished session.
type Result struct {
	Winner string `json:"winner,omitempty"`
	Loser  string `json:"loser,omitempty"`
	Draw   bool   `json:"draw,omitempty"`
}

// State is the opaque game-specific state blob held by a session. Concrete
// variants own its shape; everything else treats it as a value to snapshot
// and broadcast.
type State any

// Variant is the capability set a concrete game type must provide. The
// session machinery dispatches through this interface and is oblivious to
// which game is active; adding a game type means adding one implementation,
// not touching the dispatcher.
type Variant interface {
	// Type returns the tag stored on sessions of this game.
	Type() string

	// Players returns the exact participant count required before play
	// starts.
	Players() int

	// InitialState builds the starting state for the given ordered
	// participant list.
	InitialState(participants []string) State

	// ValidateMove checks a move against the current state without
	// mutating anything. Out-of-turn moves return domain.ErrNotYourTurn;
	// rule violations return domain.ErrInvalidMove (possibly wrapped).
	ValidateMove(state State, participants []string, participant string, mv Move) error

	// ApplyMove returns the state after a validated move. It must not
	// mutate the input state.
	ApplyMove(state State, participants []string, participant string, mv Move) State

	// IsTerminal reports whether the state ends the game, and if so the
	// result.
	IsTerminal(state State, participants []string) (bool, *Result)
}

// Variants is the lookup table from game type tag to implementation.
type Variants struct {
	byType map[string]Variant
}

// NewVariants builds a variant table from the given implementations.
func NewVariants(vs ...Variant) *Variants {
	byType := make(map[string]Variant, len(vs))
	for _, v := range vs {
		byType[v.Type()] = v
	}
	return &Variants{byType: byType}
}

// Get resolves a game type tag to its variant.
func (v *Variants) Get(tag string) (Variant, error) {
	variant, ok := v.byType[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownGameType, tag)
	}
	return variant, nil
}
