package game

import (
	"sync"

	"github.com/nfrund/gameroom/internal/domain"
)

// Registry is the process-wide table of active game sessions. It owns
// session lifecycle: idempotent creation, lookup, and removal of finished
// sessions. Game state lives only here, in memory; it is not persisted and
// does not survive a process restart.
type Registry struct {
	variants *Variants
	sessions sync.Map // id -> *Session
}

// NewRegistry creates an empty session registry over the given variants.
func NewRegistry(variants *Variants) *Registry {
	return &Registry{variants: variants}
}

// CreateOrGet returns the session for id, creating it with the given game
// type on first use. Creation is idempotent under concurrent first-join
// races: LoadOrStore guarantees exactly one instance wins for a given id.
func (r *Registry) CreateOrGet(gameType, id string) (*Session, error) {
	if existing, ok := r.sessions.Load(id); ok {
		return existing.(*Session), nil
	}

	variant, err := r.variants.Get(gameType)
	if err != nil {
		return nil, err
	}

	actual, _ := r.sessions.LoadOrStore(id, newSession(id, variant))
	return actual.(*Session), nil
}

// Get looks up an existing session.
func (r *Registry) Get(id string) (*Session, error) {
	existing, ok := r.sessions.Load(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return existing.(*Session), nil
}

// Remove reclaims a finished session. Removing an active session is an
// error; callers are responsible for only removing sessions with no
// remaining subscribers.
func (r *Registry) Remove(id string) error {
	existing, ok := r.sessions.Load(id)
	if !ok {
		return domain.ErrSessionNotFound
	}
	if existing.(*Session).Status() != StatusOver {
		return domain.ErrSessionActive
	}
	r.sessions.Delete(id)
	return nil
}

// Len reports the number of active sessions.
func (r *Registry) Len() int {
	n := 0
	r.sessions.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
