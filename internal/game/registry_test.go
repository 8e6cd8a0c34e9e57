package game

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/gameroom/internal/domain"
)

func newTestRegistry() *Registry {
	return NewRegistry(NewVariants(NewNim(7)))
}

func TestRegistry_CreateOrGetIdempotent(t *testing.T) {
	reg := newTestRegistry()

	first, err := reg.CreateOrGet(NimType, "g1")
	require.NoError(t, err)
	second, err := reg.CreateOrGet(NimType, "g1")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_UnknownGameType(t *testing.T) {
	reg := newTestRegistry()

	_, err := reg.CreateOrGet("checkers", "g1")
	assert.ErrorIs(t, err, domain.ErrUnknownGameType)
}

func TestRegistry_GetUnknown(t *testing.T) {
	reg := newTestRegistry()

	_, err := reg.Get("nope")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

// Two simultaneous create requests for the same id must yield exactly one
// session instance.
func TestRegistry_ConcurrentCreate(t *testing.T) {
	reg := newTestRegistry()

	const goroutines = 32
	sessions := make([]*Session, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := reg.CreateOrGet(NimType, "shared")
			require.NoError(t, err)
			sessions[i] = s
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		assert.Same(t, sessions[0], sessions[i], fmt.Sprintf("goroutine %d got a different instance", i))
	}
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_RemoveOnlyFinishedSessions(t *testing.T) {
	reg := newTestRegistry()

	s, err := reg.CreateOrGet(NimType, "g1")
	require.NoError(t, err)

	assert.ErrorIs(t, reg.Remove("g1"), domain.ErrSessionActive)
	assert.ErrorIs(t, reg.Remove("missing"), domain.ErrSessionNotFound)

	_, _ = s.Join("p1")
	_, _ = s.Join("p2")
	for _, mv := range []int{3, 3, 1} {
		snap := s.Snapshot()
		state := snap.State.(NimState)
		_, err := s.Apply(snap.Participants[state.TurnIndex], Move{NumObjects: mv})
		require.NoError(t, err)
	}
	require.Equal(t, StatusOver, s.Status())

	require.NoError(t, reg.Remove("g1"))
	_, err = reg.Get("g1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
