// Package membership tracks which live connections are subscribed to which
// session or chat rooms. The tracker is the sole source of truth for "who
// currently receives updates for this room"; entries are never persisted
// and are rebuilt from explicit join events each connection lifetime.
package membership

import "sync"

// Tracker maintains the many-to-many subscription edges between connection
// IDs and room IDs. All operations are atomic with respect to concurrent
// joins and leaves, so a join racing a broadcast never produces a lost
// update or a duplicate delivery.
type Tracker struct {
	mu    sync.RWMutex
	rooms map[string]map[string]struct{} // roomID -> set of connIDs
	conns map[string]map[string]struct{} // connID -> set of roomIDs
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		rooms: make(map[string]map[string]struct{}),
		conns: make(map[string]map[string]struct{}),
	}
}

// Join subscribes a connection to a room. Joining twice is a no-op.
func (t *Tracker) Join(connID, roomID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.rooms[roomID] == nil {
		t.rooms[roomID] = make(map[string]struct{})
	}
	t.rooms[roomID][connID] = struct{}{}

	if t.conns[connID] == nil {
		t.conns[connID] = make(map[string]struct{})
	}
	t.conns[connID][roomID] = struct{}{}
}

// Leave removes a connection's subscription to a room. Leaving a room the
// connection is not in is a no-op.
func (t *Tracker) Leave(connID, roomID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.leaveLocked(connID, roomID)
}

// LeaveAll removes every subscription held by a connection and returns the
// rooms it left. It is invoked synchronously with connection teardown so no
// later broadcast attempts delivery to a dead connection.
func (t *Tracker) LeaveAll(connID string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	left := make([]string, 0, len(t.conns[connID]))
	for roomID := range t.conns[connID] {
		left = append(left, roomID)
		t.leaveLocked(connID, roomID)
	}
	return left
}

// Subscribers returns the connections currently subscribed to a room.
func (t *Tracker) Subscribers(roomID string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	subs := make([]string, 0, len(t.rooms[roomID]))
	for connID := range t.rooms[roomID] {
		subs = append(subs, connID)
	}
	return subs
}

// IsSubscribed reports whether a connection is subscribed to a room.
func (t *Tracker) IsSubscribed(connID, roomID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.conns[connID][roomID]
	return ok
}

// Count returns the number of subscribers for a room.
func (t *Tracker) Count(roomID string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rooms[roomID])
}

func (t *Tracker) leaveLocked(connID, roomID string) {
	if set, ok := t.rooms[roomID]; ok {
		delete(set, connID)
		if len(set) == 0 {
			delete(t.rooms, roomID)
		}
	}
	if set, ok := t.conns[connID]; ok {
		delete(set, roomID)
		if len(set) == 0 {
			delete(t.conns, connID)
		}
	}
}
