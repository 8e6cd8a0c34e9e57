// Package topics defines the bus topics and event names owned by the game
// module.
package topics

import "strings"

// ClientCommand is the single inbound topic for all game commands. One
// topic means one consumer goroutine, so commands for a session are applied
// and their updates published in a deterministic order.
const ClientCommand = "client.game.command"

// Client event names accepted over the WebSocket.
const (
	EventJoinGame  = "joinGame"
	EventMakeMove  = "makeMove"
	EventLeaveGame = "leaveGame"
)

// Outbound event names.
const (
	EventGameUpdate = "gameUpdate"
	EventGameError  = "gameError"
)

// Room returns the broadcast room key for a game session. Game and chat
// rooms share the membership tracker, so keys are namespaced.
func Room(sessionID string) string {
	return roomPrefix + sessionID
}

// SessionID recovers the session ID from a room key, reporting false for
// rooms owned by other modules.
func SessionID(room string) (string, bool) {
	return strings.CutPrefix(room, roomPrefix)
}

const roomPrefix = "game:"
