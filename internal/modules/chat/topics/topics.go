// Package topics defines the bus topics and event names owned by the chat
// module.
package topics

// ClientCommand is the single inbound topic for chat subscription commands.
const ClientCommand = "client.chat.command"

// Client event names accepted over the WebSocket.
const (
	EventJoinChat  = "joinChat"
	EventLeaveChat = "leaveChat"
)

// Outbound event names.
const (
	EventChatUpdate = "chatUpdate"
	EventChatError  = "chatError"
)

// Room returns the broadcast room key for a chat.
func Room(chatID string) string {
	return "chat:" + chatID
}
