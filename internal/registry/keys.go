package registry

import (
	"github.com/surrealdb/surrealdb.go"

	"github.com/nfrund/gameroom/internal/broadcast"
	"github.com/nfrund/gameroom/internal/domain"
	"github.com/nfrund/gameroom/internal/game"
	"github.com/nfrund/gameroom/internal/membership"
	"github.com/nfrund/gameroom/internal/pubsub"
	"github.com/nfrund/gameroom/internal/websocket"
)

// Well-known service keys shared across modules. Using constants prevents
// typos in the wiring.
var (
	KeyDB         = Key[*surrealdb.DB]("core.db")
	KeyPublisher  = Key[pubsub.Publisher]("core.publisher")
	KeySubscriber = Key[pubsub.Subscriber]("core.subscriber")
	KeyRouter     = Key[*broadcast.Router]("core.router")
	KeyTracker    = Key[*membership.Tracker]("core.tracker")
	KeyBridge     = Key[*websocket.Bridge]("core.bridge")
	KeySessions   = Key[*game.Registry]("game.sessions")
	KeyChatRepo   = Key[domain.ChatRepository]("chat.repository")
	KeyUserRepo   = Key[domain.UserRepository]("users.repository")
)
