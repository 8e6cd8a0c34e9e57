package server

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/surrealdb/surrealdb.go"

	"github.com/nfrund/gameroom/internal/broadcast"
	"github.com/nfrund/gameroom/internal/config"
	"github.com/nfrund/gameroom/internal/database"
	"github.com/nfrund/gameroom/internal/domain"
	"github.com/nfrund/gameroom/internal/handlers"
	"github.com/nfrund/gameroom/internal/logging"
	"github.com/nfrund/gameroom/internal/membership"
	"github.com/nfrund/gameroom/internal/pubsub"
	"github.com/nfrund/gameroom/internal/registry"
	"github.com/nfrund/gameroom/internal/websocket"
)

// Server holds the shared infrastructure every module builds on: the HTTP
// engine, the database connection, the pub/sub bus, the membership tracker,
// and the WebSocket bridge. Each piece is constructed exactly once here and
// handed to modules through the registry; there are no ambient globals.
type Server struct {
	E        *echo.Echo
	DB       *surrealdb.DB
	Cfg      config.Provider
	Registry *registry.Registry

	bus     *pubsub.WatermillBridge
	tracker *membership.Tracker
	router  *broadcast.Router
	bridge  *websocket.Bridge
}

// New creates a fully wired Server instance.
func New() *Server {
	logging.New()

	cfg, err := config.New()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.NewDB(context.Background(), cfg)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	return NewWithDeps(cfg, db)
}

// NewWithDeps wires a Server around pre-built configuration and database
// handles. Integration tests use this to supply their own.
func NewWithDeps(cfg config.Provider, db *surrealdb.DB) *Server {
	bus := pubsub.NewWatermillBridge()
	tracker := membership.NewTracker()
	router := broadcast.NewRouter(bus)
	bridge := websocket.NewBridge(bus, tracker)

	reg := registry.New(cfg)
	registry.Set(reg, registry.KeyDB, db)
	registry.Set(reg, registry.KeyPublisher, pubsub.Publisher(bus))
	registry.Set(reg, registry.KeySubscriber, pubsub.Subscriber(bus))
	registry.Set(reg, registry.KeyRouter, router)
	registry.Set(reg, registry.KeyTracker, tracker)
	registry.Set(reg, registry.KeyBridge, bridge)
	registry.Set(reg, registry.KeyChatRepo, domain.ChatRepository(database.NewChatStore(db)))
	registry.Set(reg, registry.KeyUserRepo, domain.UserRepository(database.NewUserStore(db)))

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Validator = handlers.NewValidator()

	return &Server{
		E:        e,
		DB:       db,
		Cfg:      cfg,
		Registry: reg,
		bus:      bus,
		tracker:  tracker,
		router:   router,
		bridge:   bridge,
	}
}

// Bridge exposes the WebSocket bridge, useful for testing.
func (s *Server) Bridge() *websocket.Bridge { return s.bridge }

// Tracker exposes the membership tracker, useful for testing.
func (s *Server) Tracker() *membership.Tracker { return s.tracker }
