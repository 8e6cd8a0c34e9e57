package game

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"

	enginepkg "github.com/nfrund/gameroom/internal/game"
	"github.com/nfrund/gameroom/internal/module"
	"github.com/nfrund/gameroom/internal/modules/game/topics"
	"github.com/nfrund/gameroom/internal/registry"
)

// Module wires the game engine into the application: session registry,
// command subscriber, WebSocket event routes, and HTTP handlers.
type Module struct {
	module.BaseModule
	cancel context.CancelFunc
}

// New creates the game module.
func New() *Module {
	return &Module{}
}

// Name returns the unique name for the module.
func (m *Module) Name() string { return "game" }

// Register creates the session registry and declares the module's inbound
// WebSocket events.
func (m *Module) Register(reg *registry.Registry) error {
	variants := enginepkg.NewVariants(
		enginepkg.NewNim(reg.Config().GetNimStartCount()),
	)
	sessions := enginepkg.NewRegistry(variants)
	registry.Set(reg, registry.KeySessions, sessions)

	bridge := registry.MustGet(reg, registry.KeyBridge)
	bridge.RegisterInbound(topics.EventJoinGame, topics.ClientCommand)
	bridge.RegisterInbound(topics.EventMakeMove, topics.ClientCommand)
	bridge.RegisterInbound(topics.EventLeaveGame, topics.ClientCommand)

	return nil
}

// Boot starts the command subscriber and registers HTTP routes.
func (m *Module) Boot(ctx context.Context, g *echo.Group, reg *registry.Registry) error {
	slog.Info("Booting game module")

	sub := registry.MustGet(reg, registry.KeySubscriber)
	router := registry.MustGet(reg, registry.KeyRouter)
	sessions := registry.MustGet(reg, registry.KeySessions)
	tracker := registry.MustGet(reg, registry.KeyTracker)

	subCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	if err := NewSubscriber(sub, router, sessions, tracker).Start(subCtx); err != nil {
		cancel()
		return err
	}

	handler := NewHandler(sessions)
	g.POST("/games", handler.CreateGame)
	g.GET("/games/:id", handler.GetGame)

	return nil
}

// Shutdown stops the command subscriber.
func (m *Module) Shutdown(ctx context.Context) error {
	if m.cancel != nil {
		m.cancel()
	}
	return nil
}
