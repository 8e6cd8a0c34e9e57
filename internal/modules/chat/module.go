package chat

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/gameroom/internal/module"
	"github.com/nfrund/gameroom/internal/modules/chat/topics"
	"github.com/nfrund/gameroom/internal/registry"
)

// Module wires the chat append log into the application.
type Module struct {
	module.BaseModule
	cancel context.CancelFunc
}

// New creates the chat module.
func New() *Module {
	return &Module{}
}

// Name returns the unique name for the module.
func (m *Module) Name() string { return "chat" }

// Register declares the module's inbound WebSocket events.
func (m *Module) Register(reg *registry.Registry) error {
	bridge := registry.MustGet(reg, registry.KeyBridge)
	bridge.RegisterInbound(topics.EventJoinChat, topics.ClientCommand)
	bridge.RegisterInbound(topics.EventLeaveChat, topics.ClientCommand)
	return nil
}

// Boot starts the subscription-command subscriber and registers the HTTP
// routes.
func (m *Module) Boot(ctx context.Context, g *echo.Group, reg *registry.Registry) error {
	slog.Info("Booting chat module")

	sub := registry.MustGet(reg, registry.KeySubscriber)
	router := registry.MustGet(reg, registry.KeyRouter)
	repo := registry.MustGet(reg, registry.KeyChatRepo)
	tracker := registry.MustGet(reg, registry.KeyTracker)

	subCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	if err := NewSubscriber(sub, router, repo, tracker).Start(subCtx); err != nil {
		cancel()
		return err
	}

	service := NewService(repo, router, Config{
		ImplicitJoin: reg.Config().GetChatImplicitJoin(),
	})
	handler := NewHandler(service)

	g.POST("/chats", handler.CreateChat)
	g.GET("/chats", handler.ListChats)
	g.GET("/chats/:id", handler.GetChat)
	g.POST("/chats/:id/messages", handler.AddMessage)
	g.POST("/chats/:id/participants", handler.AddParticipant)

	return nil
}

// Shutdown stops the command subscriber.
func (m *Module) Shutdown(ctx context.Context) error {
	if m.cancel != nil {
		m.cancel()
	}
	return nil
}
