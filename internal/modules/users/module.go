package users

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/gameroom/internal/module"
	"github.com/nfrund/gameroom/internal/registry"
)

// Module wires the user identity surface into the application.
type Module struct {
	module.BaseModule
}

// New creates the users module.
func New() *Module {
	return &Module{}
}

// Name returns the unique name for the module.
func (m *Module) Name() string { return "users" }

// Boot registers the HTTP routes.
func (m *Module) Boot(ctx context.Context, g *echo.Group, reg *registry.Registry) error {
	slog.Info("Booting users module")

	repo := registry.MustGet(reg, registry.KeyUserRepo)
	router := registry.MustGet(reg, registry.KeyRouter)
	handler := NewHandler(repo, router)

	g.POST("/users", handler.CreateUser)
	g.GET("/users", handler.ListUsers)
	g.DELETE("/users/:username", handler.DeleteUser)

	return nil
}
