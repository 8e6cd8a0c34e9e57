package game

import (
	"net/http"

	"github.com/labstack/echo/v4"

	enginepkg "github.com/nfrund/gameroom/internal/game"
	"github.com/nfrund/gameroom/internal/handlers"
)

// Handler exposes the HTTP surface for game sessions: explicit creation
// and snapshot reads. Gameplay itself happens over the WebSocket.
type Handler struct {
	sessions *enginepkg.Registry
}

// NewHandler creates a game HTTP handler.
func NewHandler(sessions *enginepkg.Registry) *Handler {
	return &Handler{sessions: sessions}
}

// CreateGameRequest is the DTO for POST /games.
type CreateGameRequest struct {
	ID   string `json:"id" validate:"required"`
	Type string `json:"type" validate:"required"`
}

// CreateGame creates (or idempotently returns) a session.
func (h *Handler) CreateGame(c echo.Context) error {
	var req CreateGameRequest
	if err := handlers.BindAndValidate(c, &req); err != nil {
		return err
	}

	session, err := h.sessions.CreateOrGet(req.Type, req.ID)
	if err != nil {
		return handlers.WriteError(c, err)
	}
	return c.JSON(http.StatusCreated, session.Snapshot())
}

// GetGame returns a session snapshot.
func (h *Handler) GetGame(c echo.Context) error {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		return handlers.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, session.Snapshot())
}
