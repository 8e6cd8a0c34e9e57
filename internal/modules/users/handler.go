package users

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/gameroom/internal/broadcast"
	"github.com/nfrund/gameroom/internal/domain"
	"github.com/nfrund/gameroom/internal/handlers"
	"github.com/nfrund/gameroom/internal/modules/users/events"
)

// Handler exposes user creation and listing. Credential handling is an
// external concern; this surface only manages the identity records that
// games and chats reference.
type Handler struct {
	repo   domain.UserRepository
	router *broadcast.Router
}

// NewHandler creates a users HTTP handler.
func NewHandler(repo domain.UserRepository, router *broadcast.Router) *Handler {
	return &Handler{repo: repo, router: router}
}

// CreateUserRequest is the DTO for POST /users.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
}

// CreateUser persists a new user and announces it globally.
func (h *Handler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := handlers.BindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.repo.Create(ctx, &domain.User{Username: req.Username})
	if err != nil {
		return handlers.WriteError(c, err)
	}

	_ = h.router.Global(ctx, broadcast.Event{
		Event:   events.EventUserUpdate,
		Payload: events.UserUpdate{ChangeType: events.ChangeCreated, User: user},
	})
	return c.JSON(http.StatusCreated, user)
}

// ListUsers returns all users.
func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.repo.List(c.Request().Context())
	if err != nil {
		return handlers.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// DeleteUser removes a user and announces the deletion globally.
func (h *Handler) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	username := c.Param("username")

	user, err := h.repo.FindByUsername(ctx, username)
	if err != nil {
		return handlers.WriteError(c, err)
	}
	if err := h.repo.Delete(ctx, username); err != nil {
		return handlers.WriteError(c, err)
	}

	_ = h.router.Global(ctx, broadcast.Event{
		Event:   events.EventUserUpdate,
		Payload: events.UserUpdate{ChangeType: events.ChangeDeleted, User: user},
	})
	return c.NoContent(http.StatusNoContent)
}
