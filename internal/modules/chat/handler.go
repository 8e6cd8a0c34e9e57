package chat

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/gameroom/internal/domain"
	"github.com/nfrund/gameroom/internal/handlers"
)

// Handler exposes the chat HTTP surface: creation, reads, message appends,
// and participant management.
type Handler struct {
	service Service
}

// NewHandler creates a chat HTTP handler.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateChatRequest is the DTO for POST /chats.
type CreateChatRequest struct {
	Name         string   `json:"name" validate:"required"`
	Participants []string `json:"participants" validate:"dive,required"`
}

// AddMessageRequest is the DTO for POST /chats/:id/messages.
type AddMessageRequest struct {
	Sender string `json:"sender" validate:"required"`
	Body   string `json:"body" validate:"required"`
}

// AddParticipantRequest is the DTO for POST /chats/:id/participants.
type AddParticipantRequest struct {
	Username string `json:"username" validate:"required"`
}

// ChatResponse bundles a chat with its message log for reads.
type ChatResponse struct {
	Chat     *domain.Chat          `json:"chat"`
	Messages []*domain.ChatMessage `json:"messages,omitempty"`
}

// CreateChat creates a new chat.
func (h *Handler) CreateChat(c echo.Context) error {
	var req CreateChatRequest
	if err := handlers.BindAndValidate(c, &req); err != nil {
		return err
	}

	chat, err := h.service.Create(c.Request().Context(), req.Name, req.Participants)
	if err != nil {
		return handlers.WriteError(c, err)
	}
	return c.JSON(http.StatusCreated, ChatResponse{Chat: chat})
}

// GetChat returns a chat and its messages.
func (h *Handler) GetChat(c echo.Context) error {
	chat, messages, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handlers.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, ChatResponse{Chat: chat, Messages: messages})
}

// ListChats returns all chats.
func (h *Handler) ListChats(c echo.Context) error {
	chats, err := h.service.List(c.Request().Context())
	if err != nil {
		return handlers.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, chats)
}

// AddMessage appends a message to a chat's log.
func (h *Handler) AddMessage(c echo.Context) error {
	var req AddMessageRequest
	if err := handlers.BindAndValidate(c, &req); err != nil {
		return err
	}

	msg, err := h.service.Append(c.Request().Context(), c.Param("id"), req.Sender, req.Body)
	if err != nil {
		return handlers.WriteError(c, err)
	}
	return c.JSON(http.StatusCreated, msg)
}

// AddParticipant adds a participant to a chat.
func (h *Handler) AddParticipant(c echo.Context) error {
	var req AddParticipantRequest
	if err := handlers.BindAndValidate(c, &req); err != nil {
		return err
	}

	chat, err := h.service.AddParticipant(c.Request().Context(), c.Param("id"), req.Username)
	if err != nil {
		return handlers.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, ChatResponse{Chat: chat})
}
