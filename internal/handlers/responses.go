package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/gameroom/internal/domain"
)

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusFor maps a domain error to an HTTP status code. Rule violations and
// validation failures are the caller's fault (400), unknown resources are
// 404, anything else is treated as an internal failure (500).
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrChatNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSessionFull),
		errors.Is(err, domain.ErrNotYourTurn),
		errors.Is(err, domain.ErrInvalidMove),
		errors.Is(err, domain.ErrGameNotStarted),
		errors.Is(err, domain.ErrGameOver),
		errors.Is(err, domain.ErrUnknownGameType),
		errors.Is(err, domain.ErrDuplicateParticipant),
		errors.Is(err, domain.ErrNotParticipant),
		errors.Is(err, domain.ErrUserAlreadyExists),
		errors.Is(err, domain.ErrSessionActive):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders a domain error as a JSON response. Internal failures
// are wrapped rather than replaced, so the caller sees that the operation
// failed internally along with the cause; domain errors pass through as-is.
func WriteError(c echo.Context, err error) error {
	status := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = fmt.Sprintf("internal error: %v", err)
	}
	return c.JSON(status, ErrorResponse{Error: msg})
}
