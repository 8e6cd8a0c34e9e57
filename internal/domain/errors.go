package domain

import "errors"

// Sentinel errors for the coordination core. These provide consistent,
// checkable errors for common business logic failures. Handlers map them
// to transport-level responses with errors.Is.
var (
	// Session registry / game engine.
	ErrSessionNotFound = errors.New("game session not found")
	ErrSessionFull     = errors.New("game session is full")
	ErrSessionActive   = errors.New("game session is still active")
	ErrGameNotStarted  = errors.New("game has not started yet")
	ErrGameOver        = errors.New("game is already over")
	ErrNotYourTurn     = errors.New("it is not your turn")
	ErrInvalidMove     = errors.New("invalid move")
	ErrUnknownGameType = errors.New("unknown game type")

	// Chat.
	ErrChatNotFound         = errors.New("chat not found")
	ErrDuplicateParticipant = errors.New("participant already in chat")
	ErrNotParticipant       = errors.New("sender is not a chat participant")

	// Users.
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user with this username already exists")
)
