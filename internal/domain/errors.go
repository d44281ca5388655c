package domain

import "errors"

var (
	ErrRoomNotFound            = errors.New("room not found")
	ErrRoomFull                = errors.New("room is full")
	ErrRoomClosed              = errors.New("room is closed")
	ErrNotHost                 = errors.New("only the host can do that")
	ErrGameAlreadyStarted      = errors.New("game has already started")
	ErrPlayerNotFound          = errors.New("player not found")
	ErrCodeGenerationExhausted = errors.New("could not generate a unique room code")
	ErrInvalidInput            = errors.New("invalid input")
)
