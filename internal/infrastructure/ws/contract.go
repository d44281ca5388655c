package ws

import (
	"encoding/json"

	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/domain"
)

// Message is the outbound envelope fanned out to room members.
type Message struct {
	Type string `json:"type"`
	Room string `json:"room,omitempty"`
	Data any    `json:"data,omitempty"`
}

// Envelope is the inbound frame before its payload is decoded.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Payload structs
type PlayerLeftPayload struct {
	PlayerID string `json:"playerId"`
}

type TimerPayload struct {
	SecondsLeft int `json:"secondsLeft"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func NewRoomCreated(room *domain.Room) *Message {
	return &Message{
		Type: RoomCreated,
		Room: room.Code,
		Data: room,
	}
}

func NewRoomUpdate(room *domain.Room) *Message {
	return &Message{
		Type: RoomUpdate,
		Room: room.Code,
		Data: room,
	}
}

func NewPlayerJoined(roomCode string, player *domain.Player) *Message {
	return &Message{
		Type: PlayerJoined,
		Room: roomCode,
		Data: player,
	}
}

func NewPlayerLeft(roomCode, playerID string) *Message {
	return &Message{
		Type: PlayerLeft,
		Room: roomCode,
		Data: PlayerLeftPayload{PlayerID: playerID},
	}
}

func NewGameStarted(roomCode string) *Message {
	return &Message{
		Type: GameStarted,
		Room: roomCode,
	}
}

func NewBuzzerLocked(roomCode string, result *domain.BuzzResult) *Message {
	return &Message{
		Type: BuzzerLocked,
		Room: roomCode,
		Data: result,
	}
}

func NewBuzzerReset(roomCode string) *Message {
	return &Message{
		Type: BuzzerReset,
		Room: roomCode,
	}
}

func NewTimerUpdate(roomCode string, secondsLeft int) *Message {
	return &Message{
		Type: TimerUpdate,
		Room: roomCode,
		Data: TimerPayload{SecondsLeft: secondsLeft},
	}
}

func NewTimerExpired(roomCode string) *Message {
	return &Message{
		Type: TimerExpired,
		Room: roomCode,
	}
}

func NewRoomClosed(roomCode string) *Message {
	return &Message{
		Type: RoomClosed,
		Room: roomCode,
	}
}

func NewError(message string) *Message {
	return &Message{
		Type: ErrorEvent,
		Data: ErrorPayload{Message: message},
	}
}
