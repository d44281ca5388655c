package messaging

import (
	"encoding/json"
	"time"
)

const (
	RoomEventsQueue = "room_events"
	DeadLetterQueue = "dead_letter_queue"
)

// Routing keys for room lifecycle events.
const (
	EventRoomCreated  = "room.created"
	EventRoomClosed   = "room.closed"
	EventBuzzerLocked = "buzzer.locked"
)

// AmqpMessage is the broker envelope; Data carries the event payload.
type AmqpMessage struct {
	RoomCode  string          `json:"roomCode"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

type RoomCreatedData struct {
	RoomCode        string `json:"roomCode"`
	HostName        string `json:"hostName"`
	MaxParticipants int    `json:"maxParticipants"`
	TimerEnabled    bool   `json:"timerEnabled"`
	TimerDuration   int    `json:"timerDuration"`
}

type RoomClosedData struct {
	RoomCode string `json:"roomCode"`
}

type BuzzerLockedData struct {
	RoomCode   string `json:"roomCode"`
	Round      int    `json:"round"`
	PlayerName string `json:"playerName"`
	TeamName   string `json:"teamName,omitempty"`
	BuzzedAt   int64  `json:"buzzedAt"` // Unix ms
}
