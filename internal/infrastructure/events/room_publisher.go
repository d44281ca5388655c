package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/domain"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/logging"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/messaging"
)

const publishTimeout = 3 * time.Second

// RoomPublisher pushes room lifecycle events onto the broker. Publishing
// happens on its own goroutine; the game engine never waits on the broker.
type RoomPublisher struct {
	rabbitmq *messaging.RabbitMQ
	logger   logging.Logger
}

func NewRoomPublisher(rabbitmq *messaging.RabbitMQ, logger logging.Logger) *RoomPublisher {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &RoomPublisher{
		rabbitmq: rabbitmq,
		logger:   logger,
	}
}

func (p *RoomPublisher) RoomCreated(room *domain.Room) {
	p.publish(messaging.EventRoomCreated, room.Code, messaging.RoomCreatedData{
		RoomCode:        room.Code,
		HostName:        room.HostName,
		MaxParticipants: room.MaxParticipants,
		TimerEnabled:    room.TimerEnabled,
		TimerDuration:   room.TimerDuration,
	})
}

func (p *RoomPublisher) RoomClosed(roomCode string) {
	p.publish(messaging.EventRoomClosed, roomCode, messaging.RoomClosedData{
		RoomCode: roomCode,
	})
}

func (p *RoomPublisher) BuzzerLocked(roomCode string, round int, result *domain.BuzzResult) {
	p.publish(messaging.EventBuzzerLocked, roomCode, messaging.BuzzerLockedData{
		RoomCode:   roomCode,
		Round:      round,
		PlayerName: result.PlayerName,
		TeamName:   result.TeamName,
		BuzzedAt:   result.Timestamp,
	})
}

func (p *RoomPublisher) publish(routingKey, roomCode string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error(logging.RabbitMQ, logging.ExternalService, "failed to marshal event", map[logging.ExtraKey]any{
			logging.RoomCode:     roomCode,
			logging.ErrorMessage: err.Error(),
		})
		return
	}

	msg := messaging.AmqpMessage{
		RoomCode:  roomCode,
		Timestamp: time.Now(),
		Data:      data,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := p.rabbitmq.PublishMessage(ctx, routingKey, msg); err != nil {
			p.logger.Error(logging.RabbitMQ, logging.ExternalService, "failed to publish event", map[logging.ExtraKey]any{
				logging.RoomCode:     roomCode,
				logging.ErrorMessage: err.Error(),
			})
		}
	}()
}
