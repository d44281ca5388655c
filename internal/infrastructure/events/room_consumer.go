package events

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/domain"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/logging"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/messaging"
)

// roomConsumer turns broker events into audit log entries.
type roomConsumer struct {
	rabbitmq *messaging.RabbitMQ
	audit    domain.RoomAuditRepository
	logger   logging.Logger
}

func NewRoomConsumer(rabbitmq *messaging.RabbitMQ, audit domain.RoomAuditRepository, logger logging.Logger) *roomConsumer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &roomConsumer{
		rabbitmq: rabbitmq,
		audit:    audit,
		logger:   logger,
	}
}

func (c *roomConsumer) Listen() error {
	return c.rabbitmq.ConsumeMessages(messaging.RoomEventsQueue, func(ctx context.Context, msg amqp.Delivery) error {
		var envelope messaging.AmqpMessage
		if err := json.Unmarshal(msg.Body, &envelope); err != nil {
			c.logger.Error(logging.RabbitMQ, logging.ExternalService, "failed to unmarshal event", map[logging.ExtraKey]any{
				logging.ErrorMessage: err.Error(),
			})
			return err
		}

		eventType, metadata, err := c.decode(msg.RoutingKey, envelope.Data)
		if err != nil {
			c.logger.Error(logging.RabbitMQ, logging.ExternalService, "failed to decode event payload", map[logging.ExtraKey]any{
				logging.RoomCode:     envelope.RoomCode,
				logging.ErrorMessage: err.Error(),
			})
			return err
		}

		entry := domain.NewRoomAuditLog(envelope.RoomCode, eventType, metadata)
		entry.Timestamp = envelope.Timestamp

		return c.audit.Log(ctx, entry)
	})
}

func (c *roomConsumer) decode(routingKey string, data json.RawMessage) (domain.RoomEventType, map[string]any, error) {
	switch routingKey {
	case messaging.EventRoomCreated:
		var payload messaging.RoomCreatedData
		if err := json.Unmarshal(data, &payload); err != nil {
			return "", nil, err
		}
		return domain.EventRoomCreated, map[string]any{
			"hostName":        payload.HostName,
			"maxParticipants": payload.MaxParticipants,
			"timerEnabled":    payload.TimerEnabled,
			"timerDuration":   payload.TimerDuration,
		}, nil

	case messaging.EventBuzzerLocked:
		var payload messaging.BuzzerLockedData
		if err := json.Unmarshal(data, &payload); err != nil {
			return "", nil, err
		}
		return domain.EventBuzzerLocked, map[string]any{
			"round":      payload.Round,
			"playerName": payload.PlayerName,
			"teamName":   payload.TeamName,
			"buzzedAt":   payload.BuzzedAt,
		}, nil

	default:
		return domain.EventRoomClosed, nil, nil
	}
}
