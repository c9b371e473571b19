package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/SAP-F-2025/attendance-service/internal/models"
)

// NotificationEvent is the payload published to the event bus whenever
// a notification row is created. Downstream consumers (mobile push,
// digest batching) subscribe to the topic; this service only publishes.
type NotificationEvent struct {
	EventID    string                  `json:"event_id"`
	UserID     uint                    `json:"user_id"`
	CourseID   *uint                   `json:"course_id,omitempty"`
	Type       models.NotificationType `json:"type"`
	Title      string                  `json:"title"`
	Message    string                  `json:"message"`
	OccurredAt time.Time               `json:"occurred_at"`
}

// EventPublisher publishes notification events. Publishing is
// best-effort: the notification row is the source of truth.
type EventPublisher interface {
	PublishNotification(event *NotificationEvent) error
	Close() error
}

// ===== KAFKA PUBLISHER =====

type kafkaEventPublisher struct {
	publisher message.Publisher
	topic     string
	logger    *slog.Logger
}

// NewKafkaEventPublisher creates a watermill Kafka publisher.
func NewKafkaEventPublisher(brokers []string, topic string, logger *slog.Logger) (EventPublisher, error) {
	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	return &kafkaEventPublisher{
		publisher: publisher,
		topic:     topic,
		logger:    logger,
	}, nil
}

func (p *kafkaEventPublisher) PublishNotification(event *NotificationEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal notification event: %w", err)
	}

	msg := message.NewMessage(event.EventID, payload)
	msg.Metadata.Set("type", string(event.Type))

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish notification event: %w", err)
	}

	p.logger.Debug("published notification event",
		"event_id", event.EventID,
		"type", event.Type,
		"user_id", event.UserID)

	return nil
}

func (p *kafkaEventPublisher) Close() error {
	return p.publisher.Close()
}

// ===== NO-OP PUBLISHER =====

// NewNoopEventPublisher returns a publisher that drops events. Used
// when no brokers are configured.
func NewNoopEventPublisher() EventPublisher {
	return noopEventPublisher{}
}

type noopEventPublisher struct{}

func (noopEventPublisher) PublishNotification(*NotificationEvent) error { return nil }
func (noopEventPublisher) Close() error                                 { return nil }
