package events

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/drive-share/service-rental/pkg/kafkax"
)

const eventSource = "service-rental"

// KafkaPublisher publishes notifications and domain events to Kafka wrapped
// in cloud events.
type KafkaPublisher struct {
	producer *kafkax.Producer
	logger   *zap.Logger
}

// NewKafkaPublisher creates a KafkaPublisher over the given producer.
func NewKafkaPublisher(producer *kafkax.Producer, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, logger: logger}
}

// Emit publishes a user notification to the notification topic.
func (p *KafkaPublisher) Emit(ctx context.Context, n Notification) {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now().UTC()
	}
	p.EmitDomainEvent(ctx, TopicNotificationEvents, "notification."+string(n.Type), n.UserID.String(), n)
}

// EmitDomainEvent publishes a typed event. Failures are logged, never
// surfaced: an undelivered event must not fail the state change it reports.
func (p *KafkaPublisher) EmitDomainEvent(ctx context.Context, topic, eventType, key string, data interface{}) {
	ce, err := kafkax.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		p.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	if err := p.producer.Publish(ctx, topic, key, ce); err != nil {
		p.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

// NopPublisher drops every event. Used when no notification subsystem is
// wired, which must be a safe configuration.
type NopPublisher struct{}

func (NopPublisher) Emit(context.Context, Notification) {}

func (NopPublisher) EmitDomainEvent(context.Context, string, string, string, interface{}) {}
