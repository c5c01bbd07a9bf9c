package events

import (
	"context"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/drive-share/service-rental/pkg/kafkax"
)

// ConfirmBookingFunc marks a booking as paid. Wired to the booking
// service's ConfirmBooking at startup; a named function type keeps this
// package free of a dependency on the application layer.
type ConfirmBookingFunc func(ctx context.Context, bookingID uuid.UUID) error

// PaymentEventConsumer listens to payment events and confirms the paid
// booking, closing the loop between the ledger and the booking engine.
type PaymentEventConsumer struct {
	consumer *kafkax.Consumer
	confirm  ConfirmBookingFunc
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a PaymentEventConsumer.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	confirm ConfirmBookingFunc,
	logger *zap.Logger,
) *PaymentEventConsumer {
	consumer := kafkax.NewConsumer(brokers, groupID, TopicPaymentEvents, logger)
	return &PaymentEventConsumer{
		consumer: consumer,
		confirm:  confirm,
		logger:   logger,
	}
}

// Start begins consuming payment events. This blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	ce, err := kafkax.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch ce.Type {
	case PaymentCompleted:
		return c.handlePaymentCompleted(ctx, ce)
	default:
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", ce.Type),
		)
		return nil
	}
}

func (c *PaymentEventConsumer) handlePaymentCompleted(ctx context.Context, ce kafkax.CloudEvent) error {
	var evt PaymentCompletedEvent
	if err := ce.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse PaymentCompletedEvent data", zap.Error(err))
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing payment completed event",
		zap.String("booking_id", evt.BookingID.String()),
		zap.String("transaction_id", evt.TransactionID.String()),
	)

	if err := c.confirm(ctx, evt.BookingID); err != nil {
		c.logger.Error("failed to confirm booking after payment",
			zap.String("booking_id", evt.BookingID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}
