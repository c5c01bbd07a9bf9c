package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Topics this service publishes to and consumes from.
const (
	TopicBookingEvents      = "booking.events"
	TopicPaymentEvents      = "payment.events"
	TopicNotificationEvents = "notification.events"
)

// Event types carried on the domain topics.
const (
	BookingCreated   = "booking.created"
	BookingStatus    = "booking.status_changed"
	BookingCancelled = "booking.cancelled"
	PaymentCompleted = "payment.completed"
	ReviewCreated    = "review.created"
)

// NotificationType classifies an outbound user notification.
type NotificationType string

const (
	NotificationBooking NotificationType = "booking"
	NotificationPayment NotificationType = "payment"
	NotificationReview  NotificationType = "review"
	NotificationMessage NotificationType = "message"
)

// Notification is the outbound fact the core emits after a state change.
// Delivery fan-out belongs to the notification subsystem; the core only
// guarantees the emission.
type Notification struct {
	Type      NotificationType `json:"type"`
	UserID    uuid.UUID        `json:"user_id"`
	Message   string           `json:"message"`
	RelatedID uuid.UUID        `json:"related_id"`
	Timestamp time.Time        `json:"timestamp"`
}

// PaymentCompletedEvent announces a finished balance transfer.
type PaymentCompletedEvent struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	BookingID     uuid.UUID `json:"booking_id"`
	FromUserID    uuid.UUID `json:"from_user_id"`
	ToUserID      uuid.UUID `json:"to_user_id"`
	AmountCents   int64     `json:"amount_cents"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingCreatedEvent announces a new pending booking with its calendar hold.
type BookingCreatedEvent struct {
	BookingID       uuid.UUID `json:"booking_id"`
	CarID           uuid.UUID `json:"car_id"`
	OwnerID         uuid.UUID `json:"owner_id"`
	RenterID        uuid.UUID `json:"renter_id"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	TotalPriceCents int64     `json:"total_price_cents"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// Publisher is the single fan-out point the core's services call after a
// state change. Implementations must be safe to call with no listeners and
// must never fail the calling operation: publish errors are logged and
// swallowed.
type Publisher interface {
	// Emit sends a user-facing notification.
	Emit(ctx context.Context, n Notification)

	// EmitDomainEvent publishes a typed event to a domain topic.
	EmitDomainEvent(ctx context.Context, topic, eventType string, key string, data interface{})
}
