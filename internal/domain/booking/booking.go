package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/drive-share/service-rental/pkg/domain"
)

// Booking is the aggregate root for a reservation of a car by a renter over
// a half-open date range [start, end).
type Booking struct {
	id              uuid.UUID
	carID           uuid.UUID
	renterID        uuid.UUID
	start           time.Time
	end             time.Time
	totalPriceCents int64
	status          Status
	cancelNote      string
	cancelledAt     *time.Time

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a Booking in pending state. The total price must
// already be computed (see CalculateTotalPrice); money does not move here.
func NewBooking(carID, renterID uuid.UUID, start, end time.Time, totalPriceCents int64) (*Booking, error) {
	if carID == uuid.Nil {
		return nil, domain.NewValidationError("car ID is required")
	}
	if renterID == uuid.Nil {
		return nil, domain.NewValidationError("renter ID is required")
	}
	if !start.Before(end) {
		return nil, domain.NewValidationError("end date must be after start date")
	}
	if totalPriceCents <= 0 {
		return nil, domain.NewValidationError("total price must be positive")
	}

	now := time.Now().UTC()
	return &Booking{
		id:              uuid.New(),
		carID:           carID,
		renterID:        renterID,
		start:           start.UTC(),
		end:             end.UTC(),
		totalPriceCents: totalPriceCents,
		status:          StatusPending,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id, carID, renterID uuid.UUID,
	start, end time.Time,
	totalPriceCents int64,
	status Status,
	cancelNote string,
	cancelledAt *time.Time,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		carID:           carID,
		renterID:        renterID,
		start:           start,
		end:             end,
		totalPriceCents: totalPriceCents,
		status:          status,
		cancelNote:      cancelNote,
		cancelledAt:     cancelledAt,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

func (b *Booking) ID() uuid.UUID          { return b.id }
func (b *Booking) CarID() uuid.UUID       { return b.carID }
func (b *Booking) RenterID() uuid.UUID    { return b.renterID }
func (b *Booking) Start() time.Time       { return b.start }
func (b *Booking) End() time.Time         { return b.end }
func (b *Booking) TotalPriceCents() int64 { return b.totalPriceCents }
func (b *Booking) Status() Status         { return b.status }
func (b *Booking) CancelNote() string     { return b.cancelNote }
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }
func (b *Booking) Version() int64         { return b.version }
func (b *Booking) CreatedAt() time.Time   { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time   { return b.updatedAt }

// --- Behavior ---

// TransitionTo moves the booking to target if the state machine allows it.
func (b *Booking) TransitionTo(target Status) error {
	if !target.IsValid() {
		return domain.NewValidationError("invalid booking status: " + string(target))
	}
	if !b.status.CanTransitionTo(target) {
		return domain.NewInvalidStateError(string(b.status), string(target))
	}
	b.status = target
	b.updatedAt = time.Now().UTC()
	return nil
}

// Confirm transitions the booking from pending to confirmed after payment.
func (b *Booking) Confirm() error {
	return b.TransitionTo(StatusConfirmed)
}

// Complete transitions the booking to its terminal completed state.
func (b *Booking) Complete() error {
	return b.TransitionTo(StatusCompleted)
}

// Cancel transitions the booking to cancelled if it is not terminal.
func (b *Booking) Cancel(reason string) error {
	if !b.status.CanBeCancelled() {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	now := time.Now().UTC()
	b.status = StatusCancelled
	b.cancelNote = reason
	b.cancelledAt = &now
	b.updatedAt = now
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
