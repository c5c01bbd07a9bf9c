package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/drive-share/service-rental/internal/domain/booking"
	"github.com/drive-share/service-rental/internal/domain/car"
	"github.com/drive-share/service-rental/internal/events"
	"github.com/drive-share/service-rental/pkg/domain"
)

// CatalogGateway is the slice of the catalog the booking engine talks to.
type CatalogGateway interface {
	GetCarForBooking(ctx context.Context, carID uuid.UUID) (ownerID uuid.UUID, priceCentsPerDay int64, err error)
	IsAvailable(ctx context.Context, carID uuid.UUID, rng car.DateRange) (bool, error)
	Reserve(ctx context.Context, carID, bookingID uuid.UUID, rng car.DateRange) error
	Release(ctx context.Context, carID, bookingID uuid.UUID) error
	CarIDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error)
}

// CreateBookingRequest holds the data needed to request a rental.
type CreateBookingRequest struct {
	CarID uuid.UUID `json:"car_id" binding:"required"`
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID              uuid.UUID  `json:"id"`
	CarID           uuid.UUID  `json:"car_id"`
	RenterID        uuid.UUID  `json:"renter_id"`
	Start           time.Time  `json:"start"`
	End             time.Time  `json:"end"`
	TotalPriceCents int64      `json:"total_price_cents"`
	Status          string     `json:"status"`
	CancelNote      string     `json:"cancel_note,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	Version         int64      `json:"version"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// BookingService is the sole writer of booking status. It orchestrates the
// catalog (availability check, calendar hold) around booking persistence.
type BookingService struct {
	repo      booking.Repository
	catalog   CatalogGateway
	publisher events.Publisher
	logger    *zap.Logger
	carLocks  *keyedMutex
	now       func() time.Time
}

// NewBookingService creates a BookingService.
func NewBookingService(
	repo booking.Repository,
	catalog CatalogGateway,
	publisher events.Publisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:      repo,
		catalog:   catalog,
		publisher: publisher,
		logger:    logger,
		carLocks:  newKeyedMutex(),
		now:       time.Now,
	}
}

// CreateBooking reserves a car for a renter over [start, end).
//
// The availability check, booking persistence and calendar hold run inside
// one per-car critical section, so the reservation is atomic with the
// booking: there is no window where a booking exists without its hold, and
// two racing requests for overlapping dates resolve to one success and one
// unavailable rejection. Payment is a separate, caller-sequenced step; an
// unpaid booking stays pending with its hold in place.
func (s *BookingService) CreateBooking(ctx context.Context, renterID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	rng, err := car.NewDateRange(req.Start, req.End)
	if err != nil {
		return nil, err
	}
	if rng.Start.Before(s.now().UTC().Truncate(24 * time.Hour)) {
		return nil, domain.NewValidationError("start date cannot be in the past")
	}

	ownerID, priceCentsPerDay, err := s.catalog.GetCarForBooking(ctx, req.CarID)
	if err != nil {
		return nil, err
	}
	if ownerID == renterID {
		return nil, domain.NewValidationError("cannot book your own car")
	}

	totalPriceCents, err := booking.CalculateTotalPrice(rng.Start, rng.End, priceCentsPerDay)
	if err != nil {
		return nil, err
	}

	unlock := s.carLocks.Lock(req.CarID)
	defer unlock()

	available, err := s.catalog.IsAvailable(ctx, req.CarID, rng)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, domain.NewUnavailableError("car is not available for the selected dates")
	}

	bk, err := booking.NewBooking(req.CarID, renterID, rng.Start, rng.End, totalPriceCents)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}
	if err := s.catalog.Reserve(ctx, req.CarID, bk.ID(), rng); err != nil {
		// The booking persisted but the hold did not. Surface this as its
		// own kind so the caller runs reconciliation instead of retrying.
		s.logger.Error("reservation failed after booking save",
			zap.String("booking_id", bk.ID().String()),
			zap.Error(err),
		)
		return nil, domain.NewInconsistentStateError("booking saved but calendar hold failed")
	}

	s.publisher.EmitDomainEvent(ctx, events.TopicBookingEvents, events.BookingCreated, bk.ID().String(), events.BookingCreatedEvent{
		BookingID:       bk.ID(),
		CarID:           req.CarID,
		OwnerID:         ownerID,
		RenterID:        renterID,
		Start:           rng.Start,
		End:             rng.End,
		TotalPriceCents: totalPriceCents,
		OccurredAt:      time.Now().UTC(),
	})
	s.publisher.Emit(ctx, events.Notification{
		Type:      events.NotificationBooking,
		UserID:    ownerID,
		Message:   "New booking request for your car",
		RelatedID: bk.ID(),
		Timestamp: time.Now().UTC(),
	})

	dto := toBookingDTO(bk)
	return &dto, nil
}

// UpdateStatus moves a booking to newStatus, enforcing the transition
// table. Illegal transitions (completed back to pending, cancelling a
// terminal booking) are rejected rather than overwritten.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID uuid.UUID, newStatus booking.Status) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.TransitionTo(newStatus); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publisher.EmitDomainEvent(ctx, events.TopicBookingEvents, events.BookingStatus, bk.ID().String(), map[string]interface{}{
		"booking_id": bk.ID(),
		"status":     string(newStatus),
	})
	s.publisher.Emit(ctx, events.Notification{
		Type:      events.NotificationBooking,
		UserID:    bk.RenterID(),
		Message:   "Your booking status has been updated to: " + string(newStatus),
		RelatedID: bk.ID(),
		Timestamp: time.Now().UTC(),
	})

	dto := toBookingDTO(bk)
	return &dto, nil
}

// ConfirmBooking marks a pending booking as paid. Called by the payment
// event consumer, or directly by the caller that sequenced the payment.
func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	return s.UpdateStatus(ctx, bookingID, booking.StatusConfirmed)
}

// CompleteBooking closes out a confirmed booking after the rental ends.
func (s *BookingService) CompleteBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	return s.UpdateStatus(ctx, bookingID, booking.StatusCompleted)
}

// CancelBooking cancels a non-terminal booking and releases its calendar
// hold so the slot becomes bookable again.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID uuid.UUID, reason string) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	unlock := s.carLocks.Lock(bk.CarID())
	defer unlock()

	if err := bk.Cancel(reason); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	if err := s.catalog.Release(ctx, bk.CarID(), bk.ID()); err != nil {
		s.logger.Error("failed to release calendar hold",
			zap.String("booking_id", bk.ID().String()),
			zap.Error(err),
		)
		return nil, domain.NewInconsistentStateError("booking cancelled but calendar hold not released")
	}

	s.publisher.EmitDomainEvent(ctx, events.TopicBookingEvents, events.BookingCancelled, bk.ID().String(), map[string]interface{}{
		"booking_id": bk.ID(),
		"reason":     reason,
	})
	s.publisher.Emit(ctx, events.Notification{
		Type:      events.NotificationBooking,
		UserID:    bk.RenterID(),
		Message:   "Your booking has been cancelled",
		RelatedID: bk.ID(),
		Timestamp: time.Now().UTC(),
	})

	dto := toBookingDTO(bk)
	return &dto, nil
}

// GetBooking retrieves a single booking.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	dto := toBookingDTO(bk)
	return &dto, nil
}

// GetBookingsForUser lists bookings from either side of the marketplace:
// as renter, bookings the user made; as owner, bookings on the user's cars.
func (s *BookingService) GetBookingsForUser(ctx context.Context, userID uuid.UUID, asRenter bool) ([]BookingDTO, error) {
	var (
		bookings []*booking.Booking
		err      error
	)
	if asRenter {
		bookings, err = s.repo.FindByRenterID(ctx, userID)
	} else {
		var carIDs []uuid.UUID
		carIDs, err = s.catalog.CarIDsByOwner(ctx, userID)
		if err == nil {
			bookings, err = s.repo.FindByCarIDs(ctx, carIDs)
		}
	}
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return &BookingStatsDTO{TotalBookings: total, ByStatus: counts}, nil
}

// --- Helpers ---

func toBookingDTO(bk *booking.Booking) BookingDTO {
	return BookingDTO{
		ID:              bk.ID(),
		CarID:           bk.CarID(),
		RenterID:        bk.RenterID(),
		Start:           bk.Start(),
		End:             bk.End(),
		TotalPriceCents: bk.TotalPriceCents(),
		Status:          string(bk.Status()),
		CancelNote:      bk.CancelNote(),
		CancelledAt:     bk.CancelledAt(),
		Version:         bk.Version(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
	}
}
