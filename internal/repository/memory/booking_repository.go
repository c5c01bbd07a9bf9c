package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/drive-share/service-rental/internal/domain/booking"
	"github.com/drive-share/service-rental/pkg/domain"
)

// BookingRepository implements booking.Repository over the shared store.
type BookingRepository struct {
	store *Store
}

var _ booking.Repository = (*BookingRepository)(nil)

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rec := r.store.findBooking(id)
	if rec == nil {
		return nil, domain.NewNotFoundError("booking", id.String())
	}
	return bookingFromRecord(rec), nil
}

func (r *BookingRepository) FindByRenterID(ctx context.Context, renterID uuid.UUID) ([]*booking.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var bookings []*booking.Booking
	// Records are appended in creation order; walk backwards for newest first.
	for i := len(r.store.bookings) - 1; i >= 0; i-- {
		if rec := r.store.bookings[i]; rec.RenterID == renterID {
			bookings = append(bookings, bookingFromRecord(rec))
		}
	}
	return bookings, nil
}

func (r *BookingRepository) FindByCarIDs(ctx context.Context, carIDs []uuid.UUID) ([]*booking.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	wanted := make(map[uuid.UUID]struct{}, len(carIDs))
	for _, id := range carIDs {
		wanted[id] = struct{}{}
	}

	var bookings []*booking.Booking
	for i := len(r.store.bookings) - 1; i >= 0; i-- {
		if _, ok := wanted[r.store.bookings[i].CarID]; ok {
			bookings = append(bookings, bookingFromRecord(r.store.bookings[i]))
		}
	}
	return bookings, nil
}

func (r *BookingRepository) ListAll(ctx context.Context, page, limit int) ([]*booking.Booking, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	total := int64(len(r.store.bookings))
	start := (page - 1) * limit
	if start >= len(r.store.bookings) {
		return nil, total, nil
	}

	var bookings []*booking.Booking
	for i := len(r.store.bookings) - 1 - start; i >= 0 && len(bookings) < limit; i-- {
		bookings = append(bookings, bookingFromRecord(r.store.bookings[i]))
	}
	return bookings, total, nil
}

func (r *BookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	counts := make(map[string]int64)
	for _, rec := range r.store.bookings {
		counts[rec.Status]++
	}
	return counts, nil
}

func (r *BookingRepository) Save(ctx context.Context, b *booking.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.findBooking(b.ID()) != nil {
		return domain.NewConflictError("booking already exists")
	}
	r.store.bookings = append(r.store.bookings, bookingToRecord(b))
	return nil
}

func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i, rec := range r.store.bookings {
		if rec.ID == b.ID() {
			if rec.Version != b.Version()-1 {
				return domain.NewConflictError("booking was modified concurrently")
			}
			r.store.bookings[i] = bookingToRecord(b)
			return nil
		}
	}
	return domain.NewNotFoundError("booking", b.ID().String())
}
