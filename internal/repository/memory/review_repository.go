package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/drive-share/service-rental/internal/domain/review"
	"github.com/drive-share/service-rental/pkg/domain"
)

// ReviewRepository implements review.Repository over the shared store.
type ReviewRepository struct {
	store *Store
}

var _ review.Repository = (*ReviewRepository)(nil)

func (r *ReviewRepository) FindByTargetID(ctx context.Context, targetID uuid.UUID) ([]*review.Review, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var reviews []*review.Review
	for i := len(r.store.reviews) - 1; i >= 0; i-- {
		if r.store.reviews[i].TargetID == targetID {
			reviews = append(reviews, reviewFromRecord(r.store.reviews[i]))
		}
	}
	return reviews, nil
}

func (r *ReviewRepository) ExistsForBookingRole(ctx context.Context, bookingID uuid.UUID, targetType review.TargetType) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, rec := range r.store.reviews {
		if rec.BookingID == bookingID && rec.TargetType == string(targetType) {
			return true, nil
		}
	}
	return false, nil
}

func (r *ReviewRepository) Save(ctx context.Context, rv *review.Review) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, rec := range r.store.reviews {
		if rec.ID == rv.ID() {
			return domain.NewConflictError("review already exists")
		}
		// One review per (booking, target type), enforced under the write
		// lock as the backstop behind the service-level serialization.
		if rec.BookingID == rv.BookingID() && rec.TargetType == string(rv.TargetType()) {
			return domain.NewDuplicateReviewError("a review already exists for this booking")
		}
	}
	r.store.reviews = append(r.store.reviews, reviewToRecord(rv))
	return nil
}
