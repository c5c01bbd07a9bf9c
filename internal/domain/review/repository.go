package review

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for reviews.
type Repository interface {
	// FindByTargetID retrieves reviews about a car or user, newest first.
	FindByTargetID(ctx context.Context, targetID uuid.UUID) ([]*Review, error)

	// ExistsForBookingRole reports whether a review already exists for the
	// (booking, target type) pair. Each party reviews once per booking.
	ExistsForBookingRole(ctx context.Context, bookingID uuid.UUID, targetType TargetType) (bool, error)

	// Save persists a new review.
	Save(ctx context.Context, rv *Review) error
}
