package review

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/drive-share/service-rental/pkg/domain"
)

// TargetType discriminates what a review is about: the car itself (written
// by the renter) or the counter-party user (either direction).
type TargetType string

const (
	TargetCar  TargetType = "car"
	TargetUser TargetType = "user"
)

// IsValid reports whether t is a recognized target type.
func (t TargetType) IsValid() bool {
	return t == TargetCar || t == TargetUser
}

// Review is a rating plus comment left for a specific booking.
type Review struct {
	id         uuid.UUID
	bookingID  uuid.UUID
	reviewerID uuid.UUID
	targetID   uuid.UUID
	targetType TargetType
	rating     int
	comment    string
	createdAt  time.Time
}

// NewReview creates a validated Review. Ratings are whole stars from 1 to 5.
func NewReview(bookingID, reviewerID, targetID uuid.UUID, targetType TargetType, rating int, comment string) (*Review, error) {
	if bookingID == uuid.Nil {
		return nil, domain.NewValidationError("booking ID is required")
	}
	if reviewerID == uuid.Nil {
		return nil, domain.NewValidationError("reviewer ID is required")
	}
	if targetID == uuid.Nil {
		return nil, domain.NewValidationError("target ID is required")
	}
	if !targetType.IsValid() {
		return nil, domain.NewValidationError("target type must be car or user")
	}
	if rating < 1 || rating > 5 {
		return nil, domain.NewValidationError("rating must be between 1 and 5")
	}
	return &Review{
		id:         uuid.New(),
		bookingID:  bookingID,
		reviewerID: reviewerID,
		targetID:   targetID,
		targetType: targetType,
		rating:     rating,
		comment:    comment,
		createdAt:  time.Now().UTC(),
	}, nil
}

// ReconstructReview rebuilds a Review from persistence data.
func ReconstructReview(
	id, bookingID, reviewerID, targetID uuid.UUID,
	targetType TargetType,
	rating int,
	comment string,
	createdAt time.Time,
) *Review {
	return &Review{
		id:         id,
		bookingID:  bookingID,
		reviewerID: reviewerID,
		targetID:   targetID,
		targetType: targetType,
		rating:     rating,
		comment:    comment,
		createdAt:  createdAt,
	}
}

func (r *Review) ID() uuid.UUID          { return r.id }
func (r *Review) BookingID() uuid.UUID   { return r.bookingID }
func (r *Review) ReviewerID() uuid.UUID  { return r.reviewerID }
func (r *Review) TargetID() uuid.UUID    { return r.targetID }
func (r *Review) TargetType() TargetType { return r.targetType }
func (r *Review) Rating() int            { return r.rating }
func (r *Review) Comment() string        { return r.comment }
func (r *Review) CreatedAt() time.Time   { return r.createdAt }

// AverageRating computes the mean of ratings rounded to one decimal place,
// the precision the car listing displays.
func AverageRating(reviews []*Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum int
	for _, r := range reviews {
		sum += r.rating
	}
	mean := float64(sum) / float64(len(reviews))
	return math.Round(mean*10) / 10
}
