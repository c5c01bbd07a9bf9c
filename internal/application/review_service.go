package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/drive-share/service-rental/internal/domain/booking"
	"github.com/drive-share/service-rental/internal/domain/review"
	"github.com/drive-share/service-rental/internal/events"
	"github.com/drive-share/service-rental/pkg/domain"
)

// AddReviewRequest holds the data needed to leave a review.
type AddReviewRequest struct {
	BookingID  uuid.UUID `json:"booking_id" binding:"required"`
	TargetID   uuid.UUID `json:"target_id" binding:"required"`
	TargetType string    `json:"target_type" binding:"required"`
	Rating     int       `json:"rating" binding:"required"`
	Comment    string    `json:"comment"`
}

// ReviewDTO is the response representation of a review.
type ReviewDTO struct {
	ID         uuid.UUID `json:"id"`
	BookingID  uuid.UUID `json:"booking_id"`
	ReviewerID uuid.UUID `json:"reviewer_id"`
	TargetID   uuid.UUID `json:"target_id"`
	TargetType string    `json:"target_type"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// RatingSink receives recomputed rating aggregates for car targets.
type RatingSink interface {
	UpdateRating(ctx context.Context, carID uuid.UUID, rating float64, reviewCount int) error
}

// ReviewService accepts reviews for completed bookings and keeps car rating
// aggregates current.
type ReviewService struct {
	reviews      review.Repository
	bookings     booking.Repository
	catalog      RatingSink
	publisher    events.Publisher
	logger       *zap.Logger
	bookingLocks *keyedMutex
}

// NewReviewService creates a ReviewService.
func NewReviewService(
	reviews review.Repository,
	bookings booking.Repository,
	catalog RatingSink,
	publisher events.Publisher,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:      reviews,
		bookings:     bookings,
		catalog:      catalog,
		publisher:    publisher,
		logger:       logger,
		bookingLocks: newKeyedMutex(),
	}
}

// AddReview records one review per (booking, role) pair. A car target
// triggers recomputation of the car's aggregate rating; a user target
// triggers a review notification to that user.
//
// The duplicate check and the save run inside one per-booking critical
// section so overlapping submissions for the same role cannot both land.
func (s *ReviewService) AddReview(ctx context.Context, reviewerID uuid.UUID, req AddReviewRequest) (*ReviewDTO, error) {
	targetType := review.TargetType(req.TargetType)

	rv, err := review.NewReview(req.BookingID, reviewerID, req.TargetID, targetType, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}

	if _, err := s.bookings.FindByID(ctx, req.BookingID); err != nil {
		return nil, err
	}

	unlock := s.bookingLocks.Lock(req.BookingID)
	defer unlock()

	exists, err := s.reviews.ExistsForBookingRole(ctx, req.BookingID, targetType)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing reviews: %w", err)
	}
	if exists {
		return nil, domain.NewDuplicateReviewError("a review already exists for this booking")
	}

	if err := s.reviews.Save(ctx, rv); err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	if targetType == review.TargetCar {
		if err := s.recomputeCarRating(ctx, req.TargetID); err != nil {
			s.logger.Error("failed to update car rating",
				zap.String("car_id", req.TargetID.String()),
				zap.Error(err),
			)
		}
	} else {
		s.publisher.Emit(ctx, events.Notification{
			Type:      events.NotificationReview,
			UserID:    req.TargetID,
			Message:   fmt.Sprintf("You received a new review with %d stars", req.Rating),
			RelatedID: rv.ID(),
			Timestamp: time.Now().UTC(),
		})
	}

	s.publisher.EmitDomainEvent(ctx, events.TopicBookingEvents, events.ReviewCreated, rv.ID().String(), map[string]interface{}{
		"review_id":  rv.ID(),
		"booking_id": req.BookingID,
		"target_id":  req.TargetID,
		"rating":     req.Rating,
	})

	dto := toReviewDTO(rv)
	return &dto, nil
}

// ListByTarget returns all reviews about a car or user.
func (s *ReviewService) ListByTarget(ctx context.Context, targetID uuid.UUID) ([]ReviewDTO, error) {
	reviews, err := s.reviews.FindByTargetID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	dtos := make([]ReviewDTO, len(reviews))
	for i, rv := range reviews {
		dtos[i] = toReviewDTO(rv)
	}
	return dtos, nil
}

func (s *ReviewService) recomputeCarRating(ctx context.Context, carID uuid.UUID) error {
	reviews, err := s.reviews.FindByTargetID(ctx, carID)
	if err != nil {
		return err
	}
	return s.catalog.UpdateRating(ctx, carID, review.AverageRating(reviews), len(reviews))
}

func toReviewDTO(rv *review.Review) ReviewDTO {
	return ReviewDTO{
		ID:         rv.ID(),
		BookingID:  rv.BookingID(),
		ReviewerID: rv.ReviewerID(),
		TargetID:   rv.TargetID(),
		TargetType: string(rv.TargetType()),
		Rating:     rv.Rating(),
		Comment:    rv.Comment(),
		CreatedAt:  rv.CreatedAt(),
	}
}
