package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	reviewDomain "github.com/drive-share/service-rental/internal/domain/review"
	"github.com/drive-share/service-rental/pkg/domain"
)

// ReviewModel is the GORM model for the reviews table.
type ReviewModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID  uuid.UUID `gorm:"type:uuid;index:idx_reviews_booking_role,unique;not null"`
	ReviewerID uuid.UUID `gorm:"type:uuid;index;not null"`
	TargetID   uuid.UUID `gorm:"type:uuid;index;not null"`
	TargetType string    `gorm:"size:10;index:idx_reviews_booking_role,unique;not null"`
	Rating     int       `gorm:"not null"`
	Comment    string    `gorm:"size:2000"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ReviewModel) TableName() string {
	return "reviews"
}

// GormReviewRepository is the GORM-based implementation of review.Repository.
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository.
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

var _ reviewDomain.Repository = (*GormReviewRepository)(nil)

// FindByTargetID retrieves reviews about a car or user, newest first.
func (r *GormReviewRepository) FindByTargetID(ctx context.Context, targetID uuid.UUID) ([]*reviewDomain.Review, error) {
	var models []ReviewModel
	if err := r.db.WithContext(ctx).
		Where("target_id = ?", targetID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}

	reviews := make([]*reviewDomain.Review, len(models))
	for i, m := range models {
		reviews[i] = toDomainReview(&m)
	}
	return reviews, nil
}

// ExistsForBookingRole reports whether a review already exists for the
// (booking, target type) pair.
func (r *GormReviewRepository) ExistsForBookingRole(ctx context.Context, bookingID uuid.UUID, targetType reviewDomain.TargetType) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ReviewModel{}).
		Where("booking_id = ? AND target_type = ?", bookingID, string(targetType)).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check existing review: %w", err)
	}
	return count > 0, nil
}

// Save persists a new review.
func (r *GormReviewRepository) Save(ctx context.Context, rv *reviewDomain.Review) error {
	model := &ReviewModel{
		ID:         rv.ID(),
		BookingID:  rv.BookingID(),
		ReviewerID: rv.ReviewerID(),
		TargetID:   rv.TargetID(),
		TargetType: string(rv.TargetType()),
		Rating:     rv.Rating(),
		Comment:    rv.Comment(),
		CreatedAt:  rv.CreatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewDuplicateReviewError("a review already exists for this booking")
		}
		return fmt.Errorf("failed to save review: %w", err)
	}
	return nil
}

func toDomainReview(m *ReviewModel) *reviewDomain.Review {
	return reviewDomain.ReconstructReview(
		m.ID, m.BookingID, m.ReviewerID, m.TargetID,
		reviewDomain.TargetType(m.TargetType), m.Rating, m.Comment, m.CreatedAt,
	)
}
