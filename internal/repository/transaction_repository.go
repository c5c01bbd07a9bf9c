package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	paymentDomain "github.com/drive-share/service-rental/internal/domain/payment"
	"github.com/drive-share/service-rental/pkg/domain"
)

// TransactionModel is the GORM model for the transactions table. The
// partial unique index on booking_id admits at most one completed
// transaction per booking.
type TransactionModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID   uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:ux_transactions_booking_completed,where:status = 'completed'"`
	FromUserID  uuid.UUID `gorm:"type:uuid;index;not null"`
	ToUserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	AmountCents int64     `gorm:"not null"`
	Status      string    `gorm:"not null;size:20"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (TransactionModel) TableName() string {
	return "transactions"
}

// GormTransactionRepository is the GORM-based implementation of payment.Repository.
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository.
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

var _ paymentDomain.Repository = (*GormTransactionRepository)(nil)

// FindByUserID retrieves transactions where the user is payer or payee, newest first.
func (r *GormTransactionRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*paymentDomain.Transaction, error) {
	var models []TransactionModel
	if err := r.db.WithContext(ctx).
		Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find user transactions: %w", err)
	}

	txns := make([]*paymentDomain.Transaction, len(models))
	for i, m := range models {
		txns[i] = toDomainTransaction(&m)
	}
	return txns, nil
}

// HasCompletedForBooking reports whether a completed transaction already exists
// for the booking.
func (r *GormTransactionRepository) HasCompletedForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&TransactionModel{}).
		Where("booking_id = ? AND status = ?", bookingID, string(paymentDomain.StatusCompleted)).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check booking payment: %w", err)
	}
	return count > 0, nil
}

// Save persists a new transaction.
func (r *GormTransactionRepository) Save(ctx context.Context, txn *paymentDomain.Transaction) error {
	model := &TransactionModel{
		ID:          txn.ID(),
		BookingID:   txn.BookingID(),
		FromUserID:  txn.FromUserID(),
		ToUserID:    txn.ToUserID(),
		AmountCents: txn.AmountCents(),
		Status:      string(txn.Status()),
		CreatedAt:   txn.CreatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("booking is already paid")
		}
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

func toDomainTransaction(m *TransactionModel) *paymentDomain.Transaction {
	return paymentDomain.ReconstructTransaction(
		m.ID, m.BookingID, m.FromUserID, m.ToUserID,
		m.AmountCents, paymentDomain.TransactionStatus(m.Status), m.CreatedAt,
	)
}
