package payment

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for transaction records.
type Repository interface {
	// FindByUserID retrieves transactions where the user is payer or payee,
	// newest first.
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*Transaction, error)

	// HasCompletedForBooking reports whether a completed transaction already
	// exists for the booking.
	HasCompletedForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error)

	// Save persists a new transaction. Completed transactions are never
	// updated afterwards.
	Save(ctx context.Context, txn *Transaction) error
}
