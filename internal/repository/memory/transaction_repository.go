package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/drive-share/service-rental/internal/domain/payment"
	"github.com/drive-share/service-rental/pkg/domain"
)

// TransactionRepository implements payment.Repository over the shared store.
type TransactionRepository struct {
	store *Store
}

var _ payment.Repository = (*TransactionRepository)(nil)

func (r *TransactionRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*payment.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var txns []*payment.Transaction
	for i := len(r.store.transactions) - 1; i >= 0; i-- {
		rec := r.store.transactions[i]
		if rec.FromUserID == userID || rec.ToUserID == userID {
			txns = append(txns, transactionFromRecord(rec))
		}
	}
	return txns, nil
}

func (r *TransactionRepository) HasCompletedForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, rec := range r.store.transactions {
		if rec.BookingID == bookingID && rec.Status == string(payment.StatusCompleted) {
			return true, nil
		}
	}
	return false, nil
}

func (r *TransactionRepository) Save(ctx context.Context, txn *payment.Transaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, rec := range r.store.transactions {
		if rec.ID == txn.ID() {
			return domain.NewConflictError("transaction already exists")
		}
		// One completed transaction per booking, enforced under the write
		// lock as the backstop behind the service-level serialization.
		if txn.Status() == payment.StatusCompleted &&
			rec.BookingID == txn.BookingID() && rec.Status == string(payment.StatusCompleted) {
			return domain.NewConflictError("booking is already paid")
		}
	}
	r.store.transactions = append(r.store.transactions, transactionToRecord(txn))
	return nil
}
