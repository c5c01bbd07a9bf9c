package application

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/drive-share/service-rental/internal/domain/booking"
	"github.com/drive-share/service-rental/internal/domain/payment"
	"github.com/drive-share/service-rental/internal/domain/user"
	"github.com/drive-share/service-rental/internal/events"
	"github.com/drive-share/service-rental/pkg/cache"
	"github.com/drive-share/service-rental/pkg/domain"
)

// balanceTTL bounds how stale a cached balance or history read may be.
// Cached values are display-only: the debit decision always happens inside
// the repository's transfer critical section.
const balanceTTL = 5 * time.Minute

// TransactionDTO is the response representation of a transaction.
type TransactionDTO struct {
	ID          uuid.UUID `json:"id"`
	BookingID   uuid.UUID `json:"booking_id"`
	FromUserID  uuid.UUID `json:"from_user_id"`
	ToUserID    uuid.UUID `json:"to_user_id"`
	AmountCents int64     `json:"amount_cents"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// LedgerService moves funds between user balances for bookings and serves
// cached balance/history reads.
type LedgerService struct {
	users        user.Repository
	txns         payment.Repository
	bookings     booking.Repository
	cache        cache.Cache
	publisher    events.Publisher
	logger       *zap.Logger
	bookingLocks *keyedMutex
}

// NewLedgerService creates a LedgerService.
func NewLedgerService(
	users user.Repository,
	txns payment.Repository,
	bookings booking.Repository,
	c cache.Cache,
	publisher events.Publisher,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		users:        users,
		txns:         txns,
		bookings:     bookings,
		cache:        c,
		publisher:    publisher,
		logger:       logger,
		bookingLocks: newKeyedMutex(),
	}
}

// ProcessPayment transfers amountCents from the renter to the owner for a
// booking and records the completed transaction.
//
// The transfer itself is atomic (both balances move or neither; the payer's
// balance is re-verified under the same lock that debits it). On failure the
// booking is left untouched: an unpaid booking staying pending is an
// explicit design choice, surfaced to the caller rather than auto-cancelled.
//
// The already-paid check, the transfer and the transaction record run
// inside one per-booking critical section, so two overlapping payments for
// the same booking resolve to one success and one conflict, never a double
// debit.
func (s *LedgerService) ProcessPayment(ctx context.Context, bookingID, fromUserID, toUserID uuid.UUID, amountCents int64) (*TransactionDTO, error) {
	if amountCents <= 0 {
		return nil, domain.NewValidationError("amount must be positive")
	}

	unlock := s.bookingLocks.Lock(bookingID)
	defer unlock()

	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.TotalPriceCents() != amountCents {
		return nil, domain.NewValidationError(fmt.Sprintf(
			"amount %d does not match booking total %d", amountCents, bk.TotalPriceCents()))
	}

	alreadyPaid, err := s.txns.HasCompletedForBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing payments: %w", err)
	}
	if alreadyPaid {
		return nil, domain.NewConflictError("booking is already paid")
	}

	txn, err := payment.NewTransaction(bookingID, fromUserID, toUserID, amountCents, payment.StatusCompleted)
	if err != nil {
		return nil, err
	}

	if err := s.users.Transfer(ctx, fromUserID, toUserID, amountCents); err != nil {
		return nil, err
	}

	if err := s.txns.Save(ctx, txn); err != nil {
		// Balances moved but the record did not stick: reconciliation
		// territory, not a retry.
		s.logger.Error("transaction record failed after transfer",
			zap.String("booking_id", bookingID.String()),
			zap.Error(err),
		)
		return nil, domain.NewInconsistentStateError("transfer applied but transaction record failed")
	}

	// Invalidate before returning so no caller can read a pre-transfer
	// balance after the payment is acknowledged.
	s.invalidateUserCaches(ctx, fromUserID, toUserID)

	s.publisher.EmitDomainEvent(ctx, events.TopicPaymentEvents, events.PaymentCompleted, bookingID.String(), events.PaymentCompletedEvent{
		TransactionID: txn.ID(),
		BookingID:     bookingID,
		FromUserID:    fromUserID,
		ToUserID:      toUserID,
		AmountCents:   amountCents,
		OccurredAt:    time.Now().UTC(),
	})
	s.publisher.Emit(ctx, events.Notification{
		Type:      events.NotificationPayment,
		UserID:    fromUserID,
		Message:   fmt.Sprintf("Payment of $%.2f sent successfully", float64(amountCents)/100),
		RelatedID: txn.ID(),
		Timestamp: time.Now().UTC(),
	})
	s.publisher.Emit(ctx, events.Notification{
		Type:      events.NotificationPayment,
		UserID:    toUserID,
		Message:   fmt.Sprintf("Payment of $%.2f received", float64(amountCents)/100),
		RelatedID: txn.ID(),
		Timestamp: time.Now().UTC(),
	})

	dto := toTransactionDTO(txn)
	return &dto, nil
}

// GetBalance returns a user's balance, served from the TTL cache when warm.
func (s *LedgerService) GetBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	key := balanceKey(userID)
	if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var cents int64
		if err := json.Unmarshal(raw, &cents); err == nil {
			return cents, nil
		}
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return 0, err
	}

	if raw, err := json.Marshal(u.BalanceCents()); err == nil {
		if err := s.cache.Set(ctx, key, raw, balanceTTL); err != nil {
			s.logger.Warn("failed to cache balance", zap.Error(err))
		}
	}
	return u.BalanceCents(), nil
}

// GetTransactionHistory returns a user's transactions, cache-eligible.
func (s *LedgerService) GetTransactionHistory(ctx context.Context, userID uuid.UUID) ([]TransactionDTO, error) {
	key := historyKey(userID)
	if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var dtos []TransactionDTO
		if err := json.Unmarshal(raw, &dtos); err == nil {
			return dtos, nil
		}
	}

	txns, err := s.txns.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dtos := make([]TransactionDTO, len(txns))
	for i, t := range txns {
		dtos[i] = toTransactionDTO(t)
	}

	if raw, err := json.Marshal(dtos); err == nil {
		if err := s.cache.Set(ctx, key, raw, balanceTTL); err != nil {
			s.logger.Warn("failed to cache transaction history", zap.Error(err))
		}
	}
	return dtos, nil
}

func (s *LedgerService) invalidateUserCaches(ctx context.Context, userIDs ...uuid.UUID) {
	keys := make([]string, 0, len(userIDs)*2)
	for _, id := range userIDs {
		keys = append(keys, balanceKey(id), historyKey(id))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("failed to invalidate ledger caches", zap.Error(err))
	}
}

func balanceKey(userID uuid.UUID) string {
	return "ledger:balance:" + userID.String()
}

func historyKey(userID uuid.UUID) string {
	return "ledger:history:" + userID.String()
}

func toTransactionDTO(t *payment.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:          t.ID(),
		BookingID:   t.BookingID(),
		FromUserID:  t.FromUserID(),
		ToUserID:    t.ToUserID(),
		AmountCents: t.AmountCents(),
		Status:      string(t.Status()),
		CreatedAt:   t.CreatedAt(),
	}
}
