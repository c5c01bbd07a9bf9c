package payment

import (
	"time"

	"github.com/google/uuid"

	"github.com/drive-share/service-rental/pkg/domain"
)

// TransactionStatus is the lifecycle state of a balance transfer.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// Transaction records one balance transfer tied to a booking. A completed
// transaction is immutable, and a booking can have at most one of them.
type Transaction struct {
	id          uuid.UUID
	bookingID   uuid.UUID
	fromUserID  uuid.UUID
	toUserID    uuid.UUID
	amountCents int64
	status      TransactionStatus
	createdAt   time.Time
}

// NewTransaction creates a transaction record in the given status.
func NewTransaction(bookingID, fromUserID, toUserID uuid.UUID, amountCents int64, status TransactionStatus) (*Transaction, error) {
	if bookingID == uuid.Nil {
		return nil, domain.NewValidationError("booking ID is required")
	}
	if fromUserID == uuid.Nil || toUserID == uuid.Nil {
		return nil, domain.NewValidationError("payer and payee IDs are required")
	}
	if fromUserID == toUserID {
		return nil, domain.NewValidationError("payer and payee must differ")
	}
	if amountCents <= 0 {
		return nil, domain.NewValidationError("amount must be positive")
	}
	return &Transaction{
		id:          uuid.New(),
		bookingID:   bookingID,
		fromUserID:  fromUserID,
		toUserID:    toUserID,
		amountCents: amountCents,
		status:      status,
		createdAt:   time.Now().UTC(),
	}, nil
}

// ReconstructTransaction rebuilds a Transaction from persistence data.
func ReconstructTransaction(
	id, bookingID, fromUserID, toUserID uuid.UUID,
	amountCents int64,
	status TransactionStatus,
	createdAt time.Time,
) *Transaction {
	return &Transaction{
		id:          id,
		bookingID:   bookingID,
		fromUserID:  fromUserID,
		toUserID:    toUserID,
		amountCents: amountCents,
		status:      status,
		createdAt:   createdAt,
	}
}

func (t *Transaction) ID() uuid.UUID             { return t.id }
func (t *Transaction) BookingID() uuid.UUID      { return t.bookingID }
func (t *Transaction) FromUserID() uuid.UUID     { return t.fromUserID }
func (t *Transaction) ToUserID() uuid.UUID       { return t.toUserID }
func (t *Transaction) AmountCents() int64        { return t.amountCents }
func (t *Transaction) Status() TransactionStatus { return t.status }
func (t *Transaction) CreatedAt() time.Time      { return t.createdAt }
