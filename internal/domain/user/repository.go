package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for user accounts.
//
// Transfer is the only way balances change. Implementations must make it
// atomic: the debit and credit both happen or neither does, and the payer's
// balance is verified inside the same critical section that mutates it, so
// a cached or racy earlier read can never overdraw an account.
type Repository interface {
	// FindByID retrieves a user by id.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// Save persists a new user.
	Save(ctx context.Context, u *User) error

	// Transfer atomically moves amountCents from one balance to the other.
	// Returns NotFound if either user is missing and InsufficientFunds if
	// the payer's balance is below amountCents; on any error neither
	// balance changes.
	Transfer(ctx context.Context, fromID, toID uuid.UUID, amountCents int64) error
}
