package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/drive-share/service-rental/internal/domain/user"
	"github.com/drive-share/service-rental/pkg/domain"
)

// UserRepository implements user.Repository over the shared store.
type UserRepository struct {
	store *Store
}

var _ user.Repository = (*UserRepository)(nil)

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rec, ok := r.store.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("user", id.String())
	}
	return userFromRecord(rec), nil
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[u.ID()]; ok {
		return domain.NewConflictError("user already exists")
	}
	r.store.users[u.ID()] = userToRecord(u)
	return nil
}

// Transfer debits and credits under the store lock. The balance check and
// both mutations share one critical section, so a stale earlier read can
// never overdraw the payer.
func (r *UserRepository) Transfer(ctx context.Context, fromID, toID uuid.UUID, amountCents int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	from, ok := r.store.users[fromID]
	if !ok {
		return domain.NewNotFoundError("user", fromID.String())
	}
	to, ok := r.store.users[toID]
	if !ok {
		return domain.NewNotFoundError("user", toID.String())
	}
	if from.BalanceCents < amountCents {
		return domain.NewInsufficientFundsError("balance is too low for this payment")
	}

	from.BalanceCents -= amountCents
	to.BalanceCents += amountCents
	return nil
}
