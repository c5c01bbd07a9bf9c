package car

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for car listings.
type Repository interface {
	// FindByID retrieves a car by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Car, error)

	// FindByOwnerID retrieves every listing belonging to an owner.
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*Car, error)

	// ListAll retrieves every listing in insertion order.
	ListAll(ctx context.Context) ([]*Car, error)

	// Save persists a new car.
	Save(ctx context.Context, car *Car) error

	// Update persists changes to an existing car with optimistic locking.
	Update(ctx context.Context, car *Car) error
}
