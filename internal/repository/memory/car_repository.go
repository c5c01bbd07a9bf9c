package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/drive-share/service-rental/internal/domain/car"
	"github.com/drive-share/service-rental/pkg/domain"
)

// CarRepository implements car.Repository over the shared store.
type CarRepository struct {
	store *Store
}

var _ car.Repository = (*CarRepository)(nil)

func (r *CarRepository) FindByID(ctx context.Context, id uuid.UUID) (*car.Car, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rec := r.store.findCar(id)
	if rec == nil {
		return nil, domain.NewNotFoundError("car", id.String())
	}
	return carFromRecord(rec), nil
}

func (r *CarRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*car.Car, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var cars []*car.Car
	for _, rec := range r.store.cars {
		if rec.OwnerID == ownerID {
			cars = append(cars, carFromRecord(rec))
		}
	}
	return cars, nil
}

func (r *CarRepository) ListAll(ctx context.Context) ([]*car.Car, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	cars := make([]*car.Car, 0, len(r.store.cars))
	for _, rec := range r.store.cars {
		cars = append(cars, carFromRecord(rec))
	}
	return cars, nil
}

func (r *CarRepository) Save(ctx context.Context, c *car.Car) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.findCar(c.ID()) != nil {
		return domain.NewConflictError("car already exists")
	}
	r.store.cars = append(r.store.cars, carToRecord(c))
	return nil
}

func (r *CarRepository) Update(ctx context.Context, c *car.Car) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i, rec := range r.store.cars {
		if rec.ID == c.ID() {
			if rec.Version != c.Version()-1 {
				return domain.NewConflictError("car was modified concurrently")
			}
			r.store.cars[i] = carToRecord(c)
			return nil
		}
	}
	return domain.NewNotFoundError("car", c.ID().String())
}
