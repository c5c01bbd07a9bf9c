package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	carDomain "github.com/drive-share/service-rental/internal/domain/car"
	"github.com/drive-share/service-rental/pkg/domain"
)

// CarModel is the GORM model for the cars table.
type CarModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID          uuid.UUID       `gorm:"type:uuid;index;not null"`
	Make             string          `gorm:"not null;size:100"`
	Model            string          `gorm:"not null;size:100"`
	Year             int             `gorm:"not null"`
	Type             string          `gorm:"not null;size:30;index"`
	Seats            int             `gorm:"not null"`
	Color            string          `gorm:"size:50"`
	LicensePlate     string          `gorm:"size:20"`
	MileageKm        int             `gorm:"not null;default:0"`
	PriceCentsPerDay int64           `gorm:"not null"`
	Description      string          `gorm:"size:2000"`
	Features         json.RawMessage `gorm:"type:jsonb"`
	Images           json.RawMessage `gorm:"type:jsonb"`
	Location         json.RawMessage `gorm:"type:jsonb;not null"`
	Windows          json.RawMessage `gorm:"type:jsonb"`
	Reservations     json.RawMessage `gorm:"type:jsonb"`
	Available        bool            `gorm:"not null;default:true"`
	Rating           float64         `gorm:"not null;default:0"`
	ReviewCount      int             `gorm:"not null;default:0"`
	Version          int64           `gorm:"not null;default:1"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (CarModel) TableName() string {
	return "cars"
}

// GormCarRepository is the GORM-based implementation of car.Repository.
type GormCarRepository struct {
	db *gorm.DB
}

// NewGormCarRepository creates a new GormCarRepository.
func NewGormCarRepository(db *gorm.DB) *GormCarRepository {
	return &GormCarRepository{db: db}
}

var _ carDomain.Repository = (*GormCarRepository)(nil)

// FindByID retrieves a car by its unique identifier.
func (r *GormCarRepository) FindByID(ctx context.Context, id uuid.UUID) (*carDomain.Car, error) {
	var model CarModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("car", id.String())
		}
		return nil, fmt.Errorf("failed to find car by ID: %w", err)
	}
	return toDomainCar(&model)
}

// FindByOwnerID retrieves every listing belonging to an owner.
func (r *GormCarRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*carDomain.Car, error) {
	var models []CarModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find owner cars: %w", err)
	}
	return toDomainCars(models)
}

// ListAll retrieves every listing in insertion order.
func (r *GormCarRepository) ListAll(ctx context.Context) ([]*carDomain.Car, error) {
	var models []CarModel
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	return toDomainCars(models)
}

// Save persists a new car.
func (r *GormCarRepository) Save(ctx context.Context, c *carDomain.Car) error {
	model, err := toCarModel(c)
	if err != nil {
		return fmt.Errorf("failed to convert car to model: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save car: %w", err)
	}
	return nil
}

// Update persists changes to an existing car with optimistic locking.
func (r *GormCarRepository) Update(ctx context.Context, c *carDomain.Car) error {
	model, err := toCarModel(c)
	if err != nil {
		return fmt.Errorf("failed to convert car to model: %w", err)
	}

	expectedVersion := c.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&CarModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"price_cents_per_day": model.PriceCentsPerDay,
			"description":         model.Description,
			"features":            model.Features,
			"images":              model.Images,
			"windows":             model.Windows,
			"reservations":        model.Reservations,
			"available":           model.Available,
			"rating":              model.Rating,
			"review_count":        model.ReviewCount,
			"version":             model.Version,
			"updated_at":          model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update car: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("car was modified by another transaction")
	}
	return nil
}

// --- Conversion Helpers ---

func toCarModel(c *carDomain.Car) (*CarModel, error) {
	featuresJSON, err := json.Marshal(c.Features())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal features: %w", err)
	}
	imagesJSON, err := json.Marshal(c.Images())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal images: %w", err)
	}
	locationJSON, err := json.Marshal(c.Location())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal location: %w", err)
	}
	windowsJSON, err := json.Marshal(c.Windows())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal windows: %w", err)
	}
	reservationsJSON, err := json.Marshal(c.Reservations())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reservations: %w", err)
	}

	return &CarModel{
		ID:               c.ID(),
		OwnerID:          c.OwnerID(),
		Make:             c.Make(),
		Model:            c.Model(),
		Year:             c.Year(),
		Type:             c.Type(),
		Seats:            c.Seats(),
		Color:            c.Color(),
		LicensePlate:     c.LicensePlate(),
		MileageKm:        c.MileageKm(),
		PriceCentsPerDay: c.PriceCentsPerDay(),
		Description:      c.Description(),
		Features:         featuresJSON,
		Images:           imagesJSON,
		Location:         locationJSON,
		Windows:          windowsJSON,
		Reservations:     reservationsJSON,
		Available:        c.Available(),
		Rating:           c.Rating(),
		ReviewCount:      c.ReviewCount(),
		Version:          c.Version(),
		CreatedAt:        c.CreatedAt(),
		UpdatedAt:        c.UpdatedAt(),
	}, nil
}

func toDomainCar(m *CarModel) (*carDomain.Car, error) {
	var features, images []string
	if len(m.Features) > 0 {
		if err := json.Unmarshal(m.Features, &features); err != nil {
			return nil, fmt.Errorf("failed to unmarshal features: %w", err)
		}
	}
	if len(m.Images) > 0 {
		if err := json.Unmarshal(m.Images, &images); err != nil {
			return nil, fmt.Errorf("failed to unmarshal images: %w", err)
		}
	}

	var location carDomain.Location
	if err := json.Unmarshal(m.Location, &location); err != nil {
		return nil, fmt.Errorf("failed to unmarshal location: %w", err)
	}

	var windows []carDomain.DateRange
	if len(m.Windows) > 0 {
		if err := json.Unmarshal(m.Windows, &windows); err != nil {
			return nil, fmt.Errorf("failed to unmarshal windows: %w", err)
		}
	}

	var reservations []carDomain.Reservation
	if len(m.Reservations) > 0 {
		if err := json.Unmarshal(m.Reservations, &reservations); err != nil {
			return nil, fmt.Errorf("failed to unmarshal reservations: %w", err)
		}
	}

	return carDomain.ReconstructCar(
		m.ID, m.OwnerID, m.Make, m.Model, m.Year, m.Type,
		m.Seats, m.Color, m.LicensePlate, m.MileageKm,
		m.PriceCentsPerDay, m.Description, features, images,
		location, windows, reservations, m.Available,
		m.Rating, m.ReviewCount, m.Version, m.CreatedAt, m.UpdatedAt,
	), nil
}

func toDomainCars(models []CarModel) ([]*carDomain.Car, error) {
	cars := make([]*carDomain.Car, len(models))
	for i, m := range models {
		c, err := toDomainCar(&m)
		if err != nil {
			return nil, err
		}
		cars[i] = c
	}
	return cars, nil
}
