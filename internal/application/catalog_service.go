package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/drive-share/service-rental/internal/domain/car"
	"github.com/drive-share/service-rental/internal/events"
	"github.com/drive-share/service-rental/pkg/domain"
)

// DateRangeDTO is the wire shape of a half-open date range.
type DateRangeDTO struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

// CreateCarRequest holds the data needed to list a car.
type CreateCarRequest struct {
	Make             string         `json:"make" binding:"required"`
	Model            string         `json:"model" binding:"required"`
	Year             int            `json:"year" binding:"required"`
	Type             string         `json:"type" binding:"required"`
	Seats            int            `json:"seats" binding:"required"`
	Color            string         `json:"color"`
	LicensePlate     string         `json:"license_plate" binding:"required"`
	MileageKm        int            `json:"mileage_km"`
	PriceCentsPerDay int64          `json:"price_cents_per_day" binding:"required"`
	Description      string         `json:"description"`
	Features         []string       `json:"features"`
	Images           []string       `json:"images"`
	Location         car.Location   `json:"location" binding:"required"`
	Windows          []DateRangeDTO `json:"availability_windows"`
}

// UpdateCarRequest holds the listing fields an owner can edit.
type UpdateCarRequest struct {
	PriceCentsPerDay int64    `json:"price_cents_per_day" binding:"required"`
	Description      string   `json:"description"`
	Features         []string `json:"features"`
	Images           []string `json:"images"`
}

// CarDTO is the response representation of a car listing.
type CarDTO struct {
	ID               uuid.UUID      `json:"id"`
	OwnerID          uuid.UUID      `json:"owner_id"`
	Make             string         `json:"make"`
	Model            string         `json:"model"`
	Year             int            `json:"year"`
	Type             string         `json:"type"`
	Seats            int            `json:"seats"`
	Color            string         `json:"color"`
	LicensePlate     string         `json:"license_plate"`
	MileageKm        int            `json:"mileage_km"`
	PriceCentsPerDay int64          `json:"price_cents_per_day"`
	Description      string         `json:"description"`
	Features         []string       `json:"features"`
	Images           []string       `json:"images"`
	Location         car.Location   `json:"location"`
	Windows          []DateRangeDTO `json:"availability_windows,omitempty"`
	Available        bool           `json:"available"`
	Rating           float64        `json:"rating"`
	ReviewCount      int            `json:"review_count"`
	CreatedAt        time.Time      `json:"created_at"`
}

// CatalogService owns the car listings: it answers availability and search
// queries and is the only mutation path for calendar state.
type CatalogService struct {
	cars      car.Repository
	publisher events.Publisher
	logger    *zap.Logger
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(cars car.Repository, publisher events.Publisher, logger *zap.Logger) *CatalogService {
	return &CatalogService{cars: cars, publisher: publisher, logger: logger}
}

// CreateCar lists a new car for the given owner.
func (s *CatalogService) CreateCar(ctx context.Context, ownerID uuid.UUID, req CreateCarRequest) (*CarDTO, error) {
	windows, err := toDateRanges(req.Windows)
	if err != nil {
		return nil, err
	}

	c, err := car.NewCar(car.CarParams{
		OwnerID:          ownerID,
		Make:             req.Make,
		Model:            req.Model,
		Year:             req.Year,
		Type:             req.Type,
		Seats:            req.Seats,
		Color:            req.Color,
		LicensePlate:     req.LicensePlate,
		MileageKm:        req.MileageKm,
		PriceCentsPerDay: req.PriceCentsPerDay,
		Description:      req.Description,
		Features:         req.Features,
		Images:           req.Images,
		Location:         req.Location,
		Windows:          windows,
	})
	if err != nil {
		return nil, err
	}

	if err := s.cars.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save car: %w", err)
	}

	dto := toCarDTO(c)
	return &dto, nil
}

// UpdateCar edits a listing. Only the owner may edit.
func (s *CatalogService) UpdateCar(ctx context.Context, ownerID, carID uuid.UUID, req UpdateCarRequest) (*CarDTO, error) {
	c, err := s.ownedCar(ctx, ownerID, carID)
	if err != nil {
		return nil, err
	}
	if err := c.UpdateDetails(req.PriceCentsPerDay, req.Description, req.Features, req.Images); err != nil {
		return nil, err
	}
	c.IncrementVersion()
	if err := s.cars.Update(ctx, c); err != nil {
		return nil, err
	}
	dto := toCarDTO(c)
	return &dto, nil
}

// SetAvailable toggles the coarse owner-controlled availability flag.
func (s *CatalogService) SetAvailable(ctx context.Context, ownerID, carID uuid.UUID, available bool) error {
	c, err := s.ownedCar(ctx, ownerID, carID)
	if err != nil {
		return err
	}
	c.SetAvailable(available)
	c.IncrementVersion()
	return s.cars.Update(ctx, c)
}

// SetAvailabilityWindows replaces the car's availability allowlist.
func (s *CatalogService) SetAvailabilityWindows(ctx context.Context, ownerID, carID uuid.UUID, windows []DateRangeDTO) error {
	c, err := s.ownedCar(ctx, ownerID, carID)
	if err != nil {
		return err
	}
	ranges, err := toDateRanges(windows)
	if err != nil {
		return err
	}
	if err := c.SetWindows(ranges); err != nil {
		return err
	}
	c.IncrementVersion()
	return s.cars.Update(ctx, c)
}

// GetCar retrieves one listing.
func (s *CatalogService) GetCar(ctx context.Context, carID uuid.UUID) (*CarDTO, error) {
	c, err := s.cars.FindByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	dto := toCarDTO(c)
	return &dto, nil
}

// ListByOwner retrieves all of an owner's listings.
func (s *CatalogService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]CarDTO, error) {
	cars, err := s.cars.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return toCarDTOs(cars), nil
}

// Search applies the filter predicates over the whole catalog. Results keep
// the collection's insertion order; no implicit sort is applied.
func (s *CatalogService) Search(ctx context.Context, filters car.SearchFilters) ([]CarDTO, error) {
	cars, err := s.cars.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*car.Car, 0, len(cars))
	for _, c := range cars {
		if !c.Matches(filters) {
			continue
		}
		if filters.DateRange != nil && !c.AvailableFor(*filters.DateRange) {
			continue
		}
		matched = append(matched, c)
	}
	return toCarDTOs(matched), nil
}

// IsAvailable answers whether the car can be booked for [start, end).
// A missing car is an error, not "unavailable": callers must be able to
// tell the two apart.
func (s *CatalogService) IsAvailable(ctx context.Context, carID uuid.UUID, rng car.DateRange) (bool, error) {
	c, err := s.cars.FindByID(ctx, carID)
	if err != nil {
		return false, err
	}
	return c.AvailableFor(rng), nil
}

// Reserve appends a calendar hold for a booking. The caller (the booking
// service) holds the per-car lock and has already checked availability.
func (s *CatalogService) Reserve(ctx context.Context, carID, bookingID uuid.UUID, rng car.DateRange) error {
	c, err := s.cars.FindByID(ctx, carID)
	if err != nil {
		return err
	}
	c.AddReservation(bookingID, rng)
	c.IncrementVersion()
	return s.cars.Update(ctx, c)
}

// Release removes the calendar hold placed by the given booking, freeing
// the slot for other renters.
func (s *CatalogService) Release(ctx context.Context, carID, bookingID uuid.UUID) error {
	c, err := s.cars.FindByID(ctx, carID)
	if err != nil {
		return err
	}
	if !c.RemoveReservation(bookingID) {
		s.logger.Warn("release without matching reservation",
			zap.String("car_id", carID.String()),
			zap.String("booking_id", bookingID.String()),
		)
		return nil
	}
	c.IncrementVersion()
	return s.cars.Update(ctx, c)
}

// UpdateRating overwrites the derived review aggregate on a listing.
func (s *CatalogService) UpdateRating(ctx context.Context, carID uuid.UUID, rating float64, reviewCount int) error {
	c, err := s.cars.FindByID(ctx, carID)
	if err != nil {
		return err
	}
	c.SetRating(rating, reviewCount)
	c.IncrementVersion()
	return s.cars.Update(ctx, c)
}

// GetCarForBooking returns the two facts the booking engine needs.
func (s *CatalogService) GetCarForBooking(ctx context.Context, carID uuid.UUID) (uuid.UUID, int64, error) {
	c, err := s.cars.FindByID(ctx, carID)
	if err != nil {
		return uuid.Nil, 0, err
	}
	return c.OwnerID(), c.PriceCentsPerDay(), nil
}

// CarIDsByOwner returns the ids of every car the owner has listed.
func (s *CatalogService) CarIDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	cars, err := s.cars.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(cars))
	for i, c := range cars {
		ids[i] = c.ID()
	}
	return ids, nil
}

func (s *CatalogService) ownedCar(ctx context.Context, ownerID, carID uuid.UUID) (*car.Car, error) {
	c, err := s.cars.FindByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if c.OwnerID() != ownerID {
		return nil, domain.NewForbiddenError("car does not belong to this user")
	}
	return c, nil
}

// --- Helpers ---

func toDateRanges(dtos []DateRangeDTO) ([]car.DateRange, error) {
	ranges := make([]car.DateRange, len(dtos))
	for i, d := range dtos {
		rng, err := car.NewDateRange(d.Start, d.End)
		if err != nil {
			return nil, err
		}
		ranges[i] = rng
	}
	return ranges, nil
}

func toCarDTO(c *car.Car) CarDTO {
	windows := make([]DateRangeDTO, len(c.Windows()))
	for i, w := range c.Windows() {
		windows[i] = DateRangeDTO{Start: w.Start, End: w.End}
	}
	return CarDTO{
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
		Features:         c.Features(),
		Images:           c.Images(),
		Location:         c.Location(),
		Windows:          windows,
		Available:        c.Available(),
		Rating:           c.Rating(),
		ReviewCount:      c.ReviewCount(),
		CreatedAt:        c.CreatedAt(),
	}
}

func toCarDTOs(cars []*car.Car) []CarDTO {
	dtos := make([]CarDTO, len(cars))
	for i, c := range cars {
		dtos[i] = toCarDTO(c)
	}
	return dtos
}
