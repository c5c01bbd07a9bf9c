package car

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/drive-share/service-rental/pkg/domain"
)

// Location is where a car is parked and handed over.
type Location struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Reservation is a calendar hold placed by a non-cancelled booking.
type Reservation struct {
	BookingID uuid.UUID `json:"booking_id"`
	Range     DateRange `json:"range"`
}

// Car is the aggregate root for a rentable vehicle listing.
type Car struct {
	id               uuid.UUID
	ownerID          uuid.UUID
	make_            string
	model            string
	year             int
	carType          string
	seats            int
	color            string
	licensePlate     string
	mileageKm        int
	priceCentsPerDay int64
	description      string
	features         []string
	images           []string
	location         Location

	windows      []DateRange // availability allowlist; empty means open
	reservations []Reservation
	available    bool // coarse owner-controlled override

	rating      float64 // mean review rating, one decimal
	reviewCount int

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// CarParams are the inputs for creating a listing.
type CarParams struct {
	OwnerID          uuid.UUID
	Make             string
	Model            string
	Year             int
	Type             string
	Seats            int
	Color            string
	LicensePlate     string
	MileageKm        int
	PriceCentsPerDay int64
	Description      string
	Features         []string
	Images           []string
	Location         Location
	Windows          []DateRange
}

// NewCar creates a validated Car listing.
func NewCar(p CarParams) (*Car, error) {
	if p.OwnerID == uuid.Nil {
		return nil, domain.NewValidationError("owner ID is required")
	}
	if p.Make == "" || p.Model == "" {
		return nil, domain.NewValidationError("make and model are required")
	}
	if p.Year < 1950 || p.Year > time.Now().Year()+1 {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid year: %d", p.Year))
	}
	if p.Seats <= 0 {
		return nil, domain.NewValidationError("seats must be positive")
	}
	if p.LicensePlate == "" {
		return nil, domain.NewValidationError("license plate is required")
	}
	if p.PriceCentsPerDay <= 0 {
		return nil, domain.NewValidationError("price per day must be positive")
	}
	if p.Location.Address == "" {
		return nil, domain.NewValidationError("location address is required")
	}
	for _, w := range p.Windows {
		if !w.Start.Before(w.End) {
			return nil, domain.NewValidationError("availability window end must be after start")
		}
	}

	now := time.Now().UTC()
	return &Car{
		id:               uuid.New(),
		ownerID:          p.OwnerID,
		make_:            p.Make,
		model:            p.Model,
		year:             p.Year,
		carType:          p.Type,
		seats:            p.Seats,
		color:            p.Color,
		licensePlate:     p.LicensePlate,
		mileageKm:        p.MileageKm,
		priceCentsPerDay: p.PriceCentsPerDay,
		description:      p.Description,
		features:         p.Features,
		images:           p.Images,
		location:         p.Location,
		windows:          p.Windows,
		available:        true,
		version:          1,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

// ReconstructCar rebuilds a Car from persistence data (no validation).
func ReconstructCar(
	id, ownerID uuid.UUID,
	carMake, model string,
	year int,
	carType string,
	seats int,
	color, licensePlate string,
	mileageKm int,
	priceCentsPerDay int64,
	description string,
	features, images []string,
	location Location,
	windows []DateRange,
	reservations []Reservation,
	available bool,
	rating float64,
	reviewCount int,
	version int64,
	createdAt, updatedAt time.Time,
) *Car {
	return &Car{
		id:               id,
		ownerID:          ownerID,
		make_:            carMake,
		model:            model,
		year:             year,
		carType:          carType,
		seats:            seats,
		color:            color,
		licensePlate:     licensePlate,
		mileageKm:        mileageKm,
		priceCentsPerDay: priceCentsPerDay,
		description:      description,
		features:         features,
		images:           images,
		location:         location,
		windows:          windows,
		reservations:     reservations,
		available:        available,
		rating:           rating,
		reviewCount:      reviewCount,
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// --- Getters ---

func (c *Car) ID() uuid.UUID             { return c.id }
func (c *Car) OwnerID() uuid.UUID        { return c.ownerID }
func (c *Car) Make() string              { return c.make_ }
func (c *Car) Model() string             { return c.model }
func (c *Car) Year() int                 { return c.year }
func (c *Car) Type() string              { return c.carType }
func (c *Car) Seats() int                { return c.seats }
func (c *Car) Color() string             { return c.color }
func (c *Car) LicensePlate() string      { return c.licensePlate }
func (c *Car) MileageKm() int            { return c.mileageKm }
func (c *Car) PriceCentsPerDay() int64   { return c.priceCentsPerDay }
func (c *Car) Description() string       { return c.description }
func (c *Car) Features() []string        { return c.features }
func (c *Car) Images() []string          { return c.images }
func (c *Car) Location() Location        { return c.location }
func (c *Car) Windows() []DateRange      { return c.windows }
func (c *Car) Reservations() []Reservation { return c.reservations }
func (c *Car) Available() bool           { return c.available }
func (c *Car) Rating() float64           { return c.rating }
func (c *Car) ReviewCount() int          { return c.reviewCount }
func (c *Car) Version() int64            { return c.version }
func (c *Car) CreatedAt() time.Time      { return c.createdAt }
func (c *Car) UpdatedAt() time.Time      { return c.updatedAt }

// --- Availability ---

// AvailableFor answers whether the car can be booked for rng.
//
// Policy: the coarse owner flag and the overlap test against existing holds
// are always authoritative; the availability-window allowlist is consulted
// only when it is non-empty (an empty allowlist means the car is open for
// any unbooked date).
func (c *Car) AvailableFor(rng DateRange) bool {
	if !c.available {
		return false
	}
	for _, res := range c.reservations {
		if res.Range.Overlaps(rng) {
			return false
		}
	}
	if len(c.windows) > 0 {
		for _, w := range c.windows {
			if w.Contains(rng) {
				return true
			}
		}
		return false
	}
	return true
}

// AddReservation appends a calendar hold. It is the single mutation point
// for calendar state and does not re-check overlap: the caller must hold the
// per-car lock and have verified AvailableFor first.
func (c *Car) AddReservation(bookingID uuid.UUID, rng DateRange) {
	c.reservations = append(c.reservations, Reservation{BookingID: bookingID, Range: rng})
	c.updatedAt = time.Now().UTC()
}

// RemoveReservation drops the hold placed by bookingID. Matching by the
// booking that placed the hold means a release can never strip another
// booking's hold, even if two holds ever carried the same range. Returns
// false if no such hold exists.
func (c *Car) RemoveReservation(bookingID uuid.UUID) bool {
	for i, res := range c.reservations {
		if res.BookingID == bookingID {
			c.reservations = append(c.reservations[:i], c.reservations[i+1:]...)
			c.updatedAt = time.Now().UTC()
			return true
		}
	}
	return false
}

// --- Owner mutations ---

// SetAvailable toggles the coarse availability override.
func (c *Car) SetAvailable(available bool) {
	c.available = available
	c.updatedAt = time.Now().UTC()
}

// SetWindows replaces the availability allowlist.
func (c *Car) SetWindows(windows []DateRange) error {
	for _, w := range windows {
		if !w.Start.Before(w.End) {
			return domain.NewValidationError("availability window end must be after start")
		}
	}
	c.windows = windows
	c.updatedAt = time.Now().UTC()
	return nil
}

// UpdateDetails refreshes the listing fields an owner can edit.
func (c *Car) UpdateDetails(priceCentsPerDay int64, description string, features, images []string) error {
	if priceCentsPerDay <= 0 {
		return domain.NewValidationError("price per day must be positive")
	}
	c.priceCentsPerDay = priceCentsPerDay
	c.description = description
	c.features = features
	c.images = images
	c.updatedAt = time.Now().UTC()
	return nil
}

// SetRating overwrites the derived review aggregate fields.
func (c *Car) SetRating(rating float64, reviewCount int) {
	c.rating = rating
	c.reviewCount = reviewCount
	c.updatedAt = time.Now().UTC()
}

// IncrementVersion bumps the version for optimistic locking.
func (c *Car) IncrementVersion() {
	c.version++
	c.updatedAt = time.Now().UTC()
}
