// Package memory implements the repositories over an in-process store.
// This is the faithful counterpart of the original client's state
// containers: all domain data lives in memory, and persistence is a flat
// JSON serialization of the whole store keyed by entity id.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/drive-share/service-rental/internal/domain/car"
	"github.com/drive-share/service-rental/pkg/authx"
)

// CarRecord is the serialized shape of a car listing.
type CarRecord struct {
	ID               uuid.UUID         `json:"id"`
	OwnerID          uuid.UUID         `json:"owner_id"`
	Make             string            `json:"make"`
	Model            string            `json:"model"`
	Year             int               `json:"year"`
	Type             string            `json:"type"`
	Seats            int               `json:"seats"`
	Color            string            `json:"color"`
	LicensePlate     string            `json:"license_plate"`
	MileageKm        int               `json:"mileage_km"`
	PriceCentsPerDay int64             `json:"price_cents_per_day"`
	Description      string            `json:"description"`
	Features         []string          `json:"features"`
	Images           []string          `json:"images"`
	Location         car.Location      `json:"location"`
	Windows          []car.DateRange   `json:"windows"`
	Reservations     []car.Reservation `json:"reservations"`
	Available        bool              `json:"available"`
	Rating           float64           `json:"rating"`
	ReviewCount      int               `json:"review_count"`
	Version          int64             `json:"version"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// BookingRecord is the serialized shape of a booking.
type BookingRecord struct {
	ID              uuid.UUID  `json:"id"`
	CarID           uuid.UUID  `json:"car_id"`
	RenterID        uuid.UUID  `json:"renter_id"`
	Start           time.Time  `json:"start"`
	End             time.Time  `json:"end"`
	TotalPriceCents int64      `json:"total_price_cents"`
	Status          string     `json:"status"`
	CancelNote      string     `json:"cancel_note"`
	CancelledAt     *time.Time `json:"cancelled_at"`
	Version         int64      `json:"version"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TransactionRecord is the serialized shape of a balance transfer.
type TransactionRecord struct {
	ID          uuid.UUID `json:"id"`
	BookingID   uuid.UUID `json:"booking_id"`
	FromUserID  uuid.UUID `json:"from_user_id"`
	ToUserID    uuid.UUID `json:"to_user_id"`
	AmountCents int64     `json:"amount_cents"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReviewRecord is the serialized shape of a review.
type ReviewRecord struct {
	ID         uuid.UUID `json:"id"`
	BookingID  uuid.UUID `json:"booking_id"`
	ReviewerID uuid.UUID `json:"reviewer_id"`
	TargetID   uuid.UUID `json:"target_id"`
	TargetType string    `json:"target_type"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// UserRecord is the serialized shape of a user account.
type UserRecord struct {
	ID                uuid.UUID                 `json:"id"`
	Name              string                    `json:"name"`
	Email             string                    `json:"email"`
	BalanceCents      int64                     `json:"balance_cents"`
	IsCarOwner        bool                      `json:"is_car_owner"`
	SecurityQuestions []authx.SecurityQuestion  `json:"security_questions"`
	CreatedAt         time.Time                 `json:"created_at"`
}

// Store holds every collection behind one mutex. A single coarse lock is
// deliberate: the store models a single-user client's state, and the lock
// is what makes Transfer and the repository writes atomic.
type Store struct {
	mu           sync.RWMutex
	cars         []*CarRecord
	bookings     []*BookingRecord
	transactions []*TransactionRecord
	reviews      []*ReviewRecord
	users        map[uuid.UUID]*UserRecord
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{users: make(map[uuid.UUID]*UserRecord)}
}

// Cars returns the car repository backed by this store.
func (s *Store) Cars() *CarRepository { return &CarRepository{store: s} }

// Bookings returns the booking repository backed by this store.
func (s *Store) Bookings() *BookingRepository { return &BookingRepository{store: s} }

// Transactions returns the transaction repository backed by this store.
func (s *Store) Transactions() *TransactionRepository { return &TransactionRepository{store: s} }

// Reviews returns the review repository backed by this store.
func (s *Store) Reviews() *ReviewRepository { return &ReviewRepository{store: s} }

// Users returns the user repository backed by this store.
func (s *Store) Users() *UserRepository { return &UserRepository{store: s} }

func (s *Store) findCar(id uuid.UUID) *CarRecord {
	for _, rec := range s.cars {
		if rec.ID == id {
			return rec
		}
	}
	return nil
}

func (s *Store) findBooking(id uuid.UUID) *BookingRecord {
	for _, rec := range s.bookings {
		if rec.ID == id {
			return rec
		}
	}
	return nil
}
