package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/drive-share/service-rental/internal/domain/car"
	"github.com/drive-share/service-rental/internal/domain/user"
	"github.com/drive-share/service-rental/internal/events"
	"github.com/drive-share/service-rental/internal/repository/memory"
	"github.com/drive-share/service-rental/pkg/cache"
)

// capturePublisher records every emission for assertions.
type capturePublisher struct {
	mu            sync.Mutex
	notifications []events.Notification
	domainEvents  []capturedEvent
}

type capturedEvent struct {
	Topic     string
	EventType string
	Key       string
	Data      interface{}
}

func (p *capturePublisher) Emit(_ context.Context, n events.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notifications = append(p.notifications, n)
}

func (p *capturePublisher) EmitDomainEvent(_ context.Context, topic, eventType, key string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.domainEvents = append(p.domainEvents, capturedEvent{Topic: topic, EventType: eventType, Key: key, Data: data})
}

func (p *capturePublisher) notificationsFor(userID uuid.UUID) []events.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Notification
	for _, n := range p.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func (p *capturePublisher) eventsOfType(eventType string) []capturedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []capturedEvent
	for _, e := range p.domainEvents {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

// testStack wires every service against one in-memory store.
type testStack struct {
	store     *memory.Store
	publisher *capturePublisher
	catalog   *CatalogService
	bookings  *BookingService
	ledger    *LedgerService
	reviews   *ReviewService
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()
	store := memory.NewStore()
	pub := &capturePublisher{}
	log := zap.NewNop()

	catalog := NewCatalogService(store.Cars(), pub, log)
	bookings := NewBookingService(store.Bookings(), catalog, pub, log)
	ledger := NewLedgerService(store.Users(), store.Transactions(), store.Bookings(), cache.NewMemoryCache(), pub, log)
	reviews := NewReviewService(store.Reviews(), store.Bookings(), catalog, pub, log)

	return &testStack{
		store:     store,
		publisher: pub,
		catalog:   catalog,
		bookings:  bookings,
		ledger:    ledger,
		reviews:   reviews,
	}
}

func (s *testStack) seedUser(t *testing.T, name string, balanceCents int64, isCarOwner bool) uuid.UUID {
	t.Helper()
	u, err := user.NewUser(name, name+"@example.com", balanceCents, isCarOwner, nil)
	require.NoError(t, err)
	require.NoError(t, s.store.Users().Save(context.Background(), u))
	return u.ID()
}

func (s *testStack) seedCar(t *testing.T, ownerID uuid.UUID, priceCentsPerDay int64) uuid.UUID {
	t.Helper()
	dto, err := s.catalog.CreateCar(context.Background(), ownerID, CreateCarRequest{
		Make:             "Honda",
		Model:            "Civic",
		Year:             2023,
		Type:             "sedan",
		Seats:            5,
		LicensePlate:     "ABC 5678",
		PriceCentsPerDay: priceCentsPerDay,
		Location:         car.Location{Address: "88 Jalan Tun Razak, Kuala Lumpur", Latitude: 3.16, Longitude: 101.72},
	})
	require.NoError(t, err)
	return dto.ID
}

func futureDate(daysAhead int) time.Time {
	return time.Now().UTC().AddDate(0, 0, daysAhead).Truncate(24 * time.Hour)
}
