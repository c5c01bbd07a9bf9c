package application

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drive-share/service-rental/internal/domain/car"
	"github.com/drive-share/service-rental/internal/events"
	"github.com/drive-share/service-rental/pkg/domain"
)

func TestCreateBookingComputesPriceAndReserves(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	ownerID := stack.seedUser(t, "owner", 0, true)
	renterID := stack.seedUser(t, "renter", 50000, false)
	carID := stack.seedCar(t, ownerID, 5000)

	start := futureDate(7)
	dto, err := stack.bookings.CreateBooking(ctx, renterID, CreateBookingRequest{
		CarID: carID,
		Start: start,
		End:   start.AddDate(0, 0, 3),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(15000), dto.TotalPriceCents)
	assert.Equal(t, "pending", dto.Status)

	// The calendar hold exists: the same range is no longer bookable.
	rng, err := car.NewDateRange(start, start.AddDate(0, 0, 3))
	require.NoError(t, err)
	available, err := stack.catalog.IsAvailable(ctx, carID, rng)
	require.NoError(t, err)
	assert.False(t, available)

	// Owner was told about the request.
	require.Len(t, stack.publisher.notificationsFor(ownerID), 1)
	assert.Equal(t, events.NotificationBooking, stack.publisher.notificationsFor(ownerID)[0].Type)
	require.Len(t, stack.publisher.eventsOfType(events.BookingCreated), 1)
}

func TestCreateBookingRejectsOwnCar(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	ownerID := stack.seedUser(t, "owner", 0, true)
	carID := stack.seedCar(t, ownerID, 5000)

	start := futureDate(7)
	_, err := stack.bookings.CreateBooking(ctx, ownerID, CreateBookingRequest{
		CarID: carID,
		Start: start,
		End:   start.AddDate(0, 0, 2),
	})
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeValidation))
}

func TestCreateBookingRejectsPastStart(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	ownerID := stack.seedUser(t, "owner", 0, true)
	renterID := stack.seedUser(t, "renter", 50000, false)
	carID := stack.seedCar(t, ownerID, 5000)

	start := time.Now().UTC().AddDate(0, 0, -3)
	_, err := stack.bookings.CreateBooking(ctx, renterID, CreateBookingRequest{
		CarID: carID,
		Start: start,
		End:   start.AddDate(0, 0, 2),
	})
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeValidation))
}

func TestNoDoubleBookingSequential(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	ownerID := stack.seedUser(t, "owner", 0, true)
	carID := stack.seedCar(t, ownerID, 5000)

	rnd := rand.New(rand.NewSource(42))
	type hold struct{ start, end int }
	var accepted []hold

	for i := 0; i < 120; i++ {
		renterID := stack.seedUser(t, "renter", 0, false)
		startOffset := 7 + rnd.Intn(60)
		length := 1 + rnd.Intn(7)
		start := futureDate(startOffset)

		_, err := stack.bookings.CreateBooking(ctx, renterID, CreateBookingRequest{
			CarID: carID,
			Start: start,
			End:   start.AddDate(0, 0, length),
		})

		overlaps := false
		for _, h := range accepted {
			if startOffset < h.end && startOffset+length > h.start {
				overlaps = true
				break
			}
		}

		if overlaps {
			require.Error(t, err, "overlapping request %d must be rejected", i)
			assert.True(t, domain.IsCode(err, domain.CodeUnavailable))
		} else {
			require.NoError(t, err, "non-overlapping request %d must succeed", i)
			accepted = append(accepted, hold{start: startOffset, end: startOffset + length})
		}
	}
}

func TestNoDoubleBookingConcurrent(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	ownerID := stack.seedUser(t, "owner", 0, true)
	carID := stack.seedCar(t, ownerID, 5000)

	const racers = 16
	renterIDs := make([]uuid.UUID, racers)
	for i := range renterIDs {
		renterIDs[i] = stack.seedUser(t, "racer", 0, false)
	}

	start := futureDate(14)
	var wg sync.WaitGroup
	errs := make([]error, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = stack.bookings.CreateBooking(ctx, renterIDs[i], CreateBookingRequest{
				CarID: carID,
				Start: start,
				End:   start.AddDate(0, 0, 3),
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, domain.IsCode(err, domain.CodeUnavailable), "unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one racer wins the slot")
}

func TestCancellationFreesSlot(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	ownerID := stack.seedUser(t, "owner", 0, true)
	renterID := stack.seedUser(t, "renter", 0, false)
	otherID := stack.seedUser(t, "other", 0, false)
	carID := stack.seedCar(t, ownerID, 5000)

	start := futureDate(7)
	req := CreateBookingRequest{CarID: carID, Start: start, End: start.AddDate(0, 0, 3)}

	first, err := stack.bookings.CreateBooking(ctx, renterID, req)
	require.NoError(t, err)

	_, err = stack.bookings.CreateBooking(ctx, otherID, req)
	require.Error(t, err)

	cancelled, err := stack.bookings.CancelBooking(ctx, first.ID, "change of plans")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.Equal(t, "change of plans", cancelled.CancelNote)

	// Identical dates are bookable again.
	second, err := stack.bookings.CreateBooking(ctx, otherID, req)
	require.NoError(t, err)
	assert.Equal(t, "pending", second.Status)
}

func TestStatusTransitionGuards(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	ownerID := stack.seedUser(t, "owner", 0, true)
	renterID := stack.seedUser(t, "renter", 0, false)
	carID := stack.seedCar(t, ownerID, 5000)

	start := futureDate(7)
	dto, err := stack.bookings.CreateBooking(ctx, renterID, CreateBookingRequest{
		CarID: carID, Start: start, End: start.AddDate(0, 0, 2),
	})
	require.NoError(t, err)

	// pending cannot complete.
	_, err = stack.bookings.CompleteBooking(ctx, dto.ID)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeInvalidState))

	_, err = stack.bookings.ConfirmBooking(ctx, dto.ID)
	require.NoError(t, err)

	completed, err := stack.bookings.CompleteBooking(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", completed.Status)

	// completed is terminal.
	_, err = stack.bookings.CancelBooking(ctx, dto.ID, "too late")
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeInvalidState))
}

func TestGetBookingsForUserPerspectives(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	ownerID := stack.seedUser(t, "owner", 0, true)
	renterID := stack.seedUser(t, "renter", 0, false)
	carID := stack.seedCar(t, ownerID, 5000)

	start := futureDate(7)
	dto, err := stack.bookings.CreateBooking(ctx, renterID, CreateBookingRequest{
		CarID: carID, Start: start, End: start.AddDate(0, 0, 2),
	})
	require.NoError(t, err)

	asRenter, err := stack.bookings.GetBookingsForUser(ctx, renterID, true)
	require.NoError(t, err)
	require.Len(t, asRenter, 1)
	assert.Equal(t, dto.ID, asRenter[0].ID)

	asOwner, err := stack.bookings.GetBookingsForUser(ctx, ownerID, false)
	require.NoError(t, err)
	require.Len(t, asOwner, 1)
	assert.Equal(t, dto.ID, asOwner[0].ID)

	// The owner has no rentals of their own.
	ownRentals, err := stack.bookings.GetBookingsForUser(ctx, ownerID, true)
	require.NoError(t, err)
	assert.Empty(t, ownRentals)
}
