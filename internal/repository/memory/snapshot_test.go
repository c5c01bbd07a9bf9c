package memory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drive-share/service-rental/internal/domain/booking"
	"github.com/drive-share/service-rental/internal/domain/car"
	"github.com/drive-share/service-rental/internal/domain/payment"
	"github.com/drive-share/service-rental/internal/domain/review"
	"github.com/drive-share/service-rental/internal/domain/user"
)

func seedStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	store := NewStore()

	owner, err := user.NewUser("owner", "owner@example.com", 0, true, nil)
	require.NoError(t, err)
	renter, err := user.NewUser("renter", "renter@example.com", 20000, false, nil)
	require.NoError(t, err)
	require.NoError(t, store.Users().Save(ctx, owner))
	require.NoError(t, store.Users().Save(ctx, renter))

	c, err := car.NewCar(car.CarParams{
		OwnerID:          owner.ID(),
		Make:             "Proton",
		Model:            "Saga",
		Year:             2022,
		Type:             "sedan",
		Seats:            5,
		LicensePlate:     "WXY 1234",
		PriceCentsPerDay: 4000,
		Location:         car.Location{Address: "Petaling Jaya", Latitude: 3.1, Longitude: 101.6},
	})
	require.NoError(t, err)
	require.NoError(t, store.Cars().Save(ctx, c))

	start := time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)
	bk, err := booking.NewBooking(c.ID(), renter.ID(), start, start.AddDate(0, 0, 2), 8000)
	require.NoError(t, err)
	require.NoError(t, store.Bookings().Save(ctx, bk))

	txn, err := payment.NewTransaction(bk.ID(), renter.ID(), owner.ID(), 8000, payment.StatusCompleted)
	require.NoError(t, err)
	require.NoError(t, store.Transactions().Save(ctx, txn))

	rv, err := review.NewReview(bk.ID(), renter.ID(), c.ID(), review.TargetCar, 5, "great car")
	require.NoError(t, err)
	require.NoError(t, store.Reviews().Save(ctx, rv))

	return store
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)

	restored := NewStore()
	restored.Restore(store.Snapshot())

	cars, err := restored.Cars().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, "Proton", cars[0].Make())

	bookings, err := restored.Bookings().FindByCarIDs(ctx, []uuid.UUID{cars[0].ID()})
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	renterID := bookings[0].RenterID()

	got, err := restored.Bookings().FindByRenterID(ctx, renterID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(8000), got[0].TotalPriceCents())

	txns, err := restored.Transactions().FindByUserID(ctx, renterID)
	require.NoError(t, err)
	require.Len(t, txns, 1)

	reviews, err := restored.Reviews().FindByTargetID(ctx, cars[0].ID())
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 5, reviews[0].Rating())

	u, err := restored.Users().FindByID(ctx, renterID)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), u.BalanceCents())
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)
	snap := store.Snapshot()

	// Mutations after the snapshot do not leak into it.
	extra, err := user.NewUser("late", "late@example.com", 1, false, nil)
	require.NoError(t, err)
	require.NoError(t, store.Users().Save(ctx, extra))

	restored := NewStore()
	restored.Restore(snap)
	_, err = restored.Users().FindByID(ctx, extra.ID())
	require.Error(t, err)
}

func TestSaveFileLoadFile(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)

	path := filepath.Join(t.TempDir(), "nested", "store.json")
	require.NoError(t, store.SaveFile(path))

	loaded := NewStore()
	require.NoError(t, loaded.LoadFile(path))

	cars, err := loaded.Cars().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, cars, 1)

	count, err := loaded.Bookings().CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count["pending"])
}

func TestLoadFileMissingIsNoop(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.LoadFile(filepath.Join(t.TempDir(), "absent.json")))

	cars, err := store.Cars().ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cars)
}
