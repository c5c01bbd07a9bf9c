package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drive-share/service-rental/internal/events"
	"github.com/drive-share/service-rental/pkg/domain"
)

func TestProcessPaymentMovesBothBalances(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	ownerID := stack.seedUser(t, "owner", 1000, true)
	renterID := stack.seedUser(t, "renter", 20000, false)
	carID := stack.seedCar(t, ownerID, 5000)

	start := futureDate(7)
	bk, err := stack.bookings.CreateBooking(ctx, renterID, CreateBookingRequest{
		CarID: carID, Start: start, End: start.AddDate(0, 0, 3),
	})
	require.NoError(t, err)

	txn, err := stack.ledger.ProcessPayment(ctx, bk.ID, renterID, ownerID, 15000)
	require.NoError(t, err)
	assert.Equal(t, "completed", txn.Status)
	assert.Equal(t, int64(15000), txn.AmountCents)

	renterBalance, err := stack.ledger.GetBalance(ctx, renterID)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), renterBalance)

	ownerBalance, err := stack.ledger.GetBalance(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, int64(16000), ownerBalance)
}

func TestProcessPaymentInsufficientFundsChangesNothing(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	ownerID := stack.seedUser(t, "owner", 0, true)
	renterID := stack.seedUser(t, "renter", 4999, false)
	carID := stack.seedCar(t, ownerID, 5000)

	start := futureDate(7)
	bk, err := stack.bookings.CreateBooking(ctx, renterID, CreateBookingRequest{
		CarID: carID, Start: start, End: start.AddDate(0, 0, 1),
	})
	require.NoError(t, err)

	_, err = stack.ledger.ProcessPayment(ctx, bk.ID, renterID, ownerID, 5000)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeInsufficientFunds))

	// Neither balance moved and no transaction was recorded.
	renterBalance, err := stack.ledger.GetBalance(ctx, renterID)
	require.NoError(t, err)
	assert.Equal(t, int64(4999), renterBalance)

	ownerBalance, err := stack.ledger.GetBalance(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), ownerBalance)

	history, err := stack.ledger.GetTransactionHistory(ctx, renterID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestProcessPaymentRejectsDuplicate(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	ownerID := stack.seedUser(t, "owner", 0, true)
	renterID := stack.seedUser(t, "renter", 30000, false)
	carID := stack.seedCar(t, ownerID, 5000)

	start := futureDate(7)
	bk, err := stack.bookings.CreateBooking(ctx, renterID, CreateBookingRequest{
		CarID: carID, Start: start, End: start.AddDate(0, 0, 2),
	})
	require.NoError(t, err)

	_, err = stack.ledger.ProcessPayment(ctx, bk.ID, renterID, ownerID, 10000)
	require.NoError(t, err)

	_, err = stack.ledger.ProcessPayment(ctx, bk.ID, renterID, ownerID, 10000)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeConflict))
	assert.Contains(t, err.Error(), "already paid")

	// The second attempt debited nothing.
	renterBalance, err := stack.ledger.GetBalance(ctx, renterID)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), renterBalance)
}

func TestConcurrentPaymentsChargeOnce(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	ownerID := stack.seedUser(t, "owner", 0, true)
	renterID := stack.seedUser(t, "renter", 200000, false)
	carID := stack.seedCar(t, ownerID, 5000)

	start := futureDate(7)
	bk, err := stack.bookings.CreateBooking(ctx, renterID, CreateBookingRequest{
		CarID: carID, Start: start, End: start.AddDate(0, 0, 3),
	})
	require.NoError(t, err)

	const racers = 16
	var wg sync.WaitGroup
	errs := make([]error, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = stack.ledger.ProcessPayment(ctx, bk.ID, renterID, ownerID, 15000)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, domain.IsCode(err, domain.CodeConflict), "unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one payment wins")

	// The renter was debited once and exactly one transaction exists.
	renterBalance, err := stack.ledger.GetBalance(ctx, renterID)
	require.NoError(t, err)
	assert.Equal(t, int64(185000), renterBalance)

	ownerBalance, err := stack.ledger.GetBalance(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, int64(15000), ownerBalance)

	history, err := stack.ledger.GetTransactionHistory(ctx, renterID)
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestProcessPaymentValidatesAmount(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	ownerID := stack.seedUser(t, "owner", 0, true)
	renterID := stack.seedUser(t, "renter", 30000, false)
	carID := stack.seedCar(t, ownerID, 5000)

	start := futureDate(7)
	bk, err := stack.bookings.CreateBooking(ctx, renterID, CreateBookingRequest{
		CarID: carID, Start: start, End: start.AddDate(0, 0, 2),
	})
	require.NoError(t, err)

	_, err = stack.ledger.ProcessPayment(ctx, bk.ID, renterID, ownerID, 9999)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeValidation))

	_, err = stack.ledger.ProcessPayment(ctx, bk.ID, renterID, ownerID, 0)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeValidation))

	_, err = stack.ledger.ProcessPayment(ctx, bk.ID, renterID, ownerID, -10000)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeValidation))
}

func TestGetBalanceCachesAndPaymentInvalidates(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	ownerID := stack.seedUser(t, "owner", 0, true)
	renterID := stack.seedUser(t, "renter", 20000, false)
	carID := stack.seedCar(t, ownerID, 5000)

	// Warm both caches before the payment.
	balance, err := stack.ledger.GetBalance(ctx, renterID)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), balance)

	history, err := stack.ledger.GetTransactionHistory(ctx, renterID)
	require.NoError(t, err)
	assert.Empty(t, history)

	start := futureDate(7)
	bk, err := stack.bookings.CreateBooking(ctx, renterID, CreateBookingRequest{
		CarID: carID, Start: start, End: start.AddDate(0, 0, 3),
	})
	require.NoError(t, err)

	txn, err := stack.ledger.ProcessPayment(ctx, bk.ID, renterID, ownerID, 15000)
	require.NoError(t, err)

	// Invalidation is synchronous: the very next reads see the transfer.
	balance, err = stack.ledger.GetBalance(ctx, renterID)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), balance)

	history, err = stack.ledger.GetTransactionHistory(ctx, renterID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, txn.ID, history[0].ID)
}

func TestPaymentNotifiesBothParties(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	ownerID := stack.seedUser(t, "owner", 0, true)
	renterID := stack.seedUser(t, "renter", 20000, false)
	carID := stack.seedCar(t, ownerID, 5000)

	start := futureDate(7)
	bk, err := stack.bookings.CreateBooking(ctx, renterID, CreateBookingRequest{
		CarID: carID, Start: start, End: start.AddDate(0, 0, 3),
	})
	require.NoError(t, err)

	_, err = stack.ledger.ProcessPayment(ctx, bk.ID, renterID, ownerID, 15000)
	require.NoError(t, err)

	renterNotes := stack.publisher.notificationsFor(renterID)
	require.Len(t, renterNotes, 1)
	assert.Equal(t, events.NotificationPayment, renterNotes[0].Type)
	assert.Equal(t, "Payment of $150.00 sent successfully", renterNotes[0].Message)

	// Owner got the booking request note plus the payment note.
	ownerNotes := stack.publisher.notificationsFor(ownerID)
	require.Len(t, ownerNotes, 2)
	assert.Equal(t, "Payment of $150.00 received", ownerNotes[1].Message)

	require.Len(t, stack.publisher.eventsOfType(events.PaymentCompleted), 1)
}

// Walks the whole happy path: book, pay, confirm, complete.
func TestRentalEndToEnd(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	ownerID := stack.seedUser(t, "owner", 0, true)
	renterID := stack.seedUser(t, "renter", 20000, false)
	carID := stack.seedCar(t, ownerID, 5000)

	start := futureDate(10)
	bk, err := stack.bookings.CreateBooking(ctx, renterID, CreateBookingRequest{
		CarID: carID, Start: start, End: start.AddDate(0, 0, 3),
	})
	require.NoError(t, err)
	require.Equal(t, int64(15000), bk.TotalPriceCents)

	_, err = stack.ledger.ProcessPayment(ctx, bk.ID, renterID, ownerID, bk.TotalPriceCents)
	require.NoError(t, err)

	confirmed, err := stack.bookings.ConfirmBooking(ctx, bk.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", confirmed.Status)

	completed, err := stack.bookings.CompleteBooking(ctx, bk.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", completed.Status)

	renterBalance, err := stack.ledger.GetBalance(ctx, renterID)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), renterBalance)

	ownerBalance, err := stack.ledger.GetBalance(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, int64(15000), ownerBalance)

	// The owner heard about the booking and the money; the renter heard
	// about the money and every status change.
	ownerNotes := stack.publisher.notificationsFor(ownerID)
	require.Len(t, ownerNotes, 2)
	assert.Equal(t, events.NotificationBooking, ownerNotes[0].Type)
	assert.Equal(t, events.NotificationPayment, ownerNotes[1].Type)

	renterNotes := stack.publisher.notificationsFor(renterID)
	require.Len(t, renterNotes, 3)
	assert.Equal(t, events.NotificationPayment, renterNotes[0].Type)

	require.Len(t, stack.publisher.eventsOfType(events.BookingCreated), 1)
	require.Len(t, stack.publisher.eventsOfType(events.PaymentCompleted), 1)
}
