package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRentalDays(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"three whole days", date(2027, 1, 1), date(2027, 1, 4), 3},
		{"single day", date(2027, 1, 1), date(2027, 1, 2), 1},
		{"partial day rounds up", date(2027, 1, 1), date(2027, 1, 2).Add(6 * time.Hour), 2},
		{"under a day rounds up", date(2027, 1, 1), date(2027, 1, 1).Add(90 * time.Minute), 1},
		{"zero span", date(2027, 1, 1), date(2027, 1, 1), 0},
		{"inverted span", date(2027, 1, 4), date(2027, 1, 1), 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RentalDays(tc.start, tc.end))
		})
	}
}

func TestCalculateTotalPrice(t *testing.T) {
	// 5000 cents per day for Jan 1 through Jan 4 is three billable days.
	total, err := CalculateTotalPrice(date(2027, 1, 1), date(2027, 1, 4), 5000)
	require.NoError(t, err)
	assert.Equal(t, int64(15000), total)
}

func TestCalculateTotalPricePartialDayBillsWholeDay(t *testing.T) {
	total, err := CalculateTotalPrice(date(2027, 1, 1), date(2027, 1, 3).Add(1*time.Hour), 5000)
	require.NoError(t, err)
	assert.Equal(t, int64(15000), total)
}

func TestCalculateTotalPriceRejectsBadInput(t *testing.T) {
	_, err := CalculateTotalPrice(date(2027, 1, 4), date(2027, 1, 1), 5000)
	assert.Error(t, err)

	_, err = CalculateTotalPrice(date(2027, 1, 1), date(2027, 1, 4), 0)
	assert.Error(t, err)

	_, err = CalculateTotalPrice(date(2027, 1, 1), date(2027, 1, 4), -100)
	assert.Error(t, err)
}

func TestBookingLifecycle(t *testing.T) {
	bk, err := NewBooking(uuid.New(), uuid.New(), date(2027, 3, 1), date(2027, 3, 4), 15000)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, bk.Status())

	require.NoError(t, bk.Confirm())
	assert.Equal(t, StatusConfirmed, bk.Status())

	require.NoError(t, bk.Complete())
	assert.Equal(t, StatusCompleted, bk.Status())

	// Terminal state: nothing moves it.
	assert.Error(t, bk.Cancel("too late"))
	assert.Error(t, bk.Confirm())
}

func TestBookingCancelRecordsReason(t *testing.T) {
	bk, err := NewBooking(uuid.New(), uuid.New(), date(2027, 3, 1), date(2027, 3, 4), 15000)
	require.NoError(t, err)

	require.NoError(t, bk.Cancel("plans changed"))
	assert.Equal(t, StatusCancelled, bk.Status())
	assert.Equal(t, "plans changed", bk.CancelNote())
	require.NotNil(t, bk.CancelledAt())
}
