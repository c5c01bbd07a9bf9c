package kafkax

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloudEventRoundTrip(t *testing.T) {
	type payload struct {
		BookingID string `json:"booking_id"`
		Amount    int64  `json:"amount"`
	}

	ce, err := NewCloudEvent("service-rental", "payment.completed", payload{
		BookingID: "b-1", Amount: 15000,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, ce.ID)
	assert.Equal(t, "1.0", ce.SpecVersion)
	assert.Equal(t, "payment.completed", ce.Type)

	raw, err := json.Marshal(ce)
	require.NoError(t, err)

	parsed, err := ParseCloudEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, ce.ID, parsed.ID)

	var got payload
	require.NoError(t, parsed.ParseData(&got))
	assert.Equal(t, "b-1", got.BookingID)
	assert.Equal(t, int64(15000), got.Amount)
}

func TestNewCloudEventRejectsUnmarshalableData(t *testing.T) {
	_, err := NewCloudEvent("service-rental", "bad", make(chan int))
	require.Error(t, err)
}

func TestParseCloudEventRejectsGarbage(t *testing.T) {
	_, err := ParseCloudEvent([]byte("{not json"))
	require.Error(t, err)
}
