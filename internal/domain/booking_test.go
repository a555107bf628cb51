package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	testCases := []struct {
		from     BookingStatus
		to       BookingStatus
		expected bool
	}{
		{BookingStatusPending, BookingStatusConfirmed, true},
		{BookingStatusPending, BookingStatusFailed, true},
		{BookingStatusPending, BookingStatusPending, true},
		{BookingStatusConfirmed, BookingStatusConfirmed, true},
		{BookingStatusFailed, BookingStatusFailed, true},
		{BookingStatusConfirmed, BookingStatusFailed, false},
		{BookingStatusConfirmed, BookingStatusPending, false},
		{BookingStatusFailed, BookingStatusConfirmed, false},
		{BookingStatusFailed, BookingStatusPending, false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestBookingStatus_Terminal(t *testing.T) {
	assert.False(t, BookingStatusPending.Terminal())
	assert.True(t, BookingStatusConfirmed.Terminal())
	assert.True(t, BookingStatusFailed.Terminal())
}

func TestParseBookingStatus(t *testing.T) {
	status, ok := ParseBookingStatus("CONFIRMED")
	assert.True(t, ok)
	assert.Equal(t, BookingStatusConfirmed, status)

	_, ok = ParseBookingStatus("confirmed")
	assert.False(t, ok)

	_, ok = ParseBookingStatus("CANCELLED")
	assert.False(t, ok)
}
