package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusFailed    BookingStatus = "FAILED"
)

// Terminal reports whether no further transition is allowed from s.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusConfirmed || s == BookingStatusFailed
}

// CanTransitionTo enforces the monotonic state machine: PENDING may move to
// either terminal state, a terminal state may only repeat itself.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s == next {
		return true
	}
	return s == BookingStatusPending && next.Terminal()
}

func ParseBookingStatus(raw string) (BookingStatus, bool) {
	switch BookingStatus(raw) {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusFailed:
		return BookingStatus(raw), true
	}
	return "", false
}

type Booking struct {
	ID               int64
	UserID           int64
	FlightID         int64
	HotelID          int64
	TravelDate       time.Time
	TotalCost        float64
	Status           BookingStatus
	BookingReference string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
