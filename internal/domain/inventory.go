package domain

import "time"

type Flight struct {
	ID             int64
	FlightNumber   string
	Airline        string
	Origin         string
	Destination    string
	DepartureTime  time.Time
	ArrivalTime    time.Time
	Price          float64
	TotalSeats     int
	AvailableSeats int
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Hotel struct {
	ID             int64
	Name           string
	Location       string
	PricePerNight  float64
	TotalRooms     int
	AvailableRooms int
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Availability is the result of an inventory check. Reason is human-readable
// and used verbatim in failure messages.
type Availability struct {
	ItemID    int64   `json:"item_id"`
	Available bool    `json:"available"`
	Capacity  int     `json:"capacity"`
	UnitPrice float64 `json:"unit_price"`
	Reason    string  `json:"reason,omitempty"`
}
