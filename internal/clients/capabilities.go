package clients

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dmsavelev/tripbooking/internal/domain"
)

// UserClient talks to a remote user directory.
type UserClient struct {
	httpClient
}

func NewUserClient(baseURL string, timeout time.Duration) *UserClient {
	return &UserClient{newHTTPClient("user directory", baseURL, timeout)}
}

func (c *UserClient) Validate(ctx context.Context, id int64) (bool, error) {
	var valid bool
	if err := c.call(ctx, http.MethodGet, fmt.Sprintf("/users/validate/%d", id), nil, &valid); err != nil {
		return false, err
	}
	return valid, nil
}

// InventoryClient talks to a remote inventory service. The flight and hotel
// services share the contract, only the path prefix differs.
type InventoryClient struct {
	httpClient
	prefix string
}

func NewFlightInventoryClient(baseURL string, timeout time.Duration) *InventoryClient {
	return &InventoryClient{newHTTPClient("flight inventory", baseURL, timeout), "/flights"}
}

func NewHotelInventoryClient(baseURL string, timeout time.Duration) *InventoryClient {
	return &InventoryClient{newHTTPClient("hotel inventory", baseURL, timeout), "/hotels"}
}

func (c *InventoryClient) CheckAvailability(ctx context.Context, id int64) (*domain.Availability, error) {
	var av domain.Availability
	if err := c.call(ctx, http.MethodGet, fmt.Sprintf("%s/%d/availability", c.prefix, id), nil, &av); err != nil {
		return nil, err
	}
	return &av, nil
}

func (c *InventoryClient) Reserve(ctx context.Context, id int64) (bool, error) {
	var reserved bool
	if err := c.call(ctx, http.MethodPost, fmt.Sprintf("%s/%d/reserve", c.prefix, id), nil, &reserved); err != nil {
		return false, err
	}
	return reserved, nil
}

func (c *InventoryClient) Release(ctx context.Context, id int64) (bool, error) {
	var released bool
	if err := c.call(ctx, http.MethodPost, fmt.Sprintf("%s/%d/release", c.prefix, id), nil, &released); err != nil {
		return false, err
	}
	return released, nil
}

// BookingClient drives booking status updates from the payment processor
// when the orchestrator runs in another process.
type BookingClient struct {
	httpClient
}

func NewBookingClient(baseURL string, timeout time.Duration) *BookingClient {
	return &BookingClient{newHTTPClient("booking orchestrator", baseURL, timeout)}
}

type bookingPayload struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	FlightID         int64     `json:"flight_id"`
	HotelID          int64     `json:"hotel_id"`
	TravelDate       time.Time `json:"travel_date"`
	TotalCost        float64   `json:"total_cost"`
	Status           string    `json:"status"`
	BookingReference string    `json:"booking_reference"`
}

func (c *BookingClient) UpdateStatusForPayment(ctx context.Context, id int64, status domain.BookingStatus, reference string) (*domain.Booking, error) {
	var payload bookingPayload
	path := fmt.Sprintf("/bookings/%d/status?status=%s&reference=%s", id, status, reference)
	if err := c.call(ctx, http.MethodPut, path, nil, &payload); err != nil {
		return nil, err
	}
	return &domain.Booking{
		ID:               payload.ID,
		UserID:           payload.UserID,
		FlightID:         payload.FlightID,
		HotelID:          payload.HotelID,
		TravelDate:       payload.TravelDate,
		TotalCost:        payload.TotalCost,
		Status:           domain.BookingStatus(payload.Status),
		BookingReference: payload.BookingReference,
	}, nil
}

// NotificationClient hands notifications to a remote sender.
type NotificationClient struct {
	httpClient
}

func NewNotificationClient(baseURL string, timeout time.Duration) *NotificationClient {
	return &NotificationClient{newHTTPClient("notification sender", baseURL, timeout)}
}

type sendNotificationRequest struct {
	UserID  int64  `json:"user_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

func (c *NotificationClient) Send(ctx context.Context, userID int64, title, message string) error {
	body := sendNotificationRequest{UserID: userID, Title: title, Message: message}
	return c.call(ctx, http.MethodPost, "/notifications/send", body, nil)
}
