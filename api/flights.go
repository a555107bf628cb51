package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dmsavelev/tripbooking/internal/domain"
	"github.com/dmsavelev/tripbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

type flightResponse struct {
	ID             int64     `json:"id"`
	FlightNumber   string    `json:"flight_number"`
	Airline        string    `json:"airline"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartureTime  time.Time `json:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time"`
	Price          float64   `json:"price"`
	TotalSeats     int       `json:"total_seats"`
	AvailableSeats int       `json:"available_seats"`
	Active         bool      `json:"active"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/:id", h.get)
	router.GET("/:id/availability", h.availability)
	router.POST("/:id/reserve", h.reserve)
	router.POST("/:id/release", h.release)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, &domain.ValidationError{Field: "id", Reason: "must be an integer"})
		return
	}

	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Flight retrieved successfully", flightResponse{
		ID:             flight.ID,
		FlightNumber:   flight.FlightNumber,
		Airline:        flight.Airline,
		Origin:         flight.Origin,
		Destination:    flight.Destination,
		DepartureTime:  flight.DepartureTime,
		ArrivalTime:    flight.ArrivalTime,
		Price:          flight.Price,
		TotalSeats:     flight.TotalSeats,
		AvailableSeats: flight.AvailableSeats,
		Active:         flight.Active,
	})
}

func (h *FlightHandler) availability(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, &domain.ValidationError{Field: "id", Reason: "must be an integer"})
		return
	}

	av, err := h.service.CheckAvailability(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Availability checked", av)
}

func (h *FlightHandler) reserve(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, &domain.ValidationError{Field: "id", Reason: "must be an integer"})
		return
	}

	reserved, err := h.service.Reserve(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	message := "Seat reserved"
	if !reserved {
		message = "No seats available"
	}
	respond(c, http.StatusOK, message, reserved)
}

func (h *FlightHandler) release(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, &domain.ValidationError{Field: "id", Reason: "must be an integer"})
		return
	}

	released, err := h.service.Release(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	message := "Seat released"
	if !released {
		message = "All seats already free"
	}
	respond(c, http.StatusOK, message, released)
}
