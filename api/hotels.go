package api

import (
	"net/http"
	"strconv"

	"github.com/dmsavelev/tripbooking/internal/domain"
	"github.com/dmsavelev/tripbooking/internal/service/hotels"
	"github.com/gin-gonic/gin"
)

type HotelHandler struct {
	service hotels.HotelUseCase
}

type hotelResponse struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Location       string  `json:"location"`
	PricePerNight  float64 `json:"price_per_night"`
	TotalRooms     int     `json:"total_rooms"`
	AvailableRooms int     `json:"available_rooms"`
	Active         bool    `json:"active"`
}

func NewHotelHandler(service hotels.HotelUseCase) *HotelHandler {
	return &HotelHandler{service: service}
}

func (h *HotelHandler) Register(router *gin.RouterGroup) {
	router.GET("/:id", h.get)
	router.GET("/:id/availability", h.availability)
	router.POST("/:id/reserve", h.reserve)
	router.POST("/:id/release", h.release)
}

func (h *HotelHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, &domain.ValidationError{Field: "id", Reason: "must be an integer"})
		return
	}

	hotel, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Hotel retrieved successfully", hotelResponse{
		ID:             hotel.ID,
		Name:           hotel.Name,
		Location:       hotel.Location,
		PricePerNight:  hotel.PricePerNight,
		TotalRooms:     hotel.TotalRooms,
		AvailableRooms: hotel.AvailableRooms,
		Active:         hotel.Active,
	})
}

func (h *HotelHandler) availability(c *gin.Context) {
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

func (h *HotelHandler) reserve(c *gin.Context) {
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
	message := "Room reserved"
	if !reserved {
		message = "No rooms available"
	}
	respond(c, http.StatusOK, message, reserved)
}

func (h *HotelHandler) release(c *gin.Context) {
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
	message := "Room released"
	if !released {
		message = "All rooms already free"
	}
	respond(c, http.StatusOK, message, released)
}
