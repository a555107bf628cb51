package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dmsavelev/tripbooking/internal/domain"
	"github.com/dmsavelev/tripbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	UserID     int64  `json:"user_id" binding:"required"`
	FlightID   int64  `json:"flight_id" binding:"required"`
	HotelID    int64  `json:"hotel_id" binding:"required"`
	TravelDate string `json:"travel_date" binding:"required"`
}

type bookingResponse struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	FlightID         int64     `json:"flight_id"`
	HotelID          int64     `json:"hotel_id"`
	TravelDate       time.Time `json:"travel_date"`
	TotalCost        float64   `json:"total_cost"`
	Status           string    `json:"status"`
	BookingReference string    `json:"booking_reference"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/:id", h.get)
	router.GET("/user/:userId", h.listByUser)
	router.PUT("/:id/status", h.updateStatus)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	travelDate, err := time.Parse("2006-01-02", req.TravelDate)
	if err != nil {
		respondError(c, &domain.ValidationError{Field: "travel_date", Reason: "must be formatted YYYY-MM-DD"})
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		UserID:     req.UserID,
		FlightID:   req.FlightID,
		HotelID:    req.HotelID,
		TravelDate: travelDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Booking created successfully. Proceed to payment."
	if result.Status == domain.BookingStatusFailed {
		message = "Booking created but reservation failed"
	}
	respond(c, http.StatusCreated, message, toBookingResponse(result))
}

func (h *BookingHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, &domain.ValidationError{Field: "id", Reason: "must be an integer"})
		return
	}

	result, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Booking retrieved successfully", toBookingResponse(result))
}

func (h *BookingHandler) listByUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		respondError(c, &domain.ValidationError{Field: "userId", Reason: "must be an integer"})
		return
	}

	bookings, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	respond(c, http.StatusOK, "Bookings retrieved successfully", out)
}

func (h *BookingHandler) updateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, &domain.ValidationError{Field: "id", Reason: "must be an integer"})
		return
	}
	status, ok := domain.ParseBookingStatus(c.Query("status"))
	if !ok {
		respondError(c, &domain.ValidationError{Field: "status", Reason: "must be PENDING, CONFIRMED or FAILED"})
		return
	}

	var result *domain.Booking
	if reference := c.Query("reference"); reference != "" {
		result, err = h.service.UpdateStatusForPayment(c.Request.Context(), id, status, reference)
	} else {
		result, err = h.service.UpdateStatus(c.Request.Context(), id, status)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Booking status updated to "+string(result.Status), toBookingResponse(result))
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:               b.ID,
		UserID:           b.UserID,
		FlightID:         b.FlightID,
		HotelID:          b.HotelID,
		TravelDate:       b.TravelDate,
		TotalCost:        b.TotalCost,
		Status:           string(b.Status),
		BookingReference: b.BookingReference,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}
