package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dmsavelev/tripbooking/internal/domain"
	"github.com/dmsavelev/tripbooking/internal/service/payments"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	service payments.PaymentUseCase
}

type paymentResponse struct {
	ID            int64     `json:"id"`
	BookingID     int64     `json:"booking_id"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	TransactionID string    `json:"transaction_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewPaymentHandler(service payments.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{service: service}
}

func (h *PaymentHandler) Register(router *gin.RouterGroup) {
	router.POST("/process", h.process)
	router.GET("/:id", h.get)
	router.GET("/booking/:bookingId", h.getByBooking)
}

func (h *PaymentHandler) process(c *gin.Context) {
	var req payments.ProcessPaymentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	payment, err := h.service.ProcessPayment(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Payment processed successfully"
	if payment.Status == domain.PaymentStatusFailed {
		message = "Payment processing failed"
	}
	respond(c, http.StatusOK, message, toPaymentResponse(payment))
}

func (h *PaymentHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, &domain.ValidationError{Field: "id", Reason: "must be an integer"})
		return
	}

	payment, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Payment retrieved successfully", toPaymentResponse(payment))
}

func (h *PaymentHandler) getByBooking(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("bookingId"), 10, 64)
	if err != nil {
		respondError(c, &domain.ValidationError{Field: "bookingId", Reason: "must be an integer"})
		return
	}

	payment, err := h.service.GetByBookingID(c.Request.Context(), bookingID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Payment retrieved successfully", toPaymentResponse(payment))
}

func toPaymentResponse(p *domain.Payment) paymentResponse {
	return paymentResponse{
		ID:            p.ID,
		BookingID:     p.BookingID,
		Amount:        p.Amount,
		PaymentMethod: p.PaymentMethod,
		Status:        string(p.Status),
		TransactionID: p.TransactionID,
		CreatedAt:     p.CreatedAt,
	}
}
