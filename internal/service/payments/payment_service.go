package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/dmsavelev/tripbooking/internal/domain"
	"github.com/dmsavelev/tripbooking/internal/metrics"
	"github.com/dmsavelev/tripbooking/internal/repository"
	"go.uber.org/zap"
)

type PaymentUseCase interface {
	ProcessPayment(ctx context.Context, input ProcessPaymentInput) (*domain.Payment, error)
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error)
}

// BookingStatusUpdater is the callback into the booking orchestrator that
// drives the booking forward once a payment settles. Keyed by the payment
// reference so redelivery is idempotent on the receiving side.
type BookingStatusUpdater interface {
	UpdateStatusForPayment(ctx context.Context, id int64, status domain.BookingStatus, reference string) (*domain.Booking, error)
}

type PaymentService struct {
	payments        repository.PaymentRepository
	gateway         Gateway
	bookings        BookingStatusUpdater
	metrics         *metrics.Metrics
	logger          *zap.Logger
	gatewayTimeout  time.Duration
	callbackRetries int
	callbackBackoff time.Duration
}

type ProcessPaymentInput struct {
	BookingID     int64   `json:"booking_id"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	CardNumber    string  `json:"card_number,omitempty"`
	CardHolder    string  `json:"card_holder,omitempty"`
	CardExpiry    string  `json:"card_expiry,omitempty"`
}

type PaymentServiceOption func(*PaymentService)

func WithMetrics(m *metrics.Metrics) PaymentServiceOption {
	return func(s *PaymentService) {
		s.metrics = m
	}
}

func NewPaymentService(
	payments repository.PaymentRepository,
	gateway Gateway,
	bookings BookingStatusUpdater,
	logger *zap.Logger,
	gatewayTimeout time.Duration,
	callbackRetries int,
	callbackBackoff time.Duration,
	opts ...PaymentServiceOption,
) *PaymentService {
	service := &PaymentService{
		payments:        payments,
		gateway:         gateway,
		bookings:        bookings,
		logger:          logger,
		gatewayTimeout:  gatewayTimeout,
		callbackRetries: callbackRetries,
		callbackBackoff: callbackBackoff,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// ProcessPayment persists a PENDING payment, authorizes it through the
// gateway and records the terminal outcome, then calls back the booking
// orchestrator. The callback is retried with backoff; exhaustion is logged
// and counted but does not fail the settled payment; the reconciliation
// sweep repairs the drift later.
func (s *PaymentService) ProcessPayment(ctx context.Context, input ProcessPaymentInput) (*domain.Payment, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		BookingID:     input.BookingID,
		Amount:        input.Amount,
		PaymentMethod: input.PaymentMethod,
	}
	if err := s.payments.CreatePending(ctx, payment); err != nil {
		return nil, err
	}
	s.logger.Info("processing payment",
		zap.Int64("payment_id", payment.ID), zap.Int64("booking_id", input.BookingID))

	gctx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	result, err := s.gateway.Authorize(gctx, GatewayRequest{
		BookingID:  input.BookingID,
		Amount:     input.Amount,
		Method:     input.PaymentMethod,
		CardNumber: input.CardNumber,
		CardHolder: input.CardHolder,
		CardExpiry: input.CardExpiry,
	})
	cancel()
	if err != nil {
		// A gateway timeout is a failure of this step, never a success.
		s.logger.Error("payment gateway call failed", zap.Int64("payment_id", payment.ID), zap.Error(err))
		result = GatewayResult{Authorized: false, Reason: "gateway unreachable"}
	}

	if result.Authorized {
		settled, err := s.payments.MarkSettled(ctx, payment.ID, domain.PaymentStatusSuccess, domain.NewTransactionID())
		if err != nil {
			return nil, err
		}
		s.countSettled(domain.PaymentStatusSuccess)
		s.logger.Info("payment successful",
			zap.Int64("payment_id", settled.ID), zap.String("transaction_id", settled.TransactionID))
		s.callbackBooking(ctx, settled, domain.BookingStatusConfirmed)
		return settled, nil
	}

	settled, err := s.payments.MarkSettled(ctx, payment.ID, domain.PaymentStatusFailed, "")
	if err != nil {
		return nil, err
	}
	s.countSettled(domain.PaymentStatusFailed)
	s.logger.Warn("payment declined",
		zap.Int64("payment_id", settled.ID), zap.String("reason", result.Reason))
	s.callbackBooking(ctx, settled, domain.BookingStatusFailed)
	return settled, nil
}

func (s *PaymentService) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	return s.payments.GetByID(ctx, id)
}

func (s *PaymentService) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	return s.payments.GetByBookingID(ctx, bookingID)
}

func (input ProcessPaymentInput) validate() error {
	if input.BookingID <= 0 {
		return &domain.ValidationError{Field: "booking_id", Reason: "must be positive"}
	}
	if input.Amount <= 0 {
		return &domain.ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if input.PaymentMethod == "" {
		return &domain.ValidationError{Field: "payment_method", Reason: "is required"}
	}
	return nil
}

func (s *PaymentService) callbackBooking(ctx context.Context, payment *domain.Payment, status domain.BookingStatus) {
	reference := payment.TransactionID
	if reference == "" {
		reference = fmt.Sprintf("PMT-%d", payment.ID)
	}

	var lastErr error
	for attempt := 0; attempt < s.callbackRetries; attempt++ {
		_, err := s.bookings.UpdateStatusForPayment(ctx, payment.BookingID, status, reference)
		if err == nil {
			s.countCallback("ok")
			return
		}
		lastErr = err

		if attempt == s.callbackRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			s.countCallback("error")
			s.logger.Error("booking status callback canceled",
				zap.Int64("booking_id", payment.BookingID), zap.Error(ctx.Err()))
			return
		case <-time.After(time.Duration(attempt+1) * s.callbackBackoff):
		}
	}

	s.logger.Error("booking status callback exhausted retries, payment and booking may drift",
		zap.Int64("booking_id", payment.BookingID),
		zap.String("status", string(status)),
		zap.Error(lastErr))
	s.countCallback("error")
}

func (s *PaymentService) countSettled(status domain.PaymentStatus) {
	if s.metrics != nil {
		s.metrics.PaymentsSettled.WithLabelValues(string(status)).Inc()
	}
}

func (s *PaymentService) countCallback(result string) {
	if s.metrics != nil {
		s.metrics.PaymentCallbacks.WithLabelValues(result).Inc()
	}
}

var _ PaymentUseCase = (*PaymentService)(nil)
