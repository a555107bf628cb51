package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmsavelev/tripbooking/internal/domain"
	"github.com/dmsavelev/tripbooking/internal/kafka"
	"github.com/dmsavelev/tripbooking/internal/metrics"
	"github.com/dmsavelev/tripbooking/internal/repository"
	"go.uber.org/zap"
)

const referenceRetries = 5

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)
	UpdateStatusForPayment(ctx context.Context, id int64, status domain.BookingStatus, reference string) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
}

// UserDirectory reports whether a user exists and is active.
type UserDirectory interface {
	Validate(ctx context.Context, id int64) (bool, error)
}

// Inventory is the contract both scarce-resource services expose: a
// non-mutating availability check, an atomic reserve-one-unit, and the
// compensating release.
type Inventory interface {
	CheckAvailability(ctx context.Context, id int64) (*domain.Availability, error)
	Reserve(ctx context.Context, id int64) (bool, error)
	Release(ctx context.Context, id int64) (bool, error)
}

type Producer interface {
	PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error
}

type Cache interface {
	MarkCallbackSeen(ctx context.Context, reference string) (bool, error)
	UnmarkCallbackSeen(ctx context.Context, reference string) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	users              UserDirectory
	flights            Inventory
	hotels             Inventory
	cache              Cache
	producer           Producer
	metrics            *metrics.Metrics
	logger             *zap.Logger
	notificationsTopic string
	callTimeout        time.Duration
	notifyRetries      int
}

type CreateBookingInput struct {
	UserID     int64     `json:"user_id"`
	FlightID   int64     `json:"flight_id"`
	HotelID    int64     `json:"hotel_id"`
	TravelDate time.Time `json:"travel_date"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithMetrics(m *metrics.Metrics) BookingServiceOption {
	return func(s *BookingService) {
		s.metrics = m
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	users UserDirectory,
	flights Inventory,
	hotels Inventory,
	cache Cache,
	producer Producer,
	logger *zap.Logger,
	callTimeout time.Duration,
	notifyRetries int,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:      bookings,
		users:         users,
		flights:       flights,
		hotels:        hotels,
		cache:         cache,
		producer:      producer,
		logger:        logger,
		callTimeout:   callTimeout,
		notifyRetries: notifyRetries,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking runs the booking saga: validate the user, check both
// inventories, persist the booking PENDING, then reserve a seat and a room
// with two independent remote calls. A failed second reservation releases
// the first one and the booking is persisted FAILED. No booking row exists
// for failures before persistence.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	valid, err := s.validateUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, &domain.BusinessRuleError{Reason: "User validation failed"}
	}

	flightAv, err := s.checkInventory(ctx, s.flights, "flight", input.FlightID)
	if err != nil {
		return nil, err
	}
	if !flightAv.Available {
		return nil, &domain.BusinessRuleError{Reason: "Flight not available: " + flightAv.Reason}
	}

	hotelAv, err := s.checkInventory(ctx, s.hotels, "hotel", input.HotelID)
	if err != nil {
		return nil, err
	}
	if !hotelAv.Available {
		return nil, &domain.BusinessRuleError{Reason: "Hotel not available: " + hotelAv.Reason}
	}

	// Hotel price enters the total as a flat per-night rate, not multiplied
	// by stay length. Kept as-is from the source system.
	totalCost := flightAv.UnitPrice + hotelAv.UnitPrice

	booking := &domain.Booking{
		UserID:     input.UserID,
		FlightID:   input.FlightID,
		HotelID:    input.HotelID,
		TravelDate: input.TravelDate,
		TotalCost:  totalCost,
	}
	if err := s.persistWithReference(ctx, booking); err != nil {
		return nil, err
	}
	s.logger.Info("booking created",
		zap.Int64("booking_id", booking.ID),
		zap.String("reference", booking.BookingReference),
		zap.Float64("total_cost", totalCost))

	if err := s.reserveBoth(ctx, booking); err != nil {
		s.logger.Warn("reservation failed, marking booking FAILED",
			zap.Int64("booking_id", booking.ID), zap.Error(err))
		failed, _, uerr := s.bookings.UpdateStatus(ctx, booking.ID, domain.BookingStatusFailed)
		if uerr != nil {
			return nil, uerr
		}
		s.countBooking(domain.BookingStatusFailed)
		return failed, nil
	}

	s.countBooking(domain.BookingStatusPending)
	return booking, nil
}

// UpdateStatus is the single entry point for all booking status changes.
// Concurrent calls for the same booking are serialized by a row lock in the
// repository. An actual transition to CONFIRMED queues a notification; an
// idempotent repeat does not re-send it.
func (s *BookingService) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	booking, transitioned, err := s.bookings.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	if transitioned && status == domain.BookingStatusConfirmed {
		s.queueNotification(ctx, booking)
	}
	return booking, nil
}

// UpdateStatusForPayment applies a payment-processor callback. The reference
// (transaction or payment id) deduplicates redelivered callbacks so the
// operation stays idempotent even when the processor retries. A dedupe claim
// is released again when the update itself fails, otherwise the processor's
// retries would be mistaken for duplicates and the transition never applied.
func (s *BookingService) UpdateStatusForPayment(ctx context.Context, id int64, status domain.BookingStatus, reference string) (*domain.Booking, error) {
	claimed := false
	if s.cache != nil && reference != "" {
		first, err := s.cache.MarkCallbackSeen(ctx, reference)
		if err != nil {
			// Dedupe is best effort; the transition check below still keeps
			// the update idempotent.
			s.logger.Warn("callback dedupe unavailable", zap.Error(err))
		} else if !first {
			s.logger.Info("duplicate payment callback ignored",
				zap.Int64("booking_id", id), zap.String("reference", reference))
			return s.bookings.GetByID(ctx, id)
		} else {
			claimed = true
		}
	}

	booking, err := s.UpdateStatus(ctx, id, status)
	if err != nil {
		if claimed {
			if cerr := s.cache.UnmarkCallbackSeen(ctx, reference); cerr != nil {
				s.logger.Warn("failed to release callback dedupe claim",
					zap.String("reference", reference), zap.Error(cerr))
			}
		}
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *BookingService) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.bookings.ListByUserID(ctx, userID)
}

func (input CreateBookingInput) validate() error {
	if input.UserID <= 0 {
		return &domain.ValidationError{Field: "user_id", Reason: "must be positive"}
	}
	if input.FlightID <= 0 {
		return &domain.ValidationError{Field: "flight_id", Reason: "must be positive"}
	}
	if input.HotelID <= 0 {
		return &domain.ValidationError{Field: "hotel_id", Reason: "must be positive"}
	}
	if input.TravelDate.IsZero() {
		return &domain.ValidationError{Field: "travel_date", Reason: "is required"}
	}
	return nil
}

// validateUser folds every user-directory failure into a negative result:
// an unreachable or erroring directory must not confirm a user.
func (s *BookingService) validateUser(ctx context.Context, userID int64) (bool, error) {
	cctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	valid, err := s.users.Validate(cctx, userID)
	if err != nil {
		s.logger.Warn("user validation failed", zap.Int64("user_id", userID), zap.Error(err))
		return false, nil
	}
	return valid, nil
}

func (s *BookingService) checkInventory(ctx context.Context, inv Inventory, kind string, id int64) (*domain.Availability, error) {
	cctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	av, err := inv.CheckAvailability(cctx, id)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return nil, &domain.BusinessRuleError{Reason: fmt.Sprintf("%s not found with id: %d", kind, id)}
		}
		return nil, &domain.RemoteCallError{Service: kind + " inventory", Err: err}
	}
	return av, nil
}

func (s *BookingService) persistWithReference(ctx context.Context, booking *domain.Booking) error {
	for attempt := 0; attempt < referenceRetries; attempt++ {
		booking.BookingReference = domain.NewBookingReference()
		err := s.bookings.Create(ctx, booking)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicateReference) {
			return err
		}
		s.logger.Warn("booking reference collision, regenerating",
			zap.String("reference", booking.BookingReference))
	}
	return fmt.Errorf("could not generate a unique booking reference after %d attempts", referenceRetries)
}

// reserveBoth performs the two non-atomic reservations. When the hotel step
// fails after the flight seat was taken, the seat is released again so a
// partial failure does not leak inventory.
func (s *BookingService) reserveBoth(ctx context.Context, booking *domain.Booking) error {
	cctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	reserved, err := s.flights.Reserve(cctx, booking.FlightID)
	cancel()
	if err != nil {
		return &domain.RemoteCallError{Service: "flight inventory", Err: err}
	}
	if !reserved {
		return &domain.BusinessRuleError{Reason: "Failed to reserve flight"}
	}

	cctx, cancel = context.WithTimeout(ctx, s.callTimeout)
	reserved, err = s.hotels.Reserve(cctx, booking.HotelID)
	cancel()
	if err == nil && reserved {
		return nil
	}

	s.compensateFlight(ctx, booking.FlightID)
	if err != nil {
		return &domain.RemoteCallError{Service: "hotel inventory", Err: err}
	}
	return &domain.BusinessRuleError{Reason: "Failed to reserve hotel"}
}

func (s *BookingService) compensateFlight(ctx context.Context, flightID int64) {
	cctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	if _, err := s.flights.Release(cctx, flightID); err != nil {
		s.logger.Error("compensating flight release failed", zap.Int64("flight_id", flightID), zap.Error(err))
		s.countCompensation("error")
		return
	}
	s.logger.Info("released flight seat after failed hotel reservation", zap.Int64("flight_id", flightID))
	s.countCompensation("ok")
}

func (s *BookingService) queueNotification(ctx context.Context, booking *domain.Booking) {
	if s.producer == nil || s.notificationsTopic == "" {
		return
	}

	event := kafka.NotificationEvent{
		BookingID:        booking.ID,
		UserID:           booking.UserID,
		BookingReference: booking.BookingReference,
		Title:            "Booking Confirmed",
		Message: fmt.Sprintf("Your booking %s has been confirmed. Total: $%.2f",
			booking.BookingReference, booking.TotalCost),
		OccurredAt: time.Now(),
	}

	if err := s.producer.PublishWithRetry(ctx, s.notificationsTopic, booking.BookingReference, event, s.notifyRetries); err != nil {
		s.logger.Error("failed to queue confirmation notification",
			zap.Int64("booking_id", booking.ID), zap.Error(err))
		s.countNotification("error")
		return
	}
	s.countNotification("ok")
}

func (s *BookingService) countBooking(status domain.BookingStatus) {
	if s.metrics != nil {
		s.metrics.BookingsCreated.WithLabelValues(string(status)).Inc()
	}
}

func (s *BookingService) countCompensation(result string) {
	if s.metrics != nil {
		s.metrics.Compensations.WithLabelValues(result).Inc()
	}
}

func (s *BookingService) countNotification(result string) {
	if s.metrics != nil {
		s.metrics.NotificationsQueued.WithLabelValues(result).Inc()
	}
}

var _ BookingUseCase = (*BookingService)(nil)
