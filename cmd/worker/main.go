package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmsavelev/tripbooking/config"
	"github.com/dmsavelev/tripbooking/internal/cache"
	"github.com/dmsavelev/tripbooking/internal/clients"
	"github.com/dmsavelev/tripbooking/internal/domain"
	"github.com/dmsavelev/tripbooking/internal/kafka"
	"github.com/dmsavelev/tripbooking/internal/logger"
	"github.com/dmsavelev/tripbooking/internal/metrics"
	"github.com/dmsavelev/tripbooking/internal/repository"
	"github.com/dmsavelev/tripbooking/internal/service/booking"
	"github.com/dmsavelev/tripbooking/internal/service/flights"
	"github.com/dmsavelev/tripbooking/internal/service/hotels"
	"github.com/dmsavelev/tripbooking/internal/service/notifications"
	"github.com/dmsavelev/tripbooking/internal/service/users"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// The worker drains the notifications topic and periodically reconciles
// settled payments against bookings that never heard the callback.
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		zl.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis,
		time.Duration(cfg.Booking.AvailabilityCacheTTL)*time.Second,
		time.Duration(cfg.Booking.CallbackDedupeTTLMinutes)*time.Minute)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	m := metrics.New()
	callTimeout := time.Duration(cfg.Booking.RemoteCallTimeoutSeconds) * time.Second

	flightRepo := repository.NewFlightRepository(pool)
	hotelRepo := repository.NewHotelRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	flightService := flights.NewFlightService(flightRepo, redisCache, zl.Named("flights"))
	hotelService := hotels.NewHotelService(hotelRepo, redisCache, zl.Named("hotels"))
	userService := users.NewUserService(userRepo, zl.Named("users"))
	notificationService := notifications.NewNotificationService(notificationRepo, zl.Named("notifications"))

	bookingService := booking.NewBookingService(
		bookingRepo,
		userService,
		flightService,
		hotelService,
		redisCache,
		producer,
		zl.Named("booking"),
		callTimeout,
		cfg.Booking.NotifyRetries,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithMetrics(m),
	)

	send := func(ctx context.Context, userID int64, title, message string) error {
		_, err := notificationService.Send(ctx, notifications.SendInput{
			UserID:  userID,
			Title:   title,
			Message: message,
		})
		return err
	}
	if cfg.Services.NotificationURL != "" {
		send = clients.NewNotificationClient(cfg.Services.NotificationURL, callTimeout).Send
	}

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, zl.Named("consumer"))
	defer consumer.Close()

	go func() {
		err := consumer.Consume(ctx, func(ctx context.Context, event kafka.NotificationEvent) error {
			if err := send(ctx, event.UserID, event.Title, event.Message); err != nil {
				zl.Error("notification delivery failed",
					zap.Int64("booking_id", event.BookingID), zap.Error(err))
			}
			return nil
		})
		if err != nil && ctx.Err() == nil {
			zl.Error("consumer stopped", zap.Error(err))
		}
	}()

	sweep := time.NewTicker(time.Duration(cfg.Worker.ReconcileSweepMinutes) * time.Minute)
	defer sweep.Stop()

	lookback := time.Duration(cfg.Worker.ReconcileLookbackMinutes) * time.Minute

	for {
		select {
		case <-sweep.C:
			reconcile(ctx, zl, m, paymentRepo, bookingService, lookback)
		case <-ctx.Done():
			zl.Info("shutting down")
			return
		}
	}
}

// reconcile drives bookings forward when a payment settled but the callback
// never landed, leaving the booking stuck in PENDING.
func reconcile(
	ctx context.Context,
	zl *zap.Logger,
	m *metrics.Metrics,
	paymentRepo repository.PaymentRepository,
	bookings booking.BookingUseCase,
	lookback time.Duration,
) {
	settled, err := paymentRepo.ListSettledSince(ctx, time.Now().Add(-lookback))
	if err != nil {
		zl.Error("reconcile sweep failed to list payments", zap.Error(err))
		return
	}

	// A booking may carry several settled payments (a decline followed by a
	// successful retry); only the most recent one decides the outcome.
	latest := make(map[int64]domain.Payment, len(settled))
	for _, payment := range settled {
		if current, ok := latest[payment.BookingID]; ok && current.UpdatedAt.After(payment.UpdatedAt) {
			continue
		}
		latest[payment.BookingID] = payment
	}

	for _, payment := range latest {
		b, err := bookings.GetByID(ctx, payment.BookingID)
		if err != nil {
			zl.Warn("reconcile: booking lookup failed",
				zap.Int64("booking_id", payment.BookingID), zap.Error(err))
			continue
		}
		if b.Status != domain.BookingStatusPending {
			continue
		}

		target := domain.BookingStatusFailed
		if payment.Status == domain.PaymentStatusSuccess {
			target = domain.BookingStatusConfirmed
		}
		if _, err := bookings.UpdateStatus(ctx, b.ID, target); err != nil {
			zl.Error("reconcile: status update failed",
				zap.Int64("booking_id", b.ID), zap.Error(err))
			continue
		}
		m.ReconciledBookings.Inc()
		zl.Info("reconciled booking against settled payment",
			zap.Int64("booking_id", b.ID),
			zap.String("payment_status", string(payment.Status)),
			zap.String("booking_status", string(target)))
	}
}
