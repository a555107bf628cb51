package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmsavelev/tripbooking/config"
	"github.com/dmsavelev/tripbooking/internal/bootstrap"
	"github.com/dmsavelev/tripbooking/internal/cache"
	"github.com/dmsavelev/tripbooking/internal/clients"
	"github.com/dmsavelev/tripbooking/internal/kafka"
	"github.com/dmsavelev/tripbooking/internal/logger"
	"github.com/dmsavelev/tripbooking/internal/metrics"
	"github.com/dmsavelev/tripbooking/internal/repository"
	"github.com/dmsavelev/tripbooking/internal/service/booking"
	"github.com/dmsavelev/tripbooking/internal/service/flights"
	"github.com/dmsavelev/tripbooking/internal/service/hotels"
	"github.com/dmsavelev/tripbooking/internal/service/notifications"
	"github.com/dmsavelev/tripbooking/internal/service/payments"
	"github.com/dmsavelev/tripbooking/internal/service/users"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

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

	// The orchestrator reaches its collaborators through capability
	// interfaces: over HTTP when a URL is configured, in-process otherwise.
	var userDirectory booking.UserDirectory = userService
	if cfg.Services.UserURL != "" {
		userDirectory = clients.NewUserClient(cfg.Services.UserURL, callTimeout)
	}
	var flightInventory booking.Inventory = flightService
	if cfg.Services.FlightURL != "" {
		flightInventory = clients.NewFlightInventoryClient(cfg.Services.FlightURL, callTimeout)
	}
	var hotelInventory booking.Inventory = hotelService
	if cfg.Services.HotelURL != "" {
		hotelInventory = clients.NewHotelInventoryClient(cfg.Services.HotelURL, callTimeout)
	}

	bookingService := booking.NewBookingService(
		bookingRepo,
		userDirectory,
		flightInventory,
		hotelInventory,
		redisCache,
		producer,
		zl.Named("booking"),
		callTimeout,
		cfg.Booking.NotifyRetries,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithMetrics(m),
	)

	var statusUpdater payments.BookingStatusUpdater = bookingService
	if cfg.Services.BookingURL != "" {
		statusUpdater = clients.NewBookingClient(cfg.Services.BookingURL, callTimeout)
	}

	gateway := payments.NewSimulatedGateway(
		time.Duration(cfg.Payment.GatewayLatencyMillis)*time.Millisecond,
		cfg.Payment.GatewaySuccessRate,
		time.Now().UnixNano(),
	)
	paymentService := payments.NewPaymentService(
		paymentRepo,
		gateway,
		statusUpdater,
		zl.Named("payments"),
		time.Duration(cfg.Payment.GatewayTimeoutSeconds)*time.Second,
		cfg.Payment.CallbackRetries,
		time.Duration(cfg.Payment.CallbackBackoffMillis)*time.Millisecond,
		payments.WithMetrics(m),
	)

	err = bootstrap.Run(ctx, cfg, bootstrap.Services{
		Bookings:      bookingService,
		Flights:       flightService,
		Hotels:        hotelService,
		Users:         userService,
		Payments:      paymentService,
		Notifications: notificationService,
	})
	if err != nil {
		zl.Fatal("server error", zap.Error(err))
	}
}
