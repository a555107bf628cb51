package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dmsavelev/tripbooking/api"
	"github.com/dmsavelev/tripbooking/config"
	"github.com/dmsavelev/tripbooking/internal/service/booking"
	"github.com/dmsavelev/tripbooking/internal/service/flights"
	"github.com/dmsavelev/tripbooking/internal/service/hotels"
	"github.com/dmsavelev/tripbooking/internal/service/notifications"
	"github.com/dmsavelev/tripbooking/internal/service/payments"
	"github.com/dmsavelev/tripbooking/internal/service/users"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles everything the HTTP surface exposes.
type Services struct {
	Bookings      booking.BookingUseCase
	Flights       flights.FlightUseCase
	Hotels        hotels.HotelUseCase
	Users         users.UserUseCase
	Payments      payments.PaymentUseCase
	Notifications notifications.NotificationUseCase
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, svc Services) error {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: NewRouter(svc),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// NewRouter wires all handlers onto a gin engine.
func NewRouter(svc Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	api.NewBookingHandler(svc.Bookings).Register(router.Group("/bookings"))
	api.NewFlightHandler(svc.Flights).Register(router.Group("/flights"))
	api.NewHotelHandler(svc.Hotels).Register(router.Group("/hotels"))
	api.NewUserHandler(svc.Users).Register(router.Group("/users"))
	api.NewPaymentHandler(svc.Payments).Register(router.Group("/payments"))
	api.NewNotificationHandler(svc.Notifications).Register(router.Group("/notifications"))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
