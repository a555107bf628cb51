package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	BookingsCreated     *prometheus.CounterVec
	Compensations       *prometheus.CounterVec
	NotificationsQueued *prometheus.CounterVec
	PaymentCallbacks    *prometheus.CounterVec
	PaymentsSettled     *prometheus.CounterVec
	ReconciledBookings  prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		BookingsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tripbooking_bookings_created_total",
			Help: "Bookings created by resulting status",
		}, []string{"status"}),

		Compensations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tripbooking_reservation_compensations_total",
			Help: "Compensating inventory releases by result",
		}, []string{"result"}),

		NotificationsQueued: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tripbooking_notifications_queued_total",
			Help: "Notification dispatches to the queue by result",
		}, []string{"result"}),

		PaymentCallbacks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tripbooking_payment_callbacks_total",
			Help: "Booking status callbacks from the payment processor by result",
		}, []string{"result"}),

		PaymentsSettled: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tripbooking_payments_settled_total",
			Help: "Payments settled by terminal status",
		}, []string{"status"}),

		ReconciledBookings: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripbooking_reconciled_bookings_total",
			Help: "Bookings driven to a terminal state by the reconciliation sweep",
		}),
	}
}
