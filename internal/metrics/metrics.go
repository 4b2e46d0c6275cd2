package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hotel",
			Name:      "bookings_created_total",
			Help:      "Bookings successfully created.",
		},
	)

	bookingsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hotel",
			Name:      "bookings_rejected_total",
			Help:      "Booking requests rejected by reason.",
		},
		[]string{"reason"},
	)

	statusChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hotel",
			Name:      "booking_status_changes_total",
			Help:      "Booking status transitions.",
		},
		[]string{"from", "to"},
	)

	serviceChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hotel",
			Name:      "booking_service_changes_total",
			Help:      "Service attachment changes by operation.",
		},
		[]string{"op"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingsCreated, bookingsRejected, statusChanges, serviceChanges)
	})
}

func IncBookingCreated() {
	bookingsCreated.Inc()
}

// IncBookingRejected counts a refused booking request, e.g. reason "unavailable".
func IncBookingRejected(reason string) {
	bookingsRejected.WithLabelValues(reason).Inc()
}

func IncStatusChange(from, to string) {
	statusChanges.WithLabelValues(from, to).Inc()
}

func IncServiceChange(op string) {
	serviceChanges.WithLabelValues(op).Inc()
}
