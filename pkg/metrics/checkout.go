package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess   = "success"
	OutcomeInvalid   = "invalid"
	OutcomeDeclined  = "declined"
	OutcomeCancelled = "cancelled"
)

// CheckoutMetrics counts order placement attempts and booking submissions.
type CheckoutMetrics struct {
	orders   *prometheus.CounterVec
	bookings *prometheus.CounterVec
}

func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_orders_total",
		Help: "Order placement attempts partitioned by outcome.",
	}, []string{"outcome"})
	bookings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reservation_bookings_total",
		Help: "Table booking submissions partitioned by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(orders, bookings)
	return &CheckoutMetrics{orders: orders, bookings: bookings}
}

func (c *CheckoutMetrics) IncOrder(outcome string) {
	if c == nil || c.orders == nil {
		return
	}
	c.orders.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (c *CheckoutMetrics) IncBooking(outcome string) {
	if c == nil || c.bookings == nil {
		return
	}
	c.bookings.WithLabelValues(normalizeLabel(outcome)).Inc()
}
