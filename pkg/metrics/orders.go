package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics counts order workflow outcomes.
type OrderMetrics struct {
	placed         *prometheus.CounterVec
	paid           prometheus.Counter
	paymentFailure prometheus.Counter
}

// NewOrderMetrics registers the order workflow counters on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	placed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders placed, by payment method.",
	}, []string{"payment_method"})
	paid := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_paid_total",
		Help: "Orders with a confirmed gateway payment.",
	})
	paymentFailure := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_payment_failures_total",
		Help: "Gateway payment failures recorded against orders.",
	})
	reg.MustRegister(placed, paid, paymentFailure)
	return &OrderMetrics{
		placed:         placed,
		paid:           paid,
		paymentFailure: paymentFailure,
	}
}

// IncPlaced counts a placed order under its payment method.
func (o *OrderMetrics) IncPlaced(paymentMethod string) {
	if o == nil || o.placed == nil {
		return
	}
	o.placed.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

// IncPaid counts a confirmed payment.
func (o *OrderMetrics) IncPaid() {
	if o == nil || o.paid == nil {
		return
	}
	o.paid.Inc()
}

// IncPaymentFailed counts a recorded payment failure.
func (o *OrderMetrics) IncPaymentFailed() {
	if o == nil || o.paymentFailure == nil {
		return
	}
	o.paymentFailure.Inc()
}
