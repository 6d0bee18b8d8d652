package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// KioskMetrics records backend call outcomes and local store activity.
type KioskMetrics struct {
	backendDuration *prometheus.HistogramVec
	backendFailure  *prometheus.CounterVec
	cartMutations   *prometheus.CounterVec
	ordersSubmitted prometheus.Counter
}

// NewKioskMetrics registers the kiosk metrics on the provided registerer.
func NewKioskMetrics(reg prometheus.Registerer) *KioskMetrics {
	if reg == nil {
		return &KioskMetrics{}
	}
	backendDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backend_request_duration_seconds",
		Help:    "Duration of calls to the remote café services.",
		Buckets: prometheus.DefBuckets,
	}, []string{"service", "operation"})
	backendFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backend_request_failures",
		Help: "Failed calls to the remote café services.",
	}, []string{"service", "operation"})
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations",
		Help: "Cart store mutations by operation.",
	}, []string{"operation"})
	ordersSubmitted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_submitted",
		Help: "Orders accepted by the order service.",
	})
	reg.MustRegister(backendDuration, backendFailure, cartMutations, ordersSubmitted)
	return &KioskMetrics{
		backendDuration: backendDuration,
		backendFailure:  backendFailure,
		cartMutations:   cartMutations,
		ordersSubmitted: ordersSubmitted,
	}
}

// ObserveBackend records the duration of a backend call.
func (m *KioskMetrics) ObserveBackend(service, operation string, duration time.Duration) {
	if m == nil || m.backendDuration == nil {
		return
	}
	m.backendDuration.WithLabelValues(normalizeLabel(service), normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncBackendFailure increments the failure counter for a backend call.
func (m *KioskMetrics) IncBackendFailure(service, operation string) {
	if m == nil || m.backendFailure == nil {
		return
	}
	m.backendFailure.WithLabelValues(normalizeLabel(service), normalizeLabel(operation)).Inc()
}

// IncCartMutation increments the mutation counter for the cart store.
func (m *KioskMetrics) IncCartMutation(operation string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncOrderSubmitted increments the accepted-order counter.
func (m *KioskMetrics) IncOrderSubmitted() {
	if m == nil || m.ordersSubmitted == nil {
		return
	}
	m.ordersSubmitted.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
