package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TerminalMetrics records gateway-level POS activity.
type TerminalMetrics struct {
	backendLatency *prometheus.HistogramVec
	paymentsTotal  *prometheus.CounterVec
	ordersTotal    *prometheus.CounterVec
	backendErrors  *prometheus.CounterVec
}

// NewTerminalMetrics registers the terminal metrics on the provided registerer.
func NewTerminalMetrics(reg prometheus.Registerer) *TerminalMetrics {
	if reg == nil {
		return &TerminalMetrics{}
	}
	backendLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backend_call_duration_seconds",
		Help:    "Latency of calls to the POS backend.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	paymentsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_applied_total",
		Help: "Payments applied through the terminal.",
	}, []string{"scope", "method"})
	ordersTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders placed through the terminal.",
	}, []string{"source"})
	backendErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backend_call_errors_total",
		Help: "Failed calls to the POS backend.",
	}, []string{"operation"})
	reg.MustRegister(backendLatency, paymentsTotal, ordersTotal, backendErrors)
	return &TerminalMetrics{
		backendLatency: backendLatency,
		paymentsTotal:  paymentsTotal,
		ordersTotal:    ordersTotal,
		backendErrors:  backendErrors,
	}
}

// ObserveBackendCall records the latency of the named backend operation.
func (m *TerminalMetrics) ObserveBackendCall(operation string, duration time.Duration) {
	if m == nil || m.backendLatency == nil {
		return
	}
	m.backendLatency.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncPayment counts an applied payment by scope and method.
func (m *TerminalMetrics) IncPayment(scope, method string) {
	if m == nil || m.paymentsTotal == nil {
		return
	}
	m.paymentsTotal.WithLabelValues(normalizeLabel(scope), normalizeLabel(method)).Inc()
}

// IncOrder counts a placed order by source.
func (m *TerminalMetrics) IncOrder(source string) {
	if m == nil || m.ordersTotal == nil {
		return
	}
	m.ordersTotal.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncBackendError counts a failed backend call.
func (m *TerminalMetrics) IncBackendError(operation string) {
	if m == nil || m.backendErrors == nil {
		return
	}
	m.backendErrors.WithLabelValues(normalizeLabel(operation)).Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return value
}
