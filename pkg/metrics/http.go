package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics records per-route request metadata.
type RequestMetrics struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
}

// NewRequestMetrics registers the HTTP request metrics on the provided registerer.
func NewRequestMetrics(reg prometheus.Registerer) *RequestMetrics {
	if reg == nil {
		return &RequestMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})
	reg.MustRegister(duration, total)
	return &RequestMetrics{
		duration: duration,
		total:    total,
	}
}

// ObserveRequest records one completed request.
func (m *RequestMetrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	method = normalizeLabel(method)
	route = normalizeLabel(route)
	m.duration.WithLabelValues(method, route).Observe(duration.Seconds())
	m.total.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// SalesMetrics records settlement outcomes.
type SalesMetrics struct {
	paid   *prometheus.CounterVec
	voided prometheus.Counter
	amount prometheus.Counter
}

// NewSalesMetrics registers the sales metrics on the provided registerer.
func NewSalesMetrics(reg prometheus.Registerer) *SalesMetrics {
	if reg == nil {
		return &SalesMetrics{}
	}
	paid := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "transactions_paid_total",
		Help: "Paid transactions by payment method.",
	}, []string{"method"})
	voided := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "transactions_voided_total",
		Help: "Voided transactions.",
	})
	amount := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sales_amount_total",
		Help: "Cumulative settled sales amount in rupiah.",
	})
	reg.MustRegister(paid, voided, amount)
	return &SalesMetrics{
		paid:   paid,
		voided: voided,
		amount: amount,
	}
}

// ObservePaid records a settled transaction and its grand total.
func (m *SalesMetrics) ObservePaid(method string, total int64) {
	if m == nil || m.paid == nil {
		return
	}
	m.paid.WithLabelValues(normalizeLabel(method)).Inc()
	m.amount.Add(float64(total))
}

// ObserveVoided records a voided transaction.
func (m *SalesMetrics) ObserveVoided() {
	if m == nil || m.voided == nil {
		return
	}
	m.voided.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
