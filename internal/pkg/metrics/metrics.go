// Package metrics holds the engine's Prometheus collectors.
//
// All recording methods are safe on a nil *Metrics, so callers that run without
// metrics (tests, tools) can pass nil.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Allocation outcomes.
const (
	OutcomeAllocated   = "allocated"
	OutcomeBackordered = "backordered"
	OutcomeContention  = "contention"
	OutcomeFailed      = "failed"
)

type Config struct {
	Namespace string
	Subsystem string
}

func DefaultConfig() Config {
	return Config{Namespace: "fulfillment", Subsystem: "engine"}
}

type Metrics struct {
	registry *prometheus.Registry

	AllocationsTotal     *prometheus.CounterVec
	ReservationConflicts prometheus.Counter
	ReservationsReleased *prometheus.CounterVec
	SLAOrders            *prometheus.GaugeVec
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	CircuitBreakerState  *prometheus.GaugeVec
}

// New registers every collector on a private registry together with the Go and
// process collectors.
func New(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{registry: registry}

	m.AllocationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "allocations_total",
		Help:      "Allocation attempts by outcome",
	}, []string{"outcome"})

	m.ReservationConflicts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "reservation_conflicts_total",
		Help:      "Reservations that lost a compare-and-swap race and were re-planned",
	})

	m.ReservationsReleased = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "reservations_released_total",
		Help:      "Reservations given back to inventory by reason",
	}, []string{"reason"})

	m.SLAOrders = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "sla_orders",
		Help:      "Open orders by SLA compliance status at the last sweep",
	}, []string{"status"})

	m.HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	m.HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path"})

	m.CircuitBreakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "circuit_breaker_state",
		Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open)",
	}, []string{"name"})

	registry.MustRegister(
		m.AllocationsTotal,
		m.ReservationConflicts,
		m.ReservationsReleased,
		m.SLAOrders,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.CircuitBreakerState,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) RecordAllocation(outcome string) {
	if m == nil {
		return
	}
	m.AllocationsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordReservationConflict() {
	if m == nil {
		return
	}
	m.ReservationConflicts.Inc()
}

func (m *Metrics) RecordReleased(reason string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.ReservationsReleased.WithLabelValues(reason).Add(float64(count))
}

// SetSLAOrders replaces the gauge values. Statuses missing from counts are reset to 0.
func (m *Metrics) SetSLAOrders(statuses []string, counts map[string]int) {
	if m == nil {
		return
	}
	for _, s := range statuses {
		m.SLAOrders.WithLabelValues(s).Set(float64(counts[s]))
	}
}

func (m *Metrics) RecordHTTPRequest(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
