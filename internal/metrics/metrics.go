package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a private registry. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	MovementsTotal       *prometheus.CounterVec
	MovementDuration     *prometheus.HistogramVec
	VersionConflicts     *prometheus.CounterVec
	CompensationsTotal   *prometheus.CounterVec
	CacheRequestsTotal   *prometheus.CounterVec
	CacheInvalidations   prometheus.Counter
	EventsDelivered      *prometheus.CounterVec
	EventsRequeued       *prometheus.CounterVec
	SubscriberQueueDepth *prometheus.GaugeVec
	OrdersConsumed       *prometheus.CounterVec
}

type Config struct {
	Namespace string
}

func DefaultConfig() *Config {
	return &Config{Namespace: "omnipos_inventory"}
}

func New(config *Config) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	ns := config.Namespace
	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	m.HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: ns,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	m.MovementsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "movements_total",
		Help:      "Stock movements by type and outcome",
	}, []string{"type", "outcome"})

	m.MovementDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: ns,
		Name:      "movement_duration_seconds",
		Help:      "Stock movement latency including conflict retries",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"type"})

	m.VersionConflicts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "version_conflicts_total",
		Help:      "Optimistic concurrency conflicts, by whether the retry budget was exhausted",
	}, []string{"exhausted"})

	m.CompensationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "transfer_compensations_total",
		Help:      "Compensating adjustments issued for failed transfers",
	}, []string{"outcome"})

	m.CacheRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "cache_requests_total",
		Help:      "Read-through cache lookups by class and result",
	}, []string{"class", "result"})

	m.CacheInvalidations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "cache_invalidated_keys_total",
		Help:      "Cache keys invalidated",
	})

	m.EventsDelivered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "events_delivered_total",
		Help:      "Event deliveries by subscriber and outcome",
	}, []string{"subscriber", "outcome"})

	m.EventsRequeued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "events_requeued_total",
		Help:      "Events requeued after exhausting a retry cycle",
	}, []string{"subscriber"})

	m.SubscriberQueueDepth = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: ns,
		Name:      "subscriber_queue_depth",
		Help:      "Pending events per subscriber",
	}, []string{"subscriber"})

	m.OrdersConsumed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "orders_consumed_total",
		Help:      "OrderCreated messages consumed by outcome",
	}, []string{"outcome"})

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.MovementsTotal,
		m.MovementDuration,
		m.VersionConflicts,
		m.CompensationsTotal,
		m.CacheRequestsTotal,
		m.CacheInvalidations,
		m.EventsDelivered,
		m.EventsRequeued,
		m.SubscriberQueueDepth,
		m.OrdersConsumed,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) RecordMovement(typ, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.MovementsTotal.WithLabelValues(typ, outcome).Inc()
	m.MovementDuration.WithLabelValues(typ).Observe(d.Seconds())
}

func (m *Metrics) RecordVersionConflict(exhausted bool) {
	if m == nil {
		return
	}
	m.VersionConflicts.WithLabelValues(strconv.FormatBool(exhausted)).Inc()
}

func (m *Metrics) RecordCompensation(outcome string) {
	if m == nil {
		return
	}
	m.CompensationsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordCacheRequest(class, result string) {
	if m == nil {
		return
	}
	m.CacheRequestsTotal.WithLabelValues(class, result).Inc()
}

func (m *Metrics) RecordInvalidation(keys int) {
	if m == nil {
		return
	}
	m.CacheInvalidations.Add(float64(keys))
}

func (m *Metrics) RecordDelivery(subscriber, outcome string) {
	if m == nil {
		return
	}
	m.EventsDelivered.WithLabelValues(subscriber, outcome).Inc()
}

func (m *Metrics) RecordRequeue(subscriber string) {
	if m == nil {
		return
	}
	m.EventsRequeued.WithLabelValues(subscriber).Inc()
}

func (m *Metrics) SetQueueDepth(subscriber string, depth int) {
	if m == nil {
		return
	}
	m.SubscriberQueueDepth.WithLabelValues(subscriber).Set(float64(depth))
}

func (m *Metrics) RecordOrderConsumed(outcome string) {
	if m == nil {
		return
	}
	m.OrdersConsumed.WithLabelValues(outcome).Inc()
}
