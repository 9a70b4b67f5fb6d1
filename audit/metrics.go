package audit

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/blogem/insurance-rates/models"
)

// Drop reasons reported to Metrics.EventDropped.
const (
	DropQueueFull = "queue_full"
	DropClosed    = "closed"
	DropRejected  = "rejected"
	DropExhausted = "retries_exhausted"
)

// Metrics defines the interface for dispatcher metrics.
type Metrics interface {
	EventEmitted(action models.Action)
	EventDelivered(action models.Action)
	EventDropped(action models.Action, reason string)
	DeliveryRetried()
	DeliveryLatency(d time.Duration)
	QueueDepth(n int)
}

// PrometheusMetrics implements Metrics with Prometheus.
type PrometheusMetrics struct {
	emitted   *prometheus.CounterVec
	delivered *prometheus.CounterVec
	dropped   *prometheus.CounterVec
	retries   prometheus.Counter
	latency   prometheus.Histogram
	depth     prometheus.Gauge
}

// NewPrometheusMetrics creates and registers the dispatcher collectors.
func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	m := &PrometheusMetrics{
		emitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "audit_events_emitted_total",
				Help: "Total number of audit events accepted into the delivery queue",
			},
			[]string{"action"},
		),
		delivered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "audit_events_delivered_total",
				Help: "Total number of audit events acknowledged by the log service",
			},
			[]string{"action"},
		),
		dropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "audit_events_dropped_total",
				Help: "Total number of audit events given up on",
			},
			[]string{"action", "reason"},
		),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "audit_delivery_retries_total",
			Help: "Total number of delivery attempts that were retried",
		}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "audit_delivery_latency_seconds",
			Help:    "Time from dequeue to acknowledgement of a batch, retries included",
			Buckets: prometheus.DefBuckets,
		}),
		depth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "audit_queue_depth",
			Help: "Number of audit events waiting for delivery",
		}),
	}
	registerer.MustRegister(m.emitted, m.delivered, m.dropped, m.retries, m.latency, m.depth)
	return m
}

func (m *PrometheusMetrics) EventEmitted(action models.Action) {
	m.emitted.WithLabelValues(string(action)).Inc()
}

func (m *PrometheusMetrics) EventDelivered(action models.Action) {
	m.delivered.WithLabelValues(string(action)).Inc()
}

func (m *PrometheusMetrics) EventDropped(action models.Action, reason string) {
	m.dropped.WithLabelValues(string(action), reason).Inc()
}

func (m *PrometheusMetrics) DeliveryRetried() {
	m.retries.Inc()
}

func (m *PrometheusMetrics) DeliveryLatency(d time.Duration) {
	m.latency.Observe(d.Seconds())
}

func (m *PrometheusMetrics) QueueDepth(n int) {
	m.depth.Set(float64(n))
}

// nopMetrics is a no-op Metrics implementation.
type nopMetrics struct{}

func (nopMetrics) EventEmitted(models.Action) {}
func (nopMetrics) EventDelivered(models.Action) {}
func (nopMetrics) EventDropped(models.Action, string) {}
func (nopMetrics) DeliveryRetried() {}
func (nopMetrics) DeliveryLatency(time.Duration) {}
func (nopMetrics) QueueDepth(int) {}
