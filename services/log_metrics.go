package services

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/blogem/insurance-rates/models"
)

// LogMetrics counts ingestion outcomes. A nil *LogMetrics records nothing.
type LogMetrics struct {
	ingestedTotal *prometheus.CounterVec
	rejectedTotal prometheus.Counter
	failedTotal   prometheus.Counter
}

// NewLogMetrics creates and registers the ingestion collectors
func NewLogMetrics(registerer prometheus.Registerer) *LogMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	m := &LogMetrics{
		ingestedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "log_entries_ingested_total",
			Help: "Total number of audit events stored as log entries",
		}, []string{"action"}),
		rejectedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "log_events_rejected_total",
			Help: "Total number of incoming audit events rejected as invalid",
		}),
		failedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "log_ingest_failures_total",
			Help: "Total number of audit events that could not be stored",
		}),
	}
	registerer.MustRegister(m.ingestedTotal, m.rejectedTotal, m.failedTotal)
	return m
}

func (m *LogMetrics) ingested(action models.Action) {
	if m != nil {
		m.ingestedTotal.WithLabelValues(string(action)).Inc()
	}
}

func (m *LogMetrics) rejected(n int) {
	if m != nil {
		m.rejectedTotal.Add(float64(n))
	}
}

func (m *LogMetrics) failed(n int) {
	if m != nil {
		m.failedTotal.Add(float64(n))
	}
}
