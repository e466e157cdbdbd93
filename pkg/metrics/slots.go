package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SlotMetrics records slot cache behaviour and upstream fetch latency.
type SlotMetrics struct {
	lookups  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewSlotMetrics registers the slot metrics on the provided registerer.
func NewSlotMetrics(reg prometheus.Registerer) *SlotMetrics {
	if reg == nil {
		return &SlotMetrics{}
	}
	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "slot_cache_lookups_total",
		Help: "Slot cache lookups partitioned by result.",
	}, []string{"result"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "slot_fetch_duration_seconds",
		Help:    "Duration of upstream slot fetches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	reg.MustRegister(lookups, duration)
	return &SlotMetrics{
		lookups:  lookups,
		duration: duration,
	}
}

func (m *SlotMetrics) CacheHit() {
	m.incLookup("hit")
}

func (m *SlotMetrics) CacheMiss() {
	m.incLookup("miss")
}

// ObserveFetch records a finished upstream fetch.
func (m *SlotMetrics) ObserveFetch(outcome string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

func (m *SlotMetrics) incLookup(result string) {
	if m == nil || m.lookups == nil {
		return
	}
	m.lookups.WithLabelValues(result).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
