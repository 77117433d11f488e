package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// MetricsNamespace is the namespace for all tickerd metrics.
	MetricsNamespace = "tickerd"

	// MetricsSubsystem is the subsystem for feed rendering metrics.
	MetricsSubsystem = "feed"
)

// FeedMetrics holds the Prometheus metrics for feed rendering.
type FeedMetrics struct {
	RendersTotal          *prometheus.CounterVec
	RenderDurationSeconds *prometheus.HistogramVec
	ElementsRendered      *prometheus.HistogramVec
}

// NewFeedMetrics creates and registers the feed rendering metrics.
func NewFeedMetrics(reg prometheus.Registerer) *FeedMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &FeedMetrics{
		RendersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Subsystem: MetricsSubsystem,
				Name:      "renders_total",
				Help:      "Total number of feed renders",
			},
			[]string{"channel", "status"},
		),
		RenderDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: MetricsNamespace,
				Subsystem: MetricsSubsystem,
				Name:      "render_duration_seconds",
				Help:      "Duration of feed renders in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
			},
			[]string{"channel"},
		),
		ElementsRendered: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: MetricsNamespace,
				Subsystem: MetricsSubsystem,
				Name:      "elements_rendered",
				Help:      "Number of elements produced per render",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10), // 1 to 512
			},
			[]string{"channel"},
		),
	}
}

// RecordRender records a completed render attempt.
func (m *FeedMetrics) RecordRender(channel, status string, durationSeconds float64, elements int) {
	m.RendersTotal.WithLabelValues(channel, status).Inc()
	m.RenderDurationSeconds.WithLabelValues(channel).Observe(durationSeconds)
	if status == "success" {
		m.ElementsRendered.WithLabelValues(channel).Observe(float64(elements))
	}
}
