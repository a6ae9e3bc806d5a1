package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// rendering pipeline.
type Metrics struct {
	FramesRendered prometheus.Counter
	RenderErrors   prometheus.Counter
	RunActive      prometheus.Gauge

	FrameRenderDuration prometheus.Histogram
	RunDuration         prometheus.Histogram
	DatasetTimeSteps    prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FramesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "meteogram",
			Name:      "frames_rendered_total",
			Help:      "Total frames written to the output directory.",
		}),
		RenderErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "meteogram",
			Name:      "render_errors_total",
			Help:      "Total frame rendering failures.",
		}),
		RunActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "meteogram",
			Name:      "run_active",
			Help:      "1 while a rendering run is in progress.",
		}),
		FrameRenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "meteogram",
			Name:      "frame_render_duration_seconds",
			Help:      "Time to render and write one frame.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "meteogram",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete extract-align-render run.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		}),
		DatasetTimeSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "meteogram",
			Name:      "dataset_time_steps",
			Help:      "Number of time steps per extracted dataset.",
			Buckets:   []float64{1, 12, 24, 48, 72, 96, 120, 168},
		}),
	}

	prometheus.MustRegister(
		m.FramesRendered,
		m.RenderErrors,
		m.RunActive,
		m.FrameRenderDuration,
		m.RunDuration,
		m.DatasetTimeSteps,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FramesRendered:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "meteogram", Name: "frames_rendered_total"}),
		RenderErrors:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "meteogram", Name: "render_errors_total"}),
		RunActive:           prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "meteogram", Name: "run_active"}),
		FrameRenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "meteogram", Name: "frame_render_duration_seconds"}),
		RunDuration:         prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "meteogram", Name: "run_duration_seconds"}),
		DatasetTimeSteps:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "meteogram", Name: "dataset_time_steps"}),
	}
}
