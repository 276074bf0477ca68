// Package metrics exposes the Prometheus collectors of the monitoring pipeline.
//
// Collectors are registered on the default registry at init through promauto
// and served by the /metrics route.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FramesProcessedTotal counts realtime frames by outcome (ok, rejected).
	FramesProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proctor_frames_processed_total",
			Help: "Total number of realtime frames submitted",
		},
		[]string{"outcome"},
	)

	// FrameProcessingDuration tracks decode, signal extraction and fusion of one frame.
	FrameProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "proctor_frame_processing_duration_seconds",
			Help:    "Duration of realtime frame processing in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	// AlertsTotal counts alert decisions written to the log by kind and severity.
	AlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proctor_alerts_total",
			Help: "Total number of alerts raised",
		},
		[]string{"type", "severity"},
	)

	// DetectorUnavailableTotal counts signals degraded because their detector failed.
	DetectorUnavailableTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proctor_detector_unavailable_total",
			Help: "Total number of signals degraded to not triggered because a detector failed",
		},
		[]string{"signal"},
	)

	// AlertLogFailuresTotal counts alert records that could not be persisted or published.
	AlertLogFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proctor_alert_log_failures_total",
			Help: "Total number of alert log failures",
		},
		[]string{"stage"},
	)

	// ActiveSessions reports how many sessions the store currently holds.
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "proctor_active_sessions",
			Help: "Number of monitored sessions held in memory",
		},
	)

	// BreakerState mirrors the remote signal source circuit breaker (0 closed, 1 half-open, 2 open).
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "proctor_breaker_state",
			Help: "Circuit breaker state of remote detectors",
		},
		[]string{"name"},
	)
)

func RecordFrame(outcome string, started time.Time) {
	FramesProcessedTotal.WithLabelValues(outcome).Inc()
	FrameProcessingDuration.Observe(time.Since(started).Seconds())
}

func RecordAlert(kind, severity string) {
	AlertsTotal.WithLabelValues(kind, severity).Inc()
}

func RecordDetectorUnavailable(signal string) {
	DetectorUnavailableTotal.WithLabelValues(signal).Inc()
}

func RecordAlertLogFailure(stage string) {
	AlertLogFailuresTotal.WithLabelValues(stage).Inc()
}
