package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voice_translator_pipeline_runs_total",
		Help: "Pipeline runs by mode and outcome",
	}, []string{"mode", "outcome"})

	StageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voice_translator_stage_failures_total",
		Help: "Failures by pipeline stage and reason",
	}, []string{"stage", "reason"})

	StageLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "voice_translator_stage_latency_seconds",
		Help:    "Latency of each backend call",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	ArtifactBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voice_translator_artifact_bytes_total",
		Help: "Bytes of synthesized audio written",
	})

	BreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "voice_translator_breaker_state",
		Help: "Circuit breaker state per backend (0 closed, 1 half-open, 2 open)",
	}, []string{"backend"})
)
