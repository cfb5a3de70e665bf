package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docsite"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg                *prom.Registry
	stageDuration      *prom.HistogramVec
	stageResults       *prom.CounterVec
	buildDuration      prom.Histogram
	buildOutcome       *prom.CounterVec
	entriesLoaded      *prom.GaugeVec
	validationFailures *prom.CounterVec
	feedItems          prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		entriesLoaded: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "entries_loaded",
			Help:      "Validated entries per collection in the last load",
		}, []string{"collection"}),
		validationFailures: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Content load failures by collection and error kind",
		}, []string{"collection", "kind"}),
		feedItems: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "feed_items",
			Help:      "Items written to the last rendered feed",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.stageResults, pr.buildDuration, pr.buildOutcome,
		pr.entriesLoaded, pr.validationFailures, pr.feedItems)
	return pr
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetEntriesLoaded(collection string, n int) {
	p.entriesLoaded.WithLabelValues(collection).Set(float64(n))
}

func (p *PrometheusRecorder) IncValidationFailure(collection string, kind string) {
	p.validationFailures.WithLabelValues(collection, kind).Inc()
}

func (p *PrometheusRecorder) SetFeedItems(n int) {
	p.feedItems.Set(float64(n))
}

// WriteTextfile writes all registered metrics to path in the Prometheus text
// format. The file is written atomically.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.reg)
}
