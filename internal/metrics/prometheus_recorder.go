package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration *prom.HistogramVec
	buildDuration prom.Histogram
	stageResults  *prom.CounterVec
	buildOutcome  *prom.CounterVec
	toolDuration  *prom.HistogramVec
	toolResults   *prom.CounterVec
}

// toolBuckets covers cook/package runs that take anywhere from seconds to hours.
var toolBuckets = []float64{10, 30, 60, 120, 300, 600, 1200, 2400, 3600, 7200}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "ue4build",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   toolBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "ue4build",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   toolBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "ue4build",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "ue4build",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		toolDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "ue4build",
			Name:      "uat_duration_seconds",
			Help:      "Duration of AutomationTool invocations by target (main or mod name)",
			Buckets:   toolBuckets,
		}, []string{"target"}),
		toolResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "ue4build",
			Name:      "uat_results_total",
			Help:      "AutomationTool invocation results by target",
		}, []string{"target", "result"}),
	}
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome, pr.toolDuration, pr.toolResults)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveToolRun(target string, d time.Duration, result ResultLabel) {
	if p == nil {
		return
	}
	p.toolDuration.WithLabelValues(target).Observe(d.Seconds())
	p.toolResults.WithLabelValues(target, string(result)).Inc()
}

// WriteTextfile writes every metric gathered from reg to path in the Prometheus text format.
func WriteTextfile(path string, reg *prom.Registry) error {
	if err := prom.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
