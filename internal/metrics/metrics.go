// ABOUTME: Prometheus instrumentation for the analysis pipeline.
// ABOUTME: Recorder is the interface the service uses; Nop discards everything.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/harperreed/mood/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "mood"

// Recorder captures pipeline telemetry.
type Recorder interface {
	RecordAppend(kind string)
	RecordAnalysis(duration time.Duration, err error)
	RecordAnalyzerFailure(analyzer string)
	RecordInsights(patterns, predictions int)
	RecordWellness(score *models.WellnessScore)
	RecordWarning(w *models.EarlyWarning)
}

// Prometheus exports pipeline metrics to a Prometheus registry.
type Prometheus struct {
	appends          *prometheus.CounterVec
	runs             *prometheus.CounterVec
	runDuration      prometheus.Histogram
	analyzerFailures *prometheus.CounterVec
	insights         *prometheus.GaugeVec
	wellness         *prometheus.GaugeVec
	warningTriggered prometheus.Gauge
	warningSeverity  prometheus.Gauge
}

// NewPrometheus registers the pipeline metrics with reg. Registering twice
// with the same registry fails.
func NewPrometheus(namespace string, reg prometheus.Registerer) (*Prometheus, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	p := &Prometheus{
		appends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_appended_total",
			Help:      "Check-ins and quick logs appended, by kind.",
		}, []string{"kind"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_runs_total",
			Help:      "Analysis pipeline runs, by result.",
		}, []string{"result"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Latency of a full analysis pipeline run.",
			Buckets:   prometheus.DefBuckets,
		}),
		analyzerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyzer_failures_total",
			Help:      "Analyzers that failed and were skipped during a run.",
		}, []string{"analyzer"}),
		insights: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "insights",
			Help:      "Insights produced by the latest run, by kind.",
		}, []string{"kind"}),
		wellness: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "wellness_score",
			Help:      "Latest wellness score, overall and by component.",
		}, []string{"component"}),
		warningTriggered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "early_warning_triggered",
			Help:      "1 when the latest early warning check triggered.",
		}),
		warningSeverity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "early_warning_severity",
			Help:      "Latest early warning severity: 0 low, 1 medium, 2 high.",
		}),
	}

	collectors := []prometheus.Collector{
		p.appends, p.runs, p.runDuration, p.analyzerFailures,
		p.insights, p.wellness, p.warningTriggered, p.warningSeverity,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}
	return p, nil
}

func (p *Prometheus) RecordAppend(kind string) {
	p.appends.WithLabelValues(kind).Inc()
}

func (p *Prometheus) RecordAnalysis(duration time.Duration, err error) {
	p.runDuration.Observe(duration.Seconds())
	if err != nil {
		p.runs.WithLabelValues("error").Inc()
		return
	}
	p.runs.WithLabelValues("ok").Inc()
}

func (p *Prometheus) RecordAnalyzerFailure(analyzer string) {
	p.analyzerFailures.WithLabelValues(analyzer).Inc()
}

func (p *Prometheus) RecordInsights(patterns, predictions int) {
	p.insights.WithLabelValues("patterns").Set(float64(patterns))
	p.insights.WithLabelValues("predictions").Set(float64(predictions))
}

func (p *Prometheus) RecordWellness(score *models.WellnessScore) {
	if score == nil {
		return
	}
	b := score.Breakdown
	p.wellness.WithLabelValues("overall").Set(float64(score.Overall))
	p.wellness.WithLabelValues("mood_stability").Set(float64(b.MoodStability))
	p.wellness.WithLabelValues("coping_usage").Set(float64(b.CopingUsage))
	p.wellness.WithLabelValues("sleep_quality").Set(float64(b.SleepQuality))
	p.wellness.WithLabelValues("social_engagement").Set(float64(b.SocialEngagement))
	p.wellness.WithLabelValues("self_care").Set(float64(b.SelfCare))
}

func (p *Prometheus) RecordWarning(w *models.EarlyWarning) {
	if w == nil {
		return
	}
	triggered := 0.0
	if w.Triggered {
		triggered = 1
	}
	p.warningTriggered.Set(triggered)
	p.warningSeverity.Set(float64(w.Severity.Rank()))
}

// Handler serves the metrics in g over HTTP.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Nop is a Recorder that discards everything.
type Nop struct{}

func (Nop) RecordAppend(string) {}
func (Nop) RecordAnalysis(time.Duration, error) {}
func (Nop) RecordAnalyzerFailure(string) {}
func (Nop) RecordInsights(int, int) {}
func (Nop) RecordWellness(*models.WellnessScore) {}
func (Nop) RecordWarning(*models.EarlyWarning) {}
