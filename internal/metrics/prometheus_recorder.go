package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "sitecfg"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	assembleDuration *prom.HistogramVec
	issues           *prom.CounterVec
	documents        *prom.GaugeVec
	reloads          *prom.CounterVec
	emitDuration     *prom.HistogramVec
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		assembleDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "assemble_duration_seconds",
			Help:      "Duration of site assembly runs",
			Buckets:   prom.DefBuckets,
		}, []string{"outcome"}),
		issues: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "validation_issues_total",
			Help:      "Validation findings by severity",
		}, []string{"severity"}),
		documents: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "collection_documents",
			Help:      "Documents loaded per collection in the last assembly",
		}, []string{"collection"}),
		reloads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "reloads_total",
			Help:      "Watch mode reloads by trigger and outcome",
		}, []string{"trigger", "outcome"}),
		emitDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "emit_duration_seconds",
			Help:      "Duration of writing one output format",
			Buckets:   prom.DefBuckets,
		}, []string{"format"}),
	}
	reg.MustRegister(pr.assembleDuration, pr.issues, pr.documents, pr.reloads, pr.emitDuration)
	return pr
}

func (p *PrometheusRecorder) ObserveAssemble(d time.Duration, outcome Outcome) {
	if p == nil {
		return
	}
	p.assembleDuration.WithLabelValues(string(outcome)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) AddIssues(severity string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.issues.WithLabelValues(severity).Add(float64(n))
}

func (p *PrometheusRecorder) SetDocuments(collection string, n int) {
	if p == nil {
		return
	}
	p.documents.WithLabelValues(collection).Set(float64(n))
}

func (p *PrometheusRecorder) IncReload(trigger string, outcome Outcome) {
	if p == nil {
		return
	}
	p.reloads.WithLabelValues(trigger, string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveEmit(format string, d time.Duration) {
	if p == nil {
		return
	}
	p.emitDuration.WithLabelValues(format).Observe(d.Seconds())
}
