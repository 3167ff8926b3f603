package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docsite"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	fragmentRenders  *prom.CounterVec
	fragmentDuration prom.Histogram
	sourceLinks      *prom.CounterVec
	doctreeLoads     *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
// A nil reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		fragmentRenders: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "toctree_fragments_total",
			Help:      "Toctree fragment renders by outcome",
		}, []string{"outcome"}),
		fragmentDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "toctree_fragment_duration_seconds",
			Help:      "Duration of toctree fragment renders",
			Buckets:   prom.DefBuckets,
		}),
		sourceLinks: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "source_links_total",
			Help:      "Source link resolutions by outcome",
		}, []string{"outcome"}),
		doctreeLoads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "doctree_loads_total",
			Help:      "Doctree lookups by the layer that served them",
		}, []string{"source"}),
	}
	reg.MustRegister(pr.fragmentRenders, pr.fragmentDuration, pr.sourceLinks, pr.doctreeLoads)
	return pr
}

func (p *PrometheusRecorder) IncFragmentRender(outcome Outcome) {
	if p == nil || p.fragmentRenders == nil {
		return
	}
	p.fragmentRenders.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveFragmentDuration(d time.Duration) {
	if p == nil || p.fragmentDuration == nil {
		return
	}
	p.fragmentDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncSourceLink(outcome Outcome) {
	if p == nil || p.sourceLinks == nil {
		return
	}
	p.sourceLinks.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncDoctreeLoad(source DoctreeSource) {
	if p == nil || p.doctreeLoads == nil {
		return
	}
	p.doctreeLoads.WithLabelValues(string(source)).Inc()
}
