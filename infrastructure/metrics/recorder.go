// ABOUTME: Recorder implementations for service metrics
// ABOUTME: NoopRecorder discards everything; PrometheusRecorder exports counters and histograms

package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mai_analytics"

// NoopRecorder implements interfaces.Recorder and records nothing
type NoopRecorder struct{}

func (NoopRecorder) ObserveRefresh(string, time.Duration)              {}
func (NoopRecorder) ObserveAnalyticsQuery(string, bool, time.Duration) {}
func (NoopRecorder) IncTagged(string)                                  {}

// PrometheusRecorder implements interfaces.Recorder using Prometheus metrics
type PrometheusRecorder struct {
	refreshDuration *prom.HistogramVec
	refreshResults  *prom.CounterVec
	queryDuration   *prom.HistogramVec
	queryResults    *prom.CounterVec
	tagged          *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them on reg
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	p := &PrometheusRecorder{
		refreshDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Duration of view refresh calls",
			Buckets:   prom.DefBuckets,
		}, []string{"result"}),
		refreshResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_results_total",
			Help:      "View refresh calls by outcome",
		}, []string{"result"}),
		queryDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "analytics_query_duration_seconds",
			Help:      "Duration of outbound analytics queries",
			Buckets:   prom.DefBuckets,
		}, []string{"kind"}),
		queryResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "analytics_query_results_total",
			Help:      "Outbound analytics queries by kind and success",
		}, []string{"kind", "result"}),
		tagged: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "tagged_fragments_total",
			Help:      "HTML fragments tagged for content tracking",
		}, []string{"source"}),
	}
	reg.MustRegister(p.refreshDuration, p.refreshResults, p.queryDuration, p.queryResults, p.tagged)
	return p
}

func (p *PrometheusRecorder) ObserveRefresh(result string, d time.Duration) {
	p.refreshDuration.WithLabelValues(result).Observe(d.Seconds())
	p.refreshResults.WithLabelValues(result).Inc()
}

func (p *PrometheusRecorder) ObserveAnalyticsQuery(kind string, ok bool, d time.Duration) {
	res := "failed"
	if ok {
		res = "success"
	}
	p.queryDuration.WithLabelValues(kind).Observe(d.Seconds())
	p.queryResults.WithLabelValues(kind, res).Inc()
}

func (p *PrometheusRecorder) IncTagged(source string) {
	p.tagged.WithLabelValues(source).Inc()
}

// HTTPHandler serves the metrics gathered by g
func HTTPHandler(g prom.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
