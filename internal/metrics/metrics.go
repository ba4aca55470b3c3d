// Package metrics holds the Prometheus instruments for upstream calls,
// news fallbacks and filing analyses.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Fallback reasons.
const (
	ReasonPrimaryEmpty = "primary_empty"
	ReasonPrimaryError = "primary_error"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	UpstreamRequests *prometheus.CounterVec
	NewsFallbacks    *prometheus.CounterVec
	Analyses         *prometheus.CounterVec
	TickerIndexSize  prometheus.Gauge
}

// New creates the metrics and registers them with reg. Pass
// prometheus.NewRegistry() in tests to avoid clashing registrations.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		UpstreamRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tickerintel_upstream_requests_total",
			Help: "Outbound requests to data sources, by source and outcome",
		}, []string{"source", "outcome"}),
		NewsFallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tickerintel_news_fallbacks_total",
			Help: "News lookups served by the fallback feed, by reason",
		}, []string{"reason"}),
		Analyses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tickerintel_filing_analyses_total",
			Help: "Filing analyses requested, by outcome",
		}, []string{"outcome"}),
		TickerIndexSize: f.NewGauge(prometheus.GaugeOpts{
			Name: "tickerintel_ticker_index_size",
			Help: "Number of tickers in the loaded CIK mapping",
		}),
	}
}

// ObserveUpstream records one outbound request. Safe on a nil receiver so
// components can run without metrics.
func (m *Metrics) ObserveUpstream(source string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.UpstreamRequests.WithLabelValues(source, outcome).Inc()
}

// IncrementFallback records a news lookup that used the secondary feed.
func (m *Metrics) IncrementFallback(reason string) {
	if m == nil {
		return
	}
	m.NewsFallbacks.WithLabelValues(reason).Inc()
}

// IncrementAnalyses records an analysis outcome.
func (m *Metrics) IncrementAnalyses(outcome string) {
	if m == nil {
		return
	}
	m.Analyses.WithLabelValues(outcome).Inc()
}

// SetTickerIndexSize records the size of the loaded CIK mapping.
func (m *Metrics) SetTickerIndexSize(n int) {
	if m == nil {
		return
	}
	m.TickerIndexSize.Set(float64(n))
}
