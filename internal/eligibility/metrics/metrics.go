// Package metrics holds Prometheus metrics for the eligibility engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RefreshesTotal    prometheus.Counter
	MatchedSchemes    prometheus.Histogram
	MalformedPolicies prometheus.Counter
	RefreshDuration   prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		RefreshesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "schemeteller_eligibility_refreshes_total",
			Help: "Total eligibility recompute-and-store operations.",
		}),
		MatchedSchemes: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "schemeteller_eligibility_matched_schemes",
			Help:    "Number of schemes matched per evaluation.",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
		MalformedPolicies: promauto.NewCounter(prometheus.CounterOpts{
			Name: "schemeteller_eligibility_malformed_policies_total",
			Help: "Schemes rejected conservatively because their policy failed to parse.",
		}),
		RefreshDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "schemeteller_eligibility_refresh_duration_seconds",
			Help:    "Latency of the full recompute-and-store path.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) RecordRefresh(matched, malformed int, seconds float64) {
	if m == nil {
		return
	}
	m.RefreshesTotal.Inc()
	m.MatchedSchemes.Observe(float64(matched))
	m.MalformedPolicies.Add(float64(malformed))
	m.RefreshDuration.Observe(seconds)
}
