// Package metrics exposes Prometheus instrumentation for snapshot
// fetches, reactions and the local gateway.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nhle/studyhub/internal/model"
)

const namespace = "studyhub"

// Fetch outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeAuth    = "auth"
)

// Metrics holds the studyhub collectors.
type Metrics struct {
	registry *prometheus.Registry

	SnapshotFetches  *prometheus.CounterVec
	SnapshotDuration prometheus.Histogram
	SnapshotRecords  *prometheus.GaugeVec
	Reactions        *prometheus.CounterVec
	GatewayRequests  *prometheus.CounterVec
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		SnapshotFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_fetches_total",
			Help:      "Snapshot fetches by outcome (success, failure, auth)",
		}, []string{"outcome"}),
		SnapshotDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_fetch_duration_seconds",
			Help:      "Time to fetch a full content snapshot",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		SnapshotRecords: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_records",
			Help:      "Records in the last fetched snapshot by content type",
		}, []string{"content_type"}),
		Reactions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reactions_total",
			Help:      "Like and upvote toggles by content type and outcome",
		}, []string{"content_type", "outcome"}),
		GatewayRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_requests_total",
			Help:      "Gateway HTTP requests by route and status code",
		}, []string{"route", "status"}),
	}
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordFetch records one snapshot fetch. s is ignored unless the outcome
// is a success.
func (m *Metrics) RecordFetch(outcome string, d time.Duration, s model.Snapshot) {
	if m == nil {
		return
	}
	m.SnapshotFetches.WithLabelValues(outcome).Inc()
	m.SnapshotDuration.Observe(d.Seconds())
	if outcome != OutcomeSuccess {
		return
	}
	m.SnapshotRecords.WithLabelValues(string(model.ContentNote)).Set(float64(len(s.Notes)))
	m.SnapshotRecords.WithLabelValues(string(model.ContentBlog)).Set(float64(len(s.Blogs)))
	m.SnapshotRecords.WithLabelValues(string(model.ContentDoubt)).Set(float64(len(s.Doubts)))
	m.SnapshotRecords.WithLabelValues(string(model.ContentForum)).Set(float64(len(s.Forums)))
}

// RecordReaction records a like or upvote toggle.
func (m *Metrics) RecordReaction(t model.ContentType, ok bool) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if !ok {
		outcome = OutcomeFailure
	}
	m.Reactions.WithLabelValues(string(t), outcome).Inc()
}

// RecordRequest records one gateway request.
func (m *Metrics) RecordRequest(route string, status int) {
	if m == nil {
		return
	}
	m.GatewayRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
