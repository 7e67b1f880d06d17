// Package metrics exposes grapher runs as Prometheus metrics.
//
// The tool runs from cron and exits, so nothing is scraped. Instead the
// registry is written in the node_exporter textfile format at the end of a
// run with [Registry.WriteTextfile].
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	errs "github.com/mnemonic-no/act-utils/pkg/errors"
	"github.com/mnemonic-no/act-utils/pkg/observability"
)

const namespace = "act_datamodel"

// Registry holds the run metrics on a private Prometheus registry.
type Registry struct {
	FetchTotal     *prometheus.CounterVec
	FetchDuration  prometheus.Histogram
	DecisionsTotal *prometheus.CounterVec
	GraphNodes     *prometheus.GaugeVec
	GraphEdges     *prometheus.GaugeVec
	UploadsTotal   *prometheus.CounterVec
	RunsTotal      *prometheus.CounterVec
	RunDuration    prometheus.Gauge
	LastRun        prometheus.Gauge

	registry *prometheus.Registry
	now      func() time.Time
}

// NewRegistry creates a registry with all metrics registered.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry(), now: time.Now}
	f := promauto.With(r.registry)

	r.FetchTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_total",
		Help:      "Catalog fetches by HTTP status (0 for transport errors)",
	}, []string{"status"})

	r.FetchDuration = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Time spent fetching both catalogs",
		Buckets:   prometheus.DefBuckets,
	})

	r.DecisionsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "decisions_total",
		Help:      "Change detector verdicts",
	}, []string{"decision"})

	r.GraphNodes = f.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "graph_nodes",
		Help:      "Nodes in the last rendered graph",
	}, []string{"graph"})

	r.GraphEdges = f.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "graph_edges",
		Help:      "Edges in the last rendered graph",
	}, []string{"graph"})

	r.UploadsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Artifact uploads by target and result",
	}, []string{"target", "result"})

	r.RunsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Completed runs by outcome",
	}, []string{"outcome"})

	r.RunDuration = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_duration_seconds",
		Help:      "Duration of the last run",
	})

	r.LastRun = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last run completed",
	})

	return r
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }

// WriteTextfile writes all metrics to path in the text exposition format.
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "write metrics to %s", path)
	}
	return nil
}

// OnFetch implements observability.Hooks.
func (r *Registry) OnFetch(_ context.Context, status int, d time.Duration, _ error) {
	r.FetchTotal.WithLabelValues(strconv.Itoa(status)).Inc()
	r.FetchDuration.Observe(d.Seconds())
}

// OnDecision implements observability.Hooks.
func (r *Registry) OnDecision(_ context.Context, decision string) {
	r.DecisionsTotal.WithLabelValues(decision).Inc()
}

// OnGraph implements observability.Hooks.
func (r *Registry) OnGraph(_ context.Context, name string, nodes, edges int) {
	r.GraphNodes.WithLabelValues(name).Set(float64(nodes))
	r.GraphEdges.WithLabelValues(name).Set(float64(edges))
}

// OnUpload implements observability.Hooks.
func (r *Registry) OnUpload(_ context.Context, target, _ string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	r.UploadsTotal.WithLabelValues(target, result).Inc()
}

// OnRunComplete implements observability.Hooks.
func (r *Registry) OnRunComplete(_ context.Context, outcome string, d time.Duration) {
	r.RunsTotal.WithLabelValues(outcome).Inc()
	r.RunDuration.Set(d.Seconds())
	r.LastRun.Set(float64(r.now().Unix()))
}

var _ observability.Hooks = (*Registry)(nil)
