package metrics

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	c, err := vec.GetMetricWithLabelValues(labels...)
	require.NoError(t, err)
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.Counter.GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.Gauge.GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	require.NotNil(t, r.FetchTotal)
	require.NotNil(t, r.RunsTotal)

	r.OnFetch(context.Background(), 200, time.Second, nil)
	families, err := r.Gatherer().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestOnFetch(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()
	r.OnFetch(ctx, 200, 100*time.Millisecond, nil)
	r.OnFetch(ctx, 200, 200*time.Millisecond, nil)
	r.OnFetch(ctx, 0, time.Millisecond, errors.New("dial tcp: refused"))

	assert.Equal(t, 2.0, counterValue(t, r.FetchTotal, "200"))
	assert.Equal(t, 1.0, counterValue(t, r.FetchTotal, "0"))

	var m dto.Metric
	require.NoError(t, r.FetchDuration.Write(&m))
	assert.Equal(t, uint64(3), m.Histogram.GetSampleCount())
}

func TestOnDecisionAndGraph(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()
	r.OnDecision(ctx, "changed")
	r.OnGraph(ctx, "double", 5, 7)
	r.OnGraph(ctx, "double", 6, 8)

	assert.Equal(t, 1.0, counterValue(t, r.DecisionsTotal, "changed"))
	assert.Equal(t, 6.0, gaugeValue(t, r.GraphNodes.WithLabelValues("double")))
	assert.Equal(t, 8.0, gaugeValue(t, r.GraphEdges.WithLabelValues("double")))
}

func TestOnUpload(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()
	r.OnUpload(ctx, "confluence", "Double Edged Facts", nil)
	r.OnUpload(ctx, "confluence", "Single Edged Facts", errors.New("403"))

	assert.Equal(t, 1.0, counterValue(t, r.UploadsTotal, "confluence", "success"))
	assert.Equal(t, 1.0, counterValue(t, r.UploadsTotal, "confluence", "error"))
}

func TestOnRunComplete(t *testing.T) {
	r := NewRegistry()
	r.now = func() time.Time { return time.Unix(1700000000, 0) }
	r.OnRunComplete(context.Background(), "unchanged", 1500*time.Millisecond)

	assert.Equal(t, 1.0, counterValue(t, r.RunsTotal, "unchanged"))
	assert.Equal(t, 1.5, gaugeValue(t, r.RunDuration))
	assert.Equal(t, 1700000000.0, gaugeValue(t, r.LastRun))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.OnRunComplete(context.Background(), "rendered", time.Second)

	path := filepath.Join(t.TempDir(), "act_datamodel.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `act_datamodel_runs_total{outcome="rendered"} 1`)
	assert.Contains(t, string(data), "# HELP act_datamodel_last_run_duration_seconds")
}

func TestWriteTextfileBadPath(t *testing.T) {
	r := NewRegistry()
	err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom"))
	assert.Error(t, err)
}
