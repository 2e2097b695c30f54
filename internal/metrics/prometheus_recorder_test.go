package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, reg *prom.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily, len(mfs))
	for _, mf := range mfs {
		out[mf.GetName()] = mf
	}
	return out
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("fetch_repositories", 150*time.Millisecond)
	pr.IncStageResult("fetch_repositories", ResultSuccess)
	pr.ObserveRunDuration(500 * time.Millisecond)
	pr.IncRunOutcome("success")
	pr.IncAPIRequest("tree", "success")
	pr.IncAPIRequest("tree", "success")
	pr.IncAPIRequest("content", "not_found")
	pr.SetRepositoryFiles("Matrix_project", 7)
	pr.IncRepositoryResult("success")

	mfs := gather(t, reg)
	for _, name := range []string{
		"docsync_stage_duration_seconds",
		"docsync_stage_results_total",
		"docsync_run_duration_seconds",
		"docsync_run_outcomes_total",
		"docsync_api_requests_total",
		"docsync_repository_files",
		"docsync_repository_results_total",
		"docsync_last_run_timestamp_seconds",
	} {
		assert.Contains(t, mfs, name)
	}

	api := mfs["docsync_api_requests_total"]
	require.Len(t, api.GetMetric(), 2)
	for _, m := range api.GetMetric() {
		switch labelValue(m, "op") {
		case "tree":
			assert.Equal(t, "success", labelValue(m, "outcome"))
			assert.InDelta(t, 2.0, m.GetCounter().GetValue(), 0)
		case "content":
			assert.Equal(t, "not_found", labelValue(m, "outcome"))
			assert.InDelta(t, 1.0, m.GetCounter().GetValue(), 0)
		default:
			t.Fatalf("unexpected op label %q", labelValue(m, "op"))
		}
	}

	files := mfs["docsync_repository_files"].GetMetric()
	require.Len(t, files, 1)
	assert.Equal(t, "Matrix_project", labelValue(files[0], "repository"))
	assert.InDelta(t, 7.0, files[0].GetGauge().GetValue(), 0)
}

func TestPrometheusRecorder_NilReceiver(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveStageDuration("x", time.Second)
		pr.IncStageResult("x", ResultFatal)
		pr.ObserveRunDuration(time.Second)
		pr.IncRunOutcome("failed")
		pr.IncAPIRequest("tree", "failed")
		pr.SetRepositoryFiles("r", 1)
		pr.IncRepositoryResult("failed")
	})
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	assert.NotPanics(t, func() {
		r.ObserveStageDuration("x", time.Second)
		r.IncAPIRequest("tree", "success")
		r.SetRepositoryFiles("r", 3)
	})
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncRunOutcome("partial")

	path := filepath.Join(t.TempDir(), "docsync.prom")
	require.NoError(t, WriteTextfile(reg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `docsync_run_outcomes_total{outcome="partial"} 1`)
}

func TestWriteTextfile_BadDirectory(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg)
	err := WriteTextfile(reg, filepath.Join(t.TempDir(), "missing", "docsync.prom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write metrics textfile")
}
