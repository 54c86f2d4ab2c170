package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.SearchIterationsTotal == nil {
		t.Error("SearchIterationsTotal not initialized")
	}
	if r.EMRunsTotal == nil {
		t.Error("EMRunsTotal not initialized")
	}
	if r.StatsComputationsTotal == nil {
		t.Error("StatsComputationsTotal not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordSearch(t *testing.T) {
	r := NewRegistry()

	r.RecordSearchIteration(10 * time.Millisecond)
	r.RecordSearchIteration(20 * time.Millisecond)
	r.RecordCandidate("state-introduction", "candidate")
	r.RecordSearchStop("no-improvement", -123.5)

	if got := testutil.ToFloat64(r.SearchIterationsTotal); got != 2 {
		t.Errorf("iterations = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.SearchCandidatesTotal.WithLabelValues("state-introduction", "candidate")); got != 1 {
		t.Errorf("candidates = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.SearchBestScore); got != -123.5 {
		t.Errorf("best score = %v, want -123.5", got)
	}
}

func TestRecordEMSkipsFailedRuns(t *testing.T) {
	r := NewRegistry()
	r.RecordEM("full", "error", 0, 0, 0)
	r.RecordEM("full", "ok", 12, -50, time.Millisecond)

	if got := testutil.ToFloat64(r.EMRunsTotal.WithLabelValues("full", "error")); got != 1 {
		t.Errorf("error runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.EMLikelihood); got != -50 {
		t.Errorf("likelihood = %v, want -50", got)
	}
}

func TestNilRegistryIsNoop(t *testing.T) {
	var r *Registry
	r.RecordSearchIteration(time.Second)
	r.RecordCandidate("x", "none")
	r.RecordSearchStop("budget", 1)
	r.RecordEM("full", "ok", 1, 1, time.Second)
	r.RecordStats("sequential", 10, time.Second)
	r.RecordStage("grouping", time.Second)
	r.RecordIslands(3)
	r.RecordPipelineError("assembly", "io")
}
