package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all collectors of the learners.
type Registry struct {
	// Structure search
	SearchIterationsTotal   prometheus.Counter
	SearchCandidatesTotal   *prometheus.CounterVec
	SearchStopsTotal        *prometheus.CounterVec
	SearchBestScore         prometheus.Gauge
	SearchIterationDuration prometheus.Histogram

	// Parameter learning
	EMRunsTotal  *prometheus.CounterVec
	EMSteps      prometheus.Histogram
	EMDuration   prometheus.Histogram
	EMLikelihood prometheus.Gauge

	// Sufficient statistics
	StatsComputationsTotal *prometheus.CounterVec
	StatsInstancesTotal    prometheus.Counter
	StatsDuration          *prometheus.HistogramVec

	// Clustering pipeline
	PipelineStageDuration *prometheus.HistogramVec
	PipelineIslandsTotal  prometheus.Counter
	PipelineErrorsTotal   *prometheus.CounterVec

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry used by the CLI.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with every collector initialized.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initSearchMetrics()
	r.initEMMetrics()
	r.initStatsMetrics()
	r.initPipelineMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
