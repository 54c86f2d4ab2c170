package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSearchMetrics() {
	r.SearchIterationsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "latentree_search_iterations_total",
			Help: "Total number of hill-climbing iterations started",
		},
	)

	r.SearchCandidatesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "latentree_search_candidates_total",
			Help: "Operator applications by outcome",
		},
		[]string{"operator", "outcome"},
	)

	r.SearchStopsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "latentree_search_stops_total",
			Help: "Hill-climbing terminations by reason",
		},
		[]string{"reason"},
	)

	r.SearchBestScore = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "latentree_search_best_score",
			Help: "Score of the last accepted structure",
		},
	)

	r.SearchIterationDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "latentree_search_iteration_duration_seconds",
			Help:    "Wall time of one hill-climbing iteration",
			Buckets: []float64{0.001, 0.01, 0.1, 1, 10, 60},
		},
	)
}

func (r *Registry) initEMMetrics() {
	r.EMRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "latentree_em_runs_total",
			Help: "Parameter learning runs by mode and status",
		},
		[]string{"mode", "status"},
	)

	r.EMSteps = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "latentree_em_steps",
			Help:    "EM iterations until convergence or budget",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		},
	)

	r.EMDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "latentree_em_duration_seconds",
			Help:    "Wall time of one EM run",
			Buckets: []float64{0.001, 0.01, 0.1, 1, 10},
		},
	)

	r.EMLikelihood = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "latentree_em_loglikelihood",
			Help: "Log-likelihood reached by the last EM run",
		},
	)
}

func (r *Registry) initStatsMetrics() {
	r.StatsComputationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "latentree_stats_computations_total",
			Help: "Frequency table computations by engine",
		},
		[]string{"engine"},
	)

	r.StatsInstancesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "latentree_stats_instances_total",
			Help: "Instances scanned by frequency engines",
		},
	)

	r.StatsDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "latentree_stats_duration_seconds",
			Help:    "Frequency table computation time",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1},
		},
		[]string{"engine"},
	)
}

func (r *Registry) initPipelineMetrics() {
	r.PipelineStageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "latentree_pipeline_stage_duration_seconds",
			Help:    "Clustering pipeline stage duration",
			Buckets: []float64{0.01, 0.1, 1, 10, 60, 600},
		},
		[]string{"stage"},
	)

	r.PipelineIslandsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "latentree_pipeline_islands_total",
			Help: "Sibling clusters produced by attribute grouping",
		},
	)

	r.PipelineErrorsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "latentree_pipeline_errors_total",
			Help: "Pipeline failures by stage and error kind",
		},
		[]string{"stage", "kind"},
	)
}
