package metrics

import (
	"time"
)

// Every Record* method is safe on a nil *Registry so that library code can carry an
// optional registry without branching.

// RecordSearchIteration records one hill-climbing iteration.
func (r *Registry) RecordSearchIteration(duration time.Duration) {
	if r == nil {
		return
	}
	r.SearchIterationsTotal.Inc()
	r.SearchIterationDuration.Observe(duration.Seconds())
}

// RecordCandidate records an operator application; outcome is "candidate", "none" or "error".
func (r *Registry) RecordCandidate(operator, outcome string) {
	if r == nil {
		return
	}
	r.SearchCandidatesTotal.WithLabelValues(operator, outcome).Inc()
}

// RecordSearchStop records why a search ended and the score it returned.
func (r *Registry) RecordSearchStop(reason string, score float64) {
	if r == nil {
		return
	}
	r.SearchStopsTotal.WithLabelValues(reason).Inc()
	r.SearchBestScore.Set(score)
}

// RecordEM records one EM run.
func (r *Registry) RecordEM(mode, status string, steps int, loglikelihood float64, duration time.Duration) {
	if r == nil {
		return
	}
	r.EMRunsTotal.WithLabelValues(mode, status).Inc()
	if status != "ok" {
		return
	}
	r.EMSteps.Observe(float64(steps))
	r.EMDuration.Observe(duration.Seconds())
	r.EMLikelihood.Set(loglikelihood)
}

// RecordStats records one frequency table computation.
func (r *Registry) RecordStats(engine string, instances int, duration time.Duration) {
	if r == nil {
		return
	}
	r.StatsComputationsTotal.WithLabelValues(engine).Inc()
	r.StatsInstancesTotal.Add(float64(instances))
	r.StatsDuration.WithLabelValues(engine).Observe(duration.Seconds())
}

// RecordStage records a pipeline stage duration.
func (r *Registry) RecordStage(stage string, duration time.Duration) {
	if r == nil {
		return
	}
	r.PipelineStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordIslands adds n produced sibling clusters.
func (r *Registry) RecordIslands(n int) {
	if r == nil {
		return
	}
	r.PipelineIslandsTotal.Add(float64(n))
}

// RecordPipelineError records a failed stage.
func (r *Registry) RecordPipelineError(stage, kind string) {
	if r == nil {
		return
	}
	r.PipelineErrorsTotal.WithLabelValues(stage, kind).Inc()
}
