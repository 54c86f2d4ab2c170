// SPDX-License-Identifier: MIT

package em

import (
	"log/slog"

	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/metrics"
)

// ErrInvalidOption indicates an out-of-range option value.
var ErrInvalidOption = core.NewKindError(core.ErrInvalidArgument, "em: invalid option")

// Run modes, used as metric labels.
const (
	ModeFull     = "full"
	ModeParallel = "parallel"
	ModeLocal    = "local"
)

// Options configures a Learner.
type Options struct {
	// MaxSteps bounds the number of M-steps per restart. 0 only evaluates the start point.
	MaxSteps int

	// Threshold stops a restart once the log-likelihood gain drops below it.
	Threshold float64

	// Restarts is the number of initializations (>= 1).
	Restarts int

	// Seed selects the random streams; 0 means rng.DefaultSeed.
	Seed int64

	// Parallel enables the fork-join E-step with leaves of ChunkSize instances.
	Parallel  bool
	ChunkSize int

	// Local, when non-empty, restricts estimation to these node names.
	Local []string

	// ReuseParameters starts the first restart from the seed parameters.
	ReuseParameters bool

	// ScoreType scores the fitted model.
	ScoreType core.ScoreType

	// Logger receives one Debug record per restart; nil discards.
	Logger *slog.Logger

	// Metrics, if non-nil, records every Learn call.
	Metrics *metrics.Registry
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns 100 steps, threshold 1e-4, one restart, sequential full EM scored by BIC.
func DefaultOptions() Options {
	return Options{
		MaxSteps:  100,
		Threshold: 1e-4,
		Restarts:  1,
		ScoreType: core.BIC,
	}
}

// WithMaxSteps sets the M-step budget per restart.
func WithMaxSteps(n int) Option { return func(o *Options) { o.MaxSteps = n } }

// WithThreshold sets the convergence threshold on the log-likelihood gain.
func WithThreshold(eps float64) Option { return func(o *Options) { o.Threshold = eps } }

// WithRestarts sets the number of random initializations.
func WithRestarts(k int) Option { return func(o *Options) { o.Restarts = k } }

// WithSeed sets the random seed.
func WithSeed(seed int64) Option { return func(o *Options) { o.Seed = seed } }

// WithParallel enables the fork-join E-step.
func WithParallel(chunk int) Option {
	return func(o *Options) {
		o.Parallel = true
		o.ChunkSize = chunk
	}
}

// WithLocal restricts estimation to nodes and keeps every other parameter of the seed.
func WithLocal(nodes ...string) Option {
	return func(o *Options) {
		o.Local = append([]string(nil), nodes...)
		o.ReuseParameters = true
	}
}

// WithReuseParameters starts the first restart from the seed parameters.
func WithReuseParameters() Option { return func(o *Options) { o.ReuseParameters = true } }

// WithScoreType sets the score of the returned result.
func WithScoreType(t core.ScoreType) Option { return func(o *Options) { o.ScoreType = t } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }

// WithMetrics sets the metrics registry.
func WithMetrics(r *metrics.Registry) Option { return func(o *Options) { o.Metrics = r } }
