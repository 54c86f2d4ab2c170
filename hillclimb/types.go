// SPDX-License-Identifier: MIT

package hillclimb

import (
	"context"
	"log/slog"
	"math"

	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
	"github.com/katalvlaran/latentree/metrics"
)

var (
	// ErrInvalidOption indicates an out-of-range option value.
	ErrInvalidOption = core.NewKindError(core.ErrInvalidArgument, "hillclimb: invalid option")

	// ErrScoreTypeMismatch indicates a candidate scored under a different ScoreType than the
	// current model.
	ErrScoreTypeMismatch = core.NewKindError(core.ErrInvalidArgument, "hillclimb: score types differ")

	// ErrNoRegistry indicates an operator that must create variables but has no Registry.
	ErrNoRegistry = core.NewKindError(core.ErrInvalidArgument, "hillclimb: operator needs a registry")
)

// Learner fits parameters for a structure. *em.Learner satisfies it.
type Learner interface {
	Learn(ctx context.Context, seed *core.Network, d *dataset.Dataset) (core.LearningResult, error)
}

// Operator proposes structural edits of a network. Implementations are stateless and never
// modify net. ok is false when no legal edit exists; err is reserved for invariant violations
// and learner failures.
type Operator interface {
	Name() string
	Apply(ctx context.Context, net *core.Network, d *dataset.Dataset, learner Learner) (best core.LearningResult, ok bool, err error)
}

// StopReason explains why a search ended.
type StopReason string

// Stop reasons, also used as metric labels.
const (
	StopNoCandidate   StopReason = "no-candidate"
	StopNoImprovement StopReason = "no-improvement"
	StopThreshold     StopReason = "threshold"
	StopMaxIterations StopReason = "max-iterations"
	StopCancelled     StopReason = "cancelled"
)

// Report is the outcome of a search.
type Report struct {
	// Result is the best model found.
	Result core.LearningResult

	// Seed is the learned seed model.
	Seed core.LearningResult

	// Iterations counts started iterations, including the one that stopped the search.
	Iterations int

	// Accepted counts candidates adopted as the new current model.
	Accepted int

	Reason StopReason
}

// Options configures a Search.
type Options struct {
	// MaxIterations bounds the number of iterations.
	MaxIterations int

	// Threshold is the largest accepted score gain per iteration.
	Threshold float64

	// Logger receives one Debug record per iteration and one Info record at the end.
	Logger *slog.Logger

	// Metrics, if non-nil, records iterations, candidates and stops.
	Metrics *metrics.Registry
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns 50 iterations and no threshold stop.
func DefaultOptions() Options {
	return Options{
		MaxIterations: 50,
		Threshold:     math.Inf(1),
	}
}

// WithMaxIterations sets the iteration budget.
func WithMaxIterations(n int) Option { return func(o *Options) { o.MaxIterations = n } }

// WithThreshold sets the largest accepted gain per iteration.
func WithThreshold(t float64) Option { return func(o *Options) { o.Threshold = t } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }

// WithMetrics sets the metrics registry.
func WithMetrics(r *metrics.Registry) Option { return func(o *Options) { o.Metrics = r } }
