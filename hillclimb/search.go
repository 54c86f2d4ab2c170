// SPDX-License-Identifier: MIT

package hillclimb

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
)

// Search is a configured hill climber. It is immutable and safe for concurrent use when its
// Learner and Operators are.
type Search struct {
	learner   Learner
	operators []Operator
	opts      Options
}

// New returns a Search applying operators in the given order.
//
// Errors: ErrInvalidOption for a nil learner, a nil operator, MaxIterations < 0 or a
// negative or NaN Threshold.
func New(learner Learner, operators []Operator, opts ...Option) (*Search, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if learner == nil {
		return nil, fmt.Errorf("hillclimb: New: nil learner: %w", ErrInvalidOption)
	}
	for i, op := range operators {
		if op == nil {
			return nil, fmt.Errorf("hillclimb: New: operator %d is nil: %w", i, ErrInvalidOption)
		}
	}
	if o.MaxIterations < 0 {
		return nil, fmt.Errorf("hillclimb: New: MaxIterations %d: %w", o.MaxIterations, ErrInvalidOption)
	}
	if o.Threshold < 0 || math.IsNaN(o.Threshold) {
		return nil, fmt.Errorf("hillclimb: New: Threshold %v: %w", o.Threshold, ErrInvalidOption)
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return &Search{
		learner:   learner,
		operators: append([]Operator(nil), operators...),
		opts:      o,
	}, nil
}

// Run climbs from seed over d. The returned result never scores below the learned seed.
// On cancellation the best result so far is returned together with the context error.
func (s *Search) Run(ctx context.Context, seed *core.Network, d *dataset.Dataset) (Report, error) {
	initial, err := s.learner.Learn(ctx, seed, d)
	if err != nil {
		return Report{}, fmt.Errorf("hillclimb: Run: learn seed: %w", err)
	}
	rep := Report{Result: initial, Seed: initial, Reason: StopMaxIterations}

	for it := 1; it <= s.opts.MaxIterations; it++ {
		if err := ctx.Err(); err != nil {
			return s.finish(rep, StopCancelled), fmt.Errorf("hillclimb: Run: %w", err)
		}
		rep.Iterations = it
		start := time.Now()

		best, bestOp, found, err := s.iterate(ctx, rep.Result, d)
		s.opts.Metrics.RecordSearchIteration(time.Since(start))
		if err != nil {
			if ctx.Err() != nil {
				return s.finish(rep, StopCancelled), fmt.Errorf("hillclimb: Run: %w", err)
			}
			return Report{}, err
		}

		previous := rep.Result.Score()
		switch {
		case !found:
			return s.finish(rep, StopNoCandidate), nil
		case previous >= best.Score():
			return s.finish(rep, StopNoImprovement), nil
		case math.Abs(best.Score()-previous) > s.opts.Threshold:
			return s.finish(rep, StopThreshold), nil
		}

		s.opts.Logger.Debug("hillclimb iteration accepted",
			slog.Int("iteration", it),
			slog.String("operator", bestOp),
			slog.Float64("previous", previous),
			slog.Float64("score", best.Score()))
		rep.Result = best
		rep.Accepted++
	}
	return s.finish(rep, StopMaxIterations), nil
}

// iterate applies every operator to the current model and returns the best candidate.
func (s *Search) iterate(ctx context.Context, current core.LearningResult, d *dataset.Dataset) (core.LearningResult, string, bool, error) {
	var (
		best   core.LearningResult
		bestOp string
		found  bool
	)
	for _, op := range s.operators {
		if err := ctx.Err(); err != nil {
			return best, bestOp, found, err
		}
		cand, ok, err := op.Apply(ctx, current.Model(), d, s.learner)
		if err != nil {
			return best, bestOp, found, fmt.Errorf("hillclimb: %s: %w", op.Name(), err)
		}
		if !ok {
			s.opts.Metrics.RecordCandidate(op.Name(), "none")
			continue
		}
		if cand.ScoreType() != current.ScoreType() {
			return best, bestOp, found, fmt.Errorf("hillclimb: %s: %v vs %v: %w",
				op.Name(), cand.ScoreType(), current.ScoreType(), ErrScoreTypeMismatch)
		}
		s.opts.Metrics.RecordCandidate(op.Name(), "proposed")
		if !found || cand.Score() > best.Score() {
			best, bestOp, found = cand, op.Name(), true
		}
	}
	return best, bestOp, found, nil
}

func (s *Search) finish(rep Report, reason StopReason) Report {
	rep.Reason = reason
	s.opts.Metrics.RecordSearchStop(string(reason), rep.Result.Score())
	s.opts.Logger.Info("hillclimb stopped",
		slog.String("reason", string(reason)),
		slog.Int("iterations", rep.Iterations),
		slog.Int("accepted", rep.Accepted),
		slog.Float64("score", rep.Result.Score()),
		slog.String("score_type", rep.Result.ScoreType().String()))
	return rep
}
