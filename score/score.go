// SPDX-License-Identifier: MIT

package score

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
	"github.com/katalvlaran/latentree/inference"
)

var (
	// ErrZeroLikelihood indicates an instance with zero probability under the model.
	ErrZeroLikelihood = core.NewKindError(core.ErrNumericInconsistency, "score: zero likelihood")

	// ErrNoWeight indicates penalized scoring over a dataset with non-positive total weight.
	ErrNoWeight = core.NewKindError(core.ErrInvalidArgument, "score: total weight must be positive")
)

// cancelEvery is the number of instances between context checks.
const cancelEvery = 1024

// Penalize applies scoring t to ll for a model of dim free parameters fitted on weight W.
//
// Errors: core.ErrUnknownScoreType, ErrNoWeight (BIC only).
func Penalize(ll float64, dim int, weight float64, t core.ScoreType) (float64, error) {
	switch t {
	case core.LogLikelihood:
		return ll, nil
	case core.BIC:
		if weight <= 0 {
			return 0, fmt.Errorf("score: Penalize: %w", ErrNoWeight)
		}
		return ll - float64(dim)*math.Log(weight)/2, nil
	case core.AIC:
		return ll - float64(dim), nil
	default:
		return 0, fmt.Errorf("score: Penalize(%v): %w", t, core.ErrUnknownScoreType)
	}
}

// Score converts the log-likelihood ll of net on d into a score of type t.
func Score(d *dataset.Dataset, net *core.Network, ll float64, t core.ScoreType) (float64, error) {
	return Penalize(ll, net.Dimension(), d.TotalWeight(), t)
}

// LogLikelihood returns Σ w·ln P(instance | net) over d. Zero-weight instances are skipped.
//
// Errors: ErrZeroLikelihood (with the instance index), inference errors, ctx.Err().
// Complexity: O(n · Σ card(x)·card(parent(x))).
func LogLikelihood(ctx context.Context, d *dataset.Dataset, net *core.Network) (float64, error) {
	eng, err := inference.New(net)
	if err != nil {
		return 0, fmt.Errorf("score: LogLikelihood: %w", err)
	}
	vars := d.Variables()
	var ll float64
	for i, in := range d.Instances() {
		if i%cancelEvery == 0 {
			if err := ctx.Err(); err != nil {
				return 0, fmt.Errorf("score: LogLikelihood: %w", err)
			}
		}
		if in.Weight == 0 {
			continue
		}
		if _, err := eng.Propagate(vars, in.States); err != nil {
			return 0, fmt.Errorf("score: LogLikelihood: %w", err)
		}
		l := eng.LogLikelihood()
		if math.IsInf(l, -1) || math.IsNaN(l) {
			return 0, fmt.Errorf("score: LogLikelihood: instance %d: %w", i, ErrZeroLikelihood)
		}
		ll += in.Weight * l
	}
	return ll, nil
}

// Evaluate computes the log-likelihood of net on d and wraps its score of type t.
func Evaluate(ctx context.Context, d *dataset.Dataset, net *core.Network, t core.ScoreType) (core.LearningResult, error) {
	ll, err := LogLikelihood(ctx, d, net)
	if err != nil {
		return core.LearningResult{}, err
	}
	s, err := Score(d, net, ll, t)
	if err != nil {
		return core.LearningResult{}, err
	}
	return core.NewLearningResult(net, s, t), nil
}
