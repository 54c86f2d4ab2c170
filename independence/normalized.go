// SPDX-License-Identifier: MIT

package independence

import (
	"context"
	"fmt"

	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
	"github.com/katalvlaran/latentree/potential"
)

// Normalized is mutual information divided by Factor applied to the (conditional) entropies.
// The score lies in [0,1] for the built-in normalizers and is 0 when the factor vanishes.
type Normalized struct {
	// Factor picks the divisor; nil means JointEntropy.
	Factor Normalizer
	// Parallel counts dataset joints by fork-join.
	Parallel bool
	// Threshold is the fork-join leaf size; <= 0 selects the default.
	Threshold int
}

// Name implements Test.
func (Normalized) Name() string { return "nmi" }

// Pairwise implements Test.
func (n Normalized) Pairwise(joint *potential.Distribution, a, b []*core.Variable) (float64, error) {
	return n.Conditional(joint, a, b, nil)
}

// PairwiseData implements Test.
func (n Normalized) PairwiseData(ctx context.Context, d *dataset.Dataset, a, b []*core.Variable) (float64, error) {
	return n.ConditionalData(ctx, d, a, b, nil)
}

// Batch implements Test.
func (n Normalized) Batch(ctx context.Context, d *dataset.Dataset, vars []*core.Variable) (Scores, error) {
	return batch(ctx, d, vars, n.Parallel, n.Threshold, n.Pairwise)
}

// Conditional implements Test.
func (n Normalized) Conditional(joint *potential.Distribution, a, b, given []*core.Variable) (float64, error) {
	e, err := conditionalEntropies(joint, a, b, given)
	if err != nil {
		return 0, fmt.Errorf("independence: Normalized: %w", err)
	}
	return e.normalized(n.Factor), nil
}

// ConditionalData implements Test.
func (n Normalized) ConditionalData(ctx context.Context, d *dataset.Dataset, a, b, given []*core.Variable) (float64, error) {
	if err := checkGroups(a, b, given); err != nil {
		return 0, fmt.Errorf("independence: Normalized: %w", err)
	}
	joint, err := empirical(ctx, d, n.Parallel, n.Threshold, union(a, b, given))
	if err != nil {
		return 0, fmt.Errorf("independence: Normalized: %w", err)
	}
	return n.Conditional(joint, a, b, given)
}
