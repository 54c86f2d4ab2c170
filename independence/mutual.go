// SPDX-License-Identifier: MIT

package independence

import (
	"context"
	"fmt"

	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
	"github.com/katalvlaran/latentree/potential"
)

// MutualInformation is the raw, unnormalized mutual information in nats.
type MutualInformation struct {
	// Parallel counts dataset joints by fork-join.
	Parallel bool
	// Threshold is the fork-join leaf size; <= 0 selects the default.
	Threshold int
}

// Name implements Test.
func (MutualInformation) Name() string { return "mi" }

// Pairwise implements Test.
func (m MutualInformation) Pairwise(joint *potential.Distribution, a, b []*core.Variable) (float64, error) {
	return m.Conditional(joint, a, b, nil)
}

// PairwiseData implements Test.
func (m MutualInformation) PairwiseData(ctx context.Context, d *dataset.Dataset, a, b []*core.Variable) (float64, error) {
	return m.ConditionalData(ctx, d, a, b, nil)
}

// Batch implements Test.
func (m MutualInformation) Batch(ctx context.Context, d *dataset.Dataset, vars []*core.Variable) (Scores, error) {
	return batch(ctx, d, vars, m.Parallel, m.Threshold, m.Pairwise)
}

// Conditional implements Test: I(A;B|C) = H(A|C) + H(B|C) - H(A,B|C).
func (m MutualInformation) Conditional(joint *potential.Distribution, a, b, given []*core.Variable) (float64, error) {
	e, err := conditionalEntropies(joint, a, b, given)
	if err != nil {
		return 0, fmt.Errorf("independence: MutualInformation: %w", err)
	}
	return e.mi(), nil
}

// ConditionalData implements Test.
func (m MutualInformation) ConditionalData(ctx context.Context, d *dataset.Dataset, a, b, given []*core.Variable) (float64, error) {
	if err := checkGroups(a, b, given); err != nil {
		return 0, fmt.Errorf("independence: MutualInformation: %w", err)
	}
	joint, err := empirical(ctx, d, m.Parallel, m.Threshold, union(a, b, given))
	if err != nil {
		return 0, fmt.Errorf("independence: MutualInformation: %w", err)
	}
	return m.Conditional(joint, a, b, given)
}
