// SPDX-License-Identifier: MIT

package independence

import (
	"context"
	"fmt"

	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
	"github.com/katalvlaran/latentree/potential"
	"gonum.org/v1/gonum/stat/distuv"
)

// ChiSquare calibrates conditional normalized mutual information against a chi-squared
// distribution. The statistic is G = 2·W·NMI(A;B|C), W the total weight of the joint, with
// df = (|A|-1)·(|B|-1) where |X| counts the joint states of group X. Scores are the chi-squared
// density at G: a continuous signal used by stopping rules, not a binary decision.
type ChiSquare struct {
	// Factor picks the NMI divisor; nil means JointEntropy.
	Factor Normalizer
	// Parallel counts dataset joints by fork-join.
	Parallel bool
	// Threshold is the fork-join leaf size; <= 0 selects the default.
	Threshold int
}

// Name implements Test.
func (ChiSquare) Name() string { return "chisquare" }

// Statistic returns G and its degrees of freedom.
func (c ChiSquare) Statistic(joint *potential.Distribution, a, b, given []*core.Variable) (g, df float64, err error) {
	e, err := conditionalEntropies(joint, a, b, given)
	if err != nil {
		return 0, 0, fmt.Errorf("independence: ChiSquare: %w", err)
	}
	df = float64((cardinality(a) - 1) * (cardinality(b) - 1))
	return 2 * joint.Sum() * e.normalized(c.Factor), df, nil
}

// PValue is the upper-tail probability of G; 1 when df is zero.
func (c ChiSquare) PValue(joint *potential.Distribution, a, b, given []*core.Variable) (float64, error) {
	g, df, err := c.Statistic(joint, a, b, given)
	if err != nil {
		return 0, err
	}
	if df <= 0 {
		return 1, nil
	}
	return distuv.ChiSquared{K: df}.Survival(g), nil
}

// Pairwise implements Test.
func (c ChiSquare) Pairwise(joint *potential.Distribution, a, b []*core.Variable) (float64, error) {
	return c.Conditional(joint, a, b, nil)
}

// PairwiseData implements Test.
func (c ChiSquare) PairwiseData(ctx context.Context, d *dataset.Dataset, a, b []*core.Variable) (float64, error) {
	return c.ConditionalData(ctx, d, a, b, nil)
}

// Batch implements Test.
func (c ChiSquare) Batch(ctx context.Context, d *dataset.Dataset, vars []*core.Variable) (Scores, error) {
	return batch(ctx, d, vars, c.Parallel, c.Threshold, c.Pairwise)
}

// Conditional implements Test. A zero df (a single-state group) scores 0. For df = 1 the
// density diverges at G = 0 and the score is +Inf.
func (c ChiSquare) Conditional(joint *potential.Distribution, a, b, given []*core.Variable) (float64, error) {
	g, df, err := c.Statistic(joint, a, b, given)
	if err != nil {
		return 0, err
	}
	if df <= 0 {
		return 0, nil
	}
	return distuv.ChiSquared{K: df}.Prob(g), nil
}

// ConditionalData implements Test.
func (c ChiSquare) ConditionalData(ctx context.Context, d *dataset.Dataset, a, b, given []*core.Variable) (float64, error) {
	if err := checkGroups(a, b, given); err != nil {
		return 0, fmt.Errorf("independence: ChiSquare: %w", err)
	}
	joint, err := empirical(ctx, d, c.Parallel, c.Threshold, union(a, b, given))
	if err != nil {
		return 0, fmt.Errorf("independence: ChiSquare: %w", err)
	}
	return c.Conditional(joint, a, b, given)
}
