// SPDX-License-Identifier: MIT

package independence

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
	"github.com/katalvlaran/latentree/potential"
)

// entropies holds H(A|C), H(B|C) and H(A,B|C); with an empty C they are unconditional.
type entropies struct {
	a, b, ab float64
}

// mi returns I(A;B|C), clamped at zero against rounding.
func (e entropies) mi() float64 { return math.Max(0, e.a+e.b-e.ab) }

// checkGroups enforces non-empty a, b and pairwise disjoint a, b, c.
func checkGroups(a, b, c []*core.Variable) error {
	if len(a) == 0 || len(b) == 0 {
		return ErrOverlap
	}
	return distinct(union(a, b, c))
}

func distinct(vars []*core.Variable) error {
	seen := make(map[*core.Variable]struct{}, len(vars))
	for _, v := range vars {
		if _, dup := seen[v]; dup {
			return fmt.Errorf("%w: %s", ErrOverlap, v.Name())
		}
		seen[v] = struct{}{}
	}
	return nil
}

func union(groups ...[]*core.Variable) []*core.Variable {
	var out []*core.Variable
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// entropyOf is H(vars) under joint; the empty set has zero entropy.
func entropyOf(joint *potential.Distribution, vars []*core.Variable) (float64, error) {
	if len(vars) == 0 {
		return 0, nil
	}
	m, err := joint.Marginalize(vars...)
	if err != nil {
		return 0, err
	}
	return m.Entropy(), nil
}

// conditionalEntropies computes the entropies of a and b given c from joint.
func conditionalEntropies(joint *potential.Distribution, a, b, c []*core.Variable) (entropies, error) {
	if err := checkGroups(a, b, c); err != nil {
		return entropies{}, err
	}
	hc, err := entropyOf(joint, c)
	if err != nil {
		return entropies{}, err
	}
	hac, err := entropyOf(joint, union(a, c))
	if err != nil {
		return entropies{}, err
	}
	hbc, err := entropyOf(joint, union(b, c))
	if err != nil {
		return entropies{}, err
	}
	habc, err := entropyOf(joint, union(a, b, c))
	if err != nil {
		return entropies{}, err
	}
	return entropies{a: hac - hc, b: hbc - hc, ab: habc - hc}, nil
}

// normalized divides the mutual information by f; a zero factor means both sides are
// deterministic and the score is zero.
func (e entropies) normalized(f Normalizer) float64 {
	if f == nil {
		f = JointEntropy
	}
	div := f.Factor(e.a, e.b, e.ab)
	if div <= 0 {
		return 0
	}
	return e.mi() / div
}

// empirical reads the complete-case joint of vars from d.
func empirical(ctx context.Context, d *dataset.Dataset, parallel bool, threshold int, vars []*core.Variable) (*potential.Distribution, error) {
	if parallel {
		return potential.EmpiricalParallel(ctx, d, threshold, vars...)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return potential.Empirical(d, vars...)
}

// cardinality is the number of joint states of a group.
func cardinality(vars []*core.Variable) int {
	n := 1
	for _, v := range vars {
		n *= v.Cardinality()
	}
	return n
}
