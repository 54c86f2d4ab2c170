// SPDX-License-Identifier: MIT

package independence

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
	"github.com/katalvlaran/latentree/potential"
	"github.com/katalvlaran/latentree/suffstat"
)

// pairScorer scores single variables a and b over their 2-variable joint.
type pairScorer func(joint *potential.Distribution, a, b []*core.Variable) (float64, error)

// batch scores every unordered pair of vars. Complete binary data goes through one frequency
// table; otherwise each pair reads its own empirical joint.
func batch(ctx context.Context, d *dataset.Dataset, vars []*core.Variable, parallel bool, threshold int, score pairScorer) (Scores, error) {
	if err := distinct(vars); err != nil {
		return nil, fmt.Errorf("independence: Batch: %w", err)
	}
	out := make(Scores, len(vars))
	for _, v := range vars {
		out[v] = make(map[*core.Variable]float64, len(vars)-1)
	}
	if len(vars) < 2 {
		return out, nil
	}

	joints, err := binaryJoints(ctx, d, vars, parallel, threshold)
	if err != nil {
		return nil, fmt.Errorf("independence: Batch: %w", err)
	}
	for i := 0; i < len(vars); i++ {
		for j := i + 1; j < len(vars); j++ {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("independence: Batch: %w", err)
			}
			a, b := vars[i], vars[j]
			var joint *potential.Distribution
			if joints != nil {
				joint = joints(i, j)
			} else if joint, err = empirical(ctx, d, parallel, threshold, []*core.Variable{a, b}); err != nil {
				return nil, fmt.Errorf("independence: Batch: %w", err)
			}
			s, err := score(joint, []*core.Variable{a}, []*core.Variable{b})
			if err != nil {
				return nil, fmt.Errorf("independence: Batch(%s,%s): %w", a.Name(), b.Name(), err)
			}
			out[a][b] = s
			out[b][a] = s
		}
	}
	return out, nil
}

// binaryJoints returns a 2×2 joint builder backed by one frequency table when every variable
// is binary and fully observed, or nil otherwise. With states {0,1} the sparse counts fix the
// whole contingency table: n11 = F(i,j), n10 = F(i,i)-n11, n01 = F(j,j)-n11, n00 = W-n11-n10-n01.
func binaryJoints(ctx context.Context, d *dataset.Dataset, vars []*core.Variable, parallel bool, threshold int) (func(i, j int) *potential.Distribution, error) {
	for _, v := range vars {
		if v.Cardinality() != 2 {
			return nil, nil
		}
	}
	cols, err := d.Positions(vars)
	if err != nil {
		return nil, err
	}
	for _, in := range d.Instances() {
		for _, c := range cols {
			if in.States[c] == dataset.Missing {
				return nil, nil
			}
		}
	}

	var eng suffstat.Engine = suffstat.Sequential{}
	if parallel {
		eng = suffstat.Parallel{Threshold: threshold}
	}
	tab, err := eng.Compute(ctx, d, vars)
	if err != nil {
		return nil, err
	}
	return func(i, j int) *potential.Distribution {
		// both variables are binary and distinct, New cannot fail
		p, _ := potential.New(vars[i], vars[j])
		n11, n10, n01, n00 := cells(tab.Count(i, j), tab.Count(i, i), tab.Count(j, j), tab.Total())
		p.Add([]int{1, 1}, n11)
		p.Add([]int{1, 0}, n10)
		p.Add([]int{0, 1}, n01)
		p.Add([]int{0, 0}, n00)
		return p
	}, nil
}

// cells derives the 2×2 table from co-present, present and total weights. Differences of
// fractional weights may round just below zero, so every cell is clamped at 0.
func cells(both, ni, nj, total float64) (n11, n10, n01, n00 float64) {
	n11 = math.Max(0, both)
	n10 = math.Max(0, ni-n11)
	n01 = math.Max(0, nj-n11)
	n00 = math.Max(0, total-n11-n10-n01)
	return n11, n10, n01, n00
}
