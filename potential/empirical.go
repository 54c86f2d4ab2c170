// SPDX-License-Identifier: MIT

package potential

import (
	"context"
	"fmt"

	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
	"github.com/katalvlaran/latentree/internal/forkjoin"
)

// Empirical counts the weighted joint states of vars over d. Instances with a missing value
// in any of vars are skipped (complete-case counting). The table is not normalized.
//
// Errors: dataset.ErrUnknownVariable, ErrDuplicateVariable.
// Complexity: O(n · |vars|).
func Empirical(d *dataset.Dataset, vars ...*core.Variable) (*Distribution, error) {
	cols, err := d.Positions(vars)
	if err != nil {
		return nil, fmt.Errorf("potential: Empirical: %w", err)
	}
	out, err := New(vars...)
	if err != nil {
		return nil, fmt.Errorf("potential: Empirical: %w", err)
	}
	countRange(out, d, cols, 0, d.Len())
	return out, nil
}

// EmpiricalParallel is Empirical computed by fork-join over instance ranges of at most
// threshold rows (<= 0 selects forkjoin.DefaultThreshold). It blocks until every subtask
// finished and matches Empirical up to floating-point summation order.
func EmpiricalParallel(ctx context.Context, d *dataset.Dataset, threshold int, vars ...*core.Variable) (*Distribution, error) {
	cols, err := d.Positions(vars)
	if err != nil {
		return nil, fmt.Errorf("potential: EmpiricalParallel: %w", err)
	}
	proto, err := New(vars...)
	if err != nil {
		return nil, fmt.Errorf("potential: EmpiricalParallel: %w", err)
	}

	out, err := forkjoin.Reduce(ctx, 0, d.Len(), threshold,
		func(lo, hi int) (*Distribution, error) {
			part := proto.Clone()
			countRange(part, d, cols, lo, hi)
			return part, nil
		},
		func(left, right *Distribution) *Distribution {
			// both halves come from proto, so the orders always match
			_ = left.Merge(right)
			return left
		})
	if err != nil {
		return nil, fmt.Errorf("potential: EmpiricalParallel: %w", err)
	}
	return out, nil
}

// countRange accumulates rows [lo,hi) of d into p.
func countRange(p *Distribution, d *dataset.Dataset, cols []int, lo, hi int) {
	states := make([]int, len(cols))
	rows := d.Instances()
rowLoop:
	for r := lo; r < hi; r++ {
		in := rows[r]
		for i, c := range cols {
			s := in.States[c]
			if s == dataset.Missing {
				continue rowLoop
			}
			states[i] = s
		}
		p.Add(states, in.Weight)
	}
}
