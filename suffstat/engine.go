// SPDX-License-Identifier: MIT

package suffstat

import (
	"context"
	"fmt"
	"time"

	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
	"github.com/katalvlaran/latentree/internal/forkjoin"
	"github.com/katalvlaran/latentree/metrics"
)

// Sequential computes frequencies in a single pass on the calling goroutine.
type Sequential struct {
	// Metrics, if non-nil, records every computation.
	Metrics *metrics.Registry
}

// Compute implements Engine.
// Complexity: O(n · p²) in the worst case, p = present variables per instance.
func (s Sequential) Compute(ctx context.Context, d *dataset.Dataset, vars []*core.Variable) (*FrequencyTable, error) {
	start := time.Now()
	cols, err := prepare("Sequential.Compute", d, vars)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("suffstat: Sequential.Compute: %w", err)
	}
	t := newTable(append([]*core.Variable(nil), vars...))
	t.accumulate(d, cols, 0, d.Len())
	s.Metrics.RecordStats(EngineSequential, d.Len(), time.Since(start))
	return t, nil
}

// Parallel splits the instance range in halves until a chunk holds fewer than Threshold
// instances, computes the leaves concurrently and sums sibling tables. The call blocks
// until every subtask joined. Results equal Sequential up to floating-point rounding.
type Parallel struct {
	// Threshold is the leaf size; <= 0 selects forkjoin.DefaultThreshold (500).
	Threshold int

	// Metrics, if non-nil, records every computation.
	Metrics *metrics.Registry
}

// Compute implements Engine.
func (p Parallel) Compute(ctx context.Context, d *dataset.Dataset, vars []*core.Variable) (*FrequencyTable, error) {
	start := time.Now()
	cols, err := prepare("Parallel.Compute", d, vars)
	if err != nil {
		return nil, err
	}
	order := append([]*core.Variable(nil), vars...)

	t, err := forkjoin.Reduce(ctx, 0, d.Len(), p.Threshold,
		func(lo, hi int) (*FrequencyTable, error) {
			leaf := newTable(order)
			leaf.accumulate(d, cols, lo, hi)
			return leaf, nil
		},
		func(left, right *FrequencyTable) *FrequencyTable {
			left.merge(right)
			return left
		})
	if err != nil {
		return nil, fmt.Errorf("suffstat: Parallel.Compute: %w", err)
	}
	p.Metrics.RecordStats(EngineParallel, d.Len(), time.Since(start))
	return t, nil
}

// NewEngine returns the engine named by name ("sequential" or "parallel").
// Errors: core.ErrInvalidArgument for other names.
func NewEngine(name string, threshold int, reg *metrics.Registry) (Engine, error) {
	switch name {
	case EngineSequential, "":
		return Sequential{Metrics: reg}, nil
	case EngineParallel:
		return Parallel{Threshold: threshold, Metrics: reg}, nil
	default:
		return nil, fmt.Errorf("suffstat: NewEngine(%q): %w", name, core.ErrInvalidArgument)
	}
}
