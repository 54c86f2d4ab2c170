// SPDX-License-Identifier: MIT
// Package forkjoin implements recursive divide-and-conquer over an index range.
//
// The range [lo,hi) is split in halves until a chunk holds fewer than Threshold items
// (a chunk of one item is always a leaf);
// leaves run concurrently and sibling results are merged pairwise on the way back up.
// The merge order is fixed (left, right), so results are deterministic up to the
// floating-point rounding of the merge itself.
package forkjoin

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultThreshold is the leaf size below which a chunk is processed sequentially.
const DefaultThreshold = 500

// Reduce splits [lo,hi) recursively, evaluates leaf on every chunk and merges the results.
// The call blocks until every spawned subtask finished. threshold <= 0 selects
// DefaultThreshold. The first error cancels ctx for the remaining subtasks and is returned.
//
// Complexity: O(n) leaf work plus O(n/threshold) merges; recursion depth O(log(n/threshold)).
func Reduce[T any](
	ctx context.Context,
	lo, hi, threshold int,
	leaf func(lo, hi int) (T, error),
	merge func(left, right T) T,
) (T, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return reduce(ctx, lo, hi, threshold, leaf, merge)
}

func reduce[T any](
	ctx context.Context,
	lo, hi, threshold int,
	leaf func(lo, hi int) (T, error),
	merge func(left, right T) T,
) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	// a single row cannot be split further
	if hi-lo < threshold || hi-lo < 2 {
		return leaf(lo, hi)
	}

	mid := lo + (hi-lo)/2
	var left, right T
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		left, err = reduce(gctx, lo, mid, threshold, leaf, merge)
		return err
	})
	// the right half runs on the calling goroutine
	right, rerr := reduce(gctx, mid, hi, threshold, leaf, merge)
	if err := g.Wait(); err != nil {
		return zero, err
	}
	if rerr != nil {
		return zero, rerr
	}
	return merge(left, right), nil
}
