// SPDX-License-Identifier: MIT

package clustering

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
	"github.com/katalvlaran/latentree/independence"
)

// BridgedIslands groups variables into islands of mutually dependent variables.
//
// An island is seeded with the most dependent remaining pair and grown one variable at a
// time, always taking the remaining variable with the highest score against any island
// member. Before a variable joins, the unidimensionality test compares a one-latent model
// of the enlarged island with a two-latent model that gives the newcomer and its closest
// island member their own latent; growth stops when the two-latent model wins by more than
// Delta, or when the island reaches MaxIslandSize. Each island is returned as a latent
// class model fitted by Learner.
type BridgedIslands struct {
	Test              independence.Test
	Learner           Learner
	Registry          *core.Registry
	Delta             float64
	MaxIslandSize     int
	LatentCardinality int
	Logger            *slog.Logger
}

// Group implements Grouper.
//
// Errors: ErrNoVariables, ErrInvalidOption for a nil Test, Learner or Registry, plus test
// and learner errors.
func (b BridgedIslands) Group(ctx context.Context, d *dataset.Dataset) ([]core.LearningResult, error) {
	if b.Test == nil || b.Learner == nil || b.Registry == nil {
		return nil, fmt.Errorf("clustering: BridgedIslands: missing test, learner or registry: %w", ErrInvalidOption)
	}
	vars := d.Variables()
	if len(vars) == 0 {
		return nil, fmt.Errorf("clustering: BridgedIslands: %w", ErrNoVariables)
	}
	scores := independence.Scores{}
	if len(vars) > 1 {
		var err error
		if scores, err = b.Test.Batch(ctx, d, vars); err != nil {
			return nil, fmt.Errorf("clustering: BridgedIslands: %w", err)
		}
	}
	logger := b.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	remaining := vars
	var out []core.LearningResult
	for len(remaining) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("clustering: BridgedIslands: %w", err)
		}
		island, err := b.grow(ctx, d, remaining, scores)
		if err != nil {
			return nil, err
		}
		res, err := b.fit(ctx, d, island)
		if err != nil {
			return nil, err
		}
		logger.Debug("island formed",
			slog.Int("index", len(out)),
			slog.Int("size", len(island)),
			slog.Float64("score", res.Score()))
		out = append(out, res)
		remaining = without(remaining, island)
	}
	return out, nil
}

// grow builds one island out of remaining.
func (b BridgedIslands) grow(ctx context.Context, d *dataset.Dataset, remaining []*core.Variable, scores independence.Scores) ([]*core.Variable, error) {
	limit := b.MaxIslandSize
	if limit < 2 {
		limit = 2
	}
	if len(remaining) <= 2 {
		return append([]*core.Variable(nil), remaining...), nil
	}

	x, y := strongestPair(remaining, scores)
	island := []*core.Variable{x, y}
	for len(island) < limit {
		next, ok := closest(remaining, island, scores)
		if !ok {
			break
		}
		uni, err := b.unidimensional(ctx, d, island, next, scores)
		if err != nil {
			return nil, err
		}
		if !uni {
			break
		}
		island = append(island, next)
	}
	return island, nil
}

// unidimensional reports whether island ∪ {next} is better explained by one latent than
// by two.
func (b BridgedIslands) unidimensional(ctx context.Context, d *dataset.Dataset, island []*core.Variable, next *core.Variable, scores independence.Scores) (bool, error) {
	cand := append(append([]*core.Variable(nil), island...), next)
	one, err := b.fit(ctx, d, cand)
	if err != nil {
		return false, err
	}

	partner := island[0]
	for _, v := range island[1:] {
		if scores[next][v] > scores[next][partner] {
			partner = v
		}
	}
	two, err := b.twoLatent(island, next, partner)
	if err != nil {
		return false, fmt.Errorf("clustering: BridgedIslands: %w", err)
	}
	twoRes, err := b.Learner.Learn(ctx, two, d)
	if err != nil {
		return false, fmt.Errorf("clustering: BridgedIslands: %w", err)
	}
	return twoRes.Score()-one.Score() <= b.Delta, nil
}

// twoLatent builds h1 → (island \ {partner}) ∪ {h2}, h2 → {partner, next}.
func (b BridgedIslands) twoLatent(island []*core.Variable, next, partner *core.Variable) (*core.Network, error) {
	var rest []*core.Variable
	for _, v := range island {
		if v != partner {
			rest = append(rest, v)
		}
	}
	net, err := core.NewLCM(b.Registry, rest, b.LatentCardinality)
	if err != nil {
		return nil, err
	}
	h1 := net.Roots()[0]
	h2, err := core.NewDiscreteVariable(b.Registry, "", b.LatentCardinality, core.Latent)
	if err != nil {
		return nil, err
	}
	if _, err := net.AddNode(h2); err != nil {
		return nil, err
	}
	for _, v := range []*core.Variable{partner, next} {
		if _, err := net.AddNode(v); err != nil {
			return nil, err
		}
		if err := net.AddEdge(h2.Name(), v.Name()); err != nil {
			return nil, err
		}
	}
	if err := net.AddEdge(h1, h2.Name()); err != nil {
		return nil, err
	}
	return net, nil
}

// fit learns a latent class model over vars.
func (b BridgedIslands) fit(ctx context.Context, d *dataset.Dataset, vars []*core.Variable) (core.LearningResult, error) {
	lcm, err := core.NewLCM(b.Registry, vars, b.LatentCardinality)
	if err != nil {
		return core.LearningResult{}, fmt.Errorf("clustering: BridgedIslands: %w", err)
	}
	res, err := b.Learner.Learn(ctx, lcm, d)
	if err != nil {
		return core.LearningResult{}, fmt.Errorf("clustering: BridgedIslands: %w", err)
	}
	return res, nil
}

// strongestPair returns the pair of vars with the highest score; ties keep the earliest
// pair in vars order.
func strongestPair(vars []*core.Variable, scores independence.Scores) (*core.Variable, *core.Variable) {
	x, y := vars[0], vars[1]
	best := scores[x][y]
	for i := range vars {
		for j := i + 1; j < len(vars); j++ {
			if s := scores[vars[i]][vars[j]]; s > best {
				x, y, best = vars[i], vars[j], s
			}
		}
	}
	return x, y
}

// closest returns the variable outside island with the highest score against any island
// member.
func closest(vars, island []*core.Variable, scores independence.Scores) (*core.Variable, bool) {
	in := make(map[*core.Variable]bool, len(island))
	for _, v := range island {
		in[v] = true
	}
	var (
		best  *core.Variable
		bestS float64
	)
	for _, v := range vars {
		if in[v] {
			continue
		}
		for _, m := range island {
			if s := scores[v][m]; best == nil || s > bestS {
				best, bestS = v, s
			}
		}
	}
	return best, best != nil
}

// without returns vars minus drop, preserving order.
func without(vars, drop []*core.Variable) []*core.Variable {
	gone := make(map[*core.Variable]bool, len(drop))
	for _, v := range drop {
		gone[v] = true
	}
	out := make([]*core.Variable, 0, len(vars))
	for _, v := range vars {
		if !gone[v] {
			out = append(out, v)
		}
	}
	return out
}
