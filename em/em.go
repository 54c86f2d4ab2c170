// SPDX-License-Identifier: MIT

package em

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
	"github.com/katalvlaran/latentree/dfs"
	"github.com/katalvlaran/latentree/inference"
	"github.com/katalvlaran/latentree/internal/forkjoin"
	"github.com/katalvlaran/latentree/internal/rng"
	"github.com/katalvlaran/latentree/score"
	"gonum.org/v1/gonum/floats"
)

// cancelEvery is the number of instances between context checks inside one E-step leaf.
const cancelEvery = 1024

// Learner fits network parameters. A Learner is immutable and safe for concurrent use.
type Learner struct {
	opts Options
}

// New validates opts and returns a Learner.
//
// Errors: ErrInvalidOption for negative steps or threshold, restarts < 1 or an invalid
// score type.
func New(opts ...Option) (*Learner, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	switch {
	case o.MaxSteps < 0:
		return nil, fmt.Errorf("em: New: MaxSteps %d: %w", o.MaxSteps, ErrInvalidOption)
	case o.Threshold < 0 || math.IsNaN(o.Threshold):
		return nil, fmt.Errorf("em: New: Threshold %v: %w", o.Threshold, ErrInvalidOption)
	case o.Restarts < 1:
		return nil, fmt.Errorf("em: New: Restarts %d: %w", o.Restarts, ErrInvalidOption)
	case !o.ScoreType.Valid():
		return nil, fmt.Errorf("em: New: %w", core.ErrUnknownScoreType)
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return &Learner{opts: o}, nil
}

// Options returns a copy of the configuration.
func (l *Learner) Options() Options {
	o := l.opts
	o.Local = append([]string(nil), l.opts.Local...)
	return o
}

// ScoreType returns the score type of produced results.
func (l *Learner) ScoreType() core.ScoreType { return l.opts.ScoreType }

// Local returns a copy of l restricted to nodes, starting from the seed parameters.
func (l *Learner) Local(nodes ...string) *Learner {
	o := l.Options()
	WithLocal(nodes...)(&o)
	return &Learner{opts: o}
}

// Mode reports ModeLocal, ModeParallel or ModeFull.
func (l *Learner) Mode() string {
	switch {
	case len(l.opts.Local) > 0:
		return ModeLocal
	case l.opts.Parallel:
		return ModeParallel
	default:
		return ModeFull
	}
}

// Learn fits a clone of seed to d and returns it with its score.
func (l *Learner) Learn(ctx context.Context, seed *core.Network, d *dataset.Dataset) (core.LearningResult, error) {
	start := time.Now()
	res, steps, ll, err := l.learn(ctx, seed, d)
	if err != nil {
		l.opts.Metrics.RecordEM(l.Mode(), "error", 0, 0, time.Since(start))
		return core.LearningResult{}, err
	}
	l.opts.Metrics.RecordEM(l.Mode(), "ok", steps, ll, time.Since(start))
	return res, nil
}

func (l *Learner) learn(ctx context.Context, seed *core.Network, d *dataset.Dataset) (core.LearningResult, int, float64, error) {
	// 1. Structure and data checks
	if !seed.IsTree() {
		return core.LearningResult{}, 0, 0, fmt.Errorf("em: Learn: %w", core.ErrNotTree)
	}
	data, err := d.Project(seed.Manifests())
	if err != nil {
		return core.LearningResult{}, 0, 0, fmt.Errorf("em: Learn: %w", err)
	}

	// 2. Nodes to estimate, parents first
	order, err := dfs.TopologicalSort(seed, dfs.WithContext(ctx))
	if err != nil {
		return core.LearningResult{}, 0, 0, fmt.Errorf("em: Learn: %w", err)
	}
	free, err := l.freeNodes(order, seed)
	if err != nil {
		return core.LearningResult{}, 0, 0, err
	}

	// 3. Restarts
	var (
		best       core.LearningResult
		bestLL     float64
		totalSteps int
		found      bool
	)
	for r := 0; r < l.opts.Restarts; r++ {
		model := seed.Clone()
		if r > 0 || !l.opts.ReuseParameters {
			stream := rng.Derive(l.opts.Seed, uint64(r))
			for _, name := range free {
				node, _ := model.Node(name)
				node.CPT().Randomize(stream)
			}
		}

		ll, steps, err := l.run(ctx, model, data, free)
		if err != nil {
			return core.LearningResult{}, 0, 0, err
		}
		totalSteps += steps
		s, err := score.Score(data, model, ll, l.opts.ScoreType)
		if err != nil {
			return core.LearningResult{}, 0, 0, fmt.Errorf("em: Learn: %w", err)
		}
		l.opts.Logger.Debug("em restart finished",
			slog.Int("restart", r),
			slog.Int("steps", steps),
			slog.Float64("loglikelihood", ll),
			slog.Float64("score", s))

		if !found || s > best.Score() {
			best = core.NewLearningResult(model, s, l.opts.ScoreType)
			bestLL = ll
			found = true
		}
	}
	return best, totalSteps, bestLL, nil
}

// freeNodes filters order down to the nodes EM re-estimates.
func (l *Learner) freeNodes(order []string, seed *core.Network) ([]string, error) {
	if len(l.opts.Local) == 0 {
		return order, nil
	}
	want := make(map[string]struct{}, len(l.opts.Local))
	for _, name := range l.opts.Local {
		if _, ok := seed.Node(name); !ok {
			return nil, fmt.Errorf("em: Learn: local node %q: %w", name, core.ErrNodeNotFound)
		}
		want[name] = struct{}{}
	}
	free := make([]string, 0, len(want))
	for _, name := range order {
		if _, ok := want[name]; ok {
			free = append(free, name)
		}
	}
	return free, nil
}

// run iterates E and M steps on model in place and returns the log-likelihood of the final
// parameters together with the number of M-steps taken.
func (l *Learner) run(ctx context.Context, model *core.Network, data *dataset.Dataset, free []string) (float64, int, error) {
	prev := math.Inf(-1)
	for step := 0; ; step++ {
		st, err := l.expect(ctx, model, data, free)
		if err != nil {
			return 0, step, err
		}
		if step == l.opts.MaxSteps || (step > 0 && st.ll-prev < l.opts.Threshold) {
			return st.ll, step, nil
		}
		for i, name := range free {
			node, _ := model.Node(name)
			cpt := node.CPT()
			if err := cpt.SetValues(st.counts[i]); err != nil {
				return 0, step, fmt.Errorf("em: M-step %s: %w", name, err)
			}
			cpt.Normalize()
		}
		prev = st.ll
	}
}

// sufficient holds one E-step result: log-likelihood and expected family counts per free node.
type sufficient struct {
	ll     float64
	counts [][]float64
}

func (s *sufficient) merge(o *sufficient) *sufficient {
	s.ll += o.ll
	for i := range s.counts {
		floats.Add(s.counts[i], o.counts[i])
	}
	return s
}

// expect runs the E-step sequentially or by fork-join over instance ranges.
func (l *Learner) expect(ctx context.Context, model *core.Network, data *dataset.Dataset, free []string) (*sufficient, error) {
	vars := make([]*core.Variable, len(free))
	sizes := make([]int, len(free))
	for i, name := range free {
		node, _ := model.Node(name)
		vars[i] = node.Variable()
		sizes[i] = len(node.CPT().Values())
	}
	columns := data.Variables()
	rows := data.Instances()

	leaf := func(lo, hi int) (*sufficient, error) {
		eng, err := inference.New(model)
		if err != nil {
			return nil, fmt.Errorf("em: E-step: %w", err)
		}
		out := &sufficient{counts: make([][]float64, len(free))}
		for i, n := range sizes {
			out.counts[i] = make([]float64, n)
		}
		for r := lo; r < hi; r++ {
			if (r-lo)%cancelEvery == 0 {
				if err := ctx.Err(); err != nil {
					return nil, fmt.Errorf("em: E-step: %w", err)
				}
			}
			in := rows[r]
			if in.Weight == 0 {
				continue
			}
			if _, err := eng.Propagate(columns, in.States); err != nil {
				return nil, fmt.Errorf("em: E-step: %w", err)
			}
			ll := eng.LogLikelihood()
			if math.IsInf(ll, -1) {
				return nil, fmt.Errorf("em: E-step: instance %d: %w", r, score.ErrZeroLikelihood)
			}
			out.ll += in.Weight * ll
			for i, v := range vars {
				if err := eng.AddFamily(v, out.counts[i], in.Weight); err != nil {
					return nil, fmt.Errorf("em: E-step: %w", err)
				}
			}
		}
		return out, nil
	}

	if !l.opts.Parallel {
		return leaf(0, len(rows))
	}
	return forkjoin.Reduce(ctx, 0, len(rows), l.opts.ChunkSize, leaf,
		func(a, b *sufficient) *sufficient { return a.merge(b) })
}
