// SPDX-License-Identifier: MIT

package clustering

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
	"github.com/katalvlaran/latentree/hillclimb"
	"github.com/katalvlaran/latentree/internal/rng"
	"github.com/katalvlaran/latentree/mst"
)

// Pipeline is a configured clustering run. It is safe for concurrent use unless an
// injected Rand or Registry is shared.
type Pipeline struct {
	learner Learner
	opts    Options
}

// New returns a Pipeline that fits every model with learner.
//
// Errors: ErrInvalidOption for a nil learner or test, a negative or NaN Delta,
// MaxIslandSize < 2, LatentCardinality < 1, or an unknown mode or spanning method.
func New(learner Learner, opts ...Option) (*Pipeline, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	switch {
	case learner == nil:
		return nil, fmt.Errorf("clustering: New: nil learner: %w", ErrInvalidOption)
	case o.Test == nil && o.Grouper == nil:
		return nil, fmt.Errorf("clustering: New: nil test: %w", ErrInvalidOption)
	case o.Delta < 0 || math.IsNaN(o.Delta):
		return nil, fmt.Errorf("clustering: New: Delta %v: %w", o.Delta, ErrInvalidOption)
	case o.MaxIslandSize < 2:
		return nil, fmt.Errorf("clustering: New: MaxIslandSize %d: %w", o.MaxIslandSize, ErrInvalidOption)
	case o.LatentCardinality < 1:
		return nil, fmt.Errorf("clustering: New: LatentCardinality %d: %w", o.LatentCardinality, ErrInvalidOption)
	case o.Spanning != mst.MethodPrim && o.Spanning != mst.MethodKruskal:
		return nil, fmt.Errorf("clustering: New: Spanning %q: %w", o.Spanning, ErrInvalidOption)
	}
	if _, err := ParseCardinalityMode(string(o.Cardinality)); err != nil {
		return nil, err
	}
	if _, err := ParseRefinementMode(string(o.Refinement)); err != nil {
		return nil, err
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{learner: learner, opts: o}, nil
}

// Options returns the effective options.
func (p *Pipeline) Options() Options { return p.opts }

// Run executes the four stages over d and returns the final model with its score.
//
// Errors: ErrNoVariables; stage errors wrapped as "clustering: <stage>: ...", including
// core.ErrNotImplemented for the adaptive and global modes.
func (p *Pipeline) Run(ctx context.Context, d *dataset.Dataset) (core.LearningResult, error) {
	if d == nil || len(d.Variables()) == 0 {
		return core.LearningResult{}, fmt.Errorf("clustering: Run: %w", ErrNoVariables)
	}
	reg := p.opts.Registry
	if reg == nil {
		reg = core.NewRegistry()
	}
	for _, v := range d.Variables() {
		reg.Reserve(v.Name())
	}

	var (
		clusters  []core.LearningResult
		assembled core.LearningResult
		final     core.LearningResult
	)
	err := p.stage(StageGrouping, func() (err error) {
		clusters, err = p.grouper(reg).Group(ctx, d)
		if err == nil && len(clusters) == 0 {
			err = ErrNoClusters
		}
		p.opts.Metrics.RecordIslands(len(clusters))
		return err
	})
	if err != nil {
		return core.LearningResult{}, err
	}
	if err = p.stage(StageCardinality, func() (err error) {
		clusters, err = p.refineCardinality(clusters)
		return err
	}); err != nil {
		return core.LearningResult{}, err
	}
	if err = p.stage(StageAssembly, func() (err error) {
		assembled, err = p.assemble(ctx, d, clusters)
		return err
	}); err != nil {
		return core.LearningResult{}, err
	}
	if err = p.stage(StageRefinement, func() (err error) {
		final, err = p.refineModel(ctx, d, assembled, reg)
		return err
	}); err != nil {
		return core.LearningResult{}, err
	}

	p.opts.Logger.Info("clustering finished",
		slog.Int("clusters", len(clusters)),
		slog.Int("latents", len(final.Model().Latents())),
		slog.Float64("score", final.Score()),
		slog.String("score_type", final.ScoreType().String()))
	return final, nil
}

// stage times fn and records its outcome under name.
func (p *Pipeline) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	p.opts.Metrics.RecordStage(name, elapsed)
	if err != nil {
		p.opts.Metrics.RecordPipelineError(name, core.KindOf(err).String())
		p.opts.Logger.Error("clustering stage failed",
			slog.String("stage", name),
			slog.String("kind", core.KindOf(err).String()),
			slog.Any("error", err))
		return fmt.Errorf("clustering: %s: %w", name, err)
	}
	p.opts.Logger.Info("clustering stage finished",
		slog.String("stage", name),
		slog.Duration("elapsed", elapsed))
	return nil
}

func (p *Pipeline) grouper(reg *core.Registry) Grouper {
	if p.opts.Grouper != nil {
		return p.opts.Grouper
	}
	return BridgedIslands{
		Test:              p.opts.Test,
		Learner:           p.learner,
		Registry:          reg,
		Delta:             p.opts.Delta,
		MaxIslandSize:     p.opts.MaxIslandSize,
		LatentCardinality: p.opts.LatentCardinality,
		Logger:            p.opts.Logger,
	}
}

// refineCardinality is the cardinality refinement hook: the identity in fixed mode.
func (p *Pipeline) refineCardinality(clusters []core.LearningResult) ([]core.LearningResult, error) {
	if p.opts.Cardinality == CardinalityAdaptive {
		return nil, fmt.Errorf("adaptive cardinality refinement: %w", core.ErrNotImplemented)
	}
	return clusters, nil
}

// assemble returns a single cluster unchanged; otherwise it splices the clusters onto a
// maximum spanning tree of their roots and refits the whole model.
func (p *Pipeline) assemble(ctx context.Context, d *dataset.Dataset, clusters []core.LearningResult) (core.LearningResult, error) {
	if len(clusters) == 1 {
		if _, err := clusterRoot(clusters[0].Model()); err != nil {
			return core.LearningResult{}, err
		}
		return clusters[0], nil
	}
	nets := make([]*core.Network, len(clusters))
	for i, c := range clusters {
		nets[i] = c.Model()
	}
	r := p.opts.Rand
	if r == nil {
		r = rng.FromSeed(p.opts.Seed)
	}
	sk, err := assemble(ctx, d, nets, p.opts.Test, p.opts.Spanning, r)
	if err != nil {
		return core.LearningResult{}, err
	}
	p.opts.Logger.Debug("clusters assembled",
		slog.String("root", sk.root),
		slog.Int("clusters", len(clusters)))
	return p.learner.Learn(ctx, sk.net, d)
}

// refineModel applies the configured model refinement.
func (p *Pipeline) refineModel(ctx context.Context, d *dataset.Dataset, assembled core.LearningResult, reg *core.Registry) (core.LearningResult, error) {
	switch p.opts.Refinement {
	case RefineLocal:
		opts := append([]hillclimb.Option{
			hillclimb.WithLogger(p.opts.Logger),
			hillclimb.WithMetrics(p.opts.Metrics),
		}, p.opts.Search...)
		s, err := hillclimb.New(p.learner, hillclimb.TreeOperators(reg, p.opts.MaxCardinality), opts...)
		if err != nil {
			return core.LearningResult{}, err
		}
		rep, err := s.Run(ctx, assembled.Model(), d)
		if err != nil {
			return core.LearningResult{}, err
		}
		if assembled.Better(rep.Result) {
			return assembled, nil
		}
		return rep.Result, nil
	case RefineGlobal:
		return core.LearningResult{}, fmt.Errorf("global model refinement: %w", core.ErrNotImplemented)
	default:
		return assembled, nil
	}
}
