// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/latentree/clustering"
	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/em"
	"github.com/katalvlaran/latentree/hillclimb"
	"github.com/katalvlaran/latentree/independence"
	"github.com/katalvlaran/latentree/metrics"
	"github.com/katalvlaran/latentree/suffstat"
)

// EMOptions maps the em section onto em options.
func (c *Config) EMOptions(logger *slog.Logger, reg *metrics.Registry) ([]em.Option, error) {
	st, err := core.ParseScoreType(c.EM.Score)
	if err != nil {
		return nil, fmt.Errorf("config: em.score: %w", err)
	}
	opts := []em.Option{
		em.WithMaxSteps(c.EM.MaxSteps),
		em.WithThreshold(c.EM.Threshold),
		em.WithRestarts(c.EM.Restarts),
		em.WithSeed(c.EM.Seed),
		em.WithScoreType(st),
		em.WithLogger(logger),
		em.WithMetrics(reg),
	}
	if c.EM.Parallel {
		opts = append(opts, em.WithParallel(c.EM.ChunkSize))
	}
	return opts, nil
}

// Learner builds the em.Learner described by the em section.
func (c *Config) Learner(logger *slog.Logger, reg *metrics.Registry) (*em.Learner, error) {
	opts, err := c.EMOptions(logger, reg)
	if err != nil {
		return nil, err
	}
	return em.New(opts...)
}

// SearchOptions maps the search section onto hill climbing options.
func (c *Config) SearchOptions(logger *slog.Logger, reg *metrics.Registry) []hillclimb.Option {
	return []hillclimb.Option{
		hillclimb.WithMaxIterations(c.Search.MaxIterations),
		hillclimb.WithThreshold(c.Search.Threshold),
		hillclimb.WithLogger(logger),
		hillclimb.WithMetrics(reg),
	}
}

// IndependenceTest builds the test named by the clustering section, counting joints in
// parallel when the stats engine is parallel.
func (c *Config) IndependenceTest() (independence.Test, error) {
	norm, err := independence.ParseNormalization(c.Clustering.Normalization)
	if err != nil {
		return nil, fmt.Errorf("config: clustering.normalization: %w", err)
	}
	test, err := independence.New(c.Clustering.Test, norm,
		c.Stats.Engine == suffstat.EngineParallel, c.Stats.Threshold)
	if err != nil {
		return nil, fmt.Errorf("config: clustering.test: %w", err)
	}
	return test, nil
}

// StatsEngine builds the frequency engine named by the stats section.
func (c *Config) StatsEngine(reg *metrics.Registry) (suffstat.Engine, error) {
	eng, err := suffstat.NewEngine(c.Stats.Engine, c.Stats.Threshold, reg)
	if err != nil {
		return nil, fmt.Errorf("config: stats.engine: %w", err)
	}
	return eng, nil
}

// ClusteringOptions maps the clustering and search sections onto pipeline options.
func (c *Config) ClusteringOptions(logger *slog.Logger, reg *metrics.Registry) ([]clustering.Option, error) {
	test, err := c.IndependenceTest()
	if err != nil {
		return nil, err
	}
	card, err := clustering.ParseCardinalityMode(c.Clustering.Cardinality)
	if err != nil {
		return nil, fmt.Errorf("config: clustering.cardinality: %w", err)
	}
	refine, err := clustering.ParseRefinementMode(c.Clustering.Refinement)
	if err != nil {
		return nil, fmt.Errorf("config: clustering.refinement: %w", err)
	}
	return []clustering.Option{
		clustering.WithTest(test),
		clustering.WithDelta(c.Clustering.Delta),
		clustering.WithMaxIslandSize(c.Clustering.MaxIslandSize),
		clustering.WithLatentCardinality(c.Clustering.LatentCardinality),
		clustering.WithCardinality(card),
		clustering.WithRefinement(refine),
		clustering.WithSpanning(c.Clustering.Spanning),
		clustering.WithSeed(c.Clustering.Seed),
		clustering.WithMaxCardinality(c.Search.MaxCardinality),
		clustering.WithSearch(c.SearchOptions(logger, reg)...),
		clustering.WithLogger(logger),
		clustering.WithMetrics(reg),
	}, nil
}
