// SPDX-License-Identifier: MIT

package clustering

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
	"github.com/katalvlaran/latentree/hillclimb"
	"github.com/katalvlaran/latentree/independence"
	"github.com/katalvlaran/latentree/metrics"
	"github.com/katalvlaran/latentree/mst"
)

var (
	// ErrInvalidOption indicates an out-of-range option value.
	ErrInvalidOption = core.NewKindError(core.ErrInvalidArgument, "clustering: invalid option")

	// ErrNoClusters indicates a Grouper that returned no clusters.
	ErrNoClusters = core.NewKindError(core.ErrInvalidArgument, "clustering: grouping produced no clusters")

	// ErrNoVariables indicates a dataset without variables.
	ErrNoVariables = core.NewKindError(core.ErrInvalidArgument, "clustering: dataset has no variables")

	// ErrBadCluster indicates a cluster model that is not a tree with exactly one latent root.
	ErrBadCluster = core.NewKindError(core.ErrInvalidArgument, "clustering: cluster needs exactly one latent root")
)

// Learner fits parameters for a structure. *em.Learner satisfies it.
type Learner interface {
	Learn(ctx context.Context, seed *core.Network, d *dataset.Dataset) (core.LearningResult, error)
}

// Grouper partitions the variables of d into sibling clusters, each returned as a learned
// tree with a single latent root. Clusters must cover disjoint manifest sets.
type Grouper interface {
	Group(ctx context.Context, d *dataset.Dataset) ([]core.LearningResult, error)
}

// Stage names, also used as metric and log labels.
const (
	StageGrouping    = "grouping"
	StageCardinality = "cardinality"
	StageAssembly    = "assembly"
	StageRefinement  = "refinement"
)

// CardinalityMode selects the cardinality refinement stage.
type CardinalityMode string

// Cardinality refinement modes.
const (
	CardinalityFixed    CardinalityMode = "fixed"
	CardinalityAdaptive CardinalityMode = "adaptive"
)

// RefinementMode selects the model refinement stage.
type RefinementMode string

// Model refinement modes.
const (
	RefineNone   RefinementMode = "none"
	RefineLocal  RefinementMode = "local"
	RefineGlobal RefinementMode = "global"
)

// ParseCardinalityMode accepts "fixed" (or "") and "adaptive".
func ParseCardinalityMode(s string) (CardinalityMode, error) {
	switch m := CardinalityMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", CardinalityFixed:
		return CardinalityFixed, nil
	case CardinalityAdaptive:
		return m, nil
	default:
		return "", fmt.Errorf("clustering: ParseCardinalityMode(%q): %w", s, ErrInvalidOption)
	}
}

// ParseRefinementMode accepts "none" (or ""), "local" and "global".
func ParseRefinementMode(s string) (RefinementMode, error) {
	switch m := RefinementMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", RefineNone:
		return RefineNone, nil
	case RefineLocal, RefineGlobal:
		return m, nil
	default:
		return "", fmt.Errorf("clustering: ParseRefinementMode(%q): %w", s, ErrInvalidOption)
	}
}

// Default values of Options.
const (
	DefaultDelta             = 3.0
	DefaultMaxIslandSize     = 10
	DefaultLatentCardinality = 2
)

// Options configures a Pipeline.
type Options struct {
	// Test scores variable pairs for grouping and cluster roots for assembly.
	Test independence.Test

	// Grouper replaces the default BridgedIslands grouping when non-nil.
	Grouper Grouper

	// Delta is the unidimensionality threshold on the BIC gain of a two-latent model.
	Delta float64

	// MaxIslandSize caps the number of manifest variables per cluster.
	MaxIslandSize int

	// LatentCardinality is the state count of every cluster root.
	LatentCardinality int

	Cardinality CardinalityMode
	Refinement  RefinementMode

	// Spanning is the spanning-tree algorithm over cluster roots: mst.MethodPrim or
	// mst.MethodKruskal. Both yield a maximum tree oriented away from the global root.
	Spanning string

	// Seed drives the global root draw when Rand is nil; 0 selects rng.DefaultSeed.
	Seed int64

	// Rand, if non-nil, is used for the root draw instead of a stream built from Seed.
	// A Pipeline sharing one Rand is not safe for concurrent Runs.
	Rand *rand.Rand

	// Registry names new latent variables. Nil means a fresh Registry per Run.
	Registry *core.Registry

	// MaxCardinality bounds state introduction during local refinement.
	MaxCardinality int

	// Search configures local refinement.
	Search []hillclimb.Option

	Logger  *slog.Logger
	Metrics *metrics.Registry
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns mutual information, δ = 3, islands of at most 10 variables with
// binary roots, fixed cardinalities and no refinement.
func DefaultOptions() Options {
	return Options{
		Test:              independence.MutualInformation{},
		Delta:             DefaultDelta,
		MaxIslandSize:     DefaultMaxIslandSize,
		LatentCardinality: DefaultLatentCardinality,
		Cardinality:       CardinalityFixed,
		Refinement:        RefineNone,
		Spanning:          mst.MethodPrim,
		MaxCardinality:    hillclimb.DefaultMaxCardinality,
	}
}

// WithTest sets the independence test.
func WithTest(t independence.Test) Option { return func(o *Options) { o.Test = t } }

// WithGrouper replaces the grouping strategy.
func WithGrouper(g Grouper) Option { return func(o *Options) { o.Grouper = g } }

// WithDelta sets the unidimensionality threshold.
func WithDelta(delta float64) Option { return func(o *Options) { o.Delta = delta } }

// WithMaxIslandSize caps cluster sizes.
func WithMaxIslandSize(n int) Option { return func(o *Options) { o.MaxIslandSize = n } }

// WithLatentCardinality sets the cluster root cardinality.
func WithLatentCardinality(card int) Option { return func(o *Options) { o.LatentCardinality = card } }

// WithCardinality selects the cardinality refinement mode.
func WithCardinality(m CardinalityMode) Option { return func(o *Options) { o.Cardinality = m } }

// WithRefinement selects the model refinement mode.
func WithRefinement(m RefinementMode) Option { return func(o *Options) { o.Refinement = m } }

// WithSpanning selects the spanning-tree algorithm used by assembly.
func WithSpanning(method string) Option { return func(o *Options) { o.Spanning = method } }

// WithSeed sets the root draw seed.
func WithSeed(seed int64) Option { return func(o *Options) { o.Seed = seed } }

// WithRand injects the random source used for the root draw.
func WithRand(r *rand.Rand) Option { return func(o *Options) { o.Rand = r } }

// WithRegistry sets the registry for new latent variables.
func WithRegistry(reg *core.Registry) Option { return func(o *Options) { o.Registry = reg } }

// WithMaxCardinality bounds state introduction during local refinement.
func WithMaxCardinality(card int) Option { return func(o *Options) { o.MaxCardinality = card } }

// WithSearch configures local refinement.
func WithSearch(opts ...hillclimb.Option) Option {
	return func(o *Options) { o.Search = append(o.Search, opts...) }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }

// WithMetrics sets the metrics registry.
func WithMetrics(r *metrics.Registry) Option { return func(o *Options) { o.Metrics = r } }
