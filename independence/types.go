// SPDX-License-Identifier: MIT

package independence

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
	"github.com/katalvlaran/latentree/potential"
)

// ErrOverlap indicates variable groups that are empty or not pairwise disjoint.
var ErrOverlap = core.NewKindError(core.ErrInvalidArgument, "independence: groups must be non-empty and disjoint")

// Scores maps every variable of a batch to its partners; the mapping is symmetric and has no
// diagonal.
type Scores map[*core.Variable]map[*core.Variable]float64

// Test is a dependency statistic between two disjoint variable groups.
type Test interface {
	// Name identifies the strategy in logs and configuration.
	Name() string

	// Pairwise scores a and b over a precomputed joint that holds both groups.
	Pairwise(joint *potential.Distribution, a, b []*core.Variable) (float64, error)

	// PairwiseData scores a and b over the empirical joint of d.
	PairwiseData(ctx context.Context, d *dataset.Dataset, a, b []*core.Variable) (float64, error)

	// Batch scores every unordered pair of vars.
	Batch(ctx context.Context, d *dataset.Dataset, vars []*core.Variable) (Scores, error)

	// Conditional scores a and b given the conditioning group.
	Conditional(joint *potential.Distribution, a, b, given []*core.Variable) (float64, error)

	// ConditionalData is Conditional over the empirical joint of d.
	ConditionalData(ctx context.Context, d *dataset.Dataset, a, b, given []*core.Variable) (float64, error)
}

// Normalizer turns the (conditional) entropies H(A), H(B) and H(A,B) into the divisor of a
// normalized mutual information.
type Normalizer interface {
	Factor(ha, hb, hab float64) float64
}

// Normalization enumerates the built-in normalizers.
type Normalization int

const (
	// JointEntropy divides by H(A,B).
	JointEntropy Normalization = iota
	// MinEntropy divides by min(H(A), H(B)).
	MinEntropy
	// MaxEntropy divides by max(H(A), H(B)).
	MaxEntropy
	// SqrtProduct divides by sqrt(H(A)·H(B)).
	SqrtProduct
)

// Factor implements Normalizer.
func (n Normalization) Factor(ha, hb, hab float64) float64 {
	switch n {
	case MinEntropy:
		return math.Min(ha, hb)
	case MaxEntropy:
		return math.Max(ha, hb)
	case SqrtProduct:
		return math.Sqrt(ha * hb)
	default:
		return hab
	}
}

func (n Normalization) String() string {
	switch n {
	case JointEntropy:
		return "joint"
	case MinEntropy:
		return "min"
	case MaxEntropy:
		return "max"
	case SqrtProduct:
		return "sqrt"
	default:
		return fmt.Sprintf("Normalization(%d)", int(n))
	}
}

// ParseNormalization maps "joint", "min", "max" or "sqrt" to a Normalization.
func ParseNormalization(s string) (Normalization, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "joint", "":
		return JointEntropy, nil
	case "min":
		return MinEntropy, nil
	case "max":
		return MaxEntropy, nil
	case "sqrt":
		return SqrtProduct, nil
	default:
		return 0, fmt.Errorf("independence: ParseNormalization(%q): %w", s, core.ErrInvalidArgument)
	}
}

// New builds a Test by name: "mi", "nmi" or "chisquare".
func New(name string, norm Normalizer, parallel bool, threshold int) (Test, error) {
	switch strings.ToLower(name) {
	case "mi", "":
		return MutualInformation{Parallel: parallel, Threshold: threshold}, nil
	case "nmi":
		return Normalized{Factor: norm, Parallel: parallel, Threshold: threshold}, nil
	case "chisquare", "chi2":
		return ChiSquare{Factor: norm, Parallel: parallel, Threshold: threshold}, nil
	default:
		return nil, fmt.Errorf("independence: New(%q): %w", name, core.ErrInvalidArgument)
	}
}
