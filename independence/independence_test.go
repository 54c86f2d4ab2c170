// SPDX-License-Identifier: MIT

package independence_test

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
	"github.com/katalvlaran/latentree/independence"
	"github.com/katalvlaran/latentree/potential"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture: x balanced, y == x, z an independent coin, w ternary driven by x.
type fixture struct {
	d          *dataset.Dataset
	x, y, z, w *core.Variable
}

func newFixture(t *testing.T, n int, missing bool) fixture {
	t.Helper()
	reg := core.NewRegistry()
	mk := func(name string, card int) *core.Variable {
		v, err := core.NewDiscreteVariable(reg, name, card, core.Manifest)
		require.NoError(t, err)
		return v
	}
	f := fixture{x: mk("x", 2), y: mk("y", 2), z: mk("z", 2), w: mk("w", 3)}
	rng := rand.New(rand.NewSource(11))
	rows := make([]dataset.Instance, n)
	for i := range rows {
		x := i % 2
		w := x
		if rng.Intn(4) == 0 {
			w = 2
		}
		st := []int{x, x, rng.Intn(2), w}
		if missing && i%17 == 0 {
			st[2] = dataset.Missing
		}
		rows[i] = dataset.Instance{States: st, Weight: 1}
	}
	d, err := dataset.New([]*core.Variable{f.x, f.y, f.z, f.w}, rows)
	require.NoError(t, err)
	f.d = d
	return f
}

func one(v *core.Variable) []*core.Variable { return []*core.Variable{v} }

func TestMutualInformation_PerfectlyCorrelated(t *testing.T) {
	f := newFixture(t, 100, false)
	ctx := context.Background()
	mi := independence.MutualInformation{}

	got, err := mi.PairwiseData(ctx, f.d, one(f.x), one(f.y))
	require.NoError(t, err)
	assert.InDelta(t, math.Log(2), got, 1e-9)

	indep, err := mi.PairwiseData(ctx, f.d, one(f.x), one(f.z))
	require.NoError(t, err)
	assert.Less(t, indep, 0.05)
}

func TestMutualInformation_IndependentConvergesToZero(t *testing.T) {
	ctx := context.Background()
	mi := independence.MutualInformation{Parallel: true}

	var scores []float64
	for _, n := range []int{100, 2000, 20000} {
		f := newFixture(t, n, false)
		got, err := mi.PairwiseData(ctx, f.d, one(f.x), one(f.z))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got, 0.0)
		scores = append(scores, got)
	}
	assert.Less(t, scores[2], 1e-3)
}

func TestMutualInformation_SelfEqualsEntropy(t *testing.T) {
	f := newFixture(t, 400, false)

	// y is an exact copy of x, so I(x;y) = H(x)
	joint, err := potential.Empirical(f.d, f.x, f.y)
	require.NoError(t, err)
	hx, err := joint.Marginalize(f.x)
	require.NoError(t, err)

	got, err := independence.MutualInformation{}.Pairwise(joint, one(f.x), one(f.y))
	require.NoError(t, err)
	assert.InDelta(t, hx.Entropy(), got, 1e-12)

	_, err = independence.MutualInformation{}.Pairwise(joint, one(f.x), one(f.x))
	assert.ErrorIs(t, err, independence.ErrOverlap)
}

func TestConditional(t *testing.T) {
	f := newFixture(t, 1000, false)
	ctx := context.Background()
	mi := independence.MutualInformation{}

	// x and y stay fully dependent given an unrelated z
	got, err := mi.ConditionalData(ctx, f.d, one(f.x), one(f.y), one(f.z))
	require.NoError(t, err)
	assert.InDelta(t, math.Log(2), got, 1e-2)

	// given x, y carries nothing about w
	got, err = mi.ConditionalData(ctx, f.d, one(f.y), one(f.w), one(f.x))
	require.NoError(t, err)
	assert.InDelta(t, 0, got, 1e-9)

	_, err = mi.ConditionalData(ctx, f.d, one(f.x), one(f.y), one(f.x))
	assert.ErrorIs(t, err, independence.ErrOverlap)
	assert.Equal(t, core.KindInvalidArgument, core.KindOf(err))
}

func TestPairwise_VariableMismatch(t *testing.T) {
	f := newFixture(t, 50, false)
	joint, err := potential.Empirical(f.d, f.x, f.y)
	require.NoError(t, err)

	_, err = independence.Normalized{}.Pairwise(joint, one(f.x), one(f.z))
	assert.ErrorIs(t, err, potential.ErrVariableMismatch)
	assert.Equal(t, core.KindInvalidArgument, core.KindOf(err))
}

func TestNormalized_Factors(t *testing.T) {
	f := newFixture(t, 100, false)
	joint, err := potential.Empirical(f.d, f.x, f.y)
	require.NoError(t, err)

	for _, n := range []independence.Normalization{
		independence.JointEntropy, independence.MinEntropy, independence.MaxEntropy, independence.SqrtProduct,
	} {
		got, err := independence.Normalized{Factor: n}.Pairwise(joint, one(f.x), one(f.y))
		require.NoError(t, err)
		assert.InDelta(t, 1.0, got, 1e-9, n.String())
	}

	norm, err := independence.ParseNormalization("MAX")
	require.NoError(t, err)
	assert.Equal(t, independence.MaxEntropy, norm)
	_, err = independence.ParseNormalization("harmonic")
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestChiSquare(t *testing.T) {
	f := newFixture(t, 500, false)
	joint, err := potential.Empirical(f.d, f.x, f.w)
	require.NoError(t, err)
	c := independence.ChiSquare{}

	g, df, err := c.Statistic(joint, one(f.x), one(f.w), nil)
	require.NoError(t, err)
	assert.Equal(t, 2.0, df)
	assert.Greater(t, g, 0.0)

	p, err := c.PValue(joint, one(f.x), one(f.w), nil)
	require.NoError(t, err)
	assert.Less(t, p, 1e-6)

	density, err := c.Pairwise(joint, one(f.x), one(f.w))
	require.NoError(t, err)
	assert.False(t, math.IsNaN(density))
	assert.GreaterOrEqual(t, density, 0.0)
}

func TestBatch_FastPathMatchesPairwise(t *testing.T) {
	ctx := context.Background()
	for _, missing := range []bool{false, true} {
		f := newFixture(t, 300, missing)
		vars := []*core.Variable{f.x, f.y, f.z}
		for _, test := range []independence.Test{
			independence.MutualInformation{},
			independence.Normalized{Factor: independence.MinEntropy, Parallel: true, Threshold: 32},
		} {
			scores, err := test.Batch(ctx, f.d, vars)
			require.NoError(t, err)
			for _, a := range vars {
				assert.NotContains(t, scores[a], a)
				for _, b := range vars {
					if a == b {
						continue
					}
					want, err := test.PairwiseData(ctx, f.d, one(a), one(b))
					require.NoError(t, err)
					assert.InDelta(t, want, scores[a][b], 1e-9)
					assert.Equal(t, scores[a][b], scores[b][a])
				}
			}
		}
	}
}

func TestNew(t *testing.T) {
	test, err := independence.New("nmi", independence.SqrtProduct, false, 0)
	require.NoError(t, err)
	assert.Equal(t, "nmi", test.Name())

	_, err = independence.New("kendall", nil, false, 0)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}
