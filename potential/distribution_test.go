// SPDX-License-Identifier: MIT

package potential_test

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
	"github.com/katalvlaran/latentree/potential"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeVars(t *testing.T) (*core.Variable, *core.Variable, *core.Variable) {
	t.Helper()
	reg := core.NewRegistry()
	a, err := core.NewDiscreteVariable(reg, "a", 2, core.Manifest)
	require.NoError(t, err)
	b, err := core.NewDiscreteVariable(reg, "b", 3, core.Manifest)
	require.NoError(t, err)
	c, err := core.NewDiscreteVariable(reg, "c", 2, core.Manifest)
	require.NoError(t, err)
	return a, b, c
}

func TestDistribution_IndexRoundTrip(t *testing.T) {
	a, b, c := threeVars(t)
	p, err := potential.New(a, b, c)
	require.NoError(t, err)
	assert.Equal(t, 12, p.Len())

	states := make([]int, 3)
	for idx := 0; idx < p.Len(); idx++ {
		states = p.States(idx, states)
		assert.Equal(t, idx, p.Index(states))
	}
	assert.Equal(t, 1, p.Index([]int{0, 0, 1}), "last variable varies fastest")
}

func TestDistribution_MarginalizeAndEntropy(t *testing.T) {
	a, b, _ := threeVars(t)
	p, err := potential.New(a, b)
	require.NoError(t, err)
	for s := 0; s < 3; s++ {
		p.Add([]int{0, s}, 1)
		p.Add([]int{1, s}, 1)
	}

	ma, err := p.Marginalize(a)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 3}, ma.Values())
	assert.InDelta(t, math.Log(2), ma.Entropy(), 1e-12)
	assert.InDelta(t, math.Log(6), p.Entropy(), 1e-12)

	// keep order follows the argument, not the table
	ba, err := p.Marginalize(b, a)
	require.NoError(t, err)
	assert.Equal(t, []*core.Variable{b, a}, ba.Variables())
}

func TestDistribution_Errors(t *testing.T) {
	a, b, c := threeVars(t)
	p, err := potential.New(a, b)
	require.NoError(t, err)

	_, err = p.Marginalize(c)
	assert.ErrorIs(t, err, potential.ErrVariableMismatch)
	assert.Equal(t, core.KindInvalidArgument, core.KindOf(err))

	_, err = potential.New(a, a)
	assert.ErrorIs(t, err, potential.ErrDuplicateVariable)

	_, err = p.Normalize()
	assert.ErrorIs(t, err, potential.ErrEmpty)

	q, _ := potential.New(b, a)
	assert.ErrorIs(t, p.Merge(q), potential.ErrVariableMismatch)
}

func randomDataset(t *testing.T, n int, seed int64) *dataset.Dataset {
	t.Helper()
	a, b, c := threeVars(t)
	rng := rand.New(rand.NewSource(seed))
	rows := make([]dataset.Instance, n)
	for i := range rows {
		st := []int{rng.Intn(2), rng.Intn(3), rng.Intn(2)}
		if rng.Intn(10) == 0 {
			st[1] = dataset.Missing
		}
		rows[i] = dataset.Instance{States: st, Weight: 0.5 + rng.Float64()}
	}
	d, err := dataset.New([]*core.Variable{a, b, c}, rows)
	require.NoError(t, err)
	return d
}

func TestEmpiricalParallel_MatchesSequential(t *testing.T) {
	for _, n := range []int{10, 499, 1500} {
		d := randomDataset(t, n, int64(n))
		vars := d.Variables()

		seq, err := potential.Empirical(d, vars...)
		require.NoError(t, err)
		par, err := potential.EmpiricalParallel(context.Background(), d, 64, vars...)
		require.NoError(t, err)

		assert.InDeltaSlice(t, seq.Values(), par.Values(), 1e-9, "n=%d", n)
	}
}

func TestEmpirical_SkipsMissing(t *testing.T) {
	d := randomDataset(t, 200, 7)
	vars := d.Variables()
	p, err := potential.Empirical(d, vars[1])
	require.NoError(t, err)

	var want float64
	for _, in := range d.Instances() {
		if in.States[1] != dataset.Missing {
			want += in.Weight
		}
	}
	assert.InDelta(t, want, p.Sum(), 1e-9)
}
