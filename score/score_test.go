// SPDX-License-Identifier: MIT

package score_test

import (
	"context"
	"math"
	"testing"

	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
	"github.com/katalvlaran/latentree/score"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scoreTypes = []core.ScoreType{core.LogLikelihood, core.BIC, core.AIC}

func TestPenalize_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("score is non-decreasing in log-likelihood", prop.ForAll(
		func(ll, delta float64, dim int, weight float64) bool {
			for _, st := range scoreTypes {
				lo, err1 := score.Penalize(ll, dim, weight, st)
				hi, err2 := score.Penalize(ll+delta, dim, weight, st)
				if err1 != nil || err2 != nil || hi < lo {
					return false
				}
			}
			return true
		},
		gen.Float64Range(-1e6, 0),
		gen.Float64Range(0, 1e3),
		gen.IntRange(0, 500),
		gen.Float64Range(1, 1e6),
	))

	properties.Property("penalized scores never exceed log-likelihood", prop.ForAll(
		func(ll float64, dim int, weight float64) bool {
			for _, st := range []core.ScoreType{core.BIC, core.AIC} {
				s, err := score.Penalize(ll, dim, weight, st)
				if err != nil || s > ll {
					return false
				}
			}
			return true
		},
		gen.Float64Range(-1e6, 0),
		gen.IntRange(1, 500),
		gen.Float64Range(1, 1e6),
	))

	properties.TestingRun(t)
}

func TestPenalize_Values(t *testing.T) {
	s, err := score.Penalize(-100, 7, math.E*math.E, core.BIC)
	require.NoError(t, err)
	assert.InDelta(t, -107, s, 1e-12)

	s, err = score.Penalize(-100, 7, 10, core.AIC)
	require.NoError(t, err)
	assert.InDelta(t, -107, s, 1e-12)

	_, err = score.Penalize(-1, 1, 1, core.ScoreType(42))
	assert.ErrorIs(t, err, core.ErrUnknownScoreType)
	assert.Equal(t, core.KindInvalidArgument, core.KindOf(err))

	_, err = score.Penalize(-1, 1, 0, core.BIC)
	assert.ErrorIs(t, err, score.ErrNoWeight)
}

func lcmData(t *testing.T) (*core.Network, *dataset.Dataset, []*core.Variable) {
	t.Helper()
	reg := core.NewRegistry()
	a, _ := core.NewDiscreteVariable(reg, "a", 2, core.Manifest)
	b, _ := core.NewDiscreteVariable(reg, "b", 2, core.Manifest)
	net, err := core.NewLCM(reg, []*core.Variable{a, b}, 2)
	require.NoError(t, err)
	d, err := dataset.New([]*core.Variable{a, b}, []dataset.Instance{
		{States: []int{0, 0}, Weight: 3},
		{States: []int{1, dataset.Missing}, Weight: 1},
	})
	require.NoError(t, err)
	return net, d, []*core.Variable{a, b}
}

func TestLogLikelihood_UniformModel(t *testing.T) {
	net, d, _ := lcmData(t)
	ll, err := score.LogLikelihood(context.Background(), d, net)
	require.NoError(t, err)
	// uniform CPTs: P(0,0) = 1/4, P(a=1) = 1/2
	assert.InDelta(t, 3*math.Log(0.25)+math.Log(0.5), ll, 1e-12)

	res, err := score.Evaluate(context.Background(), d, net, core.BIC)
	require.NoError(t, err)
	assert.Equal(t, core.BIC, res.ScoreType())
	assert.InDelta(t, ll-5*math.Log(4)/2, res.Score(), 1e-12)
}

func TestLogLikelihood_ZeroLikelihoodIsFatal(t *testing.T) {
	net, d, vars := lcmData(t)
	root := net.Roots()[0]
	rv, _ := net.Variable(root)
	cpt := core.NewCPT(vars[0], rv)
	require.NoError(t, cpt.SetValues([]float64{1, 0, 1, 0}))
	require.NoError(t, net.SetCPT(cpt))

	_, err := score.LogLikelihood(context.Background(), d, net)
	assert.ErrorIs(t, err, score.ErrZeroLikelihood)
	assert.Equal(t, core.KindNumericInconsistency, core.KindOf(err))
}

func TestLogLikelihood_Cancelled(t *testing.T) {
	net, d, _ := lcmData(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := score.LogLikelihood(ctx, d, net)
	assert.ErrorIs(t, err, context.Canceled)
}
