// SPDX-License-Identifier: MIT

package em_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
	"github.com/katalvlaran/latentree/em"
	"github.com/katalvlaran/latentree/inference"
	"github.com/katalvlaran/latentree/metrics"
	"github.com/katalvlaran/latentree/score"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// truth builds a two-class LCM over four binary manifests with well separated classes and
// samples n instances from it.
func truth(t *testing.T, n int) (*core.Network, *dataset.Dataset) {
	t.Helper()
	reg := core.NewRegistry()
	manifests := make([]*core.Variable, 4)
	for i := range manifests {
		v, err := core.NewDiscreteVariable(reg, "", 2, core.Manifest)
		require.NoError(t, err)
		manifests[i] = v
	}
	net, err := core.NewLCM(reg, manifests, 2)
	require.NoError(t, err)
	root, _ := net.Variable(net.Roots()[0])

	prior := core.NewCPT(root)
	require.NoError(t, prior.SetValues([]float64{0.4, 0.6}))
	require.NoError(t, net.SetCPT(prior))
	for i, v := range manifests {
		cpt := core.NewCPT(v, root)
		hi := 0.9 - 0.05*float64(i)
		require.NoError(t, cpt.SetValues([]float64{hi, 1 - hi, 1 - hi, hi}))
		require.NoError(t, net.SetCPT(cpt))
	}
	d, err := inference.Sample(net, n, rand.New(rand.NewSource(21)))
	require.NoError(t, err)
	return net, d
}

func newLearner(t *testing.T, opts ...em.Option) *em.Learner {
	t.Helper()
	l, err := em.New(opts...)
	require.NoError(t, err)
	return l
}

func TestLearn_ApproachesGeneratingModel(t *testing.T) {
	gen, d := truth(t, 2000)
	trueLL, err := score.LogLikelihood(context.Background(), d, gen)
	require.NoError(t, err)

	l := newLearner(t, em.WithRestarts(3), em.WithScoreType(core.LogLikelihood), em.WithSeed(4))
	res, err := l.Learn(context.Background(), gen, d)
	require.NoError(t, err)

	assert.Equal(t, core.LogLikelihood, res.ScoreType())
	assert.GreaterOrEqual(t, res.Score(), trueLL-1.0)
	assert.NotSame(t, gen, res.Model())

	ll, err := score.LogLikelihood(context.Background(), d, res.Model())
	require.NoError(t, err)
	assert.InDelta(t, ll, res.Score(), 1e-6)
}

func TestLearn_LikelihoodNeverDecreases(t *testing.T) {
	gen, d := truth(t, 300)
	prev := -1e300
	for steps := 0; steps <= 6; steps++ {
		l := newLearner(t, em.WithMaxSteps(steps), em.WithThreshold(0), em.WithScoreType(core.LogLikelihood), em.WithSeed(8))
		res, err := l.Learn(context.Background(), gen, d)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.Score(), prev-1e-9, "steps=%d", steps)
		prev = res.Score()
	}
}

func TestLearn_ParallelMatchesSequential(t *testing.T) {
	gen, d := truth(t, 1500)
	seq := newLearner(t, em.WithMaxSteps(20), em.WithSeed(2))
	par := newLearner(t, em.WithMaxSteps(20), em.WithSeed(2), em.WithParallel(64))
	assert.Equal(t, em.ModeParallel, par.Mode())

	a, err := seq.Learn(context.Background(), gen, d)
	require.NoError(t, err)
	b, err := par.Learn(context.Background(), gen, d)
	require.NoError(t, err)
	assert.InDelta(t, a.Score(), b.Score(), 1e-6)
}

func TestLearn_LocalKeepsOtherParameters(t *testing.T) {
	gen, d := truth(t, 500)
	manifests := gen.Manifests()
	keep, _ := gen.Node(manifests[1].Name())
	before := keep.CPT().Values()
	seedRoot, _ := gen.Node(gen.Roots()[0])
	seedPrior := seedRoot.CPT().Values()

	l := newLearner(t).Local(gen.Roots()[0], manifests[0].Name())
	assert.Equal(t, em.ModeLocal, l.Mode())
	res, err := l.Learn(context.Background(), gen, d)
	require.NoError(t, err)

	after, _ := res.Model().Node(manifests[1].Name())
	assert.Equal(t, before, after.CPT().Values())

	// the seed is never modified
	assert.Equal(t, seedPrior, seedRoot.CPT().Values())

	_, err = newLearner(t, em.WithLocal("ghost")).Learn(context.Background(), gen, d)
	assert.ErrorIs(t, err, core.ErrNodeNotFound)
}

func TestLearn_Errors(t *testing.T) {
	for _, opt := range []em.Option{em.WithMaxSteps(-1), em.WithThreshold(-1), em.WithRestarts(0), em.WithScoreType(core.ScoreType(9))} {
		_, err := em.New(opt)
		assert.Equal(t, core.KindInvalidArgument, core.KindOf(err))
	}

	gen, d := truth(t, 50)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newLearner(t).Learn(ctx, gen, d)
	assert.ErrorIs(t, err, context.Canceled)

	reg := core.NewRegistry()
	other, _ := core.NewDiscreteVariable(reg, "other", 2, core.Manifest)
	net, err := core.NewLCM(reg, []*core.Variable{other}, 2)
	require.NoError(t, err)
	_, err = newLearner(t).Learn(context.Background(), net, d)
	assert.ErrorIs(t, err, dataset.ErrUnknownVariable)
}

func TestLearn_RecordsMetrics(t *testing.T) {
	gen, d := truth(t, 100)
	reg := metrics.NewRegistry()
	_, err := newLearner(t, em.WithMetrics(reg), em.WithMaxSteps(3)).Learn(context.Background(), gen, d)
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.EMRunsTotal.WithLabelValues(em.ModeFull, "ok")))
}
