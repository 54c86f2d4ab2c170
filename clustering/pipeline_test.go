// SPDX-License-Identifier: MIT

package clustering_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/katalvlaran/latentree/clustering"
	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
	"github.com/katalvlaran/latentree/em"
	"github.com/katalvlaran/latentree/hillclimb"
	"github.com/katalvlaran/latentree/independence"
	"github.com/katalvlaran/latentree/inference"
	"github.com/katalvlaran/latentree/metrics"
	"github.com/katalvlaran/latentree/mst"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generated samples n instances from h0 → {h1, x1, x2, x3}, h1 → {x4, x5, x6}.
func generated(t *testing.T, n int) *dataset.Dataset {
	t.Helper()
	reg := core.NewRegistry()
	net := core.NewNetwork(core.WithTreeConstraint())
	vars := map[string]*core.Variable{}
	add := func(name string, role core.Role) {
		v, err := core.NewDiscreteVariable(reg, name, 2, role)
		require.NoError(t, err)
		_, err = net.AddNode(v)
		require.NoError(t, err)
		vars[name] = v
	}
	add("h0", core.Latent)
	add("h1", core.Latent)
	for _, x := range []string{"x1", "x2", "x3", "x4", "x5", "x6"} {
		add(x, core.Manifest)
	}
	edges := [][2]string{{"h0", "h1"}, {"h0", "x1"}, {"h0", "x2"}, {"h0", "x3"}, {"h1", "x4"}, {"h1", "x5"}, {"h1", "x6"}}
	for _, e := range edges {
		require.NoError(t, net.AddEdge(e[0], e[1]))
	}

	prior := core.NewCPT(vars["h0"])
	require.NoError(t, prior.SetValues([]float64{0.5, 0.5}))
	require.NoError(t, net.SetCPT(prior))
	for _, e := range edges {
		cpt := core.NewCPT(vars[e[1]], vars[e[0]])
		p := 0.9
		if e[1] == "h1" {
			p = 0.75
		}
		require.NoError(t, cpt.SetValues([]float64{p, 1 - p, 1 - p, p}))
		require.NoError(t, net.SetCPT(cpt))
	}
	d, err := inference.Sample(net, n, rand.New(rand.NewSource(17)))
	require.NoError(t, err)
	return d
}

func learner(t *testing.T) *em.Learner {
	t.Helper()
	l, err := em.New(em.WithMaxSteps(30), em.WithSeed(3))
	require.NoError(t, err)
	return l
}

// stubGrouper returns fixed clusters.
type stubGrouper []core.LearningResult

func (s stubGrouper) Group(context.Context, *dataset.Dataset) ([]core.LearningResult, error) {
	return s, nil
}

func singleCluster(t *testing.T, d *dataset.Dataset) core.LearningResult {
	t.Helper()
	lcm, err := core.NewLCM(core.NewRegistry(), d.Variables(), 2)
	require.NoError(t, err)
	return core.NewLearningResult(lcm, -42, core.BIC)
}

func TestRun_SingleClusterIsReturnedAsIs(t *testing.T) {
	d := generated(t, 50)
	one := singleCluster(t, d)

	p, err := clustering.New(learner(t), clustering.WithGrouper(stubGrouper{one}))
	require.NoError(t, err)
	res, err := p.Run(context.Background(), d)
	require.NoError(t, err)
	assert.Same(t, one.Model(), res.Model())
	assert.Equal(t, -42.0, res.Score())
}

func TestRun_AssemblesFlatTree(t *testing.T) {
	d := generated(t, 1000)
	reg := metrics.NewRegistry()
	p, err := clustering.New(learner(t),
		clustering.WithMaxIslandSize(3),
		clustering.WithSeed(5),
		clustering.WithMetrics(reg))
	require.NoError(t, err)

	res, err := p.Run(context.Background(), d)
	require.NoError(t, err)
	net := res.Model()

	assert.True(t, net.IsTree())
	assert.Len(t, net.Manifests(), 6)
	require.Len(t, net.Roots(), 1)
	root, _ := net.Variable(net.Roots()[0])
	assert.True(t, root.IsLatent())
	assert.GreaterOrEqual(t, len(net.Latents()), 2, "islands hold at most 3 variables")
	for _, m := range net.Manifests() {
		parent, ok := net.Parent(m.Name())
		require.True(t, ok)
		pv, _ := net.Variable(parent)
		assert.True(t, pv.IsLatent())
	}
	for _, h := range net.Latents() {
		if parent, ok := net.Parent(h.Name()); ok {
			pv, _ := net.Variable(parent)
			assert.True(t, pv.IsLatent(), "cluster roots link to cluster roots")
		}
	}
	assert.Equal(t, core.BIC, res.ScoreType())
	assert.Equal(t, float64(len(net.Latents())), testutil.ToFloat64(reg.PipelineIslandsTotal))
}

func TestRun_KruskalAssembly(t *testing.T) {
	d := generated(t, 600)
	build := func(method string) *core.Network {
		p, err := clustering.New(learner(t),
			clustering.WithMaxIslandSize(3),
			clustering.WithSeed(5),
			clustering.WithSpanning(method))
		require.NoError(t, err)
		res, err := p.Run(context.Background(), d)
		require.NoError(t, err)
		return res.Model()
	}
	prim, kruskal := build(mst.MethodPrim), build(mst.MethodKruskal)
	assert.True(t, kruskal.IsTree())
	require.Len(t, kruskal.Roots(), 1)
	assert.Equal(t, prim.Roots(), kruskal.Roots(), "the global root comes from the seed, not the method")
	assert.Equal(t, len(prim.Latents()), len(kruskal.Latents()))
}

func TestRun_SeedFixesRoot(t *testing.T) {
	d := generated(t, 300)
	rootOf := func(seed int64) string {
		p, err := clustering.New(learner(t), clustering.WithMaxIslandSize(2),
			clustering.WithRand(rand.New(rand.NewSource(seed))))
		require.NoError(t, err)
		res, err := p.Run(context.Background(), d)
		require.NoError(t, err)
		return res.Model().Roots()[0]
	}
	assert.Equal(t, rootOf(9), rootOf(9))
}

func TestRun_LocalRefinementNeverLosesScore(t *testing.T) {
	d := generated(t, 500)
	run := func(mode clustering.RefinementMode) core.LearningResult {
		p, err := clustering.New(learner(t),
			clustering.WithMaxIslandSize(3),
			clustering.WithRefinement(mode),
			clustering.WithSearch(hillclimb.WithMaxIterations(1)))
		require.NoError(t, err)
		res, err := p.Run(context.Background(), d)
		require.NoError(t, err)
		return res
	}
	plain := run(clustering.RefineNone)
	refined := run(clustering.RefineLocal)
	assert.GreaterOrEqual(t, refined.Score(), plain.Score())
	assert.True(t, refined.Model().IsTree())
}

func TestRun_ExtensionPointsAreNotImplemented(t *testing.T) {
	d := generated(t, 50)
	one := singleCluster(t, d)
	reg := metrics.NewRegistry()

	p, err := clustering.New(learner(t), clustering.WithGrouper(stubGrouper{one}),
		clustering.WithCardinality(clustering.CardinalityAdaptive), clustering.WithMetrics(reg))
	require.NoError(t, err)
	_, err = p.Run(context.Background(), d)
	assert.ErrorIs(t, err, core.ErrNotImplemented)
	assert.Contains(t, err.Error(), clustering.StageCardinality)
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.PipelineErrorsTotal.WithLabelValues(clustering.StageCardinality, "not_implemented")))

	p, err = clustering.New(learner(t), clustering.WithGrouper(stubGrouper{one}),
		clustering.WithRefinement(clustering.RefineGlobal))
	require.NoError(t, err)
	_, err = p.Run(context.Background(), d)
	assert.Equal(t, core.KindNotImplemented, core.KindOf(err))
	assert.Contains(t, err.Error(), clustering.StageRefinement)
}

func TestRun_GroupingFailures(t *testing.T) {
	d := generated(t, 50)
	p, err := clustering.New(learner(t), clustering.WithGrouper(stubGrouper{}))
	require.NoError(t, err)
	_, err = p.Run(context.Background(), d)
	assert.ErrorIs(t, err, clustering.ErrNoClusters)

	_, err = p.Run(context.Background(), nil)
	assert.ErrorIs(t, err, clustering.ErrNoVariables)
}

func TestNew_Validation(t *testing.T) {
	l := learner(t)
	cases := map[string][]clustering.Option{
		"delta":    {clustering.WithDelta(-1)},
		"island":   {clustering.WithMaxIslandSize(1)},
		"card":     {clustering.WithLatentCardinality(0)},
		"test":     {clustering.WithTest(nil)},
		"cardmode": {clustering.WithCardinality("sometimes")},
		"refine":   {clustering.WithRefinement("twice")},
		"spanning": {clustering.WithSpanning("boruvka")},
	}
	for name, opts := range cases {
		_, err := clustering.New(l, opts...)
		assert.ErrorIs(t, err, clustering.ErrInvalidOption, name)
	}
	_, err := clustering.New(nil)
	assert.ErrorIs(t, err, clustering.ErrInvalidOption)
}

func TestParseModes(t *testing.T) {
	m, err := clustering.ParseCardinalityMode("")
	require.NoError(t, err)
	assert.Equal(t, clustering.CardinalityFixed, m)
	r, err := clustering.ParseRefinementMode(" LOCAL ")
	require.NoError(t, err)
	assert.Equal(t, clustering.RefineLocal, r)
}

func TestBridgedIslands(t *testing.T) {
	d := generated(t, 600)
	b := clustering.BridgedIslands{
		Test:              independence.MutualInformation{},
		Learner:           learner(t),
		Registry:          core.NewRegistry(),
		Delta:             3,
		MaxIslandSize:     3,
		LatentCardinality: 2,
	}
	clusters, err := b.Group(context.Background(), d)
	require.NoError(t, err)

	seen := map[string]int{}
	for _, c := range clusters {
		net := c.Model()
		require.Len(t, net.Roots(), 1)
		assert.Len(t, net.Latents(), 1)
		assert.LessOrEqual(t, len(net.Manifests()), 3)
		for _, m := range net.Manifests() {
			seen[m.Name()]++
		}
	}
	assert.Len(t, seen, 6)
	for name, n := range seen {
		assert.Equal(t, 1, n, name)
	}

	// with an unreachable threshold every variable joins the first island
	b.Delta, b.MaxIslandSize = 1e12, 10
	clusters, err = b.Group(context.Background(), d)
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Len(t, clusters[0].Model().Manifests(), 6)

	_, err = clustering.BridgedIslands{}.Group(context.Background(), d)
	assert.ErrorIs(t, err, clustering.ErrInvalidOption)
}

// Without WithRegistry the pipeline's fresh latents must still order after the dataset's
// manifests, so repeated runs enumerate candidates and break ties identically.
func TestRun_DefaultRegistryIsDeterministic(t *testing.T) {
	d := generated(t, 400)
	shape := func() ([]string, map[string][]string, float64) {
		p, err := clustering.New(learner(t),
			clustering.WithMaxIslandSize(3),
			clustering.WithSeed(9),
			clustering.WithRefinement(clustering.RefineLocal),
			clustering.WithSearch(hillclimb.WithMaxIterations(2)))
		require.NoError(t, err)
		res, err := p.Run(context.Background(), d)
		require.NoError(t, err)

		net := res.Model()
		seen := map[int]string{}
		var names []string
		children := map[string][]string{}
		for _, v := range net.Variables() {
			prev, dup := seen[v.Index()]
			assert.False(t, dup, "%s shares index %d with %s", v.Name(), v.Index(), prev)
			seen[v.Index()] = v.Name()
			names = append(names, v.Name())
			children[v.Name()] = net.Children(v.Name())
		}
		return names, children, res.Score()
	}

	names, children, score := shape()
	for i := 0; i < 3; i++ {
		n, c, s := shape()
		assert.Equal(t, names, n)
		assert.Equal(t, children, c)
		assert.Equal(t, score, s)
	}
}
