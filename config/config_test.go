// SPDX-License-Identifier: MIT

package config_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/latentree/clustering"
	"github.com/katalvlaran/latentree/config"
	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/em"
	"github.com/katalvlaran/latentree/independence"
	"github.com/katalvlaran/latentree/mst"
	"github.com/katalvlaran/latentree/suffstat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Validates(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.True(t, math.IsInf(cfg.Search.Threshold, 1))
}

func TestParse_OverridesDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte(`
search:
  max_iterations: 5
  threshold: 2.5
em:
  restarts: 3
  score: aic
  parallel: true
clustering:
  test: nmi
  normalization: min
  refinement: local
  spanning: kruskal
stats:
  engine: parallel
`))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Search.MaxIterations)
	assert.Equal(t, 2.5, cfg.Search.Threshold)
	assert.Equal(t, 10, cfg.Search.MaxCardinality, "untouched keys keep defaults")
	assert.Equal(t, 3, cfg.EM.Restarts)
	assert.Equal(t, 100, cfg.EM.MaxSteps)

	l, err := cfg.Learner(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, core.AIC, l.ScoreType())
	assert.Equal(t, em.ModeParallel, l.Mode())
	assert.Equal(t, 3, l.Options().Restarts)

	test, err := cfg.IndependenceTest()
	require.NoError(t, err)
	assert.Equal(t, independence.Normalized{Factor: independence.MinEntropy, Parallel: true, Threshold: 500}, test)

	eng, err := cfg.StatsEngine(nil)
	require.NoError(t, err)
	assert.IsType(t, suffstat.Parallel{}, eng)

	opts, err := cfg.ClusteringOptions(nil, nil)
	require.NoError(t, err)
	p, err := clustering.New(l, opts...)
	require.NoError(t, err)
	assert.Equal(t, clustering.RefineLocal, p.Options().Refinement)
	assert.Equal(t, mst.MethodKruskal, p.Options().Spanning)
	assert.Len(t, p.Options().Search, 4)
}

func TestParse_Infinity(t *testing.T) {
	cfg, err := config.Parse([]byte("search:\n  threshold: .inf\n"))
	require.NoError(t, err)
	assert.True(t, math.IsInf(cfg.Search.Threshold, 1))
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":  "search:\n  budget: 3\n",
		"negative":     "search:\n  max_iterations: -1\n",
		"restarts":     "em:\n  restarts: 0\n",
		"score":        "em:\n  score: mdl\n",
		"test":         "clustering:\n  test: pearson\n",
		"island":       "clustering:\n  max_island_size: 1\n",
		"refinement":   "clustering:\n  refinement: sometimes\n",
		"spanning":     "clustering:\n  spanning: boruvka\n",
		"engine":       "stats:\n  engine: gpu\n",
		"leaf size":    "stats:\n  threshold: 1\n",
		"chunk size":   "em:\n  chunk_size: 1\n",
		"not yaml map": "- 1\n- 2\n",
	}
	for name, doc := range cases {
		_, err := config.Parse([]byte(doc))
		assert.ErrorIs(t, err, config.ErrInvalidConfig, name)
		assert.Equal(t, core.KindInvalidArgument, core.KindOf(err), name)
	}
}

func TestParse_NamesTheField(t *testing.T) {
	_, err := config.Parse([]byte("clustering:\n  cardinality: elastic\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Clustering.Cardinality")
}

func TestParse_Empty(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ltm.yaml")
	require.NoError(t, os.WriteFile(path, []byte("em:\n  seed: 7\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.EM.Seed)

	_, err = config.Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, core.ErrIO)
}
