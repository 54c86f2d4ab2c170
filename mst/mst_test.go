package mst_test

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/katalvlaran/latentree/mst"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTriangle returns A—B(1), B—C(2), A—C(3).
func buildTriangle(t *testing.T) *mst.Graph {
	t.Helper()
	g := mst.NewGraph()
	require.NoError(t, g.AddEdge("A", "B", 1))
	require.NoError(t, g.AddEdge("B", "C", 2))
	require.NoError(t, g.AddEdge("A", "C", 3))
	return g
}

// buildRandom returns a connected graph on n vertices: a chain plus extra random edges,
// with distinct weights drawn from r.
func buildRandom(n, extra int, r *rand.Rand) *mst.Graph {
	g := mst.NewGraph()
	for i := 0; i < n; i++ {
		g.AddVertex(fmt.Sprintf("V%d", i))
	}
	for i := 1; i < n; i++ {
		_ = g.AddEdge(fmt.Sprintf("V%d", i-1), fmt.Sprintf("V%d", i), 1+r.Float64()*10)
	}
	for i := 0; i < extra; {
		u, v := r.Intn(n), r.Intn(n)
		if u == v {
			continue
		}
		_ = g.AddEdge(fmt.Sprintf("V%d", u), fmt.Sprintf("V%d", v), 1+r.Float64()*100)
		i++
	}
	return g
}

// edgeSet renders undirected edges as sorted "u-v" keys.
func edgeSet(edges []mst.Edge) []string {
	out := make([]string, 0, len(edges))
	for _, e := range edges {
		u, v := e.From, e.To
		if u > v {
			u, v = v, u
		}
		out = append(out, u+"-"+v)
	}
	sort.Strings(out)
	return out
}

func TestTriangle_MinimumAndMaximum(t *testing.T) {
	g := buildTriangle(t)

	for _, method := range []string{mst.MethodKruskal, mst.MethodPrim} {
		tree, total, err := mst.Compute(g, mst.WithMethod(method), mst.WithRoot("A"))
		require.NoError(t, err, method)
		assert.Equal(t, 3.0, total, method)
		assert.Equal(t, []string{"A-B", "B-C"}, edgeSet(tree), method)

		tree, total, err = mst.Compute(g, mst.WithMethod(method), mst.WithMaximum())
		require.NoError(t, err, method)
		assert.Equal(t, 5.0, total, method)
		assert.Equal(t, []string{"A-C", "B-C"}, edgeSet(tree), method)
	}
}

func TestPrim_OrientsAwayFromRoot(t *testing.T) {
	g := buildTriangle(t)
	tree, _, err := mst.Prim(g, "C")
	require.NoError(t, err)

	seen := map[string]bool{"C": true}
	for _, e := range tree {
		assert.True(t, seen[e.From], "edge %s-%s starts outside the tree", e.From, e.To)
		seen[e.To] = true
	}
}

func TestPrim_DefaultRootIsFirstVertex(t *testing.T) {
	g := buildTriangle(t)
	tree, _, err := mst.Prim(g, "")
	require.NoError(t, err)
	assert.Equal(t, "A", tree[0].From)
}

func TestValidation(t *testing.T) {
	_, _, err := mst.Kruskal(nil)
	assert.ErrorIs(t, err, mst.ErrInvalidGraph)
	_, _, err = mst.Prim(nil, "A")
	assert.ErrorIs(t, err, mst.ErrInvalidGraph)

	empty := mst.NewGraph()
	_, _, err = mst.Kruskal(empty)
	assert.ErrorIs(t, err, mst.ErrDisconnected)
	_, _, err = mst.Prim(empty, "A")
	assert.ErrorIs(t, err, mst.ErrDisconnected)
	_, _, err = mst.Prim(empty, "")
	assert.ErrorIs(t, err, mst.ErrEmptyRoot)

	g := buildTriangle(t)
	_, _, err = mst.Prim(g, "Z")
	assert.ErrorIs(t, err, mst.ErrVertexNotFound)
	_, _, err = mst.Compute(g, mst.WithMethod("boruvka"))
	assert.ErrorIs(t, err, mst.ErrInvalidGraph)

	assert.ErrorIs(t, g.AddEdge("A", "A", 1), mst.ErrInvalidGraph)
	assert.ErrorIs(t, g.AddEdge("A", "B", math.NaN()), mst.ErrInvalidGraph)
	_, err = g.Neighbors("Z")
	assert.ErrorIs(t, err, mst.ErrVertexNotFound)
}

func TestSingleVertexAndDisconnected(t *testing.T) {
	g := mst.NewGraph()
	g.AddVertex("X")
	tree, total, err := mst.Kruskal(g)
	require.NoError(t, err)
	assert.Empty(t, tree)
	assert.Zero(t, total)
	tree, _, err = mst.Prim(g, "X")
	require.NoError(t, err)
	assert.Empty(t, tree)

	g.AddVertex("Y")
	_, _, err = mst.Kruskal(g)
	assert.ErrorIs(t, err, mst.ErrDisconnected)
	_, _, err = mst.Prim(g, "X")
	assert.ErrorIs(t, err, mst.ErrDisconnected)
}

func TestTies_KeepInsertionOrder(t *testing.T) {
	g := mst.NewGraph()
	require.NoError(t, g.AddEdge("A", "B", 1))
	require.NoError(t, g.AddEdge("A", "C", 1))
	require.NoError(t, g.AddEdge("B", "C", 1))

	tree, _, err := mst.Kruskal(g)
	require.NoError(t, err)
	assert.Equal(t, []string{"A-B", "A-C"}, edgeSet(tree))
	tree, _, err = mst.Prim(g, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"A-B", "A-C"}, edgeSet(tree))
}

func TestPrimMatchesKruskal(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 50
	properties := gopter.NewProperties(params)

	properties.Property("same total on distinct weights", prop.ForAll(
		func(n, extra int, seed int64, maximum bool) bool {
			g := buildRandom(n, extra, rand.New(rand.NewSource(seed)))
			var opts []mst.Option
			if maximum {
				opts = append(opts, mst.WithMaximum())
			}
			k, kw, err := mst.Kruskal(g, opts...)
			if err != nil {
				return false
			}
			p, pw, err := mst.Prim(g, "V0", opts...)
			if err != nil {
				return false
			}
			return len(k) == n-1 && len(p) == n-1 && math.Abs(kw-pw) < 1e-9
		},
		gen.IntRange(2, 40),
		gen.IntRange(0, 80),
		gen.Int64(),
		gen.Bool(),
	))
	properties.TestingRun(t)
}
