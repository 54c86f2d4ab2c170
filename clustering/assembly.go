// SPDX-License-Identifier: MIT

package clustering

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
	"github.com/katalvlaran/latentree/independence"
	"github.com/katalvlaran/latentree/inference"
	"github.com/katalvlaran/latentree/internal/rng"
	"github.com/katalvlaran/latentree/mst"
	"github.com/katalvlaran/latentree/potential"
	"github.com/katalvlaran/latentree/score"
)

// skeleton is the outcome of the assembly stage before parameter fitting.
type skeleton struct {
	net  *core.Network
	root string
}

// clusterRoot returns the single latent root of a cluster model.
func clusterRoot(net *core.Network) (*core.Variable, error) {
	roots := net.Roots()
	if !net.IsTree() || len(roots) != 1 {
		return nil, ErrBadCluster
	}
	v, _ := net.Variable(roots[0])
	if !v.IsLatent() {
		return nil, ErrBadCluster
	}
	return v, nil
}

// assemble links the cluster roots by a maximum spanning tree over their dependency scores
// and splices the clusters onto it. The global root is drawn from r; method selects
// Prim or Kruskal.
//
// Complexity: O(k·n·|cluster|) inference plus O(k²·n·card²) joints, k = len(clusters).
func assemble(ctx context.Context, d *dataset.Dataset, clusters []*core.Network, test independence.Test, method string, r *rand.Rand) (skeleton, error) {
	roots := make([]*core.Variable, len(clusters))
	posts := make([][]float64, len(clusters))
	for i, c := range clusters {
		root, err := clusterRoot(c)
		if err != nil {
			return skeleton{}, fmt.Errorf("cluster %d: %w", i, err)
		}
		roots[i] = root
		if posts[i], err = rootPosteriors(ctx, d, c, root); err != nil {
			return skeleton{}, fmt.Errorf("cluster %d: %w", i, err)
		}
	}

	g := mst.NewGraph()
	for _, root := range roots {
		g.AddVertex(root.Name())
	}
	for i := range roots {
		for j := i + 1; j < len(roots); j++ {
			joint, err := completedJoint(d, roots[i], roots[j], posts[i], posts[j])
			if err != nil {
				return skeleton{}, err
			}
			s, err := test.Pairwise(joint, []*core.Variable{roots[i]}, []*core.Variable{roots[j]})
			if err != nil {
				return skeleton{}, err
			}
			if err := g.AddEdge(roots[i].Name(), roots[j].Name(), s); err != nil {
				return skeleton{}, err
			}
		}
	}

	global := roots[rng.Pick(r, len(roots))].Name()
	edges, _, err := mst.Compute(g, mst.WithMethod(method), mst.WithRoot(global), mst.WithMaximum())
	if err != nil {
		return skeleton{}, err
	}
	edges = orient(edges, global)

	net := core.NewNetwork(core.WithTreeConstraint())
	for _, c := range clusters {
		if err := net.Merge(c); err != nil {
			return skeleton{}, err
		}
	}
	for _, e := range edges {
		if err := net.AddEdge(e.From, e.To); err != nil {
			return skeleton{}, err
		}
	}
	return skeleton{net: net, root: global}, nil
}

// orient directs undirected tree edges away from root, listing them in breadth-first order.
func orient(edges []mst.Edge, root string) []mst.Edge {
	adj := make(map[string][]mst.Edge, len(edges)+1)
	for _, e := range edges {
		adj[e.From] = append(adj[e.From], e)
		adj[e.To] = append(adj[e.To], e)
	}
	out := make([]mst.Edge, 0, len(edges))
	seen := map[string]bool{root: true}
	for queue := []string{root}; len(queue) > 0; queue = queue[1:] {
		u := queue[0]
		for _, e := range adj[u] {
			v := e.To
			if v == u {
				v = e.From
			}
			if seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, mst.Edge{From: u, To: v, Weight: e.Weight})
			queue = append(queue, v)
		}
	}
	return out
}

// rootPosteriors returns P(root | instance) for every instance of d, flattened row-major.
// Rows of weight 0 stay zero.
//
// Errors: score.ErrZeroLikelihood when an instance is impossible under net.
func rootPosteriors(ctx context.Context, d *dataset.Dataset, net *core.Network, root *core.Variable) ([]float64, error) {
	eng, err := inference.New(net)
	if err != nil {
		return nil, err
	}
	vars := d.Variables()
	card := root.Cardinality()
	out := make([]float64, d.Len()*card)
	for i, in := range d.Instances() {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if in.Weight == 0 {
			continue
		}
		p, err := eng.Propagate(vars, in.States)
		if err != nil {
			return nil, err
		}
		if p == 0 {
			return nil, fmt.Errorf("instance %d: %w", i, score.ErrZeroLikelihood)
		}
		post, err := eng.Posterior(root)
		if err != nil {
			return nil, err
		}
		copy(out[i*card:(i+1)*card], post.Values())
	}
	return out, nil
}

// completedJoint sums w·P(a | instance)·P(b | instance) over the instances of d.
func completedJoint(d *dataset.Dataset, a, b *core.Variable, pa, pb []float64) (*potential.Distribution, error) {
	joint, err := potential.New(a, b)
	if err != nil {
		return nil, err
	}
	ca, cb := a.Cardinality(), b.Cardinality()
	for i, in := range d.Instances() {
		if in.Weight == 0 {
			continue
		}
		ra, rb := pa[i*ca:(i+1)*ca], pb[i*cb:(i+1)*cb]
		for x, px := range ra {
			for y, py := range rb {
				joint.AddIndex(x*cb+y, in.Weight*px*py)
			}
		}
	}
	return joint, nil
}
