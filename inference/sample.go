// SPDX-License-Identifier: MIT

package inference

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
	"github.com/katalvlaran/latentree/dfs"
)

// Sample draws n instances from net by ancestral sampling and returns them over the
// manifest variables, each with weight 1. Latent states are drawn but not reported.
//
// Errors: core.ErrInvalidArgument for n < 0, dfs errors, dataset.New errors (a network
// without manifest variables).
// Complexity: O(n · V · max card).
func Sample(net *core.Network, n int, r *rand.Rand) (*dataset.Dataset, error) {
	if n < 0 {
		return nil, fmt.Errorf("inference: Sample(%d): %w", n, core.ErrInvalidArgument)
	}
	order, err := dfs.TopologicalSort(net)
	if err != nil {
		return nil, fmt.Errorf("inference: Sample: %w", err)
	}
	manifests := net.Manifests()
	column := make(map[string]int, len(manifests))
	for i, v := range manifests {
		column[v.Name()] = i
	}

	nodes := make([]*core.Node, len(order))
	parents := make([][]*core.Variable, len(order))
	for i, name := range order {
		nodes[i], _ = net.Node(name)
		parents[i] = nodes[i].CPT().Parents()
	}

	rows := make([]dataset.Instance, n)
	state := make(map[string]int, len(order))
	for k := range rows {
		for i, node := range nodes {
			cfg := 0
			for _, p := range parents[i] {
				cfg = cfg*p.Cardinality() + state[p.Name()]
			}
			state[node.Name()] = draw(node.CPT().Row(cfg), r)
		}
		st := make([]int, len(manifests))
		for name, c := range column {
			st[c] = state[name]
		}
		rows[k] = dataset.Instance{States: st, Weight: 1}
	}
	return dataset.New(manifests, rows)
}

// draw picks an index of the distribution p.
func draw(p []float64, r *rand.Rand) int {
	u := r.Float64()
	for i, w := range p {
		if u < w {
			return i
		}
		u -= w
	}
	return len(p) - 1
}
