// SPDX-License-Identifier: MIT

package mst

import (
	"sort"
)

// Kruskal computes a spanning tree of g with a disjoint-set forest.
//
// Steps:
//  1. Validate g; an empty graph is disconnected, a single vertex yields an empty tree.
//  2. Stable-sort the edges so that ties keep insertion order.
//  3. Scan the edges, keeping each one whose endpoints lie in different components,
//     until |V|-1 edges are kept.
//
// Errors: ErrInvalidGraph, ErrDisconnected.
// Complexity: O(E log E + α(V)·E) time, O(V + E) memory.
func Kruskal(g *Graph, opts ...Option) ([]Edge, float64, error) {
	o := buildOptions(opts)
	if g == nil {
		return nil, 0, ErrInvalidGraph
	}
	n := len(g.vertices)
	if n == 0 {
		return nil, 0, ErrDisconnected
	}
	if n == 1 {
		return []Edge{}, 0, nil
	}

	edges := g.Edges()
	sort.SliceStable(edges, func(i, j int) bool {
		return o.better(edges[i].Weight, edges[j].Weight)
	})

	// Disjoint-set forest over vertex indices.
	parent := make([]int, n)
	rank := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	find := func(u int) int {
		for parent[u] != u {
			parent[u] = parent[parent[u]] // path halving
			u = parent[u]
		}
		return u
	}
	union := func(ru, rv int) {
		switch {
		case rank[ru] < rank[rv]:
			parent[ru] = rv
		case rank[ru] > rank[rv]:
			parent[rv] = ru
		default:
			parent[rv] = ru
			rank[ru]++
		}
	}

	var (
		tree  = make([]Edge, 0, n-1)
		total float64
	)
	for _, e := range edges {
		ru, rv := find(g.index[e.From]), find(g.index[e.To])
		if ru == rv {
			continue
		}
		union(ru, rv)
		tree = append(tree, e)
		total += e.Weight
		if len(tree) == n-1 {
			break
		}
	}
	if len(tree) < n-1 {
		return nil, 0, ErrDisconnected
	}
	return tree, total, nil
}
