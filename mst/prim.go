// SPDX-License-Identifier: MIT

package mst

import (
	"container/heap"
	"fmt"
)

// Prim grows a spanning tree from root using a binary heap of frontier edges. An empty root
// on a non-empty graph selects the first inserted vertex. Every returned edge is oriented
// away from root.
//
// Errors: ErrInvalidGraph, ErrEmptyRoot (empty graph and empty root), ErrVertexNotFound,
// ErrDisconnected.
// Complexity: O(E log V) time, O(V + E) memory.
func Prim(g *Graph, root string, opts ...Option) ([]Edge, float64, error) {
	o := buildOptions(opts)
	if g == nil {
		return nil, 0, ErrInvalidGraph
	}
	n := len(g.vertices)
	if root == "" {
		if n == 0 {
			return nil, 0, ErrEmptyRoot
		}
		root = g.vertices[0]
	}
	if n == 0 {
		return nil, 0, ErrDisconnected
	}
	if !g.HasVertex(root) {
		return nil, 0, fmt.Errorf("mst: Prim(%s): %w", root, ErrVertexNotFound)
	}
	if n == 1 {
		return []Edge{}, 0, nil
	}

	visited := make([]bool, n)
	tree := make([]Edge, 0, n-1)
	var total float64
	pq := &frontier{better: o.better}

	push := func(v string) {
		visited[g.index[v]] = true
		nb, _ := g.Neighbors(v) // v is a known vertex
		for _, e := range nb {
			if !visited[g.index[e.To]] {
				heap.Push(pq, item{edge: e, seq: pq.seq})
				pq.seq++
			}
		}
	}
	push(root)

	for pq.Len() > 0 && len(tree) < n-1 {
		e := heap.Pop(pq).(item).edge
		if visited[g.index[e.To]] {
			continue
		}
		tree = append(tree, e)
		total += e.Weight
		push(e.To)
	}
	if len(tree) < n-1 {
		return nil, 0, ErrDisconnected
	}
	return tree, total, nil
}

// item is a heap entry; seq orders equal weights by push time.
type item struct {
	edge Edge
	seq  int
}

// frontier implements heap.Interface ordered by Options.better, then by seq.
type frontier struct {
	items  []item
	seq    int
	better func(a, b float64) bool
}

func (f *frontier) Len() int { return len(f.items) }

func (f *frontier) Less(i, j int) bool {
	a, b := f.items[i], f.items[j]
	if a.edge.Weight != b.edge.Weight {
		return f.better(a.edge.Weight, b.edge.Weight)
	}
	return a.seq < b.seq
}

func (f *frontier) Swap(i, j int) { f.items[i], f.items[j] = f.items[j], f.items[i] }

func (f *frontier) Push(x any) { f.items = append(f.items, x.(item)) }

func (f *frontier) Pop() any {
	old := f.items
	n := len(old)
	it := old[n-1]
	f.items = old[:n-1]
	return it
}
