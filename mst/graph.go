// SPDX-License-Identifier: MIT

package mst

import (
	"fmt"
	"math"
)

// Edge is an undirected weighted edge. From and To follow the orientation in which the
// algorithm reached the edge.
type Edge struct {
	From   string
	To     string
	Weight float64
}

// Graph is an undirected weighted multigraph over named vertices. It is not safe for
// concurrent mutation.
type Graph struct {
	vertices []string
	index    map[string]int
	edges    []Edge
	adj      [][]int // vertex index -> edge indices
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{index: make(map[string]int)}
}

// AddVertex adds id if it is not present yet.
func (g *Graph) AddVertex(id string) {
	if _, ok := g.index[id]; ok {
		return
	}
	g.index[id] = len(g.vertices)
	g.vertices = append(g.vertices, id)
	g.adj = append(g.adj, nil)
}

// AddEdge adds an undirected edge u—v, creating missing vertices.
//
// Errors: ErrInvalidGraph for a self-loop or a NaN weight.
func (g *Graph) AddEdge(u, v string, w float64) error {
	if u == v {
		return fmt.Errorf("mst: AddEdge(%s,%s): self-loop: %w", u, v, ErrInvalidGraph)
	}
	if math.IsNaN(w) {
		return fmt.Errorf("mst: AddEdge(%s,%s): NaN weight: %w", u, v, ErrInvalidGraph)
	}
	g.AddVertex(u)
	g.AddVertex(v)
	id := len(g.edges)
	g.edges = append(g.edges, Edge{From: u, To: v, Weight: w})
	g.adj[g.index[u]] = append(g.adj[g.index[u]], id)
	g.adj[g.index[v]] = append(g.adj[g.index[v]], id)
	return nil
}

// HasVertex reports whether id is a vertex.
func (g *Graph) HasVertex(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []Edge { return append([]Edge(nil), g.edges...) }

// Neighbors returns the edges incident to id, oriented so that From == id.
//
// Errors: ErrVertexNotFound.
func (g *Graph) Neighbors(id string) ([]Edge, error) {
	i, ok := g.index[id]
	if !ok {
		return nil, fmt.Errorf("mst: Neighbors(%s): %w", id, ErrVertexNotFound)
	}
	out := make([]Edge, 0, len(g.adj[i]))
	for _, eid := range g.adj[i] {
		out = append(out, orient(g.edges[eid], id))
	}
	return out, nil
}

// orient returns e with From == from.
func orient(e Edge, from string) Edge {
	if e.From != from {
		e.From, e.To = e.To, e.From
	}
	return e
}
