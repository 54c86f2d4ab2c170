// Package mst computes spanning trees of small undirected weighted graphs with Kruskal's and
// Prim's algorithms.
//
// The clustering pipeline uses it to link island roots: vertices are latent variable names
// and weights are mutual information estimates, so the tree of interest is the MAXIMUM
// spanning tree (WithMaximum). Minimum trees remain the default.
//
// Algorithms
//
//   - Kruskal(g, opts...) sorts all edges (stable, by weight) and merges components with a
//     disjoint-set forest using path halving and union by rank.
//     Time O(E log E + α(V)·E), memory O(V + E).
//
//   - Prim(g, root, opts...) grows one tree from root with a binary heap of frontier edges.
//     Time O(E log V), memory O(V + E).
//
// Determinism
//
// Vertices are kept in insertion order and edges in insertion order. Kruskal breaks weight
// ties by insertion order; Prim breaks them by the order in which edges were pushed. For a
// graph with distinct weights both algorithms return the same edge set.
//
// Errors
//
//   - ErrInvalidGraph: nil graph, NaN weight, self-loop or unknown method.
//   - ErrEmptyRoot, ErrVertexNotFound: Prim without a usable root.
//   - ErrDisconnected: empty graph, or no spanning tree exists.
package mst
