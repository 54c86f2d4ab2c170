// SPDX-License-Identifier: MIT

package mst

import (
	"github.com/katalvlaran/latentree/core"
)

var (
	// ErrInvalidGraph indicates a nil graph, a NaN weight, a self-loop or an unknown method.
	ErrInvalidGraph = core.NewKindError(core.ErrInvalidArgument, "mst: invalid graph")

	// ErrEmptyRoot indicates Prim without a start vertex.
	ErrEmptyRoot = core.NewKindError(core.ErrInvalidArgument, "mst: empty root vertex")

	// ErrVertexNotFound indicates a root or edge endpoint that is not a vertex.
	ErrVertexNotFound = core.NewKindError(core.ErrInvalidArgument, "mst: vertex not found")

	// ErrDisconnected indicates that no spanning tree covers every vertex.
	ErrDisconnected = core.NewKindError(core.ErrInvalidArgument, "mst: graph is disconnected")
)

// MethodPrim selects Prim's algorithm.
const MethodPrim = "prim"

// MethodKruskal selects Kruskal's algorithm.
const MethodKruskal = "kruskal"

// Options configures Compute, Kruskal and Prim.
type Options struct {
	// Method is MethodKruskal or MethodPrim. Only Compute reads it.
	Method string

	// Root is the start vertex for Prim; empty selects the first vertex. Unused by Kruskal.
	Root string

	// Maximum selects the maximum spanning tree instead of the minimum one.
	Maximum bool
}

// Option mutates Options.
type Option func(*Options)

// WithMethod sets the algorithm used by Compute.
func WithMethod(m string) Option {
	return func(o *Options) {
		o.Method = m
	}
}

// WithRoot sets the start vertex for Prim.
func WithRoot(root string) Option {
	return func(o *Options) {
		o.Root = root
	}
}

// WithMaximum selects the maximum spanning tree.
func WithMaximum() Option {
	return func(o *Options) {
		o.Maximum = true
	}
}

// DefaultOptions returns Kruskal, no root, minimum tree.
func DefaultOptions() Options {
	return Options{Method: MethodKruskal}
}

func buildOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// better reports whether weight a should be taken before b.
func (o Options) better(a, b float64) bool {
	if o.Maximum {
		return a > b
	}
	return a < b
}

// Compute dispatches to Kruskal or Prim according to Options.Method.
//
// Returns the tree edges, their total weight, and ErrInvalidGraph for an unknown method.
func Compute(g *Graph, opts ...Option) ([]Edge, float64, error) {
	o := buildOptions(opts)
	switch o.Method {
	case MethodKruskal:
		return Kruskal(g, opts...)
	case MethodPrim:
		return Prim(g, o.Root, opts...)
	default:
		return nil, 0, ErrInvalidGraph
	}
}
