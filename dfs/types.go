// Package dfs defines types and options for depth-first traversal,
// including cancellation, pre-/post-order hooks, depth limiting, child filtering
// and full-network (forest) traversal.
package dfs

import (
	"context"
	"errors"
)

// Visitation states of a node.
const (
	White = iota // White: the node has not been visited yet.
	Gray         // Gray: the node is on the recursion stack.
	Black        // Black: the node and all its descendants are explored.
)

var (
	// ErrNetworkNil is returned when a nil *core.Network is passed to DFS or TopologicalSort.
	ErrNetworkNil = errors.New("dfs: network is nil")

	// ErrStartNodeNotFound indicates that the start node does not exist in the network.
	ErrStartNodeNotFound = errors.New("dfs: start node not found")

	// ErrCycleDetected indicates a back edge encountered during TopologicalSort.
	ErrCycleDetected = errors.New("dfs: cycle detected")
)

// Option configures optional behavior of DFS traversal.
type Option func(*Options)

// Options holds configurable parameters for DFS traversal.
type Options struct {
	// Ctx allows cancellation; defaults to context.Background().
	Ctx context.Context

	// OnVisit, if non-nil, runs when a node is discovered (pre-order).
	// Returning an error aborts traversal.
	OnVisit func(name string) error

	// OnExit, if non-nil, runs after all descendants of a node were explored
	// (post-order), before the node is appended to Result.Order.
	OnExit func(name string) error

	// MaxDepth, if non-negative, limits recursion depth. 0 visits only the start node.
	MaxDepth int

	// FilterChild, if non-nil, is asked before descending into a child;
	// false skips the child and its subtree.
	FilterChild func(name string) bool

	// FullTraversal walks from every network root, then from any node still unvisited.
	FullTraversal bool
}

// DefaultOptions returns Background context, no hooks, no depth limit,
// no filter and single-source traversal.
func DefaultOptions() Options {
	return Options{
		Ctx:      context.Background(),
		MaxDepth: -1,
	}
}

// WithContext sets the cancellation context. A nil context is ignored.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithOnVisit installs fn as a pre-order hook.
func WithOnVisit(fn func(name string) error) Option {
	return func(o *Options) { o.OnVisit = fn }
}

// WithOnExit installs fn as a post-order hook.
func WithOnExit(fn func(name string) error) Option {
	return func(o *Options) { o.OnExit = fn }
}

// WithMaxDepth limits traversal depth to limit.
func WithMaxDepth(limit int) Option {
	return func(o *Options) { o.MaxDepth = limit }
}

// WithFilterChild skips children for which fn returns false.
func WithFilterChild(fn func(name string) bool) Option {
	return func(o *Options) { o.FilterChild = fn }
}

// WithFullTraversal covers every node, not only those reachable from start.
func WithFullTraversal() Option {
	return func(o *Options) { o.FullTraversal = true }
}

// Result captures the outcome of a traversal.
type Result struct {
	// Order records nodes in the sequence they finished (post-order).
	Order []string

	// Depth maps each node to its distance (#edges) from its traversal root.
	Depth map[string]int

	// Parent maps each node to the node it was discovered from.
	// Traversal roots do not appear.
	Parent map[string]string

	// Visited flags which nodes were reached.
	Visited map[string]bool
}
