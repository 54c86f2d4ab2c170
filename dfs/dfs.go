package dfs

import (
	"fmt"

	"github.com/katalvlaran/latentree/core"
)

// walker carries traversal state.
type walker struct {
	net  *core.Network
	opts Options
	res  *Result
}

// DFS performs depth-first search on net from start along parent→child edges.
// With WithFullTraversal start may be empty: every network root is walked in index
// order, then any node still unvisited. Children are explored in sorted name order.
// On abort the partial Result is returned together with the error.
func DFS(net *core.Network, start string, opts ...Option) (*Result, error) {
	// 1. Validate input
	if net == nil {
		return nil, ErrNetworkNil
	}

	// 2. Apply options
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	// 3. Single-source mode needs an existing start
	if _, ok := net.Node(start); !ok && !o.FullTraversal {
		return nil, fmt.Errorf("dfs: DFS(%q): %w", start, ErrStartNodeNotFound)
	}

	// 4. Initialize result
	n := net.NodeCount()
	res := &Result{
		Order:   make([]string, 0, n),
		Depth:   make(map[string]int, n),
		Parent:  make(map[string]string, n),
		Visited: make(map[string]bool, n),
	}
	w := &walker{net: net, opts: o, res: res}

	// 5. Traverse one tree or the whole forest
	if !o.FullTraversal {
		return res, w.traverse(start, 0)
	}
	// network roots first, so every tree is walked from its top
	starts := net.Roots()
	for _, node := range net.Nodes() {
		starts = append(starts, node.Name())
	}
	for _, name := range starts {
		if res.Visited[name] {
			continue
		}
		if err := w.traverse(name, 0); err != nil {
			return res, err
		}
	}
	return res, nil
}

// traverse visits name at depth and recurses into its children.
func (w *walker) traverse(name string, depth int) error {
	// 1. Cancellation check
	select {
	case <-w.opts.Ctx.Done():
		return w.opts.Ctx.Err()
	default:
	}

	// 2. Depth limit
	if w.opts.MaxDepth >= 0 && depth > w.opts.MaxDepth {
		return nil
	}

	// 3. Mark visited
	w.res.Visited[name] = true
	w.res.Depth[name] = depth

	// 4. Pre-order hook
	if w.opts.OnVisit != nil {
		if err := w.opts.OnVisit(name); err != nil {
			w.res.Order = nil
			return fmt.Errorf("dfs: OnVisit hook for %q: %w", name, err)
		}
	}

	// 5. Children
	for _, child := range w.net.Children(name) {
		if w.opts.FilterChild != nil && !w.opts.FilterChild(child) {
			continue
		}
		if w.res.Visited[child] {
			continue
		}
		w.res.Parent[child] = name
		if err := w.traverse(child, depth+1); err != nil {
			return err
		}
	}

	// 6. Post-order hook
	if w.opts.OnExit != nil {
		if err := w.opts.OnExit(name); err != nil {
			w.res.Order = nil
			return fmt.Errorf("dfs: OnExit hook for %q: %w", name, err)
		}
	}

	// 7. Finish
	w.res.Order = append(w.res.Order, name)
	return nil
}

// Subtree returns name and all of its descendants in pre-order.
func Subtree(net *core.Network, name string) ([]string, error) {
	var out []string
	_, err := DFS(net, name, WithOnVisit(func(n string) error {
		out = append(out, n)
		return nil
	}))
	if err != nil {
		return nil, err
	}
	return out, nil
}
