package dfs

import (
	"context"
	"fmt"

	"github.com/katalvlaran/latentree/core"
)

// topoSorter encapsulates the state of one ordering run.
type topoSorter struct {
	net   *core.Network
	ctx   context.Context
	state map[string]int
	order []string
}

// TopologicalSort orders all nodes of net so that every parent precedes its children.
// Roots are started in descending variable-index order, so after the final reversal the
// lowest-index root comes first and the output is deterministic.
//
// Network.AddEdge already refuses cycles; ErrCycleDetected guards networks assembled by
// other means. Only WithContext is honored among the options.
//
// Complexity: O(V + E).
func TopologicalSort(net *core.Network, opts ...Option) ([]string, error) {
	// 1. Validate
	if net == nil {
		return nil, ErrNetworkNil
	}

	// 2. Options
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	// 3. Initialize
	nodes := net.Nodes()
	s := &topoSorter{
		net:   net,
		ctx:   o.Ctx,
		state: make(map[string]int, len(nodes)),
		order: make([]string, 0, len(nodes)),
	}

	// 4. Visit from every unvisited node, highest index first
	for i := len(nodes) - 1; i >= 0; i-- {
		if s.state[nodes[i].Name()] == White {
			if err := s.visit(nodes[i].Name()); err != nil {
				return nil, fmt.Errorf("dfs: TopologicalSort: %w", err)
			}
		}
	}

	// 5. Reverse post-order
	for i, j := 0, len(s.order)-1; i < j; i, j = i+1, j-1 {
		s.order[i], s.order[j] = s.order[j], s.order[i]
	}
	return s.order, nil
}

// visit marks name Gray, explores children and records name once Black.
func (s *topoSorter) visit(name string) error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}
	switch s.state[name] {
	case Gray:
		return ErrCycleDetected
	case Black:
		return nil
	}
	s.state[name] = Gray

	children := s.net.Children(name)
	for i := len(children) - 1; i >= 0; i-- {
		if err := s.visit(children[i]); err != nil {
			return err
		}
	}

	s.state[name] = Black
	s.order = append(s.order, name)
	return nil
}
