// SPDX-License-Identifier: MIT

package core

import "fmt"

// NewLCM builds a latent class model: one latent root with latentCard states and an edge
// from the root into every manifest variable. The result is tree-constrained.
//
// Errors: ErrBadCardinality for latentCard < 1, ErrInvalidArgument when a variable in
// manifests is latent or repeated.
// Complexity: O(len(manifests)).
func NewLCM(reg *Registry, manifests []*Variable, latentCard int) (*Network, error) {
	root, err := NewDiscreteVariable(reg, "", latentCard, Latent)
	if err != nil {
		return nil, fmt.Errorf("core: NewLCM: %w", err)
	}
	return NewLCMWithRoot(root, manifests)
}

// NewLCMWithRoot is NewLCM with a caller-provided latent root.
func NewLCMWithRoot(root *Variable, manifests []*Variable) (*Network, error) {
	if root.role != Latent {
		return nil, fmt.Errorf("core: NewLCM: root %s is not latent: %w", root.name, ErrInvalidArgument)
	}
	net := NewNetwork(WithTreeConstraint())
	if _, err := net.AddNode(root); err != nil {
		return nil, fmt.Errorf("core: NewLCM: %w", err)
	}
	for _, m := range manifests {
		if m.role != Manifest {
			return nil, fmt.Errorf("core: NewLCM: %s is not manifest: %w", m.name, ErrInvalidArgument)
		}
		if _, err := net.AddNode(m); err != nil {
			return nil, fmt.Errorf("core: NewLCM: %w", err)
		}
		if err := net.AddEdge(root.name, m.name); err != nil {
			return nil, fmt.Errorf("core: NewLCM: %w", err)
		}
	}
	return net, nil
}
