// SPDX-License-Identifier: MIT

package hillclimb

import (
	"context"
	"fmt"

	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
	"github.com/katalvlaran/latentree/dfs"
)

// Operator names.
const (
	NameStateIntroduction = "state-introduction"
	NameStateDeletion     = "state-deletion"
	NameNodeIntroduction  = "node-introduction"
	NameNodeDeletion      = "node-deletion"
	NameNodeRelocation    = "node-relocation"
)

// DefaultMaxCardinality bounds StateIntroduction when MaxCardinality is zero.
const DefaultMaxCardinality = 10

// TreeOperators returns the five tree-preserving operators in their canonical order.
func TreeOperators(reg *core.Registry, maxCardinality int) []Operator {
	return []Operator{
		StateIntroduction{Registry: reg, MaxCardinality: maxCardinality},
		StateDeletion{Registry: reg},
		NodeIntroduction{Registry: reg},
		NodeDeletion{},
		NodeRelocation{},
	}
}

// candidate is one edited clone together with a label for errors.
type candidate struct {
	label string
	net   *core.Network
}

// evaluate learns every candidate in order and keeps the strictly best one.
func evaluate(ctx context.Context, name string, cands []candidate, d *dataset.Dataset, learner Learner) (core.LearningResult, bool, error) {
	var (
		best  core.LearningResult
		found bool
	)
	for _, c := range cands {
		if err := ctx.Err(); err != nil {
			return core.LearningResult{}, false, err
		}
		res, err := learner.Learn(ctx, c.net, d)
		if err != nil {
			return core.LearningResult{}, false, fmt.Errorf("%s %s: %w", name, c.label, err)
		}
		if !found || res.Score() > best.Score() {
			best, found = res, true
		}
	}
	return best, found, nil
}

// StateIntroduction adds one state to a latent variable.
type StateIntroduction struct {
	Registry *core.Registry

	// MaxCardinality caps the result; 0 means DefaultMaxCardinality.
	MaxCardinality int
}

// Name implements Operator.
func (StateIntroduction) Name() string { return NameStateIntroduction }

// Apply implements Operator.
func (o StateIntroduction) Apply(ctx context.Context, net *core.Network, d *dataset.Dataset, learner Learner) (core.LearningResult, bool, error) {
	limit := o.MaxCardinality
	if limit <= 0 {
		limit = DefaultMaxCardinality
	}
	cands, err := resize(net, o.Registry, func(card int) (int, bool) { return card + 1, card < limit })
	if err != nil {
		return core.LearningResult{}, false, fmt.Errorf("%s: %w", o.Name(), err)
	}
	return evaluate(ctx, o.Name(), cands, d, learner)
}

// StateDeletion removes one state from a latent variable with at least three states.
type StateDeletion struct {
	Registry *core.Registry
}

// Name implements Operator.
func (StateDeletion) Name() string { return NameStateDeletion }

// Apply implements Operator.
func (o StateDeletion) Apply(ctx context.Context, net *core.Network, d *dataset.Dataset, learner Learner) (core.LearningResult, bool, error) {
	cands, err := resize(net, o.Registry, func(card int) (int, bool) { return card - 1, card > 2 })
	if err != nil {
		return core.LearningResult{}, false, fmt.Errorf("%s: %w", o.Name(), err)
	}
	return evaluate(ctx, o.Name(), cands, d, learner)
}

// resize builds one clone per latent whose cardinality next accepts.
func resize(net *core.Network, reg *core.Registry, next func(card int) (int, bool)) ([]candidate, error) {
	var cands []candidate
	for _, h := range net.Latents() {
		card, ok := next(h.Cardinality())
		if !ok {
			continue
		}
		if reg == nil {
			return nil, ErrNoRegistry
		}
		v, err := h.WithCardinality(reg, card)
		if err != nil {
			return nil, err
		}
		c := net.Clone()
		if err := c.ReplaceVariable(h.Name(), v); err != nil {
			return nil, err
		}
		cands = append(cands, candidate{label: fmt.Sprintf("%s→%d", h.Name(), card), net: c})
	}
	return cands, nil
}

// NodeIntroduction inserts a new latent between a latent with at least three children and
// two of those children. The new latent copies the cardinality of its parent.
type NodeIntroduction struct {
	Registry *core.Registry
}

// Name implements Operator.
func (NodeIntroduction) Name() string { return NameNodeIntroduction }

// Apply implements Operator.
func (o NodeIntroduction) Apply(ctx context.Context, net *core.Network, d *dataset.Dataset, learner Learner) (core.LearningResult, bool, error) {
	var cands []candidate
	for _, h := range net.Latents() {
		kids := net.Children(h.Name())
		if len(kids) < 3 {
			continue
		}
		if o.Registry == nil {
			return core.LearningResult{}, false, fmt.Errorf("%s: %w", o.Name(), ErrNoRegistry)
		}
		for i := 0; i < len(kids); i++ {
			for j := i + 1; j < len(kids); j++ {
				c, err := introduce(net, o.Registry, h, kids[i], kids[j])
				if err != nil {
					return core.LearningResult{}, false, fmt.Errorf("%s: %w", o.Name(), err)
				}
				cands = append(cands, candidate{label: fmt.Sprintf("%s/{%s,%s}", h.Name(), kids[i], kids[j]), net: c})
			}
		}
	}
	return evaluate(ctx, o.Name(), cands, d, learner)
}

func introduce(net *core.Network, reg *core.Registry, parent *core.Variable, a, b string) (*core.Network, error) {
	v, err := core.NewDiscreteVariable(reg, "", parent.Cardinality(), core.Latent)
	if err != nil {
		return nil, err
	}
	c := net.Clone()
	if _, err := c.AddNode(v); err != nil {
		return nil, err
	}
	for _, kid := range []string{a, b} {
		if err := c.RemoveEdge(parent.Name(), kid); err != nil {
			return nil, err
		}
		if err := c.AddEdge(v.Name(), kid); err != nil {
			return nil, err
		}
	}
	if err := c.AddEdge(parent.Name(), v.Name()); err != nil {
		return nil, err
	}
	return c, nil
}

// NodeDeletion removes a non-root latent and re-attaches its children to its parent.
type NodeDeletion struct{}

// Name implements Operator.
func (NodeDeletion) Name() string { return NameNodeDeletion }

// Apply implements Operator.
func (o NodeDeletion) Apply(ctx context.Context, net *core.Network, d *dataset.Dataset, learner Learner) (core.LearningResult, bool, error) {
	var cands []candidate
	for _, h := range net.Latents() {
		parent, ok := net.Parent(h.Name())
		if !ok {
			continue
		}
		c := net.Clone()
		kids := c.Children(h.Name())
		if err := c.RemoveNode(h.Name()); err != nil {
			return core.LearningResult{}, false, fmt.Errorf("%s: %w", o.Name(), err)
		}
		for _, kid := range kids {
			if err := c.AddEdge(parent, kid); err != nil {
				return core.LearningResult{}, false, fmt.Errorf("%s: %w", o.Name(), err)
			}
		}
		cands = append(cands, candidate{label: h.Name(), net: c})
	}
	return evaluate(ctx, o.Name(), cands, d, learner)
}

// NodeRelocation moves a child of a latent under another latent, provided its current
// parent keeps at least one child. A latent child moves with its whole subtree, so
// targets inside that subtree are skipped.
type NodeRelocation struct{}

// Name implements Operator.
func (NodeRelocation) Name() string { return NameNodeRelocation }

// Apply implements Operator.
func (o NodeRelocation) Apply(ctx context.Context, net *core.Network, d *dataset.Dataset, learner Learner) (core.LearningResult, bool, error) {
	hs, err := latentsTopDown(net)
	if err != nil {
		return core.LearningResult{}, false, fmt.Errorf("%s: %w", o.Name(), err)
	}
	var cands []candidate
	for _, v := range net.Variables() {
		from, ok := net.Parent(v.Name())
		if !ok || len(net.Children(from)) < 2 {
			continue
		}
		below := map[string]bool{}
		if v.IsLatent() {
			sub, err := dfs.Subtree(net, v.Name())
			if err != nil {
				return core.LearningResult{}, false, fmt.Errorf("%s: %w", o.Name(), err)
			}
			for _, n := range sub {
				below[n] = true
			}
		}
		for _, h := range hs {
			if h == from || below[h] {
				continue
			}
			c := net.Clone()
			if err := c.RemoveEdge(from, v.Name()); err != nil {
				return core.LearningResult{}, false, fmt.Errorf("%s: %w", o.Name(), err)
			}
			if err := c.AddEdge(h, v.Name()); err != nil {
				return core.LearningResult{}, false, fmt.Errorf("%s: %w", o.Name(), err)
			}
			cands = append(cands, candidate{label: fmt.Sprintf("%s:%s→%s", v.Name(), from, h), net: c})
		}
	}
	return evaluate(ctx, o.Name(), cands, d, learner)
}

// latentsTopDown lists the latents of net in pre-order from the roots. Manifest
// subtrees are never entered.
func latentsTopDown(net *core.Network) ([]string, error) {
	var out []string
	isLatent := func(name string) bool {
		v, ok := net.Variable(name)
		return ok && v.IsLatent()
	}
	_, err := dfs.DFS(net, "",
		dfs.WithFullTraversal(),
		dfs.WithFilterChild(isLatent),
		dfs.WithOnVisit(func(name string) error {
			if isLatent(name) {
				out = append(out, name)
			}
			return nil
		}))
	return out, err
}
