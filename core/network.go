// SPDX-License-Identifier: MIT
// File: network.go
// Role: Network type: a DAG of variable-bearing nodes with per-node CPTs.
// Determinism:
//   - Nodes(), Children(), Parents(), Roots() return results ordered by variable index.
// Concurrency:
//   - muNode guards nodes; muEdge guards parents/children adjacency. Readers may run in
//     parallel (EM E-step workers); edits are expected on private clones only.

package core

import (
	"fmt"
	"sort"
	"sync"
)

// Node binds a variable to its conditional probability table.
type Node struct {
	variable *Variable
	cpt      *CPT
}

// Variable returns the node variable.
func (n *Node) Variable() *Variable { return n.variable }

// CPT returns the live conditional probability table of the node.
func (n *Node) CPT() *CPT { return n.cpt }

// Name is shorthand for n.Variable().Name().
func (n *Node) Name() string { return n.variable.name }

// NetworkOption configures a Network at construction.
type NetworkOption func(*Network)

// WithTreeConstraint rejects any edit that gives a node a second parent.
func WithTreeConstraint() NetworkOption {
	return func(n *Network) { n.tree = true }
}

// Network is a directed acyclic graph over discrete variables.
//
// Acyclicity is an invariant of construction: AddEdge performs a reachability check and
// returns ErrCycle instead of committing a cycle. Under WithTreeConstraint each node has at
// most one parent, so the network is a forest.
type Network struct {
	muNode sync.RWMutex // guards nodes
	muEdge sync.RWMutex // guards parents and children

	tree bool

	nodes    map[string]*Node               // variable name -> node
	parents  map[string]map[string]struct{} // child -> parents
	children map[string]map[string]struct{} // parent -> children
}

// NewNetwork returns an empty network.
// Complexity: O(1).
func NewNetwork(opts ...NetworkOption) *Network {
	n := &Network{
		nodes:    make(map[string]*Node),
		parents:  make(map[string]map[string]struct{}),
		children: make(map[string]map[string]struct{}),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// TreeConstrained reports whether the network was built WithTreeConstraint.
func (n *Network) TreeConstrained() bool { return n.tree }

// AddNode inserts a parentless node for v with a uniform CPT.
//
// Errors: ErrIncompatibleKind for continuous variables, ErrDuplicateNode if a node with the
// same name exists.
func (n *Network) AddNode(v *Variable) (*Node, error) {
	if v.kind != Discrete {
		return nil, opErrorf("AddNode", ErrIncompatibleKind)
	}
	n.muNode.Lock()
	if _, ok := n.nodes[v.name]; ok {
		n.muNode.Unlock()
		return nil, opErrorf(fmt.Sprintf("AddNode(%s)", v.name), ErrDuplicateNode)
	}
	node := &Node{variable: v, cpt: NewCPT(v)}
	n.nodes[v.name] = node
	n.muNode.Unlock()

	n.muEdge.Lock()
	n.parents[v.name] = make(map[string]struct{})
	n.children[v.name] = make(map[string]struct{})
	n.muEdge.Unlock()

	return node, nil
}

// Node returns the node named name.
func (n *Network) Node(name string) (*Node, bool) {
	n.muNode.RLock()
	defer n.muNode.RUnlock()
	node, ok := n.nodes[name]
	return node, ok
}

// Variable returns the variable named name.
func (n *Network) Variable(name string) (*Variable, bool) {
	node, ok := n.Node(name)
	if !ok {
		return nil, false
	}
	return node.variable, true
}

// NodeCount returns |V|.
func (n *Network) NodeCount() int {
	n.muNode.RLock()
	defer n.muNode.RUnlock()
	return len(n.nodes)
}

// EdgeCount returns |E|.
func (n *Network) EdgeCount() int {
	n.muEdge.RLock()
	defer n.muEdge.RUnlock()
	var c int
	for _, ps := range n.parents {
		c += len(ps)
	}
	return c
}

// Nodes returns all nodes ordered by variable index.
// Complexity: O(V log V).
func (n *Network) Nodes() []*Node {
	n.muNode.RLock()
	defer n.muNode.RUnlock()
	out := make([]*Node, 0, len(n.nodes))
	for _, node := range n.nodes {
		out = append(out, node)
	}
	sort.Slice(out, func(i, j int) bool { return precedes(out[i].variable, out[j].variable) })
	return out
}

// Variables returns all variables ordered by index.
func (n *Network) Variables() []*Variable {
	nodes := n.Nodes()
	out := make([]*Variable, len(nodes))
	for i, node := range nodes {
		out[i] = node.variable
	}
	return out
}

// Latents returns the latent variables ordered by index.
func (n *Network) Latents() []*Variable { return n.byRole(Latent) }

// Manifests returns the manifest variables ordered by index.
func (n *Network) Manifests() []*Variable { return n.byRole(Manifest) }

func (n *Network) byRole(r Role) []*Variable {
	var out []*Variable
	for _, v := range n.Variables() {
		if v.role == r {
			out = append(out, v)
		}
	}
	return out
}

// sortedNames orders a name set by variable index. Caller holds muEdge (read) and must not
// hold muNode.
func (n *Network) sortedNames(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	n.muNode.RLock()
	sort.Slice(out, func(i, j int) bool {
		return precedes(n.nodes[out[i]].variable, n.nodes[out[j]].variable)
	})
	n.muNode.RUnlock()
	return out
}

// Parents returns the parent names of name ordered by variable index.
func (n *Network) Parents(name string) []string {
	n.muEdge.RLock()
	defer n.muEdge.RUnlock()
	return n.sortedNames(n.parents[name])
}

// Parent returns the single parent of name in a tree; ok is false for roots.
func (n *Network) Parent(name string) (string, bool) {
	ps := n.Parents(name)
	if len(ps) == 0 {
		return "", false
	}
	return ps[0], true
}

// Children returns the child names of name ordered by variable index.
func (n *Network) Children(name string) []string {
	n.muEdge.RLock()
	defer n.muEdge.RUnlock()
	return n.sortedNames(n.children[name])
}

// Roots returns the parentless nodes ordered by variable index.
func (n *Network) Roots() []string {
	var out []string
	for _, node := range n.Nodes() {
		if len(n.Parents(node.Name())) == 0 {
			out = append(out, node.Name())
		}
	}
	return out
}

// HasEdge reports whether parent->child exists.
func (n *Network) HasEdge(parent, child string) bool {
	n.muEdge.RLock()
	defer n.muEdge.RUnlock()
	_, ok := n.children[parent][child]
	return ok
}

// reachable reports whether to can be reached from from along directed edges.
// Caller holds muEdge.
func (n *Network) reachable(from, to string) bool {
	stack := []string{from}
	seen := map[string]struct{}{from: {}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == to {
			return true
		}
		for c := range n.children[cur] {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				stack = append(stack, c)
			}
		}
	}
	return false
}

// AddEdge inserts parent->child after checking that both nodes exist, that the edge would
// not close a cycle, and (under the tree constraint) that child has no parent yet.
// The child CPT is reset to a uniform table over its new parent set. Adding an existing
// edge is a no-op.
//
// Errors: ErrNodeNotFound, ErrCycle, ErrNotTree.
// Complexity: O(V + E) for the reachability check.
func (n *Network) AddEdge(parent, child string) error {
	n.muNode.RLock()
	_, okP := n.nodes[parent]
	_, okC := n.nodes[child]
	n.muNode.RUnlock()
	if !okP || !okC {
		return opErrorf(fmt.Sprintf("AddEdge(%s,%s)", parent, child), ErrNodeNotFound)
	}

	n.muEdge.Lock()
	if _, ok := n.children[parent][child]; ok {
		n.muEdge.Unlock()
		return nil
	}
	if parent == child || n.reachable(child, parent) {
		n.muEdge.Unlock()
		return opErrorf(fmt.Sprintf("AddEdge(%s,%s)", parent, child), ErrCycle)
	}
	if n.tree && len(n.parents[child]) > 0 {
		n.muEdge.Unlock()
		return opErrorf(fmt.Sprintf("AddEdge(%s,%s)", parent, child), ErrNotTree)
	}
	n.children[parent][child] = struct{}{}
	n.parents[child][parent] = struct{}{}
	n.muEdge.Unlock()

	n.resetCPT(child)
	return nil
}

// RemoveEdge deletes parent->child and resets the child CPT.
// Errors: ErrEdgeNotFound.
func (n *Network) RemoveEdge(parent, child string) error {
	n.muEdge.Lock()
	if _, ok := n.children[parent][child]; !ok {
		n.muEdge.Unlock()
		return opErrorf(fmt.Sprintf("RemoveEdge(%s,%s)", parent, child), ErrEdgeNotFound)
	}
	delete(n.children[parent], child)
	delete(n.parents[child], parent)
	n.muEdge.Unlock()

	n.resetCPT(child)
	return nil
}

// RemoveNode deletes name and all incident edges; former children get reset CPTs.
// Errors: ErrNodeNotFound.
func (n *Network) RemoveNode(name string) error {
	if _, ok := n.Node(name); !ok {
		return opErrorf(fmt.Sprintf("RemoveNode(%s)", name), ErrNodeNotFound)
	}
	children := n.Children(name)

	n.muEdge.Lock()
	for p := range n.parents[name] {
		delete(n.children[p], name)
	}
	for c := range n.children[name] {
		delete(n.parents[c], name)
	}
	delete(n.parents, name)
	delete(n.children, name)
	n.muEdge.Unlock()

	n.muNode.Lock()
	delete(n.nodes, name)
	n.muNode.Unlock()

	for _, c := range children {
		n.resetCPT(c)
	}
	return nil
}

// ReplaceVariable swaps the variable of node name for v (same name, typically a different
// cardinality). The CPTs of the node and its children are reset because their shapes change.
//
// Errors: ErrNodeNotFound, ErrInvalidArgument if v has a different name.
func (n *Network) ReplaceVariable(name string, v *Variable) error {
	if v.name != name {
		return opErrorf(fmt.Sprintf("ReplaceVariable(%s,%s)", name, v.name), ErrInvalidArgument)
	}
	n.muNode.Lock()
	node, ok := n.nodes[name]
	if !ok {
		n.muNode.Unlock()
		return opErrorf(fmt.Sprintf("ReplaceVariable(%s)", name), ErrNodeNotFound)
	}
	node.variable = v
	n.muNode.Unlock()

	n.resetCPT(name)
	for _, c := range n.Children(name) {
		n.resetCPT(c)
	}
	return nil
}

// SetCPT installs t as the table of its child node after checking that t's parents match
// the network parents of the node.
// Errors: ErrNodeNotFound, ErrInvalidArgument on a parent mismatch.
func (n *Network) SetCPT(t *CPT) error {
	name := t.child.name
	node, ok := n.Node(name)
	if !ok || node.variable != t.child {
		return opErrorf(fmt.Sprintf("SetCPT(%s)", name), ErrNodeNotFound)
	}
	want := n.Parents(name)
	if len(want) != len(t.parents) {
		return opErrorf(fmt.Sprintf("SetCPT(%s)", name), ErrInvalidArgument)
	}
	for i, p := range want {
		pv, _ := n.Variable(p)
		if pv != t.parents[i] {
			return opErrorf(fmt.Sprintf("SetCPT(%s)", name), ErrInvalidArgument)
		}
	}
	n.muNode.Lock()
	node.cpt = t
	n.muNode.Unlock()
	return nil
}

// resetCPT rebuilds a uniform CPT for name over its current parents.
func (n *Network) resetCPT(name string) {
	parents := n.Parents(name)
	pv := make([]*Variable, len(parents))
	for i, p := range parents {
		pv[i], _ = n.Variable(p)
	}
	n.muNode.Lock()
	if node, ok := n.nodes[name]; ok {
		node.cpt = NewCPT(node.variable, pv...)
	}
	n.muNode.Unlock()
}

// Dimension returns the number of free parameters of the network.
// Complexity: O(V).
func (n *Network) Dimension() int {
	var d int
	for _, node := range n.Nodes() {
		d += node.cpt.Dimension()
	}
	return d
}

// IsTree reports whether the network is non-empty, connected and every node has at most
// one parent (exactly one root).
func (n *Network) IsTree() bool {
	if n.NodeCount() == 0 {
		return false
	}
	if len(n.Roots()) != 1 {
		return false
	}
	for _, node := range n.Nodes() {
		if len(n.Parents(node.Name())) > 1 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy: same variable identities, copied adjacency and CPTs.
// Complexity: O(V + E + parameters).
func (n *Network) Clone() *Network {
	n.muNode.RLock()
	defer n.muNode.RUnlock()
	n.muEdge.RLock()
	defer n.muEdge.RUnlock()

	c := NewNetwork()
	c.tree = n.tree
	for name, node := range n.nodes {
		c.nodes[name] = &Node{variable: node.variable, cpt: node.cpt.Clone()}
		c.parents[name] = make(map[string]struct{}, len(n.parents[name]))
		c.children[name] = make(map[string]struct{}, len(n.children[name]))
	}
	for child, ps := range n.parents {
		for p := range ps {
			c.parents[child][p] = struct{}{}
			c.children[p][child] = struct{}{}
		}
	}
	return c
}

// Merge copies every node, edge and CPT of other into n. Variable names must be disjoint.
// Errors: ErrDuplicateNode, plus AddEdge errors.
func (n *Network) Merge(other *Network) error {
	for _, node := range other.Nodes() {
		if _, err := n.AddNode(node.variable); err != nil {
			return opErrorf("Merge", err)
		}
	}
	for _, node := range other.Nodes() {
		for _, p := range other.Parents(node.Name()) {
			if err := n.AddEdge(p, node.Name()); err != nil {
				return opErrorf("Merge", err)
			}
		}
	}
	for _, node := range other.Nodes() {
		if err := n.SetCPT(node.cpt.Clone()); err != nil {
			return opErrorf("Merge", err)
		}
	}
	return nil
}
