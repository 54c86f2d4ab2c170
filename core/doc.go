// Package core provides the model primitives shared by every learner in latentree:
// variables, the naming registry, conditional probability tables, the Network DAG and
// the LearningResult / ScoreType pair that travels with every learned model.
//
// Variables:
//
//   - Immutable identities (pointer equality), tagged Manifest/Latent and Discrete/Continuous.
//   - Names and indices come from an explicit *Registry; Registry.Reserve lets loaders advance
//     the counter past names found in external data.
//
// Network G = (V,E):
//
//   - Nodes keyed by variable name, each owning a CPT P(child | parents).
//   - AddEdge performs a reachability check and returns ErrCycle instead of creating a cycle.
//   - WithTreeConstraint() rejects a second parent with ErrNotTree (latent tree models).
//   - Deterministic iteration: Nodes(), Children(), Parents(), Roots() order by variable index.
//   - Clone() deep-copies adjacency and CPTs; learners clone before every structural edit.
//
// Core Methods:
//
//	NewNetwork(opts ...NetworkOption) *Network
//	AddNode(v *Variable) (*Node, error)             // O(1)
//	AddEdge(parent, child string) error             // O(V+E) reachability check
//	RemoveEdge / RemoveNode / ReplaceVariable
//	Dimension() int                                 // Σ (card-1)·|parent configurations|
//	NewLCM(reg, manifests, latentCard) (*Network, error)
//
// Errors:
//
//	ErrInvalidArgument, ErrNumericInconsistency, ErrIO, ErrNotImplemented - taxonomy roots
//	ErrCycle, ErrNotTree, ErrNodeNotFound, ...                            - invalid-argument kind
//
// Use KindOf(err) to branch on the taxonomy root.
package core
