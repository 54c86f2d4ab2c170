// Package inference is an exact inference engine for tree-shaped discrete networks.
//
// An Engine is built once per network (New) and snapshots its parameters: after the CPTs
// change, build a new Engine. Each Propagate call sets evidence and runs two passes:
//
//	upward   - leaves first, every node sends Σ P(x|parent)·λ(x) to its parent; messages are
//	           rescaled to sum 1 and the log scales accumulate, so long evidence vectors do
//	           not underflow.
//	downward - root first, every node sends its prior times the messages of the other
//	           children, giving π for every node.
//
// After Propagate, Posterior(v) returns P(v | e) and FamilyPosterior(v) returns
// P(parent(v), v | e) laid out like v's CPT (parent state major), which is what parameter
// learning needs for expected counts.
//
// Evidence that the model assigns zero probability yields likelihood 0 (log -Inf) and no
// error; callers that must reject it (score.LogLikelihood) check for it.
package inference
