// SPDX-License-Identifier: MIT

package inference

import "github.com/katalvlaran/latentree/core"

var (
	// ErrNotPropagated indicates a posterior query before any successful Propagate.
	ErrNotPropagated = core.NewKindError(core.ErrInvalidArgument, "inference: no evidence propagated")

	// ErrEvidence indicates mismatched evidence slices or an out-of-range state.
	ErrEvidence = core.NewKindError(core.ErrInvalidArgument, "inference: bad evidence")
)

// Unobserved marks a variable without evidence; it equals dataset.Missing.
const Unobserved = -1
