// SPDX-License-Identifier: MIT

package suffstat

import (
	"context"

	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
)

// ErrNoVariables indicates a computation over an empty variable list.
var ErrNoVariables = core.NewKindError(core.ErrInvalidArgument, "suffstat: no variables")

// Engine computes a FrequencyTable for vars over d.
type Engine interface {
	Compute(ctx context.Context, d *dataset.Dataset, vars []*core.Variable) (*FrequencyTable, error)
}

// Engine names used in metrics and configuration.
const (
	EngineSequential = "sequential"
	EngineParallel   = "parallel"
)

// Present reports whether state counts under the sparse convention: observed and not the
// reserved "absent" state 0.
func Present(state int) bool { return state > 0 }
