// SPDX-License-Identifier: MIT

package potential

import "github.com/katalvlaran/latentree/core"

var (
	// ErrVariableMismatch indicates an operation over variables the table does not hold.
	ErrVariableMismatch = core.NewKindError(core.ErrInvalidArgument, "potential: variable set mismatch")

	// ErrDuplicateVariable indicates the same variable twice in one table.
	ErrDuplicateVariable = core.NewKindError(core.ErrInvalidArgument, "potential: duplicate variable")

	// ErrEmpty indicates normalization of a table with zero total weight.
	ErrEmpty = core.NewKindError(core.ErrNumericInconsistency, "potential: zero total weight")
)
