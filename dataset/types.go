// SPDX-License-Identifier: MIT

package dataset

import "github.com/katalvlaran/latentree/core"

var (
	// ErrNoVariables indicates a dataset schema without variables.
	ErrNoVariables = core.NewKindError(core.ErrInvalidArgument, "dataset: no variables")

	// ErrBadInstance indicates a row that does not fit the schema.
	ErrBadInstance = core.NewKindError(core.ErrInvalidArgument, "dataset: malformed instance")

	// ErrUnknownVariable indicates a variable outside the dataset schema.
	ErrUnknownVariable = core.NewKindError(core.ErrInvalidArgument, "dataset: unknown variable")

	// ErrIsDirectory indicates Load was pointed at a directory.
	ErrIsDirectory = core.NewKindError(core.ErrInvalidArgument, "dataset: path is a directory")

	// ErrUnsupportedFormat indicates a file extension no reader handles.
	ErrUnsupportedFormat = core.NewKindError(core.ErrInvalidArgument, "dataset: unsupported format")

	// ErrRead indicates the file could not be read or parsed as a table.
	ErrRead = core.NewKindError(core.ErrIO, "dataset: read failure")
)

// WeightColumn is the optional trailing CSV column carrying instance weights.
const WeightColumn = "weight"
