// SPDX-License-Identifier: MIT
// Package core: error taxonomy shared by every package of the module.
//
// Four root sentinels classify every failure the learners can surface:
//
//	ErrInvalidArgument      - caller bug, never retryable (bad variable sets, unknown score type, cycles).
//	ErrNumericInconsistency - model and data disagree (zero likelihood evidence); stop the experiment.
//	ErrIO                   - dataset could not be read; retry is a caller policy.
//	ErrNotImplemented       - an extension point was selected that has no implementation yet.
//
// Package-level sentinels (core.ErrCycle, dataset.ErrUnsupportedFormat, ...) are built with
// NewKindError so that errors.Is matches both the specific sentinel and its root kind.
package core

import (
	"errors"
	"fmt"
)

// Root sentinels of the taxonomy.
var (
	// ErrInvalidArgument marks non-retryable caller errors.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNumericInconsistency marks data that is impossible under the model.
	ErrNumericInconsistency = errors.New("numeric inconsistency")

	// ErrIO marks dataset read failures.
	ErrIO = errors.New("i/o failure")

	// ErrNotImplemented marks an extension point without implementation.
	ErrNotImplemented = errors.New("not implemented")
)

// Kind classifies an error into one of the four taxonomy roots.
type Kind int

const (
	// KindUnknown is reported for errors outside the taxonomy (including nil).
	KindUnknown Kind = iota
	// KindInvalidArgument corresponds to ErrInvalidArgument.
	KindInvalidArgument
	// KindNumericInconsistency corresponds to ErrNumericInconsistency.
	KindNumericInconsistency
	// KindIO corresponds to ErrIO.
	KindIO
	// KindNotImplemented corresponds to ErrNotImplemented.
	KindNotImplemented
)

// String returns a short lower-case label, suitable for logs and metric labels.
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNumericInconsistency:
		return "numeric_inconsistency"
	case KindIO:
		return "io"
	case KindNotImplemented:
		return "not_implemented"
	default:
		return "unknown"
	}
}

// KindOf walks the wrap chain of err and reports the first taxonomy root it matches.
// Complexity: O(depth of the wrap chain).
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, ErrNumericInconsistency):
		return KindNumericInconsistency
	case errors.Is(err, ErrIO):
		return KindIO
	case errors.Is(err, ErrNotImplemented):
		return KindNotImplemented
	default:
		return KindUnknown
	}
}

// kindError is a sentinel that also unwraps to its taxonomy root.
type kindError struct {
	msg  string
	root error
}

func (e *kindError) Error() string   { return e.msg }
func (e *kindError) Unwrap() []error { return []error{e.root} }

// NewKindError builds a package sentinel whose message is msg and which satisfies
// errors.Is(err, root). root must be one of the four taxonomy sentinels.
func NewKindError(root error, msg string) error {
	return &kindError{msg: msg, root: root}
}

// Structural sentinels raised by Network edits.
var (
	// ErrCycle indicates that AddEdge would close a directed cycle.
	ErrCycle = NewKindError(ErrInvalidArgument, "core: edge would create a cycle")

	// ErrNotTree indicates that an edit would give a node a second parent under the tree constraint.
	ErrNotTree = NewKindError(ErrInvalidArgument, "core: edit violates tree structure")

	// ErrNodeNotFound indicates an operation referenced a variable that is not in the network.
	ErrNodeNotFound = NewKindError(ErrInvalidArgument, "core: node not found")

	// ErrDuplicateNode indicates a second node for the same variable name.
	ErrDuplicateNode = NewKindError(ErrInvalidArgument, "core: duplicate node")

	// ErrEdgeNotFound indicates RemoveEdge on a missing edge.
	ErrEdgeNotFound = NewKindError(ErrInvalidArgument, "core: edge not found")

	// ErrBadCardinality indicates a variable with fewer than one state.
	ErrBadCardinality = NewKindError(ErrInvalidArgument, "core: cardinality must be >= 1")

	// ErrIncompatibleKind indicates a continuous variable where a discrete one is required.
	ErrIncompatibleKind = NewKindError(ErrInvalidArgument, "core: incompatible variable kind")

	// ErrUnknownScoreType indicates a ScoreType outside {LogLikelihood, BIC, AIC}.
	ErrUnknownScoreType = NewKindError(ErrInvalidArgument, "core: unknown score type")

	// ErrMissingParameters indicates a node without a conditional probability table.
	ErrMissingParameters = NewKindError(ErrInvalidArgument, "core: node has no parameters")
)

// opErrorf wraps err with "core: <op>: " context, preserving errors.Is.
func opErrorf(op string, err error) error {
	return fmt.Errorf("core: %s: %w", op, err)
}
