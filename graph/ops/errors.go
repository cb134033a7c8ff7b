// Package ops implements the built-in node operators (spec.md §4.1): the
// operators a model builder registers against graph.Registry and wires into
// a graph.Model.
package ops

import "errors"

var (
	// ErrWrongInputCount indicates an operator received a different number
	// of inputs than its arity requires.
	ErrWrongInputCount = errors.New("ops: wrong number of inputs")

	// ErrAxisOutOfRange indicates an AddDims/RmDims axis argument fell
	// outside the valid insertion/removal range.
	ErrAxisOutOfRange = errors.New("ops: axis out of range")

	// ErrRmDimsNotOne indicates RmDims was asked to remove an axis whose
	// dim is not (decidably) 1.
	ErrRmDimsNotOne = errors.New("ops: cannot remove a non-1 axis")

	// ErrConcatAxisMismatch indicates Concat inputs disagree on a non-concat
	// axis.
	ErrConcatAxisMismatch = errors.New("ops: concat inputs disagree outside the concat axis")

	// ErrConcatEmpty indicates Concat was given zero inputs.
	ErrConcatEmpty = errors.New("ops: concat requires at least one input")
)
