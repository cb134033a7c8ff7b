// Package solver implements the fixed-point constraint solver that operator
// shape-inference rules are expressed against (spec.md §4.1): primitive
// equals(a,b) unification over typed variables, and given(x, closure)
// deferred clauses fired once x becomes known.
package solver

import "errors"

var (
	// ErrContradiction indicates two variables bound via Equals hold distinct
	// known values — a genuine shape/type mismatch, not a stall.
	ErrContradiction = errors.New("solver: contradiction between bound values")

	// ErrStalled indicates Run reached a fixed point with pending given
	// clauses whose variable never became known — the solver made no
	// progress and some required output remains unbound.
	ErrStalled = errors.New("solver: stalled with unresolved clauses")
)
