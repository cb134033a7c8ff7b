// Package dim implements the symbolic non-negative integer expression
// algebra ("dims") that underlies Shape: addition, multiplication, min/max,
// division with remainder, broadcasting, and evaluation under a variable
// assignment.
//
// Package dim: sentinel error set, following the teacher's convention of
// exposing only package-level errors.New values and requiring callers to
// branch via errors.Is (matrix/errors.go, core/types.go).
package dim

import "errors"

var (
	// ErrUnboundVariable indicates Eval was asked to resolve a streaming
	// variable for which the binding has no entry.
	ErrUnboundVariable = errors.New("dim: unbound variable")

	// ErrNegativeDim indicates an expression evaluated to a negative value,
	// which is never a legal dim (dims are non-negative integers).
	ErrNegativeDim = errors.New("dim: evaluated to negative value")

	// ErrDivisionByZero indicates Div was asked to divide by a divisor that
	// evaluates to zero.
	ErrDivisionByZero = errors.New("dim: division by zero")

	// ErrNotBroadcastCompatible indicates two shapes cannot be broadcast
	// together under the right-aligned rule (spec.md §3).
	ErrNotBroadcastCompatible = errors.New("dim: shapes not broadcast-compatible")

	// ErrIncomparable indicates a requested ordering comparison between two
	// dims is not decidable from their symbolic form alone.
	ErrIncomparable = errors.New("dim: ordering not decidable")
)
