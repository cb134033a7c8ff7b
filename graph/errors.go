// Package graph implements the typed computation graph: Fact variants,
// the Operator capability-set contract, Node/Model/Patch, and topological
// evaluation (spec.md §3–§4, §6).
//
// Package graph: sentinel error set, following the teacher's core/types.go
// and matrix/errors.go convention — only package-level errors.New values,
// callers branch with errors.Is.
package graph

import "errors"

var (
	// ErrOutletNotFound indicates a reference to a (node, slot) pair that
	// does not exist in the model.
	ErrOutletNotFound = errors.New("graph: outlet not found")

	// ErrForwardReference indicates a node's input referenced a node id that
	// has not been added yet (or does not exist), violating the model's
	// acyclicity invariant (spec.md §3: "every input outlet of every
	// non-source node references an existing earlier outlet").
	ErrForwardReference = errors.New("graph: input references a non-earlier node")

	// ErrShapeMismatch indicates producer and consumer facts failed to unify
	// across an edge.
	ErrShapeMismatch = errors.New("graph: producer/consumer fact mismatch")

	// ErrCapabilityNotSupported indicates a node's operator does not
	// implement the capability a driver asked for (shape inference,
	// evaluation, pulsification); the declutter, codegen and axis-change
	// drivers skip such nodes instead of returning it (spec.md §9).
	ErrCapabilityNotSupported = errors.New("graph: operator does not support this capability")

	// ErrAxisChangeRefused indicates an axis-change traversal reached a
	// boundary unwilling to absorb or propagate the change; the caller sees
	// this as a refusal, and the model is left unchanged.
	ErrAxisChangeRefused = errors.New("graph: axis change refused at boundary")

	// ErrAxisChangeConflict indicates two traversal paths reached the same
	// wire with incompatible AxisOps.
	ErrAxisChangeConflict = errors.New("graph: conflicting axis change on shared wire")

	// ErrUnboundStreamVar indicates streaming evaluation needed a pulse
	// index or delay variable that was never bound — fatal for that call
	// (spec.md §7 kind 4).
	ErrUnboundStreamVar = errors.New("graph: unbound streaming variable")

	// ErrUnsupportedKernel indicates the matmul dispatcher found no kernel
	// for the requested (family, type) combination — fatal for that model
	// (spec.md §7 kind 2).
	ErrUnsupportedKernel = errors.New("graph: no kernel for requested operand types")

	// ErrNotAConstant indicates an operation required a constant-valued
	// Fact but the outlet's value was not known.
	ErrNotAConstant = errors.New("graph: outlet does not carry a constant value")

	// ErrMissingInput indicates Evaluate was not given a tensor for one of
	// the model's declared input outlets.
	ErrMissingInput = errors.New("graph: missing tensor for declared input")

	// ErrPulsificationRefused indicates an operator fatally refuses
	// pulsification (e.g. MatMulUnary when the time axis falls on k) —
	// spec.md §4.5.
	ErrPulsificationRefused = errors.New("graph: operator refuses pulsification")

	// ErrFactNotTyped indicates a driver needed a fully-typed Fact (a
	// TypedFact) at an outlet but found one still in InferenceFact form.
	ErrFactNotTyped = errors.New("graph: outlet fact is not yet typed")
)
