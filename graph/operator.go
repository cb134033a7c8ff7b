package graph

import (
	"github.com/katalvlaran/tengraph/dim"
	"github.com/katalvlaran/tengraph/solver"
	"github.com/katalvlaran/tengraph/tensor"
)

// Operator is the minimal contract every node operator must satisfy: a
// stable name and a one-line description. Everything else — shape
// inference, evaluation, declutter, axis-change, pulsification, codegen,
// cost — is an optional capability, implemented as a separate interface an
// Operator value may additionally satisfy. A driver checks for a capability
// with a type assertion and treats its absence as "not supported", never as
// a compile error (spec.md §9, "Operator polymorphism via capability
// sets").
type Operator interface {
	// Name is the operator's stable registry name, e.g. "MatMul", "AddDims".
	Name() string

	// Info returns a short human-readable description, for diagnostics.
	Info() string
}

// FactVars bundles the solver variables that represent one outlet's
// still-resolving Fact during InferenceFact propagation: its element type,
// rank, and whole shape. Operators needing finer per-dim constraints may
// additionally inspect Shape's bound value once known; the solver operates
// at whole-type/whole-rank/whole-shape granularity, which is sufficient for
// every worked rule in spec.md §4.1 (none requires unifying individual dims
// before the whole shape is known).
type FactVars struct {
	Type  *solver.Var[tensor.DatumType]
	Rank  *solver.Var[int]
	Shape *solver.Var[dim.Shape]
}

// NewFactVars returns a fresh, fully-unknown FactVars.
func NewFactVars() *FactVars {
	return &FactVars{
		Type:  solver.NewVar(equalDatumType),
		Rank:  solver.NewVar(equalInt),
		Shape: solver.NewVar(equalShape),
	}
}

// ShapeInferrer is the capability for operators that participate in shape
// inference. Declare registers this node's constraints against s, relating
// its input and output FactVars (spec.md §4.1's equals/given pattern).
// InferTyped is the fast-path pure function used once inputs are fully
// typed — the common case once an importer's InferenceFact pass has
// completed and the typed graph is being (re)built, e.g. after a Patch.
type ShapeInferrer interface {
	Operator

	Declare(s *solver.Solver, inputs, outputs []*FactVars) error
	InferTyped(inputs []TypedFact) ([]TypedFact, error)
}

// Evaluator is the capability for operators that can compute concrete
// output tensors from concrete input tensors. State is per-evaluation-
// session storage the operator may populate on first use (spec.md §6,
// "Stateful operators allocate per-session state on first use").
type Evaluator interface {
	Operator

	Eval(state *OpState, inputs []EvalValue) ([]EvalValue, error)
}

// Declutterer is the capability for operators contributing algebraic
// simplification rules (spec.md §4.2).
type Declutterer interface {
	Operator

	Declutter(m *Model, id NodeID) (*Patch, error)
}

// AxisResponseKind enumerates an operator's three possible answers to a
// proposed axis change (spec.md §4.3).
type AxisResponseKind int

const (
	// AxisRefuse means the operator does not allow this change to cross it.
	AxisRefuse AxisResponseKind = iota
	// AxisAbsorb means the operator rewrites itself; no neighbouring wire changes.
	AxisAbsorb
	// AxisPropagate means the operator rewrites itself and additionally
	// requests a matching AxisOp on one or more neighbouring wires.
	AxisPropagate
)

// AxisResponse is an operator's answer to ChangeAxes: what it decided, its
// replacement operator (for Absorb/Propagate), and the further AxisOps it
// requests on its own input/output wires (for Propagate).
type AxisResponse struct {
	Kind        AxisResponseKind
	Replacement Operator
	Requests    []AxisRequest
}

// AxisRequest names one neighbouring wire and the AxisOp requested on it, as
// part of a Propagate response.
type AxisRequest struct {
	IO  AxisIO
	Op  AxisOp
}

// AxisChanger is the capability for operators participating in axis-change
// propagation (spec.md §4.3).
type AxisChanger interface {
	Operator

	// Invariants reports this operator's advertised per-axis transparency
	// (spec.md's AxisInfo), given its current input/output facts.
	Invariants(inputs, outputs []TypedFact) []AxisInfo

	// ChangeAxes answers a proposed AxisOp arriving at io on node id of m.
	// Operators whose answer depends only on their own static parameters
	// (e.g. Relu, AddDims, RmDims) may ignore m/id entirely; operators
	// whose answer depends on a neighbour's current shape (e.g.
	// MatMulUnary, which must know its variable operand's current rank to
	// tell a prefix axis from a contraction axis) use m.Fact to look it up.
	ChangeAxes(m *Model, id NodeID, io AxisIO, op AxisOp) (AxisResponse, error)
}

// Pulsifier is the capability for operators that know how to translate
// themselves into a streaming graph (spec.md §4.5).
type Pulsifier interface {
	Operator

	// Pulsify returns this node's new outlets in target, given a mapping
	// from source outlets to already-pulsified target outlets and the
	// chosen pulse width. Returns ErrPulsificationRefused if this operator
	// cannot be pulsified given the chosen time axis (e.g. MatMulUnary when
	// the axis falls on k).
	Pulsify(pctx PulseContext, mpping map[Outlet]Outlet, node *Node) ([]Outlet, error)
}

// Codegenner is the capability for operators that lower themselves into a
// fused/packed form during the codegen pass (spec.md §4.2, §2).
type Codegenner interface {
	Operator

	Codegen(m *Model, id NodeID) (*Patch, error)
}

// CostModeler is the capability for operators that report a cost estimate
// (spec.md §4.4, "Cost model").
type CostModeler interface {
	Operator

	Cost(inputs []TypedFact) (int64, error)
}

func equalInt(a, b int) bool             { return a == b }
func equalDatumType(a, b tensor.DatumType) bool { return a == b }
func equalShape(a, b dim.Shape) bool     { return a.Equal(b) }
