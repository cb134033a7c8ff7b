package ops

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/tengraph/dim"
	"github.com/katalvlaran/tengraph/graph"
	"github.com/katalvlaran/tengraph/solver"
	"github.com/katalvlaran/tengraph/tensor"
)

// AddDims inserts a length-1 axis at each position in Axes, applied in
// ascending order against the shape as it grows (spec.md §4, supplemented
// from tract's add_dims.rs): AddDims{Axes: [0,2]} on shape [4,5] yields
// [1,4,1,5].
type AddDims struct {
	Axes []int
}

func (AddDims) Name() string { return "AddDims" }
func (a AddDims) Info() string {
	return fmt.Sprintf("inserts length-1 axes at %v", a.Axes)
}

func (a AddDims) Declare(s *solver.Solver, inputs, outputs []*graph.FactVars) error {
	return declareUnaryPassthroughRank(s, inputs, outputs, len(a.Axes))
}

func (a AddDims) InferTyped(inputs []graph.TypedFact) ([]graph.TypedFact, error) {
	if len(inputs) != 1 {
		return nil, ErrWrongInputCount
	}
	axes := sortedAxes(a.Axes)
	shape := inputs[0].Shape
	for _, axis := range axes {
		if axis < 0 || axis > shape.Rank() {
			return nil, fmt.Errorf("%w: %d", ErrAxisOutOfRange, axis)
		}
		shape = dim.InsertAt(shape, axis, dim.Const(1))
	}

	return []graph.TypedFact{{Type: inputs[0].Type, Shape: shape}}, nil
}

func (a AddDims) Eval(_ *graph.OpState, inputs []graph.EvalValue) ([]graph.EvalValue, error) {
	if len(inputs) != 1 {
		return nil, ErrWrongInputCount
	}
	t := inputs[0].Tensor
	shape := t.Shape()
	axes := sortedAxes(a.Axes)
	for _, axis := range axes {
		if axis < 0 || axis > shape.Rank() {
			return nil, fmt.Errorf("%w: %d", ErrAxisOutOfRange, axis)
		}
		shape = dim.InsertAt(shape, axis, dim.Const(1))
	}
	out, err := tensor.New(t.DatumType(), shape, t.Data())
	if err != nil {
		return nil, err
	}

	return []graph.EvalValue{{Tensor: out, PulseIndex: inputs[0].PulseIndex}}, nil
}

// Declutter removes a no-op AddDims (Axes empty) by rewiring its consumers
// straight to its input (spec.md §4.2).
func (a AddDims) Declutter(m *graph.Model, id graph.NodeID) (*graph.Patch, error) {
	if len(a.Axes) != 0 {
		return nil, nil
	}
	node := m.Node(id)

	p := graph.NewPatch()
	p.Replace(graph.Outlet{Node: id, Slot: 0}, graph.ExternalOutlet(node.Inputs[0]))

	return p, nil
}

// Invariants reports that every output axis not in Axes is a transparent,
// period-1, disposable passthrough of the corresponding input axis
// (spec.md §4.3's AddDims worked example).
func (a AddDims) Invariants(_ []graph.TypedFact, outputs []graph.TypedFact) []graph.AxisInfo {
	if len(outputs) != 1 {
		return nil
	}
	added := axisSet(a.Axes)
	var infos []graph.AxisInfo
	inAxis := 0
	for outAxis := 0; outAxis < outputs[0].Shape.Rank(); outAxis++ {
		if added[outAxis] {
			continue
		}
		infos = append(infos, graph.AxisInfo{
			InputIndex: 0, InputAxis: inAxis,
			OutputSlot: 0, OutputAxis: outAxis,
			Period: 1, Disposable: true,
		})
		inAxis++
	}

	return infos
}

// ChangeAxes implements spec.md §4.3's AddDims worked example: a Rm at an
// output axis that is one of the inserted axes is absorbed (the operator
// just stops inserting it); a Rm at a passthrough output axis is
// propagated to the matching input axis.
func (a AddDims) ChangeAxes(_ *graph.Model, _ graph.NodeID, io graph.AxisIO, op graph.AxisOp) (graph.AxisResponse, error) {
	if io.Side != graph.AxisOutput || io.Index != 0 || op.Kind != graph.AxisOpRm {
		return graph.AxisResponse{Kind: graph.AxisRefuse}, nil
	}
	axis := op.Axis
	if axisSet(a.Axes)[axis] {
		return graph.AxisResponse{
			Kind:        graph.AxisAbsorb,
			Replacement: AddDims{Axes: dropAndShiftAxes(a.Axes, axis)},
		}, nil
	}

	inputAxis := axis - axesLessThan(a.Axes, axis)

	return graph.AxisResponse{
		Kind:        graph.AxisPropagate,
		Replacement: AddDims{Axes: shiftAxesAbove(a.Axes, axis)},
		Requests: []graph.AxisRequest{{
			IO: graph.AxisIO{Side: graph.AxisInput, Index: 0, Axis: inputAxis},
			Op: graph.Rm(inputAxis),
		}},
	}, nil
}

func sortedAxes(axes []int) []int {
	out := make([]int, len(axes))
	copy(out, axes)
	sort.Ints(out)

	return out
}
