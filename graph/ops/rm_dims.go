package ops

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/tengraph/dim"
	"github.com/katalvlaran/tengraph/graph"
	"github.com/katalvlaran/tengraph/solver"
	"github.com/katalvlaran/tengraph/tensor"
)

// RmDims removes each axis in Axes, which must each carry a (decidably)
// length-1 dim (spec.md §4, supplemented from tract's rm_dims.rs). Axes are
// applied in descending order so earlier removals don't shift the index of
// a later one.
type RmDims struct {
	Axes []int
}

func (RmDims) Name() string { return "RmDims" }
func (r RmDims) Info() string {
	return fmt.Sprintf("removes length-1 axes at %v", r.Axes)
}

func (r RmDims) Declare(s *solver.Solver, inputs, outputs []*graph.FactVars) error {
	return declareUnaryPassthroughRank(s, inputs, outputs, -len(r.Axes))
}

func (r RmDims) InferTyped(inputs []graph.TypedFact) ([]graph.TypedFact, error) {
	if len(inputs) != 1 {
		return nil, ErrWrongInputCount
	}
	shape, err := removeDims(inputs[0].Shape, r.Axes)
	if err != nil {
		return nil, err
	}

	return []graph.TypedFact{{Type: inputs[0].Type, Shape: shape}}, nil
}

func (r RmDims) Eval(_ *graph.OpState, inputs []graph.EvalValue) ([]graph.EvalValue, error) {
	if len(inputs) != 1 {
		return nil, ErrWrongInputCount
	}
	t := inputs[0].Tensor
	shape, err := removeDims(t.Shape(), r.Axes)
	if err != nil {
		return nil, err
	}
	out, err := tensor.New(t.DatumType(), shape, t.Data())
	if err != nil {
		return nil, err
	}

	return []graph.EvalValue{{Tensor: out, PulseIndex: inputs[0].PulseIndex}}, nil
}

// Invariants reports that every input axis not in Axes is a transparent,
// period-1, disposable passthrough to the corresponding output axis —
// symmetric to AddDims.Invariants (spec.md §4.3).
func (r RmDims) Invariants(inputs, _ []graph.TypedFact) []graph.AxisInfo {
	if len(inputs) != 1 {
		return nil
	}
	removed := axisSet(r.Axes)
	var infos []graph.AxisInfo
	outAxis := 0
	for inAxis := 0; inAxis < inputs[0].Shape.Rank(); inAxis++ {
		if removed[inAxis] {
			continue
		}
		infos = append(infos, graph.AxisInfo{
			InputIndex: 0, InputAxis: inAxis,
			OutputSlot: 0, OutputAxis: outAxis,
			Period: 1, Disposable: true,
		})
		outAxis++
	}

	return infos
}

// ChangeAxes implements spec.md §4.3's RmDims worked example, symmetric to
// AddDims: a Rm arriving at an input axis already in Axes is absorbed (that
// axis is already being dropped); a Rm at a passthrough input axis is
// propagated to the matching output axis.
func (r RmDims) ChangeAxes(_ *graph.Model, _ graph.NodeID, io graph.AxisIO, op graph.AxisOp) (graph.AxisResponse, error) {
	if io.Side != graph.AxisInput || io.Index != 0 || op.Kind != graph.AxisOpRm {
		return graph.AxisResponse{Kind: graph.AxisRefuse}, nil
	}
	axis := op.Axis
	if axisSet(r.Axes)[axis] {
		return graph.AxisResponse{
			Kind:        graph.AxisAbsorb,
			Replacement: RmDims{Axes: dropAndShiftAxes(r.Axes, axis)},
		}, nil
	}

	outputAxis := axis - axesLessThan(r.Axes, axis)

	return graph.AxisResponse{
		Kind:        graph.AxisPropagate,
		Replacement: RmDims{Axes: shiftAxesAbove(r.Axes, axis)},
		Requests: []graph.AxisRequest{{
			IO: graph.AxisIO{Side: graph.AxisOutput, Index: 0, Axis: outputAxis},
			Op: graph.Rm(outputAxis),
		}},
	}, nil
}

// Declutter removes a no-op RmDims (Axes empty) by rewiring its consumers
// straight to its input, symmetric to AddDims.Declutter (spec.md §4.2).
func (r RmDims) Declutter(m *graph.Model, id graph.NodeID) (*graph.Patch, error) {
	if len(r.Axes) != 0 {
		return nil, nil
	}
	node := m.Node(id)

	p := graph.NewPatch()
	p.Replace(graph.Outlet{Node: id, Slot: 0}, graph.ExternalOutlet(node.Inputs[0]))

	return p, nil
}

func removeDims(shape dim.Shape, axes []int) (dim.Shape, error) {
	desc := make([]int, len(axes))
	copy(desc, axes)
	sort.Sort(sort.Reverse(sort.IntSlice(desc)))

	for _, axis := range desc {
		if axis < 0 || axis >= shape.Rank() {
			return dim.Shape{}, fmt.Errorf("%w: %d", ErrAxisOutOfRange, axis)
		}
		if !shape.Dim(axis).IsOne() {
			return dim.Shape{}, fmt.Errorf("%w: axis %d", ErrRmDimsNotOne, axis)
		}
		shape = dim.RemoveAt(shape, axis)
	}

	return shape, nil
}
