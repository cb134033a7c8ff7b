package ops

import (
	"fmt"

	"github.com/katalvlaran/tengraph/graph"
	"github.com/katalvlaran/tengraph/solver"
	"github.com/katalvlaran/tengraph/tensor"
)

// Relu is the elementwise max(x, 0) activation.
type Relu struct{}

func (Relu) Name() string { return "Relu" }
func (Relu) Info() string { return "elementwise max(x, 0)" }

func (Relu) Declare(s *solver.Solver, inputs, outputs []*graph.FactVars) error {
	return declareUnaryPassthroughRank(s, inputs, outputs, 0)
}

func (Relu) InferTyped(inputs []graph.TypedFact) ([]graph.TypedFact, error) {
	if len(inputs) != 1 {
		return nil, ErrWrongInputCount
	}

	return []graph.TypedFact{inputs[0]}, nil
}

func (Relu) Eval(_ *graph.OpState, inputs []graph.EvalValue) ([]graph.EvalValue, error) {
	if len(inputs) != 1 {
		return nil, ErrWrongInputCount
	}
	t := inputs[0].Tensor
	data := t.Data()
	out := make([]float64, len(data))
	for i, v := range data {
		if v > 0 {
			out[i] = v
		}
	}
	ts, err := tensor.New(t.DatumType(), t.Shape(), out)
	if err != nil {
		return nil, err
	}

	return []graph.EvalValue{{Tensor: ts, PulseIndex: inputs[0].PulseIndex}}, nil
}

// Invariants reports that Relu is transparent, period 1 and disposable, on
// every axis of its single input/output pair: it never changes shape or
// groups elements (spec.md §4.3).
func (Relu) Invariants(inputs, outputs []graph.TypedFact) []graph.AxisInfo {
	if len(inputs) != 1 {
		return nil
	}
	rank := inputs[0].Shape.Rank()
	infos := make([]graph.AxisInfo, rank)
	for axis := 0; axis < rank; axis++ {
		infos[axis] = graph.AxisInfo{InputIndex: 0, InputAxis: axis, OutputSlot: 0, OutputAxis: axis, Period: 1, Disposable: true}
	}

	return infos
}

// ChangeAxes always propagates: since Relu's output shape is identical to
// its input shape, an axis change arriving on either wire must be mirrored
// on the other (spec.md §4.3).
func (r Relu) ChangeAxes(_ *graph.Model, _ graph.NodeID, io graph.AxisIO, op graph.AxisOp) (graph.AxisResponse, error) {
	other := graph.AxisInput
	if io.Side == graph.AxisInput {
		other = graph.AxisOutput
	}

	return graph.AxisResponse{
		Kind:        graph.AxisPropagate,
		Replacement: r,
		Requests:    []graph.AxisRequest{{IO: graph.AxisIO{Side: other, Index: io.Index, Axis: io.Axis}, Op: op}},
	}, nil
}

// Pulsify re-adds Relu unchanged, wired to its already-pulsified input, and
// carries that input's pulse annotation onto its own output — an
// elementwise operator imposes no constraint on pulse width or delay
// (spec.md §4.5).
func (r Relu) Pulsify(pctx graph.PulseContext, mapping map[graph.Outlet]graph.Outlet, node *graph.Node) ([]graph.Outlet, error) {
	in, ok := mapping[node.Inputs[0]]
	if !ok {
		return nil, fmt.Errorf("%w: input of %q not yet pulsified", graph.ErrOutletNotFound, node.Name)
	}
	pf, err := pulsedInputFact(pctx.Target, in)
	if err != nil {
		return nil, err
	}
	id, err := pctx.Target.AddNode(node.Name, r, []graph.Outlet{in}, 1)
	if err != nil {
		return nil, err
	}
	out := graph.Outlet{Node: id, Slot: 0}
	if err := pctx.Target.SetFact(out, pf); err != nil {
		return nil, err
	}

	return []graph.Outlet{out}, nil
}
