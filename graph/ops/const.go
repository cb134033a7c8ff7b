package ops

import (
	"github.com/katalvlaran/tengraph/graph"
	"github.com/katalvlaran/tengraph/solver"
	"github.com/katalvlaran/tengraph/tensor"
)

// Const is a zero-input operator producing a fixed, known tensor. It is the
// graph's way of injecting model weights and other compile-time constants
// (spec.md §3, "a node may be ... constant").
type Const struct {
	Value *tensor.Tensor
}

func (Const) Name() string { return "Const" }
func (Const) Info() string { return "produces a fixed constant tensor" }

func (c Const) Declare(s *solver.Solver, inputs, outputs []*graph.FactVars) error {
	if len(inputs) != 0 || len(outputs) != 1 {
		return ErrWrongInputCount
	}
	if err := outputs[0].Type.Bind(c.Value.DatumType()); err != nil {
		return err
	}

	return outputs[0].Rank.Bind(c.Value.Shape().Rank())
}

func (c Const) InferTyped(inputs []graph.TypedFact) ([]graph.TypedFact, error) {
	if len(inputs) != 0 {
		return nil, ErrWrongInputCount
	}

	return []graph.TypedFact{{Type: c.Value.DatumType(), Shape: c.Value.Shape(), Value: c.Value}}, nil
}

func (c Const) Eval(_ *graph.OpState, inputs []graph.EvalValue) ([]graph.EvalValue, error) {
	if len(inputs) != 0 {
		return nil, ErrWrongInputCount
	}

	return []graph.EvalValue{{Tensor: c.Value}}, nil
}

// Pulsify re-adds the constant unchanged in the target streaming graph: a
// Const has no time-varying inputs, so the same value feeds every pulse
// (spec.md §4.5).
func (c Const) Pulsify(pctx graph.PulseContext, _ map[graph.Outlet]graph.Outlet, node *graph.Node) ([]graph.Outlet, error) {
	id, err := pctx.Target.AddNode(node.Name, c, nil, 1)
	if err != nil {
		return nil, err
	}
	out := graph.Outlet{Node: id, Slot: 0}
	pf := graph.PulsedFact{
		TypedFact: graph.TypedFact{Type: c.Value.DatumType(), Shape: c.Value.Shape(), Value: c.Value},
		Axis:      pctx.TimeAxis,
		Pulse:     pctx.PulseWidth,
	}
	if err := pctx.Target.SetFact(out, pf); err != nil {
		return nil, err
	}

	return []graph.Outlet{out}, nil
}
