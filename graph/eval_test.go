package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tengraph/dim"
	"github.com/katalvlaran/tengraph/graph"
	"github.com/katalvlaran/tengraph/tensor"
)

// passthroughOp is a trivial Evaluator that returns its single input
// unchanged, used to exercise graph.Evaluate's topological walk.
type passthroughOp struct{}

func (passthroughOp) Name() string { return "Passthrough" }
func (passthroughOp) Info() string { return "returns its input unchanged" }
func (passthroughOp) Eval(_ *graph.OpState, inputs []graph.EvalValue) ([]graph.EvalValue, error) {
	return []graph.EvalValue{inputs[0]}, nil
}

// sourceOp declares zero inputs and is fed directly as a declared input.
type sourceOp struct{}

func (sourceOp) Name() string { return "Source" }
func (sourceOp) Info() string { return "model input placeholder" }

func TestEvaluateSimpleChain(t *testing.T) {
	m := graph.NewModel()
	src, err := m.AddNode("src", sourceOp{}, nil, 1)
	require.NoError(t, err)
	mid, err := m.AddNode("mid", passthroughOp{}, []graph.Outlet{{Node: src, Slot: 0}}, 1)
	require.NoError(t, err)
	m.SetInputs(graph.Outlet{Node: src, Slot: 0})
	m.SetOutputs(graph.Outlet{Node: mid, Slot: 0})

	shape := dim.NewShape(dim.Const(2))
	ts, err := tensor.New(tensor.F32, shape, []float64{1, 2})
	require.NoError(t, err)

	out, err := graph.Evaluate(m, map[graph.Outlet]*tensor.Tensor{
		{Node: src, Slot: 0}: ts,
	})
	require.NoError(t, err)
	assert.Equal(t, ts, out[graph.Outlet{Node: mid, Slot: 0}])
}

func TestEvaluateMissingInput(t *testing.T) {
	m := graph.NewModel()
	src, _ := m.AddNode("src", sourceOp{}, nil, 1)
	m.SetInputs(graph.Outlet{Node: src, Slot: 0})
	m.SetOutputs(graph.Outlet{Node: src, Slot: 0})

	_, err := graph.Evaluate(m, map[graph.Outlet]*tensor.Tensor{})
	assert.ErrorIs(t, err, graph.ErrMissingInput)
}

func TestEvaluateUnsupportedCapability(t *testing.T) {
	m := graph.NewModel()
	src, _ := m.AddNode("src", sourceOp{}, nil, 1)
	bad, _ := m.AddNode("bad", noopOp{"Bad"}, []graph.Outlet{{Node: src, Slot: 0}}, 1)
	m.SetInputs(graph.Outlet{Node: src, Slot: 0})
	m.SetOutputs(graph.Outlet{Node: bad, Slot: 0})

	shape := dim.NewShape(dim.Const(1))
	ts, err := tensor.New(tensor.F32, shape, []float64{1})
	require.NoError(t, err)

	_, err = graph.Evaluate(m, map[graph.Outlet]*tensor.Tensor{{Node: src, Slot: 0}: ts})
	assert.ErrorIs(t, err, graph.ErrCapabilityNotSupported)
}
