package optimize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tengraph/dim"
	"github.com/katalvlaran/tengraph/graph"
	"github.com/katalvlaran/tengraph/graph/ops"
	"github.com/katalvlaran/tengraph/matmul"
	"github.com/katalvlaran/tengraph/optimize"
	"github.com/katalvlaran/tengraph/tensor"
)

func TestPulsifyConstRelu(t *testing.T) {
	m := graph.NewModel()
	c, err := m.AddNode("c", ops.Const{Value: mustTensor(t, dim.NewShape(dim.Const(4), dim.Const(3)), []float64{
		1, -1, 2, -2, 3, -3, 4, -4, 5, -5, 6, -6,
	})}, nil, 1)
	require.NoError(t, err)
	r, err := m.AddNode("r", ops.Relu{}, []graph.Outlet{{Node: c, Slot: 0}}, 1)
	require.NoError(t, err)
	m.SetOutputs(graph.Outlet{Node: r, Slot: 0})

	target, err := optimize.Pulsify(m, 0, 1)
	require.NoError(t, err)
	require.Len(t, target.Outputs(), 1)

	out := target.Node(target.Outputs()[0].Node)
	require.NotNil(t, out)
	_, ok := out.Op.(ops.Relu)
	assert.True(t, ok)

	fact, err := target.Fact(target.Outputs()[0])
	require.NoError(t, err)
	pf, ok := fact.(graph.PulsedFact)
	require.True(t, ok)
	assert.Equal(t, 0, pf.Axis)
	assert.Equal(t, int64(1), pf.Pulse)
}

func TestPulsifyMatMulUnaryRefusesOnKAxis(t *testing.T) {
	m := graph.NewModel()
	a, err := m.AddNode("a", ops.Const{Value: mustTensor(t, dim.NewShape(dim.Const(2), dim.Const(3)), []float64{0, 1, 2, 3, 4, 5})}, nil, 1)
	require.NoError(t, err)
	bTensor := mustTensor(t, dim.NewShape(dim.Const(3), dim.Const(1)), []float64{0, 1, 2})
	b := bTensor

	mu, err := m.AddNode("mm", ops.MatMulUnary{Flags: matmul.Flags{}, B: b}, []graph.Outlet{{Node: a, Slot: 0}}, 1)
	require.NoError(t, err)
	m.SetOutputs(graph.Outlet{Node: mu, Slot: 0})
	require.NoError(t, optimize.InferTypes(m))

	// time axis 1 is A's k axis (shape [2,3], not transposed: axis 1 == k).
	_, err = optimize.Pulsify(m, 1, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, graph.ErrPulsificationRefused)
}
