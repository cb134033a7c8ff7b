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

func TestDeclutterRemovesNoOpAddDims(t *testing.T) {
	m := graph.NewModel()
	src, err := m.AddNode("src", ops.Const{Value: mustTensor(t, dim.NewShape(dim.Const(2)), []float64{1, 2})}, nil, 1)
	require.NoError(t, err)
	noop, err := m.AddNode("noop", ops.AddDims{Axes: nil}, []graph.Outlet{{Node: src, Slot: 0}}, 1)
	require.NoError(t, err)
	m.SetOutputs(graph.Outlet{Node: noop, Slot: 0})

	applied, err := optimize.Declutter(m, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
	assert.Equal(t, graph.Outlet{Node: src, Slot: 0}, m.Outputs()[0])
}

func TestCodegenLowersMatMulToUnary(t *testing.T) {
	m := graph.NewModel()
	a, err := m.AddNode("a", ops.Const{Value: mustTensor(t, dim.NewShape(dim.Const(2), dim.Const(3)), []float64{0, 1, 2, 3, 4, 5})}, nil, 1)
	require.NoError(t, err)
	bTensor := mustTensor(t, dim.NewShape(dim.Const(3), dim.Const(1)), []float64{0, 1, 2})
	b, err := m.AddNode("b", ops.Const{Value: bTensor}, nil, 1)
	require.NoError(t, err)
	require.NoError(t, m.SetFact(graph.Outlet{Node: b, Slot: 0}, graph.TypedFact{Type: tensor.F64, Shape: bTensor.Shape(), Value: bTensor}))
	mm, err := m.AddNode("mm", ops.MatMul{Flags: matmul.Flags{}}, []graph.Outlet{{Node: a, Slot: 0}, {Node: b, Slot: 0}}, 1)
	require.NoError(t, err)
	m.SetOutputs(graph.Outlet{Node: mm, Slot: 0})

	applied, err := optimize.Codegen(m)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	outNode := m.Node(m.Outputs()[0].Node)
	require.NotNil(t, outNode)
	_, ok := outNode.Op.(ops.MatMulUnary)
	assert.True(t, ok)
}

func TestDeclutterSplitsMatMulUnaryOverConcatK(t *testing.T) {
	m := graph.NewModel()
	a1T := mustTensor(t, dim.NewShape(dim.Const(2), dim.Const(2)), []float64{0, 1, 2, 3})
	a2T := mustTensor(t, dim.NewShape(dim.Const(2), dim.Const(3)), []float64{4, 5, 6, 7, 8, 9})
	a1, err := m.AddNode("a1", ops.Const{Value: a1T}, nil, 1)
	require.NoError(t, err)
	a2, err := m.AddNode("a2", ops.Const{Value: a2T}, nil, 1)
	require.NoError(t, err)
	require.NoError(t, m.SetFact(graph.Outlet{Node: a1, Slot: 0}, graph.TypedFact{Type: tensor.F64, Shape: a1T.Shape(), Value: a1T}))
	require.NoError(t, m.SetFact(graph.Outlet{Node: a2, Slot: 0}, graph.TypedFact{Type: tensor.F64, Shape: a2T.Shape(), Value: a2T}))

	concat, err := m.AddNode("concat", ops.Concat{Axis: 1}, []graph.Outlet{{Node: a1, Slot: 0}, {Node: a2, Slot: 0}}, 1)
	require.NoError(t, err)
	concatShape := dim.NewShape(dim.Const(2), dim.Const(5))
	require.NoError(t, m.SetFact(graph.Outlet{Node: concat, Slot: 0}, graph.TypedFact{Type: tensor.F64, Shape: concatShape}))

	bTensor := mustTensor(t, dim.NewShape(dim.Const(5), dim.Const(1)), []float64{1, 0, 1, 0, 1})
	packed, err := matmul.PackConstant(bTensor)
	require.NoError(t, err)
	mmID, err := m.AddNode("mm", ops.MatMulUnary{B: bTensor, Packed: packed}, []graph.Outlet{{Node: concat, Slot: 0}}, 1)
	require.NoError(t, err)
	m.SetOutputs(graph.Outlet{Node: mmID, Slot: 0})

	applied, err := optimize.Declutter(m, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	out := m.Node(m.Outputs()[0].Node)
	require.NotNil(t, out)
	_, isAdd := out.Op.(ops.Add)
	assert.True(t, isAdd)

	result, err := graph.Evaluate(m, nil)
	require.NoError(t, err)
	// A = concat([[0,1],[2,3]], [[4,5,6],[7,8,9]], axis=1)
	//   = [[0,1,4,5,6],[2,3,7,8,9]]; B = [1,0,1,0,1]^T
	// C = [0*1+1*0+4*1+5*0+6*1, 2*1+3*0+7*1+8*0+9*1] = [10, 18]
	assert.Equal(t, []float64{10, 18}, result[m.Outputs()[0]].Data())
}

func mustTensor(t *testing.T, shape dim.Shape, data []float64) *tensor.Tensor {
	t.Helper()
	ts, err := tensor.New(tensor.F64, shape, data)
	require.NoError(t, err)

	return ts
}
