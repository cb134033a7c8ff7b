package optimize_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tengraph/dim"
	"github.com/katalvlaran/tengraph/graph"
	"github.com/katalvlaran/tengraph/graph/ops"
	"github.com/katalvlaran/tengraph/optimize"
)

// nodeSnapshot captures the structural, tensor-free part of a Node so two
// model states can be diffed with cmp without tripping over *tensor.Tensor's
// unexported fields.
type nodeSnapshot struct {
	ID     graph.NodeID
	Name   string
	OpName string
	Inputs []graph.Outlet
}

func snapshotModel(m *graph.Model) []nodeSnapshot {
	var out []nodeSnapshot
	for _, id := range m.Order() {
		n := m.Node(id)
		out = append(out, nodeSnapshot{ID: n.ID, Name: n.Name, OpName: n.Op.Name(), Inputs: n.Inputs})
	}

	return out
}

func TestPropagateAxisChangeAbsorbsThroughRmDims(t *testing.T) {
	m := graph.NewModel()
	src, err := m.AddNode("src", ops.Const{}, nil, 1)
	require.NoError(t, err)
	rm, err := m.AddNode("rm", ops.RmDims{Axes: []int{1}}, []graph.Outlet{{Node: src, Slot: 0}}, 1)
	require.NoError(t, err)
	m.SetOutputs(graph.Outlet{Node: rm, Slot: 0})

	err = optimize.PropagateAxisChange(m, graph.Outlet{Node: src, Slot: 0}, graph.Rm(1))
	require.NoError(t, err)

	final := m.Node(m.Outputs()[0].Node)
	require.NotNil(t, final)
	op, ok := final.Op.(ops.RmDims)
	require.True(t, ok)
	assert.Empty(t, op.Axes)
}

func TestPropagateAxisChangePropagatesAcrossTwoHops(t *testing.T) {
	// src: [4,1,5]; rm drops axis 1, passthrough axes 0 and 2 map to output
	// axes 0 and 1; relu is transparent. A Rm arriving at src's axis 2
	// must cross both rm and relu without error.
	m := graph.NewModel()
	src, err := m.AddNode("src", ops.Const{}, nil, 1)
	require.NoError(t, err)
	rm, err := m.AddNode("rm", ops.RmDims{Axes: []int{1}}, []graph.Outlet{{Node: src, Slot: 0}}, 1)
	require.NoError(t, err)
	relu, err := m.AddNode("relu", ops.Relu{}, []graph.Outlet{{Node: rm, Slot: 0}}, 1)
	require.NoError(t, err)
	m.SetOutputs(graph.Outlet{Node: relu, Slot: 0})

	err = optimize.PropagateAxisChange(m, graph.Outlet{Node: src, Slot: 0}, graph.Rm(2))
	require.NoError(t, err)

	reluOutlet := m.Outputs()[0]
	_, ok := m.Node(reluOutlet.Node).Op.(ops.Relu)
	require.True(t, ok)
	rmNode := m.Node(reluOutlet.Node).Inputs[0].Node
	rmOp, ok := m.Node(rmNode).Op.(ops.RmDims)
	require.True(t, ok)
	assert.Equal(t, []int{1}, rmOp.Axes)
}

func TestPropagateAxisChangeRefuseLeavesModelUntouched(t *testing.T) {
	// AddDims only answers a change arriving at its own output; a change
	// arriving at its input (as PropagateAxisChange always starts) must be
	// refused outright, leaving every node exactly as it was.
	m := graph.NewModel()
	src, err := m.AddNode("src", ops.Const{}, nil, 1)
	require.NoError(t, err)
	ad, err := m.AddNode("ad", ops.AddDims{Axes: []int{0, 2}}, []graph.Outlet{{Node: src, Slot: 0}}, 1)
	require.NoError(t, err)
	m.SetOutputs(graph.Outlet{Node: ad, Slot: 0})
	before := snapshotModel(m)

	err = optimize.PropagateAxisChange(m, graph.Outlet{Node: src, Slot: 0}, graph.Rm(0))
	require.NoError(t, err)

	after := snapshotModel(m)
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("model changed after a refused axis change (-before +after):\n%s", diff)
	}
}

func TestDeclutterIsIdempotent(t *testing.T) {
	m := graph.NewModel()
	src, err := m.AddNode("src", ops.Const{Value: mustTensor(t, dim.NewShape(dim.Const(4), dim.Const(5)), make([]float64, 20))}, nil, 1)
	require.NoError(t, err)
	noop, err := m.AddNode("noop", ops.AddDims{Axes: nil}, []graph.Outlet{{Node: src, Slot: 0}}, 1)
	require.NoError(t, err)
	m.SetOutputs(graph.Outlet{Node: noop, Slot: 0})

	applied, err := optimize.Declutter(m, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
	firstPass := snapshotModel(m)

	applied, err = optimize.Declutter(m, 4)
	require.NoError(t, err)
	assert.Equal(t, 0, applied)
	secondPass := snapshotModel(m)

	if diff := cmp.Diff(firstPass, secondPass); diff != "" {
		t.Errorf("declutter was not idempotent (-first +second):\n%s", diff)
	}
}
