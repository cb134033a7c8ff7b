package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tengraph/graph"
)

func TestApplyPatchShuntReplacesWithInput(t *testing.T) {
	// a -> mid -> out ; patch replaces `mid`'s output with a direct shunt
	// to `a`'s output, the AddDims(axes=[])/RmDims(axes=[]) pattern from
	// spec.md §4.2.
	m := graph.NewModel()
	a, _ := m.AddNode("a", noopOp{"A"}, nil, 1)
	mid, _ := m.AddNode("mid", noopOp{"Mid"}, []graph.Outlet{{Node: a, Slot: 0}}, 1)
	out, _ := m.AddNode("out", noopOp{"Out"}, []graph.Outlet{{Node: mid, Slot: 0}}, 1)
	m.SetOutputs(graph.Outlet{Node: out, Slot: 0})

	p := graph.NewPatch()
	p.Replace(graph.Outlet{Node: mid, Slot: 0}, graph.ExternalOutlet(graph.Outlet{Node: a, Slot: 0}))
	require.NoError(t, graph.ApplyPatch(m, p))

	outNode := m.Node(out)
	assert.Equal(t, graph.Outlet{Node: a, Slot: 0}, outNode.Inputs[0])
	// `mid` is now unreachable from the declared output and must be GC'd.
	assert.Nil(t, m.Node(mid))
}

func TestApplyPatchInsertsNewNodeAndRewires(t *testing.T) {
	m := graph.NewModel()
	a, _ := m.AddNode("a", noopOp{"A"}, nil, 1)
	old, _ := m.AddNode("old", noopOp{"Old"}, []graph.Outlet{{Node: a, Slot: 0}}, 1)
	m.SetOutputs(graph.Outlet{Node: old, Slot: 0})

	p := graph.NewPatch()
	newIdx := p.AddNode("new", noopOp{"New"}, []graph.PatchOutlet{graph.ExternalOutlet(graph.Outlet{Node: a, Slot: 0})}, 1)
	p.Replace(graph.Outlet{Node: old, Slot: 0}, graph.LocalOutlet(newIdx, 0))
	require.NoError(t, graph.ApplyPatch(m, p))

	assert.Nil(t, m.Node(old))
	outs := m.Outputs()
	require.Len(t, outs, 1)
	newNode := m.Node(outs[0].Node)
	require.NotNil(t, newNode)
	assert.Equal(t, "new", newNode.Name)
	assert.Equal(t, graph.Outlet{Node: a, Slot: 0}, newNode.Inputs[0])
}

func TestApplyPatchRejectsBadOutsideReference(t *testing.T) {
	m := graph.NewModel()
	a, _ := m.AddNode("a", noopOp{"A"}, nil, 1)
	m.SetOutputs(graph.Outlet{Node: a, Slot: 0})

	p := graph.NewPatch()
	p.Replace(graph.Outlet{Node: 999, Slot: 0}, graph.ExternalOutlet(graph.Outlet{Node: a, Slot: 0}))
	err := graph.ApplyPatch(m, p)
	assert.ErrorIs(t, err, graph.ErrOutletNotFound)
	// Model must be left unchanged on validation failure.
	assert.Equal(t, 1, m.NodeCount())
}

func TestApplyPatchRejectsForwardLocalReference(t *testing.T) {
	m := graph.NewModel()
	a, _ := m.AddNode("a", noopOp{"A"}, nil, 1)
	m.SetOutputs(graph.Outlet{Node: a, Slot: 0})

	p := graph.NewPatch()
	_ = p.AddNode("new", noopOp{"New"}, []graph.PatchOutlet{graph.LocalOutlet(5, 0)}, 1)
	err := graph.ApplyPatch(m, p)
	assert.ErrorIs(t, err, graph.ErrForwardReference)
	assert.Equal(t, 1, m.NodeCount())
}
