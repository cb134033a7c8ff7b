package graph

import "fmt"

// Model is (an ordered node list, declared input outlets, declared output
// outlets) (spec.md §3). AddNode only accepts inputs from nodes that
// already exist, so insertion order is a valid topological order; ApplyPatch
// re-sorts the order after rewiring, since a rewired consumer may then read
// from a node added after it.
type Model struct {
	nodes   map[NodeID]*Node
	order   []NodeID // ids in topological order; entries are removed by GC and re-sorted by ApplyPatch
	nextID  NodeID
	inputs  []Outlet
	outputs []Outlet
}

// NewModel returns an empty Model.
func NewModel() *Model {
	return &Model{nodes: make(map[NodeID]*Node)}
}

// AddNode appends a new node wired to inputs, with nOutputs output slots
// (each initially an unset InferenceFact), and returns its fresh id. Every
// entry of inputs must name an already-existing node, enforcing the
// acyclicity invariant at construction time.
func (m *Model) AddNode(name string, op Operator, inputs []Outlet, nOutputs int) (NodeID, error) {
	for _, in := range inputs {
		if _, ok := m.nodes[in.Node]; !ok {
			return 0, fmt.Errorf("%w: node %q references outlet %v", ErrForwardReference, name, in)
		}
	}
	id := m.nextID
	m.nextID++
	outs := make([]Fact, nOutputs)
	for i := range outs {
		outs[i] = InferenceFact{}
	}
	cpIn := make([]Outlet, len(inputs))
	copy(cpIn, inputs)
	m.nodes[id] = &Node{ID: id, Name: name, Op: op, Inputs: cpIn, Outputs: outs}
	m.order = append(m.order, id)

	return id, nil
}

// Node returns the node with the given id, or nil if it does not exist
// (e.g. it was garbage-collected by a Patch).
func (m *Model) Node(id NodeID) *Node {
	return m.nodes[id]
}

// NextNodeID returns the id AddNode will assign the next node added to m,
// without reserving it — used by callers (e.g. the axis-change driver) that
// need to identify a node a Patch is about to create before applying it.
func (m *Model) NextNodeID() NodeID {
	return m.nextID
}

// Order returns node ids in topological order (insertion order until a
// Patch re-sorts it). The returned slice is a defensive copy.
func (m *Model) Order() []NodeID {
	out := make([]NodeID, len(m.order))
	copy(out, m.order)

	return out
}

// Fact returns the Fact at outlet o.
func (m *Model) Fact(o Outlet) (Fact, error) {
	n, ok := m.nodes[o.Node]
	if !ok || o.Slot < 0 || o.Slot >= len(n.Outputs) {
		return nil, fmt.Errorf("%w: %v", ErrOutletNotFound, o)
	}

	return n.Outputs[o.Slot], nil
}

// SetFact overwrites the Fact at outlet o — used by the shape-inference and
// pulsification drivers to install freshly-computed facts.
func (m *Model) SetFact(o Outlet, f Fact) error {
	n, ok := m.nodes[o.Node]
	if !ok || o.Slot < 0 || o.Slot >= len(n.Outputs) {
		return fmt.Errorf("%w: %v", ErrOutletNotFound, o)
	}
	n.Outputs[o.Slot] = f

	return nil
}

// SetInputs declares which outlets are the model's external inputs.
func (m *Model) SetInputs(outs ...Outlet) { m.inputs = append([]Outlet(nil), outs...) }

// SetOutputs declares which outlets are the model's external outputs.
func (m *Model) SetOutputs(outs ...Outlet) { m.outputs = append([]Outlet(nil), outs...) }

// Inputs returns the declared input outlets.
func (m *Model) Inputs() []Outlet { return append([]Outlet(nil), m.inputs...) }

// Outputs returns the declared output outlets.
func (m *Model) Outputs() []Outlet { return append([]Outlet(nil), m.outputs...) }

// Consumers returns the ids, in topological order, of every node that
// references outlet o as one of its inputs.
func (m *Model) Consumers(o Outlet) []NodeID {
	var out []NodeID
	for _, id := range m.order {
		n := m.nodes[id]
		for _, in := range n.Inputs {
			if in == o {
				out = append(out, id)

				break
			}
		}
	}

	return out
}

// NodeCount returns the number of live (non-garbage-collected) nodes.
func (m *Model) NodeCount() int { return len(m.order) }
