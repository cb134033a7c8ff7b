package optimize

import (
	"fmt"

	"github.com/katalvlaran/tengraph/graph"
)

// pendingChange is one AxisOp still waiting to be resolved against the node
// on the far side of the wire it arrived on.
type pendingChange struct {
	node graph.NodeID
	io   graph.AxisIO
	op   graph.AxisOp
}

// PropagateAxisChange pushes op across the model starting from the
// consumers of startOutlet, via each node's AxisChanger capability
// (spec.md §4.3). A node that refuses stops propagation along that wire
// without error — the caller decides whether that is acceptable for its
// use case. A node lacking the AxisChanger capability is treated the same
// as an explicit refusal. Propagation runs to a worklist fixed point;
// ErrAxisChangeStalled indicates some accepted request never resolved
// within the node budget (a driver bug, e.g. a propagation cycle that
// never reaches a Refuse/Absorb terminal).
func PropagateAxisChange(m *graph.Model, startOutlet graph.Outlet, op graph.AxisOp) error {
	var worklist []pendingChange
	for _, consumerID := range m.Consumers(startOutlet) {
		n := m.Node(consumerID)
		inputIndex := inputIndexOf(n, startOutlet)
		worklist = append(worklist, pendingChange{
			node: consumerID,
			io:   graph.AxisIO{Side: graph.AxisInput, Index: inputIndex, Axis: op.Axis},
			op:   op,
		})
	}

	budget := 10 * (m.NodeCount() + 1)
	for len(worklist) > 0 && budget > 0 {
		budget--
		pc := worklist[0]
		worklist = worklist[1:]

		n := m.Node(pc.node)
		if n == nil {
			continue // collected by an earlier accepted change
		}
		changer, ok := n.Op.(graph.AxisChanger)
		if !ok {
			continue // refuse-by-default
		}
		resp, err := changer.ChangeAxes(m, pc.node, pc.io, pc.op)
		if err != nil {
			return err
		}
		switch resp.Kind {
		case graph.AxisRefuse:
			continue
		case graph.AxisAbsorb:
			if resp.Replacement != nil {
				if _, err := replaceOperator(m, pc.node, resp.Replacement); err != nil {
					return err
				}
			}
		case graph.AxisPropagate:
			reqNode := pc.node
			if resp.Replacement != nil {
				newID, err := replaceOperator(m, pc.node, resp.Replacement)
				if err != nil {
					return err
				}
				reqNode = newID
			}
			for _, req := range resp.Requests {
				worklist = append(worklist, expandRequest(m, reqNode, req)...)
			}
		}
	}
	if len(worklist) > 0 {
		return ErrAxisChangeStalled
	}

	return nil
}

// expandRequest turns an operator's AxisRequest (naming a local IO side/
// index) into pendingChanges for every node on the far side of that wire:
// the node itself (for an output-side request, whose consumers are the far
// side) or the referenced input's producer (for an input-side request).
func expandRequest(m *graph.Model, node graph.NodeID, req graph.AxisRequest) []pendingChange {
	n := m.Node(node)
	if n == nil {
		return nil
	}
	if req.IO.Side == graph.AxisOutput {
		out := graph.Outlet{Node: node, Slot: req.IO.Index}
		var out2 []pendingChange
		for _, consumerID := range m.Consumers(out) {
			cn := m.Node(consumerID)
			out2 = append(out2, pendingChange{
				node: consumerID,
				io:   graph.AxisIO{Side: graph.AxisInput, Index: inputIndexOf(cn, out), Axis: req.Op.Axis},
				op:   req.Op,
			})
		}

		return out2
	}

	if req.IO.Index < 0 || req.IO.Index >= len(n.Inputs) {
		return nil
	}
	producer := n.Inputs[req.IO.Index].Node

	return []pendingChange{{
		node: producer,
		io:   graph.AxisIO{Side: graph.AxisOutput, Index: n.Inputs[req.IO.Index].Slot, Axis: req.Op.Axis},
		op:   req.Op,
	}}
}

func inputIndexOf(n *graph.Node, o graph.Outlet) int {
	for i, in := range n.Inputs {
		if in == o {
			return i
		}
	}

	return -1
}

// replaceOperator swaps node id's operator in place via a single-node Patch
// substitution, preserving its existing wiring, and returns the fresh id
// the replacement node is assigned (the old id may no longer resolve via
// Model.Node once gc runs, so any further work against the replacement must
// use this returned id instead of the one passed in).
func replaceOperator(m *graph.Model, id graph.NodeID, op graph.Operator) (graph.NodeID, error) {
	n := m.Node(id)
	if n == nil {
		return 0, fmt.Errorf("%w: node %d", graph.ErrOutletNotFound, id)
	}
	inputs := make([]graph.PatchOutlet, len(n.Inputs))
	for i, in := range n.Inputs {
		inputs[i] = graph.ExternalOutlet(in)
	}
	newID := m.NextNodeID()

	p := graph.NewPatch()
	p.AddNode(n.Name, op, inputs, len(n.Outputs))
	for slot := range n.Outputs {
		p.Replace(graph.Outlet{Node: id, Slot: slot}, graph.LocalOutlet(0, slot))
	}

	if err := graph.ApplyPatch(m, p); err != nil {
		return 0, err
	}

	return newID, nil
}
