package graph

import (
	"fmt"

	"github.com/katalvlaran/tengraph/internal/xerrors"
	"github.com/katalvlaran/tengraph/tensor"
)

// Evaluate runs m in topological order, given a mapping from its declared
// input outlets to concrete tensors, and returns a mapping from its
// declared output outlets to the tensors computed for them (spec.md §6).
// Every node's operator must implement Evaluator; a node whose operator
// lacks that capability produces ErrCapabilityNotSupported, wrapped with
// operator name and node id. Stateful operators share one OpState for the
// whole call, populated on first use.
func Evaluate(m *Model, inputs map[Outlet]*tensor.Tensor) (map[Outlet]*tensor.Tensor, error) {
	for _, in := range m.Inputs() {
		if _, ok := inputs[in]; !ok {
			return nil, fmt.Errorf("%w: %v", ErrMissingInput, in)
		}
	}

	state := NewOpState()
	values := make(map[Outlet]EvalValue, len(m.order))
	for o, t := range inputs {
		values[o] = EvalValue{Tensor: t}
	}

	for _, id := range m.order {
		n := m.nodes[id]
		// Already supplied as a declared input: skip computing it again.
		if _, supplied := values[Outlet{Node: id, Slot: 0}]; supplied && len(n.Inputs) == 0 && isDeclaredInput(m, id) {
			continue
		}

		ev, ok := n.Op.(Evaluator)
		if !ok {
			return nil, xerrors.WrapNode(n.Op.Name(), nodeIDString(id), ErrCapabilityNotSupported)
		}

		in := make([]EvalValue, len(n.Inputs))
		for i, o := range n.Inputs {
			v, ok := values[o]
			if !ok {
				return nil, xerrors.WrapNode(n.Op.Name(), nodeIDString(id), fmt.Errorf("%w: outlet %v not yet computed", ErrOutletNotFound, o))
			}
			in[i] = v
		}

		out, err := ev.Eval(state, in)
		if err != nil {
			return nil, xerrors.WrapNode(n.Op.Name(), nodeIDString(id), err)
		}
		if len(out) != len(n.Outputs) {
			return nil, xerrors.WrapNode(n.Op.Name(), nodeIDString(id), fmt.Errorf("eval returned %d outputs, node declares %d", len(out), len(n.Outputs)))
		}
		for slot, v := range out {
			values[Outlet{Node: id, Slot: slot}] = v
		}
	}

	result := make(map[Outlet]*tensor.Tensor, len(m.outputs))
	for _, o := range m.outputs {
		v, ok := values[o]
		if !ok {
			return nil, fmt.Errorf("%w: declared output %v never computed", ErrOutletNotFound, o)
		}
		result[o] = v.Tensor
	}

	return result, nil
}

func isDeclaredInput(m *Model, id NodeID) bool {
	for _, in := range m.inputs {
		if in.Node == id {
			return true
		}
	}

	return false
}

func nodeIDString(id NodeID) string {
	return fmt.Sprintf("#%d", id)
}
