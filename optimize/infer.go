package optimize

import (
	"fmt"

	"github.com/katalvlaran/tengraph/graph"
)

// InferTypes walks m in topological order and, for every node implementing
// graph.ShapeInferrer, calls InferTyped against its already-resolved input
// facts and installs the result via SetFact (spec.md §4.1's typed fast
// path). It returns ErrCapabilityNotSupported if a node lacks ShapeInferrer,
// or an ErrFactNotTyped-wrapped error if an input's fact never resolved to a
// TypedFact.
func InferTypes(m *graph.Model) error {
	for _, id := range m.Order() {
		n := m.Node(id)
		si, ok := n.Op.(graph.ShapeInferrer)
		if !ok {
			return fmt.Errorf("%w: node %q has no ShapeInferrer capability", graph.ErrCapabilityNotSupported, n.Name)
		}

		inputs := make([]graph.TypedFact, len(n.Inputs))
		for i, in := range n.Inputs {
			f, err := m.Fact(in)
			if err != nil {
				return err
			}
			tf, ok := f.(graph.TypedFact)
			if !ok {
				return fmt.Errorf("%w: input %v of node %q is not yet typed", graph.ErrFactNotTyped, in, n.Name)
			}
			inputs[i] = tf
		}

		outputs, err := si.InferTyped(inputs)
		if err != nil {
			return err
		}
		if len(outputs) != len(n.Outputs) {
			return fmt.Errorf("ops: node %q InferTyped returned %d facts, node has %d outputs", n.Name, len(outputs), len(n.Outputs))
		}
		for slot, of := range outputs {
			if err := m.SetFact(graph.Outlet{Node: id, Slot: slot}, of); err != nil {
				return err
			}
		}
	}

	return nil
}
