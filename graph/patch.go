package graph

import "fmt"

// PatchOutlet names one outlet a patch's new node can read from: either an
// existing outlet of the model the patch targets ("outside"), or the
// output of another node already added to this same patch ("local"),
// addressed by its position in Patch.Nodes.
type PatchOutlet struct {
	external bool
	outside  Outlet
	local    int
	slot     int
}

// ExternalOutlet references an outlet that already exists in the model the
// patch will be applied to.
func ExternalOutlet(o Outlet) PatchOutlet {
	return PatchOutlet{external: true, outside: o}
}

// LocalOutlet references output slot of the patch-local node at index
// nodeIdx (its position in the order AddNode was called on this Patch).
// nodeIdx must refer to a node already added to the patch.
func LocalOutlet(nodeIdx, slot int) PatchOutlet {
	return PatchOutlet{local: nodeIdx, slot: slot}
}

// patchNode is one staged node awaiting insertion.
type patchNode struct {
	name    string
	op      Operator
	inputs  []PatchOutlet
	nOutput int
}

// Substitution is one (outside_outlet → inside_outlet) rewiring: every
// existing consumer of Outside is redirected to Inside once the patch
// applies (spec.md §3).
type Substitution struct {
	Outside Outlet
	Inside  PatchOutlet
}

// Patch is a staged, atomic edit over a Model: a small sub-model (the
// nodes added via AddNode) plus a list of outside→inside substitutions
// (spec.md §3). Applying a patch rewires the model and garbage-collects
// any node left unreachable from the model's declared outputs.
type Patch struct {
	nodes []patchNode
	subs  []Substitution
}

// NewPatch returns an empty Patch.
func NewPatch() *Patch {
	return &Patch{}
}

// AddNode stages a new node with nOutputs output slots, wired to inputs
// (each either ExternalOutlet or a LocalOutlet referencing an
// earlier-staged node in this same patch). Returns the node's index for use
// in later LocalOutlet references.
func (p *Patch) AddNode(name string, op Operator, inputs []PatchOutlet, nOutputs int) int {
	p.nodes = append(p.nodes, patchNode{name: name, op: op, inputs: append([]PatchOutlet(nil), inputs...), nOutput: nOutputs})

	return len(p.nodes) - 1
}

// Replace stages a substitution: once applied, every existing consumer of
// outside is rewired to read from inside instead.
func (p *Patch) Replace(outside Outlet, inside PatchOutlet) {
	p.subs = append(p.subs, Substitution{Outside: outside, Inside: inside})
}

// ApplyPatch atomically rewires m according to p: new nodes are inserted,
// every substitution's consumers are rewired, the node order is re-sorted
// topologically, and nodes left unreachable from m's declared outputs are
// dropped. Node ids already in m are never
// renumbered; new nodes receive fresh, strictly increasing ids (spec.md §5).
// If validation fails, m is left completely unchanged.
func ApplyPatch(m *Model, p *Patch) error {
	// Phase 1: validate everything before mutating anything.
	for i, pn := range p.nodes {
		for _, in := range pn.inputs {
			if in.external {
				if _, ok := m.nodes[in.outside.Node]; !ok {
					return fmt.Errorf("%w: patch node %q references %v", ErrOutletNotFound, pn.name, in.outside)
				}

				continue
			}
			if in.local < 0 || in.local >= i {
				return fmt.Errorf("%w: patch node %q references non-earlier local node %d", ErrForwardReference, pn.name, in.local)
			}
		}
	}
	for _, sub := range p.subs {
		if _, ok := m.nodes[sub.Outside.Node]; !ok {
			return fmt.Errorf("%w: substitution outside %v", ErrOutletNotFound, sub.Outside)
		}
		if sub.Inside.external {
			if _, ok := m.nodes[sub.Inside.outside.Node]; !ok {
				return fmt.Errorf("%w: substitution inside %v", ErrOutletNotFound, sub.Inside.outside)
			}
		} else if sub.Inside.local < 0 || sub.Inside.local >= len(p.nodes) {
			return fmt.Errorf("%w: substitution references local node %d", ErrForwardReference, sub.Inside.local)
		}
	}

	// Phase 2: insert new nodes, building a local→global id map.
	idMap := make([]NodeID, len(p.nodes))
	resolve := func(po PatchOutlet) Outlet {
		if po.external {
			return po.outside
		}

		return Outlet{Node: idMap[po.local], Slot: po.slot}
	}
	for i, pn := range p.nodes {
		resolvedInputs := make([]Outlet, len(pn.inputs))
		for j, in := range pn.inputs {
			resolvedInputs[j] = resolve(in)
		}
		// Validation above guarantees this cannot fail.
		id, _ := m.AddNode(pn.name, pn.op, resolvedInputs, pn.nOutput)
		idMap[i] = id
	}

	// Phase 3: rewire every existing consumer of each substitution's
	// outside outlet to the resolved inside outlet.
	for _, sub := range p.subs {
		newOutlet := resolve(sub.Inside)
		for _, n := range m.nodes {
			for i, in := range n.Inputs {
				if in == sub.Outside {
					n.Inputs[i] = newOutlet
				}
			}
		}
		for i, o := range m.outputs {
			if o == sub.Outside {
				m.outputs[i] = newOutlet
			}
		}
	}

	// Phase 4: a rewired consumer may now read from a node appended after
	// it, so re-sort the order: every node follows all of its producers.
	placed := make(map[NodeID]bool, len(m.order))
	sorted := make([]NodeID, 0, len(m.order))
	var place func(id NodeID)
	place = func(id NodeID) {
		if !placed[id] {
			placed[id] = true
			for _, in := range m.nodes[id].Inputs {
				place(in.Node)
			}
			sorted = append(sorted, id)
		}
	}
	for _, id := range m.order {
		place(id)
	}
	m.order = sorted

	// Phase 5: garbage-collect nodes unreachable from the declared outputs.
	gc(m)

	return nil
}

// gc drops every node not reachable, by following Inputs backward, from
// m's declared outputs. If no outputs are declared yet (a model still under
// construction), nothing is collected.
func gc(m *Model) {
	if len(m.outputs) == 0 {
		return
	}
	reachable := make(map[NodeID]bool)
	var visit func(id NodeID)
	visit = func(id NodeID) {
		if reachable[id] {
			return
		}
		reachable[id] = true
		n, ok := m.nodes[id]
		if !ok {
			return
		}
		for _, in := range n.Inputs {
			visit(in.Node)
		}
	}
	for _, o := range m.outputs {
		visit(o.Node)
	}

	newOrder := make([]NodeID, 0, len(reachable))
	for _, id := range m.order {
		if reachable[id] {
			newOrder = append(newOrder, id)
		} else {
			delete(m.nodes, id)
		}
	}
	m.order = newOrder
}
