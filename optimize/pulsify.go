package optimize

import (
	"fmt"

	"github.com/katalvlaran/tengraph/graph"
)

// Pulsify builds a new streaming Model from source by walking it in
// topological order and asking each node's Pulsifier capability to emit its
// streaming replacement (spec.md §4.5). A node lacking Pulsifier fails the
// whole pass with ErrCapabilityNotSupported, since every node reachable
// from the declared outputs must have an opinion on streaming once
// pulsification is requested.
func Pulsify(source *graph.Model, timeAxis int, pulseWidth int64) (*graph.Model, error) {
	target := graph.NewModel()
	pctx := graph.PulseContext{Source: source, Target: target, TimeAxis: timeAxis, PulseWidth: pulseWidth}
	mapping := make(map[graph.Outlet]graph.Outlet)

	for _, id := range source.Order() {
		n := source.Node(id)
		p, ok := n.Op.(graph.Pulsifier)
		if !ok {
			return nil, fmt.Errorf("%w: node %q has no Pulsifier capability", graph.ErrCapabilityNotSupported, n.Name)
		}
		outs, err := p.Pulsify(pctx, mapping, n)
		if err != nil {
			return nil, err
		}
		if len(outs) != len(n.Outputs) {
			return nil, fmt.Errorf("ops: pulsify returned %d outlets, node has %d outputs", len(outs), len(n.Outputs))
		}
		for slot, out := range outs {
			mapping[graph.Outlet{Node: id, Slot: slot}] = out
		}
	}

	var targetOutputs []graph.Outlet
	for _, o := range source.Outputs() {
		mapped, ok := mapping[o]
		if !ok {
			return nil, fmt.Errorf("%w: output %v never pulsified", graph.ErrOutletNotFound, o)
		}
		targetOutputs = append(targetOutputs, mapped)
	}
	target.SetOutputs(targetOutputs...)

	var targetInputs []graph.Outlet
	for _, o := range source.Inputs() {
		mapped, ok := mapping[o]
		if !ok {
			return nil, fmt.Errorf("%w: input %v never pulsified", graph.ErrOutletNotFound, o)
		}
		targetInputs = append(targetInputs, mapped)
	}
	target.SetInputs(targetInputs...)

	return target, nil
}
