package optimize

import (
	"github.com/samber/lo"

	"github.com/katalvlaran/tengraph/graph"
)

// Declutter runs the algebraic-simplification pass to a fixed point: each
// pass asks every node currently implementing graph.Declutterer for a
// rewrite, applies any non-nil Patch it returns, and repeats until a full
// pass produces no patches or maxPasses is reached (spec.md §4.2). It
// returns the total number of patches applied.
func Declutter(m *graph.Model, maxPasses int) (int, error) {
	applied := 0
	for pass := 0; pass < maxPasses; pass++ {
		ids := lo.Filter(m.Order(), func(id graph.NodeID, _ int) bool {
			n := m.Node(id)
			if n == nil {
				return false // collected by an earlier patch this same pass
			}
			_, ok := n.Op.(graph.Declutterer)

			return ok
		})

		changed := false
		for _, id := range ids {
			n := m.Node(id)
			if n == nil {
				continue // collected as a side effect of an earlier patch this pass
			}
			p, err := n.Op.(graph.Declutterer).Declutter(m, id)
			if err != nil {
				return applied, err
			}
			if p == nil {
				continue
			}
			if err := graph.ApplyPatch(m, p); err != nil {
				return applied, err
			}
			applied++
			changed = true
		}
		if !changed {
			break
		}
	}

	return applied, nil
}
