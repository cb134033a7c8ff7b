package optimize

import "github.com/katalvlaran/tengraph/graph"

// Codegen runs the lowering pass once over every node currently
// implementing graph.Codegenner, applying each returned patch in
// topological order (spec.md §4.2, §9). Unlike Declutter this is a single
// pass: codegen's fused/packed replacements are not expected to themselves
// become further codegen targets.
func Codegen(m *graph.Model) (int, error) {
	applied := 0
	for _, id := range m.Order() {
		n := m.Node(id)
		if n == nil {
			continue
		}
		cg, ok := n.Op.(graph.Codegenner)
		if !ok {
			continue
		}
		p, err := cg.Codegen(m, id)
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
	}

	return applied, nil
}
