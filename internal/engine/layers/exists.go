package layers

// ValidateExists removes every edge whose target is not registered and
// reports one diagnostic per removed edge. Later phases rely on all
// remaining edges resolving.
func (g *Graph) ValidateExists() []Diagnostic {
	known := make(map[string]struct{}, len(g.names))
	for _, name := range g.names {
		known[name] = struct{}{}
	}

	var diags []Diagnostic
	for _, name := range g.names {
		m := g.modules[name]
		kept := m.Edges[:0]
		for _, edge := range m.Edges {
			if _, ok := known[edge.Target]; ok {
				kept = append(kept, edge)
				continue
			}
			diags = append(diags, newDiagnostic(MissingDependency, edge.AttrSpan,
				"cannot find dependency: %s", edge.Target))
		}
		m.Edges = kept
	}
	return diags
}
