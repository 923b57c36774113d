package layers

// DefaultDependsOn is the dependency annotation name.
const DefaultDependsOn = "depends_on"

type orderedDep struct {
	order int
	name  string
}

// ValidateOrder checks that modules are declared before their dependencies
// and that each module lists its dependencies in declaration order. It is
// only meaningful on an acyclic graph.
func (g *Graph) ValidateOrder() []Diagnostic {
	var diags []Diagnostic
	var seen []orderedDep

	for _, name := range g.names {
		m := g.modules[name]
		seen = seen[:0]
		current := 0

		for _, edge := range m.Edges {
			dep, ok := g.modules[edge.Target]
			if !ok {
				continue
			}

			if dep.Order < m.Order {
				diags = append(diags, newDiagnostic(DeclarationOrderViolation, m.NameSpan,
					"module `%s` should be declared before its dependency `%s` to ensure top-down readability",
					m.Name, edge.Target))
			}

			if dep.Order < current {
				diags = append(diags, g.misplacedEdge(edge, dep.Order, seen))
			} else {
				seen = append(seen, orderedDep{order: dep.Order, name: dep.Name})
			}
			current = dep.Order
		}
	}
	return diags
}

// misplacedEdge names the first earlier-listed dependency that the edge
// should precede, falling back to a generic message when none qualifies.
func (g *Graph) misplacedEdge(edge Edge, order int, seen []orderedDep) Diagnostic {
	for _, s := range seen {
		if order < s.order {
			return newDiagnostic(AttributeOrderViolation, edge.Span,
				"#[%s(%s)] should be before #[%s(%s)] to ensure consistent order of modules",
				g.dependsOn, edge.Target, g.dependsOn, s.name)
		}
	}
	return newDiagnostic(AttributeOrderViolation, edge.Span,
		"#[%s(%s)] should be placed in the same order the modules are declared",
		g.dependsOn, edge.Target)
}
