package layers

import (
	"slices"
	"strings"
)

// DetectCycles walks the graph depth-first from every module in name order
// and returns the first cycle found, or nil when the graph is acyclic.
// Edges must already be validated by ValidateExists.
func (g *Graph) DetectCycles() *Diagnostic {
	g.cycle = nil
	checked := make(map[string]bool, len(g.names))
	for _, name := range g.names {
		stack := []string{name}
		if d := g.findCycle(name, &stack, checked); d != nil {
			return d
		}
	}
	return nil
}

// findCycle expects the top of stack to be name.
func (g *Graph) findCycle(name string, stack *[]string, checked map[string]bool) *Diagnostic {
	if checked[name] {
		return nil
	}
	checked[name] = true

	m, ok := g.modules[name]
	if !ok {
		return nil
	}

	for _, edge := range m.Edges {
		if slices.Contains(*stack, edge.Target) {
			g.cycle = append(slices.Clone(*stack), edge.Target)
			d := newDiagnostic(CyclicDependency, edge.AttrSpan,
				"circular dependency detected: %s", formatCycle(*stack, edge.Target))
			return &d
		}
		*stack = append(*stack, edge.Target)
		if d := g.findCycle(edge.Target, stack, checked); d != nil {
			return d
		}
		*stack = (*stack)[:len(*stack)-1]
	}
	return nil
}

func formatCycle(stack []string, next string) string {
	return strings.Join(stack, " -> ") + " -> " + next
}

// Cycle returns the path of the last cycle found, first module repeated at
// the end, or nil.
func (g *Graph) Cycle() []string {
	return slices.Clone(g.cycle)
}
