package output

import (
	"fmt"
	"strings"

	"layered/internal/engine/layers"
)

type DOTGenerator struct {
	graph *layers.Graph
}

func NewDOTGenerator(g *layers.Graph) *DOTGenerator {
	return &DOTGenerator{graph: g}
}

// Generate renders the module graph. Edges point from a module to its
// dependency; the cycle found by the last check is drawn in red.
func (d *DOTGenerator) Generate() (string, error) {
	var buf strings.Builder

	buf.WriteString("digraph layers {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8, penwidth=1.2];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.6;\n")
	buf.WriteString("  splines=polyline;\n")
	buf.WriteString("  overlap=false;\n\n")

	cycle := d.graph.Cycle()
	cycleEdges := cycleEdgeSet(cycle)
	cycleModules := cycleModuleSet(cycle)

	buf.WriteString("  subgraph cluster_modules {\n")
	buf.WriteString("    label=\"Layered Modules\";\n")
	buf.WriteString("    style=filled;\n")
	buf.WriteString("    color=\"whitesmoke\";\n")
	buf.WriteString("    node [fillcolor=\"white\", style=\"rounded,filled\"];\n")

	for _, mod := range d.graph.Modules() {
		label := fmt.Sprintf("%s\\n(#%d, %d deps)", mod.Name, mod.Order, len(mod.Edges))
		switch {
		case cycleModules[mod.Name]:
			buf.WriteString(fmt.Sprintf("    \"%s\" [label=\"%s\", fillcolor=\"mistyrose\", color=\"red\", penwidth=2.0];\n", mod.Name, label))
		case mod.Public:
			buf.WriteString(fmt.Sprintf("    \"%s\" [label=\"%s\", color=\"darkslategrey\"];\n", mod.Name, label))
		default:
			buf.WriteString(fmt.Sprintf("    \"%s\" [label=\"%s\", color=\"grey\", style=\"rounded,filled,dashed\"];\n", mod.Name, label))
		}
	}
	buf.WriteString("  }\n\n")

	for _, mod := range d.graph.Modules() {
		for _, edge := range mod.Edges {
			if cycleEdges[mod.Name+"->"+edge.Target] {
				buf.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [color=\"red\", penwidth=3.0, label=\"CYCLE\"];\n", mod.Name, edge.Target))
				continue
			}
			buf.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [color=\"forestgreen\", penwidth=1.8];\n", mod.Name, edge.Target))
		}
	}

	buf.WriteString("\n  subgraph cluster_legend {\n")
	buf.WriteString("    label=\"Legend\";\n")
	buf.WriteString("    style=dashed;\n")
	buf.WriteString("    legend_public [label=\"Public Module\", fillcolor=\"white\", style=\"rounded,filled\"];\n")
	buf.WriteString("    legend_private [label=\"Crate-private Module\", fillcolor=\"white\", color=\"grey\", style=\"rounded,filled,dashed\"];\n")
	buf.WriteString("    legend_cycle [label=\"Circular Dependency\", fillcolor=\"mistyrose\", color=\"red\", style=\"rounded,filled\"];\n")
	buf.WriteString("  }\n")

	buf.WriteString("}\n")

	return buf.String(), nil
}
