package output

import (
	"fmt"
	"strings"
	"unicode"

	"layered/internal/engine/layers"
)

type MermaidGenerator struct {
	graph *layers.Graph
}

func NewMermaidGenerator(g *layers.Graph) *MermaidGenerator {
	return &MermaidGenerator{graph: g}
}

func (m *MermaidGenerator) Generate() (string, error) {
	var b strings.Builder
	b.WriteString("%%{init: {'flowchart': {'nodeSpacing': 80, 'rankSpacing': 110, 'curve': 'basis'}}}%%\n")
	b.WriteString("flowchart TD\n")

	modules := m.graph.Modules()
	names := m.graph.Names()
	ids := makeMermaidIDs(names)

	cycle := m.graph.Cycle()
	cycleEdges := cycleEdgeSet(cycle)
	cycleModules := cycleModuleSet(cycle)

	for _, mod := range modules {
		b.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", ids[mod.Name], escapeMermaidLabel(moduleLabel(mod))))
	}

	public := make([]string, 0, len(modules))
	private := make([]string, 0)
	for _, mod := range modules {
		if mod.Public {
			public = append(public, mod.Name)
		} else {
			private = append(private, mod.Name)
		}
	}

	b.WriteString("\n")
	if len(public) > 0 {
		b.WriteString("  classDef publicNode fill:#f7fbff,stroke:#4d6480,stroke-width:1px;\n")
		b.WriteString("  class ")
		b.WriteString(strings.Join(toIDs(public, ids), ","))
		b.WriteString(" publicNode;\n")
	}
	if len(private) > 0 {
		b.WriteString("  classDef privateNode fill:#efefef,stroke:#808080,stroke-dasharray:4 3;\n")
		b.WriteString("  class ")
		b.WriteString(strings.Join(toIDs(private, ids), ","))
		b.WriteString(" privateNode;\n")
	}
	if cycleNames := intersectOrdered(names, cycleModules); len(cycleNames) > 0 {
		b.WriteString("  classDef cycleNode fill:#ffecec,stroke:#cc0000,stroke-width:2px;\n")
		b.WriteString("  class ")
		b.WriteString(strings.Join(toIDs(cycleNames, ids), ","))
		b.WriteString(" cycleNode;\n")
	}

	b.WriteString("\n")
	linkIndex := 0
	cycleLinkIndexes := make([]int, 0)
	for _, mod := range modules {
		for _, edge := range mod.Edges {
			edgeLabel := ""
			if cycleEdges[mod.Name+"->"+edge.Target] {
				edgeLabel = "|CYCLE|"
				cycleLinkIndexes = append(cycleLinkIndexes, linkIndex)
			}
			b.WriteString(fmt.Sprintf("  %s -->%s %s\n", ids[mod.Name], edgeLabel, ids[edge.Target]))
			linkIndex++
		}
	}

	if len(cycleLinkIndexes) > 0 {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  linkStyle %s stroke:#cc0000,stroke-width:3px;\n", joinInts(cycleLinkIndexes)))
	}

	return b.String(), nil
}

func moduleLabel(mod *layers.Module) string {
	return fmt.Sprintf("%s\\n(#%d, %d deps)", mod.Name, mod.Order, len(mod.Edges))
}

func sanitizeMermaidID(module string) string {
	if module == "" {
		return "m"
	}
	var b strings.Builder
	for _, r := range module {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	out := b.String()
	if unicode.IsDigit(rune(out[0])) {
		return "m_" + out
	}
	// Mermaid reserves "end" as a keyword.
	if out == "end" {
		return "m_end"
	}
	return out
}

func makeMermaidIDs(names []string) map[string]string {
	ids := make(map[string]string, len(names))
	used := make(map[string]int, len(names))
	for _, name := range names {
		base := sanitizeMermaidID(name)
		idx := used[base]
		used[base] = idx + 1
		if idx == 0 {
			ids[name] = base
			continue
		}
		ids[name] = fmt.Sprintf("%s_%d", base, idx+1)
	}
	return ids
}

// cycleEdgeSet keys the edges of a closed path such as a -> b -> a.
func cycleEdgeSet(cycle []string) map[string]bool {
	out := make(map[string]bool)
	for i := 0; i+1 < len(cycle); i++ {
		out[cycle[i]+"->"+cycle[i+1]] = true
	}
	return out
}

func cycleModuleSet(cycle []string) map[string]bool {
	out := make(map[string]bool, len(cycle))
	for _, mod := range cycle {
		out[mod] = true
	}
	return out
}

func escapeMermaidLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func toIDs(names []string, ids map[string]string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if id, ok := ids[name]; ok {
			out = append(out, id)
		}
	}
	return out
}

func intersectOrdered(ordered []string, set map[string]bool) []string {
	out := make([]string, 0)
	for _, item := range ordered {
		if set[item] {
			out = append(out, item)
		}
	}
	return out
}

func joinInts(v []int) string {
	parts := make([]string, 0, len(v))
	for _, n := range v {
		parts = append(parts, fmt.Sprintf("%d", n))
	}
	return strings.Join(parts, ",")
}
