package output

import (
	"fmt"
	"strings"

	"layered/internal/engine/layers"
)

type TSVGenerator struct {
	graph *layers.Graph
}

func NewTSVGenerator(g *layers.Graph) *TSVGenerator {
	return &TSVGenerator{graph: g}
}

// Generate lists every surviving dependency edge with its annotation position.
func (t *TSVGenerator) Generate() (string, error) {
	var buf strings.Builder

	buf.WriteString("From\tTo\tFile\tLine\tColumn\n")
	for _, mod := range t.graph.Modules() {
		for _, edge := range mod.Edges {
			buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%d\t%d\n",
				mod.Name, edge.Target, edge.Span.File, edge.Span.Line, edge.Span.Column))
		}
	}

	return buf.String(), nil
}

// GenerateDiagnosticsTSV lists diagnostics one per row.
func GenerateDiagnosticsTSV(diags []layers.Diagnostic) (string, error) {
	var buf strings.Builder

	buf.WriteString("Kind\tFile\tLine\tColumn\tMessage\n")
	for _, d := range diags {
		buf.WriteString(fmt.Sprintf("%s\t%s\t%d\t%d\t%s\n",
			d.Kind, d.Span.File, d.Span.Line, d.Span.Column, d.Message))
	}

	return buf.String(), nil
}
