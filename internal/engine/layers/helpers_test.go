package layers

func span(line, col int) Span {
	return Span{File: "lib.rs", Line: line, Column: col}
}

// graphOf registers modules in the given order. Each entry is a name
// followed by its dependencies.
func graphOf(decls ...[]string) *Graph {
	g := NewGraph()
	for i, d := range decls {
		edges := make([]Edge, 0, len(d)-1)
		for j, dep := range d[1:] {
			edges = append(edges, Edge{Target: dep, Span: span(i*10+j, 15), AttrSpan: span(i*10+j, 1)})
		}
		if _, err := g.Register(d[0], span(i*10+9, 5), true, nil, edges); err != nil {
			panic(err)
		}
	}
	return g
}

func mod(name string, deps ...string) []string {
	return append([]string{name}, deps...)
}

func kinds(diags []Diagnostic) []Kind {
	out := make([]Kind, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Kind)
	}
	return out
}
