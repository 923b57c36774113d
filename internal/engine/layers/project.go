package layers

// Wrapper is the public face generated for one module.
type Wrapper struct {
	Name     string
	NameSpan Span
	Public   bool
	Docs     []string
	// Dependencies are the direct dependencies re-exported in the hidden
	// namespace, in authoring order.
	Dependencies []Dependency
	// SuppressUnused marks the hidden namespace when the graph has a cycle.
	SuppressUnused bool
}

type Dependency struct {
	Name string
	Span Span
}

// Forward reports whether the wrapper is a bare re-export of the module.
func (w Wrapper) Forward() bool {
	return len(w.Dependencies) == 0
}

// Project builds one wrapper per module in name order, using whatever
// edges survived validation.
func (g *Graph) Project() []Wrapper {
	wrappers := make([]Wrapper, 0, len(g.names))
	for _, name := range g.names {
		m := g.modules[name]
		w := Wrapper{
			Name:     m.Name,
			NameSpan: m.NameSpan,
			Public:   m.Public,
			Docs:     m.Docs,
		}
		if len(m.Edges) > 0 {
			w.Dependencies = make([]Dependency, 0, len(m.Edges))
			for _, edge := range m.Edges {
				w.Dependencies = append(w.Dependencies, Dependency{Name: edge.Target, Span: edge.Span})
			}
			w.SuppressUnused = g.hasCycle
		}
		wrappers = append(wrappers, w)
	}
	return wrappers
}
