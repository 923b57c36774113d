package layers

// DefaultNamespace is the name of the hidden dependency namespace inside
// each wrapper.
const DefaultNamespace = "crate_"

type Options struct {
	DependsOn string
	Namespace string
}

func (o Options) withDefaults() Options {
	if o.DependsOn == "" {
		o.DependsOn = DefaultDependsOn
	}
	if o.Namespace == "" {
		o.Namespace = DefaultNamespace
	}
	return o
}

// HiddenItem is an item relocated into the hidden source namespace.
type HiddenItem struct {
	Raw    string
	Module *HiddenModule
}

// HiddenModule is a module declaration re-declared as public inside the
// hidden namespace so wrappers can reach it.
type HiddenModule struct {
	Name    string
	Attrs   []string
	Body    string
	HasBody bool
}

// Expansion is the result of transforming one Tree.
type Expansion struct {
	Source    string
	Attrs     []string
	Namespace string
	Items     []HiddenItem
	Wrappers  []Wrapper
	// Diagnostics are ordered: input errors, then graph analyses.
	Diagnostics []Diagnostic
	Graph       *Graph
}

func (e *Expansion) HasCycle() bool {
	return e.Graph != nil && e.Graph.HasCycle()
}

// Expand validates the tree's dependency graph and projects it. The
// expansion is always produced; problems are returned as diagnostics.
func Expand(tree *Tree, opts Options) *Expansion {
	opts = opts.withDefaults()

	g := NewGraph()
	g.SetDependsOnName(opts.DependsOn)

	exp := &Expansion{
		Source:    tree.Name,
		Attrs:     tree.Attrs,
		Namespace: opts.Namespace,
		Graph:     g,
	}
	exp.Diagnostics = append(exp.Diagnostics, tree.Diagnostics...)

	for _, item := range tree.Items {
		if item.Module == nil {
			exp.Items = append(exp.Items, HiddenItem{Raw: item.Raw})
			continue
		}

		decl := item.Module
		exp.Items = append(exp.Items, HiddenItem{Module: &HiddenModule{
			Name:    decl.Name,
			Attrs:   decl.Attrs,
			Body:    decl.Body,
			HasBody: decl.HasBody,
		}})

		edges := make([]Edge, 0, len(decl.DependsOn))
		for _, dep := range decl.DependsOn {
			edges = append(edges, Edge{Target: dep.Name, Span: dep.Span, AttrSpan: dep.AttrSpan})
		}
		if _, err := g.Register(decl.Name, decl.NameSpan, decl.Public, decl.Docs, edges); err != nil {
			exp.Diagnostics = append(exp.Diagnostics, newDiagnostic(DuplicateModule, decl.NameSpan,
				"module `%s` is declared more than once", decl.Name))
		}
	}

	exp.Diagnostics = append(exp.Diagnostics, g.Check()...)
	exp.Wrappers = g.Project()
	return exp
}
