package layers

import (
	"fmt"
	"sort"

	"layered/internal/core/errors"
)

// Module is a registered declaration with its dependency edges.
type Module struct {
	Name     string
	NameSpan Span
	// Order is the position of the declaration in the source, starting at 0.
	Order  int
	Public bool
	Docs   []string
	Edges  []Edge
}

// Edge is a dependency from the owning module to Target.
type Edge struct {
	Target string
	// Span is the dependency identifier, AttrSpan the whole annotation.
	Span     Span
	AttrSpan Span
}

// Graph is the module registry. Modules are keyed by name and always
// iterated in name order so analyses and output are stable across runs.
type Graph struct {
	modules map[string]*Module
	names   []string // sorted

	// dependsOn is the annotation name used in diagnostics.
	dependsOn string
	hasCycle  bool
	cycle     []string
}

func NewGraph() *Graph {
	return &Graph{
		modules:   make(map[string]*Module),
		dependsOn: DefaultDependsOn,
	}
}

// SetDependsOnName changes the annotation name quoted in order diagnostics.
func (g *Graph) SetDependsOnName(name string) {
	if name != "" {
		g.dependsOn = name
	}
}

// Register inserts a module and returns its declaration order. A name that
// is already registered is rejected and the registry is left untouched.
func (g *Graph) Register(name string, span Span, public bool, docs []string, edges []Edge) (int, error) {
	if _, exists := g.modules[name]; exists {
		err := &errors.DomainError{
			Code:    errors.CodeConflict,
			Message: fmt.Sprintf("module %q is already declared", name),
		}
		return -1, err.WithContext(errors.CtxModule, name)
	}

	order := len(g.names)
	g.modules[name] = &Module{
		Name:     name,
		NameSpan: span,
		Order:    order,
		Public:   public,
		Docs:     docs,
		Edges:    edges,
	}

	idx := sort.SearchStrings(g.names, name)
	g.names = append(g.names, "")
	copy(g.names[idx+1:], g.names[idx:])
	g.names[idx] = name

	return order, nil
}

func (g *Graph) Get(name string) (*Module, bool) {
	m, ok := g.modules[name]
	return m, ok
}

func (g *Graph) Len() int {
	return len(g.names)
}

// Names returns the registered names in sorted order.
func (g *Graph) Names() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// Modules returns the modules in name order.
func (g *Graph) Modules() []*Module {
	out := make([]*Module, 0, len(g.names))
	for _, name := range g.names {
		out = append(out, g.modules[name])
	}
	return out
}

// EdgeCount is the number of edges currently held by the registry.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, m := range g.modules {
		n += len(m.Edges)
	}
	return n
}

// HasCycle reports whether the last Check found a cycle.
func (g *Graph) HasCycle() bool {
	return g.hasCycle
}
