package layers

import "fmt"

// Span locates a token in the source file. It only feeds diagnostics.
type Span struct {
	File      string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

func (s Span) String() string {
	if s.File == "" {
		return fmt.Sprintf("%d:%d", s.Line, s.Column)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// Tree is one layered namespace as produced by the frontend.
type Tree struct {
	Name     string
	NameSpan Span
	// Attrs are the outer attributes of the namespace, verbatim, marker excluded.
	Attrs []string
	Items []Item
	// Diagnostics are input errors found while building the tree.
	Diagnostics []Diagnostic
}

// Item is either verbatim pass-through text or a module declaration.
type Item struct {
	Raw    string
	Module *Declaration
}

// Declaration is a module declaration inside a layered namespace.
type Declaration struct {
	Name     string
	NameSpan Span
	Public   bool
	// Docs holds the doc attributes/comments, also present in Attrs.
	Docs []string
	// Attrs holds every attribute except the dependency annotations.
	Attrs     []string
	DependsOn []DependsOn
	// Body is the inline `{ ... }` text when HasBody is set.
	Body    string
	HasBody bool
}

// DependsOn is one dependency annotation on a declaration.
type DependsOn struct {
	Name     string
	Span     Span
	AttrSpan Span
}
