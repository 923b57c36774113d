package parser

import (
	"fmt"
	"log/slog"
	"strings"

	"layered/internal/engine/layers"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

type extractor struct {
	ctx       *extractionContext
	marker    string
	dependsOn string
	file      *File
}

// scan looks for marked modules among the items of a source file or an
// inline module body. Marked modules are not scanned further.
func (x *extractor) scan(list *sitter.Node) {
	var attrs []*sitter.Node
	for i := uint(0); i < list.ChildCount(); i++ {
		child := list.Child(i)
		kind := child.Kind()
		switch {
		case kind == "attribute_item":
			attrs = append(attrs, child)
		case isComment(kind):
			if isDocComment(x.ctx.Text(child)) || len(attrs) > 0 {
				attrs = append(attrs, child)
			}
		case kind == "mod_item":
			if marker := x.findMarker(attrs); marker >= 0 {
				x.file.Layered = append(x.file.Layered, x.layered(attrs, marker, child))
			} else if body := child.ChildByFieldName("body"); body != nil {
				x.scan(body)
			}
			attrs = nil
		default:
			attrs = nil
		}
	}
}

func (x *extractor) findMarker(attrs []*sitter.Node) int {
	for i, a := range attrs {
		if a.Kind() != "attribute_item" {
			continue
		}
		path := x.attrPath(a)
		if idx := strings.LastIndex(path, "::"); idx >= 0 {
			path = path[idx+2:]
		}
		if path == x.marker {
			return i
		}
	}
	return -1
}

func (x *extractor) layered(attrs []*sitter.Node, marker int, mod *sitter.Node) Layered {
	start := attrs[0].StartByte()
	end := mod.EndByte()
	out := Layered{Start: int(start), End: int(end)}

	body := mod.ChildByFieldName("body")
	if body == nil {
		next := mod.StartByte()
		if marker+1 < len(attrs) {
			next = attrs[marker+1].StartByte()
		}
		out.Forward = true
		out.Text = x.ctx.Slice(start, attrs[marker].StartByte()) + x.ctx.Slice(next, end)
		return out
	}

	name := mod.ChildByFieldName("name")
	tree := &layers.Tree{
		Name:     x.ctx.Text(name),
		NameSpan: x.ctx.Span(name),
	}
	for i, a := range attrs {
		if i != marker {
			tree.Attrs = append(tree.Attrs, x.ctx.TrimmedText(a))
		}
	}
	x.items(tree, body)
	out.Tree = tree
	return out
}

// items splits a layered body into module declarations and pass-through
// text. Pass-through text is the verbatim source of the item including its
// attributes.
func (x *extractor) items(tree *layers.Tree, body *sitter.Node) {
	var pending []*sitter.Node
	for i := uint(0); i < body.ChildCount(); i++ {
		child := body.Child(i)
		kind := child.Kind()
		switch {
		case kind == "{" || kind == "}":
		case kind == "attribute_item":
			pending = append(pending, child)
		case isComment(kind):
			// Plain comments between attributes stay with the item they precede.
			if isDocComment(x.ctx.Text(child)) || len(pending) > 0 {
				pending = append(pending, child)
			} else {
				tree.Items = append(tree.Items, layers.Item{Raw: x.ctx.TrimmedText(child)})
			}
		case kind == "mod_item" || kind == "extern_crate_declaration":
			tree.Items = append(tree.Items, layers.Item{Module: x.declaration(tree, pending, child)})
			pending = nil
		default:
			if child.IsError() {
				slog.Warn("unparsable item kept verbatim", "path", x.ctx.Path, "line", child.StartPosition().Row+1)
			}
			start := child.StartByte()
			if len(pending) > 0 {
				start = pending[0].StartByte()
			}
			tree.Items = append(tree.Items, layers.Item{Raw: x.ctx.Slice(start, child.EndByte())})
			pending = nil
		}
	}
	if len(pending) > 0 {
		tree.Items = append(tree.Items, layers.Item{
			Raw: x.ctx.Slice(pending[0].StartByte(), pending[len(pending)-1].EndByte()),
		})
	}
}

func (x *extractor) declaration(tree *layers.Tree, attrs []*sitter.Node, node *sitter.Node) *layers.Declaration {
	name := node.ChildByFieldName("name")
	decl := &layers.Declaration{
		Name:     x.ctx.Text(name),
		NameSpan: x.ctx.Span(name),
	}
	if vis := x.ctx.ChildOfKind(node, "visibility_modifier"); vis != nil {
		decl.Public = strings.TrimSpace(x.ctx.Text(vis)) == "pub"
	}
	if alias := node.ChildByFieldName("alias"); alias != nil {
		tree.Diagnostics = append(tree.Diagnostics, layers.Diagnostic{
			Kind:    layers.UnsupportedConstruct,
			Span:    x.ctx.Span(alias),
			Message: fmt.Sprintf("renaming layered module `%s` to `%s` is not supported", decl.Name, x.ctx.Text(alias)),
		})
	}
	if body := node.ChildByFieldName("body"); body != nil {
		decl.Body = x.ctx.Text(body)
		decl.HasBody = true
	}

	for _, a := range attrs {
		text := x.ctx.TrimmedText(a)
		if a.Kind() == "attribute_item" {
			switch x.attrPath(a) {
			case x.dependsOn:
				if dep, ok := x.dependency(tree, a); ok {
					decl.DependsOn = append(decl.DependsOn, dep)
				}
				continue
			case "doc":
				decl.Docs = append(decl.Docs, text)
			}
		} else if isDocComment(text) {
			decl.Docs = append(decl.Docs, text)
		}
		decl.Attrs = append(decl.Attrs, text)
	}
	return decl
}

// dependency reads the single identifier argument of a dependency
// annotation. Anything else is reported at the annotation and dropped.
func (x *extractor) dependency(tree *layers.Tree, item *sitter.Node) (layers.DependsOn, bool) {
	attr := x.ctx.ChildOfKind(item, "attribute")
	var args *sitter.Node
	if attr != nil {
		args = attr.ChildByFieldName("arguments")
	}

	raw := x.ctx.Text(args)
	if args == nil || len(raw) < 2 || !strings.ContainsRune("([{", rune(raw[0])) {
		tree.Diagnostics = append(tree.Diagnostics, layers.Diagnostic{
			Kind:    layers.InvalidAnnotation,
			Span:    x.ctx.Span(item),
			Message: fmt.Sprintf("expected attribute arguments in parentheses: #[%s(...)]", x.dependsOn),
		})
		return layers.DependsOn{}, false
	}

	inner := strings.TrimSpace(raw[1 : len(raw)-1])
	if !isIdentifier(inner) {
		msg := "expected a module identifier"
		if inner != "" {
			msg = fmt.Sprintf("expected a single module identifier, found `%s`", inner)
		}
		tree.Diagnostics = append(tree.Diagnostics, layers.Diagnostic{
			Kind:    layers.InvalidAnnotation,
			Span:    x.ctx.Span(args),
			Message: msg,
		})
		return layers.DependsOn{}, false
	}

	identSpan := x.ctx.Span(args)
	if ident := x.ctx.ChildOfKind(args, "identifier"); ident != nil {
		identSpan = x.ctx.Span(ident)
	}
	return layers.DependsOn{Name: inner, Span: identSpan, AttrSpan: x.ctx.Span(item)}, true
}

// attrPath returns the path of an attribute item, e.g. `depends_on` or
// `layered_crate::layers`.
func (x *extractor) attrPath(item *sitter.Node) string {
	attr := x.ctx.ChildOfKind(item, "attribute")
	if attr == nil || attr.NamedChildCount() == 0 {
		return ""
	}
	return strings.Join(strings.Fields(x.ctx.Text(attr.NamedChild(0))), "")
}
