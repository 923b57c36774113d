package parser

import (
	"strings"

	"layered/internal/engine/layers"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// extractionContext carries the source and path shared by the extraction
// helpers of one file.
type extractionContext struct {
	Source []byte
	Path   string
}

func (c *extractionContext) Text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(c.Source[node.StartByte():node.EndByte()])
}

// TrimmedText drops the line break some comment nodes carry.
func (c *extractionContext) TrimmedText(node *sitter.Node) string {
	return strings.TrimRight(c.Text(node), "\r\n")
}

// Slice returns the verbatim bytes between two offsets.
func (c *extractionContext) Slice(start, end uint) string {
	return string(c.Source[start:end])
}

func (c *extractionContext) Span(node *sitter.Node) layers.Span {
	start := node.StartPosition()
	end := node.EndPosition()
	return layers.Span{
		File:      c.Path,
		Line:      int(start.Row) + 1,
		Column:    int(start.Column) + 1,
		EndLine:   int(end.Row) + 1,
		EndColumn: int(end.Column) + 1,
	}
}

// ChildOfKind returns the first direct child with the given kind.
func (c *extractionContext) ChildOfKind(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

func isDocComment(text string) bool {
	switch {
	case strings.HasPrefix(text, "///"):
		return !strings.HasPrefix(text, "////")
	case strings.HasPrefix(text, "/**"):
		return !strings.HasPrefix(text, "/***") && text != "/**/"
	}
	return false
}

func isComment(kind string) bool {
	return kind == "line_comment" || kind == "block_comment"
}

// isIdentifier accepts plain and raw Rust identifiers.
func isIdentifier(s string) bool {
	s = strings.TrimPrefix(s, "r#")
	if s == "" || s == "_" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
