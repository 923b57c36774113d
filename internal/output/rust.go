package output

import (
	"fmt"
	"strings"

	"layered/internal/engine/layers"
	"layered/internal/engine/parser"
)

const indentUnit = "    "

// RenderRust rewrites every layered module of the file. expansions is
// indexed like f.Layered; forward declarations have no expansion. Bytes
// outside the layered ranges are copied unchanged.
func RenderRust(f *parser.File, expansions []*layers.Expansion) []byte {
	var b strings.Builder
	b.Grow(len(f.Content) * 2)

	pos := 0
	for i, l := range f.Layered {
		b.Write(f.Content[pos:l.Start])
		pos = l.End

		var exp *layers.Expansion
		if i < len(expansions) {
			exp = expansions[i]
		}
		if l.Forward || exp == nil {
			b.WriteString(l.Text)
			continue
		}
		b.WriteString(strings.TrimSuffix(RenderExpansion(exp), "\n"))
	}
	b.Write(f.Content[pos:])

	return []byte(b.String())
}

// RenderExpansion produces the hidden namespace, the wrappers and one
// compile_error! per diagnostic.
func RenderExpansion(exp *layers.Expansion) string {
	var b strings.Builder

	hidden := false
	for _, attr := range exp.Attrs {
		b.WriteString(attr)
		b.WriteByte('\n')
		if isDocHidden(attr) {
			hidden = true
		}
	}
	if !hidden {
		b.WriteString("#[doc(hidden)]\n")
	}
	fmt.Fprintf(&b, "pub(crate) mod %s {\n", exp.Source)
	for _, item := range exp.Items {
		if item.Module == nil {
			b.WriteString(indentUnit)
			b.WriteString(item.Raw)
			b.WriteByte('\n')
			continue
		}
		m := item.Module
		for _, attr := range m.Attrs {
			b.WriteString(indentUnit)
			b.WriteString(attr)
			b.WriteByte('\n')
		}
		if m.HasBody {
			fmt.Fprintf(&b, "%spub mod %s %s\n", indentUnit, m.Name, m.Body)
		} else {
			fmt.Fprintf(&b, "%spub mod %s;\n", indentUnit, m.Name)
		}
	}
	b.WriteString("}\n")

	for _, w := range exp.Wrappers {
		writeWrapper(&b, exp, w)
	}
	for _, d := range exp.Diagnostics {
		fmt.Fprintf(&b, "::core::compile_error!(%s);\n", rustString(d.String()))
	}
	return b.String()
}

func writeWrapper(b *strings.Builder, exp *layers.Expansion, w layers.Wrapper) {
	vis := "pub(crate)"
	if w.Public {
		vis = "pub"
	}

	for _, doc := range w.Docs {
		b.WriteString(doc)
		b.WriteByte('\n')
	}

	if w.Forward() {
		b.WriteString("#[doc(inline)]\n")
		fmt.Fprintf(b, "%s use %s::%s;\n", vis, exp.Source, w.Name)
		return
	}

	in1 := indentUnit
	in2 := indentUnit + indentUnit
	fmt.Fprintf(b, "%s mod %s {\n", vis, w.Name)
	fmt.Fprintf(b, "%s#[doc(inline)]\n", in1)
	fmt.Fprintf(b, "%spub use crate::%s::%s::*;\n", in1, exp.Source, w.Name)
	fmt.Fprintf(b, "%s#[doc(hidden)]\n", in1)
	if w.SuppressUnused {
		fmt.Fprintf(b, "%s#[allow(unused_imports)]\n", in1)
	}
	fmt.Fprintf(b, "%spub(crate) mod %s {\n", in1, exp.Namespace)
	for _, dep := range w.Dependencies {
		fmt.Fprintf(b, "%spub use crate::%s::%s;\n", in2, exp.Source, dep.Name)
	}
	fmt.Fprintf(b, "%s}\n", in1)
	b.WriteString("}\n")
}

// rustString quotes s as a Rust string literal.
func rustString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u{%x}`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// isDocHidden matches #[doc(hidden)] regardless of inner whitespace.
func isDocHidden(attr string) bool {
	return strings.Join(strings.Fields(attr), "") == "#[doc(hidden)]"
}
